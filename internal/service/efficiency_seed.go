package service

import (
	"time"

	"github.com/timmy/pvhub/internal/domain"
)

// efficiencyHistory is the published record progression per cell type.
// The last entry of each type is the standing record.
func efficiencyHistory() []domain.EfficiencyRecord {
	type row struct {
		cellType    domain.CellType
		efficiency  float64
		institution string
		date        string
	}
	rows := []row{
		{domain.CellTypeSingleJunction, 9.7, "EPFL", "2012-06-01"},
		{domain.CellTypeSingleJunction, 15.0, "EPFL", "2013-07-01"},
		{domain.CellTypeSingleJunction, 17.9, "KRICT", "2014-08-01"},
		{domain.CellTypeSingleJunction, 20.1, "KRICT/UNIST", "2015-06-01"},
		{domain.CellTypeSingleJunction, 22.1, "KRICT/UNIST", "2016-10-01"},
		{domain.CellTypeSingleJunction, 23.3, "KRICT", "2018-04-01"},
		{domain.CellTypeSingleJunction, 25.2, "KAUST", "2019-11-01"},
		{domain.CellTypeSingleJunction, 25.7, "LONGi Green Energy", "2021-11-01"},
		{domain.CellTypeSingleJunction, 26.1, "KAUST", "2023-03-01"},
		{domain.CellTypeSingleJunction, 26.7, "KAUST", "2024-06-01"},

		{domain.CellTypeTandemSilicon, 23.6, "Helmholtz-Zentrum Berlin", "2016-11-01"},
		{domain.CellTypeTandemSilicon, 25.2, "EPFL/CSEM", "2018-01-01"},
		{domain.CellTypeTandemSilicon, 28.0, "HZB", "2020-03-01"},
		{domain.CellTypeTandemSilicon, 29.8, "LONGi Green Energy", "2021-09-01"},
		{domain.CellTypeTandemSilicon, 31.25, "KAUST", "2022-11-01"},
		{domain.CellTypeTandemSilicon, 33.9, "LONGi Green Energy", "2023-11-01"},
		{domain.CellTypeTandemSilicon, 34.6, "KAUST", "2024-09-01"},

		{domain.CellTypeTandemPerovskite, 17.0, "EPFL", "2016-05-01"},
		{domain.CellTypeTandemPerovskite, 20.3, "Nanjing University", "2019-08-01"},
		{domain.CellTypeTandemPerovskite, 24.2, "Nanjing University", "2021-04-01"},
		{domain.CellTypeTandemPerovskite, 26.4, "Nanjing University", "2022-07-01"},
		{domain.CellTypeTandemPerovskite, 28.0, "Nanjing University", "2023-08-01"},
		{domain.CellTypeTandemPerovskite, 29.1, "Nanjing University", "2024-05-01"},

		{domain.CellTypeFlexible, 12.0, "EPFL", "2015-03-01"},
		{domain.CellTypeFlexible, 16.0, "KRICT", "2017-06-01"},
		{domain.CellTypeFlexible, 19.5, "EPFL", "2019-09-01"},
		{domain.CellTypeFlexible, 21.4, "KAUST", "2021-03-01"},
		{domain.CellTypeFlexible, 23.4, "KAUST", "2023-06-01"},

		{domain.CellTypeModule, 10.4, "EPFL", "2016-01-01"},
		{domain.CellTypeModule, 12.1, "Saule Technologies", "2018-06-01"},
		{domain.CellTypeModule, 16.1, "Panasonic", "2020-01-01"},
		{domain.CellTypeModule, 18.6, "Microquanta", "2022-03-01"},
		{domain.CellTypeModule, 20.6, "Microquanta", "2024-01-01"},
	}

	records := make([]domain.EfficiencyRecord, len(rows))
	for i, r := range rows {
		date, _ := time.Parse("2006-01-02", r.date)
		records[i] = domain.EfficiencyRecord{
			CellType:    r.cellType,
			Efficiency:  r.efficiency,
			Institution: r.institution,
			RecordDate:  date,
			// rows are grouped by type, oldest first
			IsCurrentRecord: i == len(rows)-1 || rows[i+1].cellType != r.cellType,
		}
	}
	return records
}
