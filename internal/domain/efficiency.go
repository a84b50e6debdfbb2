package domain

import "time"

// CellType classifies an efficiency record.
type CellType string

const (
	CellTypeSingleJunction   CellType = "single_junction"
	CellTypeTandemSilicon    CellType = "tandem_silicon"
	CellTypeTandemPerovskite CellType = "tandem_perovskite"
	CellTypeFlexible         CellType = "flexible"
	CellTypeModule           CellType = "module"
	CellTypeMiniModule       CellType = "mini_module"
)

// Valid reports whether c is a known cell type.
func (c CellType) Valid() bool {
	switch c {
	case CellTypeSingleJunction, CellTypeTandemSilicon, CellTypeTandemPerovskite,
		CellTypeFlexible, CellTypeModule, CellTypeMiniModule:
		return true
	}
	return false
}

// EfficiencyRecord is one certified (or reported) conversion efficiency.
// Efficiency is a percentage with two decimals.
type EfficiencyRecord struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CellType        CellType  `gorm:"type:varchar(32);not null;index:idx_efficiency_cell_type" json:"cellType"`
	Efficiency      float64   `gorm:"type:decimal(5,2);not null" json:"efficiency"`
	Area            *float64  `gorm:"type:decimal(10,4)" json:"area"`
	Institution     string    `gorm:"type:varchar(300);not null" json:"institution"`
	CertifiedBy     *string   `gorm:"type:varchar(200)" json:"certifiedBy"`
	RecordDate      time.Time `gorm:"not null;index:idx_efficiency_record_date" json:"recordDate"`
	SourceURL       *string   `gorm:"type:varchar(1000)" json:"sourceUrl"`
	Notes           *string   `gorm:"type:text" json:"notes"`
	IsCurrentRecord bool      `gorm:"not null;default:false" json:"isCurrentRecord"`
	CreatedAt       time.Time `json:"createdAt"`
}

// TableName returns the database table name for EfficiencyRecord.
func (EfficiencyRecord) TableName() string {
	return "efficiency_records"
}

// EfficiencyPoint is the chart projection of an EfficiencyRecord.
type EfficiencyPoint struct {
	ID          uint      `json:"id"`
	CellType    CellType  `json:"cellType"`
	Efficiency  float64   `json:"efficiency"`
	RecordDate  time.Time `json:"recordDate"`
	Institution string    `json:"institution"`
}
