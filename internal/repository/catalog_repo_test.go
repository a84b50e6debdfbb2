package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/timmy/pvhub/internal/domain"
)

func TestManufacturerList(t *testing.T) {
	ctx := context.Background()
	repo := NewManufacturerRepository(newTestDB(t))

	seed := []domain.Manufacturer{
		{Name: "协鑫光电", Country: "中国", Stage: domain.StageMassProduction, IsActive: true,
			Description: domain.OptionalString("钙钛矿组件量产线"),
			TechAchievements: domain.Achievements{{Title: "组件效率", Value: "19.04%", Date: "2024-06"}}},
		{Name: "Oxford PV", Country: "英国", Stage: domain.StageListed, IsActive: true},
		{Name: "极电光能", Country: "中国", Stage: domain.StagePilot, IsActive: true},
		{Name: "停业公司", Country: "中国", Stage: domain.StageResearch},
	}
	for i := range seed {
		if err := repo.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	// gorm skips zero-value bools on insert, so the default (true) applies
	if err := repo.db.Model(&domain.Manufacturer{}).Where("name = ?", "停业公司").Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	tests := []struct {
		name      string
		filter    ManufacturerFilter
		wantTotal int64
		wantFirst string
	}{
		{"active only ordered by name", ManufacturerFilter{}, 3, "Oxford PV"},
		{"by country", ManufacturerFilter{Country: "中国"}, 2, "协鑫光电"},
		{"by stage", ManufacturerFilter{Stage: "pilot"}, 1, "极电光能"},
		{"keyword in description", ManufacturerFilter{Keyword: "量产"}, 1, "协鑫光电"},
		{"page two", ManufacturerFilter{Page: 2, PageSize: 2}, 3, "极电光能"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if total != tt.wantTotal {
				t.Errorf("total = %d, want %d", total, tt.wantTotal)
			}
			if len(items) == 0 || items[0].Name != tt.wantFirst {
				t.Errorf("first = %+v, want %q", items, tt.wantFirst)
			}
		})
	}

	n, err := repo.CountActive(ctx)
	if err != nil || n != 3 {
		t.Errorf("CountActive() = %d, %v, want 3", n, err)
	}
	hits, err := repo.Search(ctx, "停业", 10)
	if err != nil || len(hits) != 0 {
		t.Errorf("Search() returned inactive rows: %+v, %v", hits, err)
	}

	got, err := repo.GetByID(ctx, seed[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.TechAchievements) != 1 || got.TechAchievements[0].Value != "19.04%" {
		t.Errorf("achievements = %+v", got.TechAchievements)
	}
	if _, err := repo.GetByID(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(999) error = %v, want ErrNotFound", err)
	}
}

func TestEfficiencyQueries(t *testing.T) {
	ctx := context.Background()
	repo := NewEfficiencyRepository(newTestDB(t))

	day := func(y int, m time.Month) time.Time { return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC) }
	err := repo.CreateBatch(ctx, []domain.EfficiencyRecord{
		{CellType: domain.CellTypeSingleJunction, Efficiency: 25.7, Institution: "LONGi", RecordDate: day(2021, 11)},
		{CellType: domain.CellTypeSingleJunction, Efficiency: 26.7, Institution: "KAUST", RecordDate: day(2024, 6), IsCurrentRecord: true},
		{CellType: domain.CellTypeTandemSilicon, Efficiency: 34.6, Institution: "KAUST", RecordDate: day(2024, 9), IsCurrentRecord: true},
		{CellType: domain.CellTypeModule, Efficiency: 18.6, Institution: "Microquanta", RecordDate: day(2022, 3)},
	})
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	t.Run("list newest first", func(t *testing.T) {
		items, err := repo.List(ctx, "")
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(items) != 4 || items[0].Efficiency != 34.6 {
			t.Errorf("List() = %+v", items)
		}
	})

	t.Run("list by cell type", func(t *testing.T) {
		items, err := repo.List(ctx, string(domain.CellTypeSingleJunction))
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(items) != 2 || items[0].Institution != "KAUST" {
			t.Errorf("List(single_junction) = %+v", items)
		}
	})

	t.Run("current best first", func(t *testing.T) {
		items, err := repo.Current(ctx)
		if err != nil {
			t.Fatalf("Current: %v", err)
		}
		if len(items) != 2 || items[0].Efficiency != 34.6 || items[1].Efficiency != 26.7 {
			t.Errorf("Current() = %+v", items)
		}
	})

	t.Run("chart oldest first", func(t *testing.T) {
		points, err := repo.ChartData(ctx)
		if err != nil {
			t.Fatalf("ChartData: %v", err)
		}
		if len(points) != 4 || points[0].Institution != "LONGi" || points[3].CellType != domain.CellTypeTandemSilicon {
			t.Errorf("ChartData() = %+v", points)
		}
	})
}

func TestPaperAndPatentList(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	papers := NewPaperRepository(db)
	patents := NewPatentRepository(db)

	older := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	newer := older.AddDate(0, 6, 0)
	for _, p := range []domain.ResearchPaper{
		{Title: "钙钛矿稳定性研究", ResearchType: domain.ResearchTypeStability, PublishedAt: &older},
		{Title: "全钙钛矿叠层效率", ResearchType: domain.ResearchTypeTandem, IsHighlight: true, PublishedAt: &newer,
			Abstract: domain.OptionalString("窄带隙子电池")},
	} {
		if err := papers.Create(ctx, &p); err != nil {
			t.Fatalf("create paper: %v", err)
		}
	}
	for _, p := range []domain.Patent{
		{Title: "钙钛矿薄膜制备方法", PatentType: domain.PatentTypeInvention, Country: "CN", Status: domain.PatentStatusGranted, PublishedAt: &older},
		{Title: "Perovskite tandem module", PatentType: domain.PatentTypePCT, Country: "WO", Status: domain.PatentStatusPending, PublishedAt: &newer},
	} {
		if err := patents.Create(ctx, &p); err != nil {
			t.Fatalf("create patent: %v", err)
		}
	}

	highlight := true
	paperTests := []struct {
		name      string
		filter    PaperFilter
		wantTotal int64
		wantFirst string
	}{
		{"newest first", PaperFilter{}, 2, "全钙钛矿叠层效率"},
		{"by type", PaperFilter{ResearchType: "stability"}, 1, "钙钛矿稳定性研究"},
		{"keyword in abstract", PaperFilter{Keyword: "窄带隙"}, 1, "全钙钛矿叠层效率"},
		{"highlight", PaperFilter{IsHighlight: &highlight}, 1, "全钙钛矿叠层效率"},
		{"offset", PaperFilter{Limit: 1, Offset: 1}, 2, "钙钛矿稳定性研究"},
	}
	for _, tt := range paperTests {
		t.Run("papers/"+tt.name, func(t *testing.T) {
			items, total, err := papers.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if total != tt.wantTotal || len(items) == 0 || items[0].Title != tt.wantFirst {
				t.Errorf("List() = %d %+v, want %d first %q", total, items, tt.wantTotal, tt.wantFirst)
			}
		})
	}

	patentTests := []struct {
		name      string
		filter    PatentFilter
		wantTotal int64
		wantFirst string
	}{
		{"newest first", PatentFilter{}, 2, "Perovskite tandem module"},
		{"by country", PatentFilter{Country: "CN"}, 1, "钙钛矿薄膜制备方法"},
		{"by status", PatentFilter{Status: "pending"}, 1, "Perovskite tandem module"},
		{"by type", PatentFilter{PatentType: "invention"}, 1, "钙钛矿薄膜制备方法"},
	}
	for _, tt := range patentTests {
		t.Run("patents/"+tt.name, func(t *testing.T) {
			items, total, err := patents.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if total != tt.wantTotal || len(items) == 0 || items[0].Title != tt.wantFirst {
				t.Errorf("List() = %d %+v, want %d first %q", total, items, tt.wantTotal, tt.wantFirst)
			}
		})
	}

	if _, err := patents.GetByID(ctx, 77); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(77) error = %v, want ErrNotFound", err)
	}
}
