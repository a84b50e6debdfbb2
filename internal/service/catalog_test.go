package service

import (
	"context"
	"errors"
	"testing"

	"github.com/timmy/pvhub/internal/domain"
	"github.com/timmy/pvhub/internal/repository"
)

func newCatalogService(t *testing.T) *CatalogService {
	t.Helper()
	db := newTestDB(t)
	return NewCatalogService(
		repository.NewManufacturerRepository(db),
		repository.NewEfficiencyRepository(db),
		repository.NewPaperRepository(db),
		repository.NewPatentRepository(db),
	)
}

func TestCatalogValidation(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"unknown stage", func() error {
			_, err := svc.ListManufacturers(ctx, repository.ManufacturerFilter{Stage: "ipo"})
			return err
		}},
		{"unknown cell type", func() error {
			_, err := svc.ListEfficiency(ctx, "quantum_dot")
			return err
		}},
		{"unknown research type", func() error {
			_, err := svc.ListPapers(ctx, repository.PaperFilter{ResearchType: "gossip"})
			return err
		}},
		{"negative offset", func() error {
			_, err := svc.ListPapers(ctx, repository.PaperFilter{Offset: -1})
			return err
		}},
		{"unknown patent type", func() error {
			_, err := svc.ListPatents(ctx, repository.PatentFilter{PatentType: "trademark"})
			return err
		}},
		{"unknown patent status", func() error {
			_, err := svc.ListPatents(ctx, repository.PatentFilter{Status: "lapsed"})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
		})
	}

	if _, err := svc.GetManufacturer(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetManufacturer() error = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetPaper(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPaper() error = %v, want ErrNotFound", err)
	}

	page, err := svc.ListPatents(ctx, repository.PatentFilter{})
	if err != nil || page.Items == nil || page.Total != 0 {
		t.Errorf("ListPatents() = %+v, %v; want empty non-nil page", page, err)
	}
}

func TestSeedEfficiency(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	n, err := svc.SeedEfficiency(ctx)
	if err != nil {
		t.Fatalf("SeedEfficiency() error = %v", err)
	}
	if n != len(efficiencyHistory()) {
		t.Errorf("seeded %d, want %d", n, len(efficiencyHistory()))
	}

	again, err := svc.SeedEfficiency(ctx)
	if err != nil || again != 0 {
		t.Errorf("second SeedEfficiency() = %d, %v; want 0, nil", again, err)
	}

	current, err := svc.CurrentEfficiency(ctx)
	if err != nil {
		t.Fatalf("CurrentEfficiency() error = %v", err)
	}
	// one standing record per seeded cell type, best first
	if len(current) != 5 || current[0].CellType != domain.CellTypeTandemSilicon || current[0].Efficiency != 34.6 {
		t.Errorf("CurrentEfficiency() = %+v", current)
	}

	modules, err := svc.ListEfficiency(ctx, string(domain.CellTypeModule))
	if err != nil || len(modules) != 5 || modules[0].Institution != "Microquanta" {
		t.Errorf("ListEfficiency(module) = %+v, %v", modules, err)
	}

	chart, err := svc.EfficiencyChart(ctx)
	if err != nil || len(chart) != n || chart[0].Efficiency != 9.7 {
		t.Errorf("EfficiencyChart() first = %+v, %v", chart, err)
	}
}
