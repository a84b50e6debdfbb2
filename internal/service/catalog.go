package service

import (
	"context"
	"fmt"

	"github.com/timmy/pvhub/internal/domain"
	"github.com/timmy/pvhub/internal/logger"
	"github.com/timmy/pvhub/internal/repository"
)

// CatalogService serves the reference sections: the manufacturer directory,
// efficiency records, research papers and patents. None of them is fed by
// ingestion.
type CatalogService struct {
	manufacturers *repository.ManufacturerRepository
	efficiency    *repository.EfficiencyRepository
	papers        *repository.PaperRepository
	patents       *repository.PatentRepository
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(
	manufacturers *repository.ManufacturerRepository,
	efficiency *repository.EfficiencyRepository,
	papers *repository.PaperRepository,
	patents *repository.PatentRepository,
) *CatalogService {
	return &CatalogService{
		manufacturers: manufacturers,
		efficiency:    efficiency,
		papers:        papers,
		patents:       patents,
	}
}

// ListManufacturers returns a filtered page of active manufacturers.
func (s *CatalogService) ListManufacturers(ctx context.Context, f repository.ManufacturerFilter) (*Page[domain.Manufacturer], error) {
	if f.Stage != "" && !domain.ManufacturerStage(f.Stage).Valid() {
		return nil, fmt.Errorf("%w: unknown stage %q", ErrInvalidInput, f.Stage)
	}
	items, total, err := s.manufacturers.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list manufacturers: %w", err)
	}
	return &Page[domain.Manufacturer]{Items: nonNil(items), Total: total}, nil
}

// GetManufacturer returns one manufacturer.
func (s *CatalogService) GetManufacturer(ctx context.Context, id uint) (*domain.Manufacturer, error) {
	return s.manufacturers.GetByID(ctx, id)
}

// ListEfficiency returns efficiency records newest first.
func (s *CatalogService) ListEfficiency(ctx context.Context, cellType string) ([]domain.EfficiencyRecord, error) {
	if cellType != "" && !domain.CellType(cellType).Valid() {
		return nil, fmt.Errorf("%w: unknown cell type %q", ErrInvalidInput, cellType)
	}
	items, err := s.efficiency.List(ctx, cellType)
	if err != nil {
		return nil, fmt.Errorf("failed to list efficiency records: %w", err)
	}
	return nonNil(items), nil
}

// CurrentEfficiency returns the standing records, best first.
func (s *CatalogService) CurrentEfficiency(ctx context.Context) ([]domain.EfficiencyRecord, error) {
	items, err := s.efficiency.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load current records: %w", err)
	}
	return nonNil(items), nil
}

// EfficiencyChart returns the record history, oldest first.
func (s *CatalogService) EfficiencyChart(ctx context.Context) ([]domain.EfficiencyPoint, error) {
	points, err := s.efficiency.ChartData(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart data: %w", err)
	}
	return nonNil(points), nil
}

// SeedEfficiency loads the built-in record history into an empty table and
// returns how many rows it inserted. A non-empty table is left alone.
func (s *CatalogService) SeedEfficiency(ctx context.Context) (int, error) {
	n, err := s.efficiency.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count efficiency records: %w", err)
	}
	if n > 0 {
		logger.CtxInfo(ctx, "Efficiency records already present (%d), skipping seed", n)
		return 0, nil
	}
	records := efficiencyHistory()
	if err := s.efficiency.CreateBatch(ctx, records); err != nil {
		return 0, err
	}
	logger.CtxInfo(ctx, "Seeded %d efficiency records", len(records))
	return len(records), nil
}

// ListPapers returns a filtered slice of research papers.
func (s *CatalogService) ListPapers(ctx context.Context, f repository.PaperFilter) (*Page[domain.ResearchPaper], error) {
	if f.ResearchType != "" && !domain.ResearchType(f.ResearchType).Valid() {
		return nil, fmt.Errorf("%w: unknown research type %q", ErrInvalidInput, f.ResearchType)
	}
	if f.Offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", ErrInvalidInput)
	}
	items, total, err := s.papers.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list research papers: %w", err)
	}
	return &Page[domain.ResearchPaper]{Items: nonNil(items), Total: total}, nil
}

// GetPaper returns one research paper.
func (s *CatalogService) GetPaper(ctx context.Context, id uint) (*domain.ResearchPaper, error) {
	return s.papers.GetByID(ctx, id)
}

// ListPatents returns a filtered slice of patents.
func (s *CatalogService) ListPatents(ctx context.Context, f repository.PatentFilter) (*Page[domain.Patent], error) {
	if f.PatentType != "" && !domain.PatentType(f.PatentType).Valid() {
		return nil, fmt.Errorf("%w: unknown patent type %q", ErrInvalidInput, f.PatentType)
	}
	if f.Status != "" && !domain.PatentStatus(f.Status).Valid() {
		return nil, fmt.Errorf("%w: unknown patent status %q", ErrInvalidInput, f.Status)
	}
	if f.Offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", ErrInvalidInput)
	}
	items, total, err := s.patents.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list patents: %w", err)
	}
	return &Page[domain.Patent]{Items: nonNil(items), Total: total}, nil
}

// GetPatent returns one patent.
func (s *CatalogService) GetPatent(ctx context.Context, id uint) (*domain.Patent, error) {
	return s.patents.GetByID(ctx, id)
}
