package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/timmy/pvhub/internal/domain"
	"gorm.io/gorm"
)

// PaperFilter narrows a research paper listing.
type PaperFilter struct {
	Limit        int
	Offset       int
	ResearchType string
	Keyword      string
	IsHighlight  *bool
}

// PatentFilter narrows a patent listing.
type PatentFilter struct {
	Limit       int
	Offset      int
	PatentType  string
	Country     string
	Status      string
	Keyword     string
	IsHighlight *bool
}

// PaperRepository handles research paper persistence.
type PaperRepository struct {
	db *gorm.DB
}

// NewPaperRepository creates a PaperRepository bound to db.
func NewPaperRepository(db *gorm.DB) *PaperRepository {
	return &PaperRepository{db: db}
}

// Create inserts p and fills in its ID.
func (r *PaperRepository) Create(ctx context.Context, p *domain.ResearchPaper) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create research paper: %w", err)
	}
	return nil
}

// GetByID returns the row with id or ErrNotFound.
func (r *PaperRepository) GetByID(ctx context.Context, id uint) (*domain.ResearchPaper, error) {
	var p domain.ResearchPaper
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns papers newest first and the total number of matching rows.
func (r *PaperRepository) List(ctx context.Context, f PaperFilter) ([]domain.ResearchPaper, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.ResearchPaper{})
	if f.ResearchType != "" {
		query = query.Where("research_type = ?", f.ResearchType)
	}
	if f.Keyword != "" {
		pattern := containsPattern(f.Keyword)
		query = query.Where(`(title LIKE ? ESCAPE '\' OR abstract LIKE ? ESCAPE '\' OR summary LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern)
	}
	if f.IsHighlight != nil {
		query = query.Where("is_highlight = ?", *f.IsHighlight)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count research papers: %w", err)
	}

	var items []domain.ResearchPaper
	err := query.Order("published_at DESC").Order("id DESC").
		Limit(clampLimit(f.Limit, 20, 50)).Offset(max(f.Offset, 0)).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list research papers: %w", err)
	}
	return items, total, nil
}

// PatentRepository handles patent persistence.
type PatentRepository struct {
	db *gorm.DB
}

// NewPatentRepository creates a PatentRepository bound to db.
func NewPatentRepository(db *gorm.DB) *PatentRepository {
	return &PatentRepository{db: db}
}

// Create inserts p and fills in its ID.
func (r *PatentRepository) Create(ctx context.Context, p *domain.Patent) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create patent: %w", err)
	}
	return nil
}

// GetByID returns the row with id or ErrNotFound.
func (r *PatentRepository) GetByID(ctx context.Context, id uint) (*domain.Patent, error) {
	var p domain.Patent
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns patents newest first and the total number of matching rows.
func (r *PatentRepository) List(ctx context.Context, f PatentFilter) ([]domain.Patent, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Patent{})
	if f.PatentType != "" {
		query = query.Where("patent_type = ?", f.PatentType)
	}
	if f.Country != "" {
		query = query.Where("country = ?", f.Country)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Keyword != "" {
		pattern := containsPattern(f.Keyword)
		query = query.Where(`(title LIKE ? ESCAPE '\' OR abstract LIKE ? ESCAPE '\' OR summary LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern)
	}
	if f.IsHighlight != nil {
		query = query.Where("is_highlight = ?", *f.IsHighlight)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count patents: %w", err)
	}

	var items []domain.Patent
	err := query.Order("published_at DESC").Order("id DESC").
		Limit(clampLimit(f.Limit, 20, 50)).Offset(max(f.Offset, 0)).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list patents: %w", err)
	}
	return items, total, nil
}
