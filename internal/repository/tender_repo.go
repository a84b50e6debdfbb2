package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/timmy/pvhub/internal/domain"
	"gorm.io/gorm"
)

// TenderFilter narrows a tender listing. Zero values mean "no filter".
type TenderFilter struct {
	Page        int
	PageSize    int
	ProjectType string
	Region      string
	Keyword     string
	Status      string
}

// TenderRepository handles tender persistence.
type TenderRepository struct {
	db *gorm.DB
}

// NewTenderRepository creates a TenderRepository bound to db.
func NewTenderRepository(db *gorm.DB) *TenderRepository {
	return &TenderRepository{db: db}
}

// ExistsByTitlePrefix reports whether any stored tender title contains the
// first TitlePrefixLen characters of title. Same heuristic as news.
func (r *TenderRepository) ExistsByTitlePrefix(ctx context.Context, title string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Tender{}).
		Where(substringClause(r.db, "title"), TitlePrefix(title)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check tender title: %w", err)
	}
	return count > 0, nil
}

// Create inserts a tender row.
func (r *TenderRepository) Create(ctx context.Context, item *domain.Tender) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Update applies column updates to the row with id.
func (r *TenderRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&domain.Tender{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the row with id.
func (r *TenderRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Tender{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID returns the row with id or ErrNotFound.
func (r *TenderRepository) GetByID(ctx context.Context, id uint) (*domain.Tender, error) {
	var item domain.Tender
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// List returns one page of tenders, newest first, and the total match count.
func (r *TenderRepository) List(ctx context.Context, f TenderFilter) ([]domain.Tender, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Tender{})
	if f.ProjectType != "" {
		query = query.Where("project_type = ?", f.ProjectType)
	}
	if f.Region != "" {
		query = query.Where(`region LIKE ? ESCAPE '\'`, containsPattern(f.Region))
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Keyword != "" {
		pattern := containsPattern(f.Keyword)
		query = query.Where(`(title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tenders: %w", err)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	size := clampLimit(f.PageSize, 20, 50)

	var items []domain.Tender
	err := query.Order("published_at DESC").Order("id DESC").
		Limit(size).Offset((page - 1) * size).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tenders: %w", err)
	}
	return items, total, nil
}

// Latest returns the most recently published tenders.
func (r *TenderRepository) Latest(ctx context.Context, limit int) ([]domain.Tender, error) {
	var items []domain.Tender
	err := r.db.WithContext(ctx).
		Order("published_at DESC").Order("id DESC").
		Limit(clampLimit(limit, 6, 20)).
		Find(&items).Error
	return items, err
}

// Search matches keyword against title and description.
func (r *TenderRepository) Search(ctx context.Context, keyword string, limit int) ([]domain.Tender, error) {
	pattern := containsPattern(keyword)
	var items []domain.Tender
	err := r.db.WithContext(ctx).
		Where(`title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("published_at DESC").
		Limit(clampLimit(limit, 10, 50)).
		Find(&items).Error
	return items, err
}

// Count returns the number of tender rows.
func (r *TenderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Tender{}).Count(&n).Error
	return n, err
}
