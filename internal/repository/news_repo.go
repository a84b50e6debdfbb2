package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/timmy/pvhub/internal/domain"
	"gorm.io/gorm"
)

// NewsFilter narrows a news listing. Zero values mean "no filter".
type NewsFilter struct {
	Page        int
	PageSize    int
	Category    string
	Keyword     string
	FromDate    *time.Time
	ToDate      *time.Time
	IsImportant *bool
}

// NewsRepository handles news persistence.
type NewsRepository struct {
	db *gorm.DB
}

// NewNewsRepository creates a NewsRepository bound to db.
func NewNewsRepository(db *gorm.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// ExistsByTitlePrefix reports whether any stored title contains the first
// TitlePrefixLen characters of title. This is a possible-duplicate check,
// not a uniqueness guarantee: near-duplicates with a different opening slip
// through, and unrelated titles sharing a boilerplate opening collide.
// Matching is case-sensitive on every driver.
func (r *NewsRepository) ExistsByTitlePrefix(ctx context.Context, title string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.News{}).
		Where(substringClause(r.db, "title"), TitlePrefix(title)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check news title: %w", err)
	}
	return count > 0, nil
}

// Create inserts a news row.
func (r *NewsRepository) Create(ctx context.Context, item *domain.News) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Update applies column updates to the row with id.
func (r *NewsRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&domain.News{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the row with id.
func (r *NewsRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.News{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID returns the row with id or ErrNotFound.
func (r *NewsRepository) GetByID(ctx context.Context, id uint) (*domain.News, error) {
	var item domain.News
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// List returns one page of news ordered by publish time, newest first, and
// the total number of matching rows.
func (r *NewsRepository) List(ctx context.Context, f NewsFilter) ([]domain.News, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.News{})
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Keyword != "" {
		pattern := containsPattern(f.Keyword)
		query = query.Where(`(title LIKE ? ESCAPE '\' OR summary LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if f.FromDate != nil {
		query = query.Where("published_at >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		query = query.Where("published_at <= ?", *f.ToDate)
	}
	if f.IsImportant != nil {
		query = query.Where("is_important = ?", *f.IsImportant)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count news: %w", err)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	size := clampLimit(f.PageSize, 20, 50)

	var items []domain.News
	err := query.Order("published_at DESC").Order("id DESC").
		Limit(size).Offset((page - 1) * size).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list news: %w", err)
	}
	return items, total, nil
}

// Latest returns the most recently published news.
func (r *NewsRepository) Latest(ctx context.Context, limit int) ([]domain.News, error) {
	var items []domain.News
	err := r.db.WithContext(ctx).
		Order("published_at DESC").Order("id DESC").
		Limit(clampLimit(limit, 6, 20)).
		Find(&items).Error
	return items, err
}

// Search matches keyword against title and summary.
func (r *NewsRepository) Search(ctx context.Context, keyword string, limit int) ([]domain.News, error) {
	pattern := containsPattern(keyword)
	var items []domain.News
	err := r.db.WithContext(ctx).
		Where(`title LIKE ? ESCAPE '\' OR summary LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("published_at DESC").
		Limit(clampLimit(limit, 10, 50)).
		Find(&items).Error
	return items, err
}

// Count returns the number of news rows.
func (r *NewsRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.News{}).Count(&n).Error
	return n, err
}
