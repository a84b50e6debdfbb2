package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/timmy/pvhub/internal/domain"
	"gorm.io/gorm"
)

// ManufacturerFilter narrows the directory listing. Zero values mean "no filter".
type ManufacturerFilter struct {
	Page     int
	PageSize int
	Country  string
	Stage    string
	Keyword  string
}

// ManufacturerRepository handles manufacturer persistence. Every read
// except GetByID skips inactive rows.
type ManufacturerRepository struct {
	db *gorm.DB
}

// NewManufacturerRepository creates a ManufacturerRepository bound to db.
func NewManufacturerRepository(db *gorm.DB) *ManufacturerRepository {
	return &ManufacturerRepository{db: db}
}

// Create inserts m and fills in its ID.
func (r *ManufacturerRepository) Create(ctx context.Context, m *domain.Manufacturer) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to create manufacturer: %w", err)
	}
	return nil
}

// GetByID returns the row with id or ErrNotFound.
func (r *ManufacturerRepository) GetByID(ctx context.Context, id uint) (*domain.Manufacturer, error) {
	var m domain.Manufacturer
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns one page of active manufacturers ordered by name and the
// total number of matching rows.
func (r *ManufacturerRepository) List(ctx context.Context, f ManufacturerFilter) ([]domain.Manufacturer, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Manufacturer{}).Where("is_active = ?", true)
	if f.Country != "" {
		query = query.Where("country = ?", f.Country)
	}
	if f.Stage != "" {
		query = query.Where("stage = ?", f.Stage)
	}
	if f.Keyword != "" {
		pattern := containsPattern(f.Keyword)
		query = query.Where(`(name LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count manufacturers: %w", err)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	size := clampLimit(f.PageSize, 20, 50)

	var items []domain.Manufacturer
	err := query.Order("name ASC").Order("id ASC").
		Limit(size).Offset((page - 1) * size).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list manufacturers: %w", err)
	}
	return items, total, nil
}

// Search matches keyword against the name and description of active rows.
func (r *ManufacturerRepository) Search(ctx context.Context, keyword string, limit int) ([]domain.Manufacturer, error) {
	pattern := containsPattern(keyword)
	var items []domain.Manufacturer
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where(`(name LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`, pattern, pattern).
		Order("name ASC").
		Limit(clampLimit(limit, 10, 50)).
		Find(&items).Error
	return items, err
}

// CountActive returns the number of active manufacturers.
func (r *ManufacturerRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Manufacturer{}).Where("is_active = ?", true).Count(&n).Error
	return n, err
}
