package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/timmy/pvhub/internal/domain"
	"github.com/timmy/pvhub/internal/logger"
	"github.com/timmy/pvhub/internal/notify"
	"github.com/timmy/pvhub/internal/repository"
)

var (
	// ErrInvalidInput marks caller mistakes; handlers map it to 400.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned for missing rows; handlers map it to 404.
	ErrNotFound = repository.ErrNotFound
)

const statsCacheKey = "stats"

// StatsCache caches the serialized stats response.
type StatsCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

// ContentService serves the read API and the admin content operations.
type ContentService struct {
	news          *repository.NewsRepository
	tenders       *repository.TenderRepository
	manufacturers *repository.ManufacturerRepository
	jobs          *repository.JobLogRepository
	cache         StatsCache
	statsTTL      time.Duration
	notifier      notify.Notifier
	now           func() time.Time
}

// ContentServiceConfig holds the optional collaborators of ContentService.
type ContentServiceConfig struct {
	Cache    StatsCache // nil disables caching
	StatsTTL time.Duration
	Notifier notify.Notifier
	Now      func() time.Time
}

// NewContentService creates a ContentService.
func NewContentService(
	news *repository.NewsRepository,
	tenders *repository.TenderRepository,
	manufacturers *repository.ManufacturerRepository,
	jobs *repository.JobLogRepository,
	cfg ContentServiceConfig,
) *ContentService {
	if cfg.StatsTTL <= 0 {
		cfg.StatsTTL = 5 * time.Minute
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.LogNotifier{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ContentService{
		news:          news,
		tenders:       tenders,
		manufacturers: manufacturers,
		jobs:          jobs,
		cache:         cfg.Cache,
		statsTTL:      cfg.StatsTTL,
		notifier:      cfg.Notifier,
		now:           cfg.Now,
	}
}

// ============================================
// Read API
// ============================================

// Page is one page of a listing.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

// ListNews returns a filtered page of news.
func (s *ContentService) ListNews(ctx context.Context, f repository.NewsFilter) (*Page[domain.News], error) {
	if f.Category != "" && !domain.NewsCategory(f.Category).Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, f.Category)
	}
	items, total, err := s.news.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	return &Page[domain.News]{Items: nonNil(items), Total: total}, nil
}

// LatestNews returns the newest news.
func (s *ContentService) LatestNews(ctx context.Context, limit int) ([]domain.News, error) {
	items, err := s.news.Latest(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest news: %w", err)
	}
	return nonNil(items), nil
}

// GetNews returns one news row.
func (s *ContentService) GetNews(ctx context.Context, id uint) (*domain.News, error) {
	return s.news.GetByID(ctx, id)
}

// ListTenders returns a filtered page of tenders.
func (s *ContentService) ListTenders(ctx context.Context, f repository.TenderFilter) (*Page[domain.Tender], error) {
	if f.ProjectType != "" && !domain.ProjectType(f.ProjectType).Valid() {
		return nil, fmt.Errorf("%w: unknown project type %q", ErrInvalidInput, f.ProjectType)
	}
	if f.Status != "" && !domain.TenderStatus(f.Status).Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, f.Status)
	}
	items, total, err := s.tenders.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenders: %w", err)
	}
	return &Page[domain.Tender]{Items: nonNil(items), Total: total}, nil
}

// LatestTenders returns the newest tenders.
func (s *ContentService) LatestTenders(ctx context.Context, limit int) ([]domain.Tender, error) {
	items, err := s.tenders.Latest(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest tenders: %w", err)
	}
	return nonNil(items), nil
}

// GetTender returns one tender row.
func (s *ContentService) GetTender(ctx context.Context, id uint) (*domain.Tender, error) {
	return s.tenders.GetByID(ctx, id)
}

// SearchResult groups keyword matches by kind.
type SearchResult struct {
	News          []domain.News         `json:"news"`
	Tenders       []domain.Tender       `json:"tenders"`
	Manufacturers []domain.Manufacturer `json:"manufacturers"`
}

// Search matches q against news, tenders and active manufacturers.
func (s *ContentService) Search(ctx context.Context, q string, limit int) (*SearchResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}
	news, err := s.news.Search(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search news: %w", err)
	}
	tenders, err := s.tenders.Search(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search tenders: %w", err)
	}
	manufacturers, err := s.manufacturers.Search(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search manufacturers: %w", err)
	}
	return &SearchResult{
		News:          nonNil(news),
		Tenders:       nonNil(tenders),
		Manufacturers: nonNil(manufacturers),
	}, nil
}

// Stats summarizes stored content and the last ingestion run.
type Stats struct {
	NewsCount         int64          `json:"newsCount"`
	TenderCount       int64          `json:"tenderCount"`
	ManufacturerCount int64          `json:"manufacturerCount"`
	LatestJob         *domain.JobLog `json:"latestJob"`
}

// Stats returns counts, served from the cache when present.
func (s *ContentService) Stats(ctx context.Context) (*Stats, error) {
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, statsCacheKey); ok {
			var cached Stats
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	newsCount, err := s.news.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count news: %w", err)
	}
	tenderCount, err := s.tenders.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tenders: %w", err)
	}
	manufacturerCount, err := s.manufacturers.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count manufacturers: %w", err)
	}
	stats := &Stats{NewsCount: newsCount, TenderCount: tenderCount, ManufacturerCount: manufacturerCount}

	job, err := s.jobs.Latest(ctx)
	switch {
	case err == nil:
		stats.LatestJob = job
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("failed to load latest job: %w", err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			s.cache.Set(ctx, statsCacheKey, raw, s.statsTTL)
		}
	}
	return stats, nil
}

// InvalidateStats drops the cached stats. Called after any write.
func (s *ContentService) InvalidateStats(ctx context.Context) {
	if s.cache != nil {
		s.cache.Delete(ctx, statsCacheKey)
	}
}

// RecentJobs returns the newest job logs.
func (s *ContentService) RecentJobs(ctx context.Context, limit int) ([]domain.JobLog, error) {
	jobs, err := s.jobs.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load job logs: %w", err)
	}
	return nonNil(jobs), nil
}

// ============================================
// Admin writes
// ============================================

// NewsInput is the admin payload for creating or updating news. Nil fields
// are left unchanged on update.
type NewsInput struct {
	Title       *string    `json:"title"`
	Summary     *string    `json:"summary"`
	Content     *string    `json:"content"`
	SourceURL   *string    `json:"sourceUrl"`
	SourceName  *string    `json:"sourceName"`
	ImageURL    *string    `json:"imageUrl"`
	Category    *string    `json:"category"`
	Tags        []string   `json:"tags"`
	IsImportant *bool      `json:"isImportant"`
	PublishedAt *time.Time `json:"publishedAt"`
}

func (in NewsInput) fields() (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
		}
		fields["title"] = title
	}
	if in.Category != nil {
		if !domain.NewsCategory(*in.Category).Valid() {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, *in.Category)
		}
		fields["category"] = *in.Category
	}
	setOptional(fields, "summary", in.Summary)
	setOptional(fields, "content", in.Content)
	setOptional(fields, "source_url", in.SourceURL)
	setOptional(fields, "source_name", in.SourceName)
	setOptional(fields, "image_url", in.ImageURL)
	if in.Tags != nil {
		fields["tags"] = domain.StringArray(in.Tags)
	}
	if in.IsImportant != nil {
		fields["is_important"] = *in.IsImportant
	}
	if in.PublishedAt != nil {
		fields["published_at"] = *in.PublishedAt
	}
	return fields, nil
}

// CreateNews validates and stores a news item. Important items notify the owner.
func (s *ContentService) CreateNews(ctx context.Context, in NewsInput) (*domain.News, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if _, err := in.fields(); err != nil {
		return nil, err
	}

	item := &domain.News{
		Title:       strings.TrimSpace(*in.Title),
		Summary:     optional(in.Summary),
		Content:     optional(in.Content),
		SourceURL:   optional(in.SourceURL),
		SourceName:  optional(in.SourceName),
		ImageURL:    optional(in.ImageURL),
		Category:    domain.NewsCategoryDomestic,
		Tags:        domain.StringArray(in.Tags),
		IsImportant: in.IsImportant != nil && *in.IsImportant,
		PublishedAt: s.now(),
	}
	if in.Category != nil {
		item.Category = domain.NewsCategory(*in.Category)
	}
	if in.PublishedAt != nil {
		item.PublishedAt = *in.PublishedAt
	}

	if err := s.news.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create news: %w", err)
	}
	s.InvalidateStats(ctx)

	if item.IsImportant {
		s.notifyImportant(ctx, "重要新闻已发布", fmt.Sprintf("新重要新闻：%s", item.Title))
	}
	return item, nil
}

// UpdateNews applies the non-nil fields of in.
func (s *ContentService) UpdateNews(ctx context.Context, id uint, in NewsInput) error {
	fields, err := in.fields()
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	return s.news.Update(ctx, id, fields)
}

// DeleteNews removes a news row.
func (s *ContentService) DeleteNews(ctx context.Context, id uint) error {
	if err := s.news.Delete(ctx, id); err != nil {
		return err
	}
	s.InvalidateStats(ctx)
	return nil
}

// TenderInput is the admin payload for creating or updating tenders.
type TenderInput struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	ProjectType    *string    `json:"projectType"`
	Budget         *string    `json:"budget"`
	Region         *string    `json:"region"`
	PublisherName  *string    `json:"publisherName"`
	ContactInfo    *string    `json:"contactInfo"`
	SourceURL      *string    `json:"sourceUrl"`
	SourcePlatform *string    `json:"sourcePlatform"`
	Deadline       *time.Time `json:"deadline"`
	IsImportant    *bool      `json:"isImportant"`
	Status         *string    `json:"status"`
	PublishedAt    *time.Time `json:"publishedAt"`
}

func (in TenderInput) fields() (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
		}
		fields["title"] = title
	}
	if in.ProjectType != nil {
		if !domain.ProjectType(*in.ProjectType).Valid() {
			return nil, fmt.Errorf("%w: unknown project type %q", ErrInvalidInput, *in.ProjectType)
		}
		fields["project_type"] = *in.ProjectType
	}
	if in.Status != nil {
		if !domain.TenderStatus(*in.Status).Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *in.Status)
		}
		fields["status"] = *in.Status
	}
	setOptional(fields, "description", in.Description)
	setOptional(fields, "budget", in.Budget)
	setOptional(fields, "region", in.Region)
	setOptional(fields, "publisher_name", in.PublisherName)
	setOptional(fields, "contact_info", in.ContactInfo)
	setOptional(fields, "source_url", in.SourceURL)
	setOptional(fields, "source_platform", in.SourcePlatform)
	if in.Deadline != nil {
		fields["deadline"] = *in.Deadline
	}
	if in.IsImportant != nil {
		fields["is_important"] = *in.IsImportant
	}
	if in.PublishedAt != nil {
		fields["published_at"] = *in.PublishedAt
	}
	return fields, nil
}

// CreateTender validates and stores a tender. Important tenders notify the owner.
func (s *ContentService) CreateTender(ctx context.Context, in TenderInput) (*domain.Tender, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if _, err := in.fields(); err != nil {
		return nil, err
	}

	item := &domain.Tender{
		Title:          strings.TrimSpace(*in.Title),
		Description:    optional(in.Description),
		ProjectType:    domain.ProjectTypeProcurement,
		Budget:         optional(in.Budget),
		Region:         optional(in.Region),
		PublisherName:  optional(in.PublisherName),
		ContactInfo:    optional(in.ContactInfo),
		SourceURL:      optional(in.SourceURL),
		SourcePlatform: optional(in.SourcePlatform),
		Deadline:       in.Deadline,
		IsImportant:    in.IsImportant != nil && *in.IsImportant,
		Status:         domain.TenderStatusOpen,
		PublishedAt:    s.now(),
	}
	if in.ProjectType != nil {
		item.ProjectType = domain.ProjectType(*in.ProjectType)
	}
	if in.Status != nil {
		item.Status = domain.TenderStatus(*in.Status)
	}
	if in.PublishedAt != nil {
		item.PublishedAt = *in.PublishedAt
	}

	if err := s.tenders.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create tender: %w", err)
	}
	s.InvalidateStats(ctx)

	if item.IsImportant {
		content := fmt.Sprintf("新重要招投标：%s", item.Title)
		if item.Budget != nil {
			content += fmt.Sprintf("，预算：%s", *item.Budget)
		}
		s.notifyImportant(ctx, "重要招投标信息", content)
	}
	return item, nil
}

// UpdateTender applies the non-nil fields of in.
func (s *ContentService) UpdateTender(ctx context.Context, id uint, in TenderInput) error {
	fields, err := in.fields()
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	return s.tenders.Update(ctx, id, fields)
}

// DeleteTender removes a tender row.
func (s *ContentService) DeleteTender(ctx context.Context, id uint) error {
	if err := s.tenders.Delete(ctx, id); err != nil {
		return err
	}
	s.InvalidateStats(ctx)
	return nil
}

func (s *ContentService) notifyImportant(ctx context.Context, title, content string) {
	if err := s.notifier.NotifyOwner(ctx, title, content); err != nil {
		logger.CtxWarn(ctx, "Failed to notify owner: %v", err)
	}
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	return domain.OptionalString(*s)
}

// setOptional stores a provided optional column; blank becomes NULL.
func setOptional(fields map[string]interface{}, column string, value *string) {
	if value == nil {
		return
	}
	if v := domain.OptionalString(*value); v != nil {
		fields[column] = *v
	} else {
		fields[column] = nil
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
