package service

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/timmy/pvhub/internal/domain"
	"github.com/timmy/pvhub/internal/logger"
	"github.com/timmy/pvhub/internal/source"
)

// Default batch targets topped up by fallback generation.
const (
	DefaultNewsTarget   = 5
	DefaultTenderTarget = 3
)

// NewsStore is the subset of the news repository the pipeline writes through.
type NewsStore interface {
	ExistsByTitlePrefix(ctx context.Context, title string) (bool, error)
	Create(ctx context.Context, item *domain.News) error
}

// TenderStore is the subset of the tender repository the pipeline writes through.
type TenderStore interface {
	ExistsByTitlePrefix(ctx context.Context, title string) (bool, error)
	Create(ctx context.Context, item *domain.Tender) error
}

// ContentIngestService runs scrape, parse, fallback, dedup and insert for
// news and tenders.
type ContentIngestService struct {
	adapters     []source.Adapter
	keyword      string
	news         *Enricher[NewsCandidate]
	tenders      *Enricher[TenderCandidate]
	newsStore    NewsStore
	tenderStore  TenderStore
	newsTarget   int
	tenderTarget int
	now          func() time.Time
}

// ContentIngestConfig configures ContentIngestService.
type ContentIngestConfig struct {
	Keyword      string
	NewsTarget   int
	TenderTarget int
	Now          func() time.Time
}

// NewContentIngestService wires the pipeline. Zero targets use the defaults.
func NewContentIngestService(
	adapters []source.Adapter,
	news *Enricher[NewsCandidate],
	tenders *Enricher[TenderCandidate],
	newsStore NewsStore,
	tenderStore TenderStore,
	cfg ContentIngestConfig,
) *ContentIngestService {
	if cfg.NewsTarget <= 0 {
		cfg.NewsTarget = DefaultNewsTarget
	}
	if cfg.TenderTarget <= 0 {
		cfg.TenderTarget = DefaultTenderTarget
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ContentIngestService{
		adapters:     adapters,
		keyword:      cfg.Keyword,
		news:         news,
		tenders:      tenders,
		newsStore:    newsStore,
		tenderStore:  tenderStore,
		newsTarget:   cfg.NewsTarget,
		tenderTarget: cfg.TenderTarget,
		now:          cfg.Now,
	}
}

// FetchLatestNews ingests news and returns the number of inserted rows.
// It never fails: scraper, LLM and store failures reduce the count.
func (s *ContentIngestService) FetchLatestNews(ctx context.Context) (inserted int) {
	ctx = logger.SetKind(ctx, string(domain.RecordKindNews))
	defer recoverStep(ctx, "FetchLatestNews")

	start := time.Now()
	raw := s.scrape(ctx, domain.RecordKindNews)
	candidates := enrich(ctx, s.news, raw, s.newsTarget)

	for _, c := range candidates {
		if s.insertNews(ctx, c) {
			inserted++
		}
	}

	logger.With(logger.Fields{"raw": len(raw), "candidates": len(candidates)}).
		WithCount(inserted).Since(start).
		Info(ctx, "News ingestion finished: %d inserted", inserted)
	return inserted
}

// FetchLatestTenders ingests tenders and returns the number of inserted rows.
func (s *ContentIngestService) FetchLatestTenders(ctx context.Context) (inserted int) {
	ctx = logger.SetKind(ctx, string(domain.RecordKindTender))
	defer recoverStep(ctx, "FetchLatestTenders")

	start := time.Now()
	raw := s.scrape(ctx, domain.RecordKindTender)
	candidates := enrich(ctx, s.tenders, raw, s.tenderTarget)

	for _, c := range candidates {
		if s.insertTender(ctx, c) {
			inserted++
		}
	}

	logger.With(logger.Fields{"raw": len(raw), "candidates": len(candidates)}).
		WithCount(inserted).Since(start).
		Info(ctx, "Tender ingestion finished: %d inserted", inserted)
	return inserted
}

// ScrapeSource runs one adapter and returns its raw items without
// structuring or storing them.
func (s *ContentIngestService) ScrapeSource(ctx context.Context, sourceID string) ([]source.RawItem, error) {
	for _, a := range s.adapters {
		if a.GetSourceID() == sourceID {
			return a.Scrape(logger.SetSource(ctx, sourceID), s.keyword)
		}
	}
	return nil, fmt.Errorf("%w: unknown source %q", ErrInvalidInput, sourceID)
}

// scrape runs every adapter of kind concurrently and concatenates their
// items in adapter order. A failing adapter contributes nothing.
func (s *ContentIngestService) scrape(ctx context.Context, kind domain.RecordKind) []source.RawItem {
	adapters := source.FilterKind(s.adapters, kind)
	results := make([][]source.RawItem, len(adapters))

	var wg sync.WaitGroup
	for i, a := range adapters {
		wg.Add(1)
		go func(i int, a source.Adapter) {
			defer wg.Done()
			sctx := logger.SetSource(ctx, a.GetSourceID())
			defer recoverStep(sctx, "scrape")

			start := time.Now()
			items, err := a.Scrape(sctx, s.keyword)
			if err != nil {
				logger.With(nil).Since(start).
					Warn(sctx, "Scraper %s failed: %v", a.GetDisplayName(), err)
				return
			}
			logger.With(nil).WithCount(len(items)).Since(start).
				Debug(sctx, "Scraper %s returned %d items", a.GetDisplayName(), len(items))
			results[i] = items
		}(i, a)
	}
	wg.Wait()

	var all []source.RawItem
	for _, items := range results {
		all = append(all, items...)
	}
	return all
}

// enrich parses raw items and tops the batch up to target with fallback
// candidates. Blank titles are dropped.
func enrich[T candidate](ctx context.Context, e *Enricher[T], raw []source.RawItem, target int) []T {
	parsed := e.Parse(ctx, raw)
	if needed := target - len(parsed); needed > 0 {
		parsed = append(parsed, e.Fallback(ctx, needed)...)
	}

	out := parsed[:0]
	for _, c := range parsed {
		if c.TitleText() != "" {
			out = append(out, c)
		}
	}
	return out
}

func (s *ContentIngestService) insertNews(ctx context.Context, c NewsCandidate) bool {
	title := c.TitleText()
	exists, err := s.newsStore.ExistsByTitlePrefix(ctx, title)
	if err != nil {
		logger.CtxWarn(ctx, "Duplicate check failed for %q, treating as new: %v", title, err)
	} else if exists {
		logger.CtxDebug(ctx, "Skipping possible duplicate: %s", title)
		return false
	}

	if err := s.newsStore.Create(ctx, c.ToNews(s.now())); err != nil {
		logger.CtxWarn(ctx, "Failed to insert news %q: %v", title, err)
		return false
	}
	return true
}

func (s *ContentIngestService) insertTender(ctx context.Context, c TenderCandidate) bool {
	title := c.TitleText()
	exists, err := s.tenderStore.ExistsByTitlePrefix(ctx, title)
	if err != nil {
		logger.CtxWarn(ctx, "Duplicate check failed for %q, treating as new: %v", title, err)
	} else if exists {
		logger.CtxDebug(ctx, "Skipping possible duplicate: %s", title)
		return false
	}

	if err := s.tenderStore.Create(ctx, c.ToTender(s.now())); err != nil {
		logger.CtxWarn(ctx, "Failed to insert tender %q: %v", title, err)
		return false
	}
	return true
}

// recoverStep logs a recovered panic. Deferred at every public entry point.
func recoverStep(ctx context.Context, step string) {
	if r := recover(); r != nil {
		logger.CtxError(ctx, "%s panicked: %v\n%s", step, r, debug.Stack())
	}
}
