package source

import (
	"context"

	"github.com/timmy/pvhub/internal/domain"
)

// RawItem is one scraped listing entry before LLM structuring.
type RawItem struct {
	Title    string
	URL      string
	Snippet  string
	Platform string // display name of the site it came from
}

// Adapter scrapes one external site for listings matching a keyword.
type Adapter interface {
	// GetSourceID returns a stable identifier, e.g. "bidcenter".
	GetSourceID() string

	// GetDisplayName returns the site's human-readable name.
	GetDisplayName() string

	// Kind returns the record kind this site yields.
	Kind() domain.RecordKind

	// Scrape fetches the site's search page for keyword and extracts
	// matching items, capped per site. A fetch failure is returned as an
	// error; markup that no longer matches yields an empty slice.
	Scrape(ctx context.Context, keyword string) ([]RawItem, error)
}

// PageFetcher retrieves a page body.
type PageFetcher interface {
	FetchHTML(ctx context.Context, url string) (string, error)
}

// SnapshotSink receives the raw HTML of each scraped page so markup drift
// can be diagnosed after the fact.
type SnapshotSink interface {
	SaveSnapshot(ctx context.Context, sourceID string, body []byte) error
}

// FilterKind returns the adapters that yield kind, preserving order.
func FilterKind(adapters []Adapter, kind domain.RecordKind) []Adapter {
	var out []Adapter
	for _, a := range adapters {
		if a.Kind() == kind {
			out = append(out, a)
		}
	}
	return out
}
