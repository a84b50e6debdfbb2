// Package sites holds one scraping strategy per external site.
package sites

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/timmy/pvhub/internal/domain"
	"github.com/timmy/pvhub/internal/logger"
	"github.com/timmy/pvhub/internal/source"
)

// Rule describes how one site lists results.
type Rule struct {
	ID        string
	Name      string
	Kind      domain.RecordKind
	SearchURL func(keyword string) string

	// HrefPattern filters raw href values; nil accepts any link.
	HrefPattern *regexp.Regexp

	// TitleAttr reads the listing title from the anchor's title attribute
	// instead of its text.
	TitleAttr bool

	// Accept decides whether a title qualifies; nil means "contains keyword".
	Accept func(title, keyword string) bool

	Limit int
}

// Adapter is a source.Adapter driven by a Rule.
type Adapter struct {
	rule      Rule
	fetcher   source.PageFetcher
	snapshots source.SnapshotSink
}

// NewAdapter binds rule to a fetcher. snapshots may be nil.
func NewAdapter(rule Rule, fetcher source.PageFetcher, snapshots source.SnapshotSink) *Adapter {
	return &Adapter{rule: rule, fetcher: fetcher, snapshots: snapshots}
}

func (a *Adapter) GetSourceID() string     { return a.rule.ID }
func (a *Adapter) GetDisplayName() string  { return a.rule.Name }
func (a *Adapter) Kind() domain.RecordKind { return a.rule.Kind }

// Scrape implements source.Adapter.
func (a *Adapter) Scrape(ctx context.Context, keyword string) ([]source.RawItem, error) {
	pageURL := a.rule.SearchURL(keyword)
	html, err := a.fetcher.FetchHTML(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("%s scrape failed: %w", a.rule.ID, err)
	}

	if a.snapshots != nil {
		if err := a.snapshots.SaveSnapshot(ctx, a.rule.ID, []byte(html)); err != nil {
			logger.CtxWarn(ctx, "Failed to archive snapshot: source=%s, error=%v", a.rule.ID, err)
		}
	}

	return a.Extract(html, pageURL, keyword)
}

// Extract pulls matching anchors out of html. pageURL resolves relative links.
func (a *Adapter) Extract(html, pageURL, keyword string) ([]source.RawItem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse page: %w", a.rule.ID, err)
	}
	base, _ := url.Parse(pageURL)

	accept := a.rule.Accept
	if accept == nil {
		accept = containsKeyword
	}

	var items []source.RawItem
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || (a.rule.HrefPattern != nil && !a.rule.HrefPattern.MatchString(href)) {
			return true
		}

		var title string
		if a.rule.TitleAttr {
			title, _ = s.Attr("title")
		} else {
			title = s.Text()
		}
		title = strings.TrimSpace(title)
		if title == "" || !accept(title, keyword) {
			return true
		}

		items = append(items, source.RawItem{
			Title:    title,
			URL:      resolve(base, href),
			Platform: a.rule.Name,
		})
		return len(items) < a.rule.Limit
	})

	return items, nil
}

func containsKeyword(title, keyword string) bool {
	return strings.Contains(title, keyword)
}

func resolve(base *url.URL, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil || base == nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
