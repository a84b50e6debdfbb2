package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/timmy/pvhub/internal/domain"
	"github.com/timmy/pvhub/internal/prompts"
	"github.com/timmy/pvhub/internal/repository"
	"github.com/timmy/pvhub/internal/source"
)

const (
	titleA = "钙钛矿叠层电池效率突破33%创世界纪录并通过权威认证"
	titleB = "国内首条GW级钙钛矿组件产线正式投产运营"
)

func newIngestService(adapters []source.Adapter, llm LLMInvoker, store *memStore) *ContentIngestService {
	return NewContentIngestService(
		adapters,
		NewEnricher[NewsCandidate](llm, prompts.MustLookup(domain.RecordKindNews), 0, clock),
		NewEnricher[TenderCandidate](llm, prompts.MustLookup(domain.RecordKindTender), 0, clock),
		store,
		memTenderStore{store},
		ContentIngestConfig{Keyword: "钙钛矿", Now: clock},
	)
}

func twoNewsAdapter() *fakeAdapter {
	return &fakeAdapter{id: "bjx_news", kind: domain.RecordKindNews, items: []source.RawItem{
		{Title: titleA, URL: "https://guangfu.bjx.com.cn/news/1.shtml", Platform: "北极星光伏网"},
		{Title: titleB, URL: "https://guangfu.bjx.com.cn/news/2.shtml", Platform: "北极星光伏网"},
	}}
}

const twoNewsResponse = `{"items":[
 {"title":"` + titleA + `","summary":"s","sourceName":"北极星光伏网","sourceUrl":"https://guangfu.bjx.com.cn/news/1.shtml","category":"research","isImportant":true},
 {"title":"` + titleB + `","summary":"s","sourceName":"北极星光伏网","sourceUrl":"https://guangfu.bjx.com.cn/news/2.shtml","category":"bogus","isImportant":false}
]}`

func TestFetchLatestNewsInsertsParsedItems(t *testing.T) {
	store := &memStore{}
	llm := &fakeLLM{responses: map[string]string{"news_parse_result": twoNewsResponse}}
	svc := newIngestService([]source.Adapter{twoNewsAdapter()}, llm, store)

	// the parse step yields 2 of 5, so fallback asks for 3 and returns nothing
	if got := svc.FetchLatestNews(context.Background()); got != 2 {
		t.Fatalf("FetchLatestNews() = %d, want 2", got)
	}
	if len(store.news) != 2 {
		t.Fatalf("stored %d rows, want 2", len(store.news))
	}
	for _, n := range store.news {
		if !n.PublishedAt.Equal(fixedNow) {
			t.Errorf("PublishedAt = %v, want %v", n.PublishedAt, fixedNow)
		}
	}
	if store.news[1].Category != domain.NewsCategoryDomestic {
		t.Errorf("unknown category normalized to %q, want domestic", store.news[1].Category)
	}

	fallback := llm.calls("news_list")
	if len(fallback) != 1 {
		t.Fatalf("fallback calls = %d, want 1", len(fallback))
	}
	if want := "今天是2026-03-14，请生成3条近期钙钛矿光伏行业资讯，要求内容真实、来源可信。"; fallback[0].Messages[1].Content != want {
		t.Errorf("fallback prompt = %q", fallback[0].Messages[1].Content)
	}
}

func TestFetchLatestNewsSkipsPossibleDuplicate(t *testing.T) {
	// the stored title contains the first 20 characters of titleA
	store := &memStore{existing: []string{"【快讯】" + titleA}}
	llm := &fakeLLM{responses: map[string]string{"news_parse_result": twoNewsResponse}}
	svc := newIngestService([]source.Adapter{twoNewsAdapter()}, llm, store)

	if got := svc.FetchLatestNews(context.Background()); got != 1 {
		t.Fatalf("FetchLatestNews() = %d, want 1", got)
	}
	if store.news[0].Title != titleB {
		t.Errorf("inserted %q, want %q", store.news[0].Title, titleB)
	}
}

func TestDedupAgainstRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	newsRepo := repository.NewNewsRepository(db)
	tenderRepo := repository.NewTenderRepository(db)

	if err := newsRepo.Create(ctx, &domain.News{Title: "【快讯】" + titleA, PublishedAt: fixedNow}); err != nil {
		t.Fatalf("seed news: %v", err)
	}
	if err := tenderRepo.Create(ctx, &domain.Tender{
		Title:       "中国华能集团钙钛矿中试线设备采购项目招标公告（第二批）",
		ProjectType: domain.ProjectTypeProcurement,
		Status:      domain.TenderStatusOpen,
		PublishedAt: fixedNow,
	}); err != nil {
		t.Fatalf("seed tender: %v", err)
	}

	llm := &fakeLLM{responses: map[string]string{
		"news_parse_result": twoNewsResponse,
		"tender_list": `{"items":[
			{"title":"中国华能集团钙钛矿中试线设备采购项目招标公告（第三批）","projectType":"procurement","status":"open"},
			{"title":"某高校钙钛矿材料检测服务采购","projectType":"service","status":"open"}
		]}`,
	}}
	svc := NewContentIngestService(
		[]source.Adapter{twoNewsAdapter()},
		NewEnricher[NewsCandidate](llm, prompts.MustLookup(domain.RecordKindNews), 0, clock),
		NewEnricher[TenderCandidate](llm, prompts.MustLookup(domain.RecordKindTender), 0, clock),
		newsRepo,
		tenderRepo,
		ContentIngestConfig{Keyword: "钙钛矿", Now: clock},
	)

	if got := svc.FetchLatestNews(ctx); got != 1 {
		t.Errorf("FetchLatestNews() = %d, want 1", got)
	}
	if got := svc.FetchLatestTenders(ctx); got != 1 {
		t.Errorf("FetchLatestTenders() = %d, want 1", got)
	}

	tests := []struct {
		name  string
		count func(context.Context) (int64, error)
		want  int64
	}{
		{"news rows", newsRepo.Count, 2},
		{"tender rows", tenderRepo.Count, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := tt.count(ctx)
			if err != nil {
				t.Fatalf("Count() error = %v", err)
			}
			if n != tt.want {
				t.Errorf("Count() = %d, want %d", n, tt.want)
			}
		})
	}

	dup, err := newsRepo.ExistsByTitlePrefix(ctx, titleB)
	if err != nil || !dup {
		t.Errorf("titleB stored = %v, %v; want true", dup, err)
	}
}

func TestFetchNeverFailsWhenEverythingFails(t *testing.T) {
	adapters := []source.Adapter{
		&fakeAdapter{id: "bjx_news", kind: domain.RecordKindNews, err: errors.New("connection reset")},
		&fakeAdapter{id: "solarbe", kind: domain.RecordKindNews, panic: true},
		&fakeAdapter{id: "bidcenter", kind: domain.RecordKindTender, err: errors.New("HTTP 503")},
	}
	llm := &fakeLLM{responses: map[string]string{"news_list": "", "tender_list": ""}}
	svc := newIngestService(adapters, llm, &memStore{})

	if got := svc.FetchLatestNews(context.Background()); got != 0 {
		t.Errorf("FetchLatestNews() = %d, want 0", got)
	}
	if got := svc.FetchLatestTenders(context.Background()); got != 0 {
		t.Errorf("FetchLatestTenders() = %d, want 0", got)
	}

	// no raw items: parse is skipped and fallback asks for the full target
	if n := len(llm.calls("news_parse_result")) + len(llm.calls("tender_parse_result")); n != 0 {
		t.Errorf("parse calls = %d, want 0", n)
	}
	tests := []struct {
		schema string
		want   string
	}{
		{"news_list", "请生成5条"},
		{"tender_list", "请生成3条"},
	}
	for _, tt := range tests {
		calls := llm.calls(tt.schema)
		if len(calls) != 1 {
			t.Errorf("%s calls = %d, want 1", tt.schema, len(calls))
			continue
		}
		if user := calls[0].Messages[1].Content; !containsAll(user, tt.want) {
			t.Errorf("%s prompt = %q, want it to ask %q", tt.schema, user, tt.want)
		}
	}
}

func TestFallbackOutputGoesThroughDedup(t *testing.T) {
	store := &memStore{existing: []string{"中国华能集团钙钛矿中试线设备采购项目招标公告（第二批）"}}
	llm := &fakeLLM{responses: map[string]string{"tender_list": `{"items":[
		{"title":"中国华能集团钙钛矿中试线设备采购项目招标公告（第三批）","projectType":"procurement","status":"open"},
		{"title":"某高校钙钛矿材料检测服务采购","projectType":"nonsense","status":""},
		{"title":"  ","projectType":"service","status":"open"}
	]}`}}
	svc := newIngestService(nil, llm, store)

	if got := svc.FetchLatestTenders(context.Background()); got != 1 {
		t.Fatalf("FetchLatestTenders() = %d, want 1", got)
	}
	got := store.tenders[0]
	if got.ProjectType != domain.ProjectTypeOther || got.Status != domain.TenderStatusOpen {
		t.Errorf("normalized to (%s, %s), want (other, open)", got.ProjectType, got.Status)
	}
}

func TestStoreFailuresAreAbsorbed(t *testing.T) {
	tests := []struct {
		name  string
		store *memStore
		want  int
	}{
		{name: "dedup check error treated as new", store: &memStore{existsErr: errors.New("db down")}, want: 2},
		{name: "every insert fails", store: &memStore{createErr: errors.New("db down")}, want: 0},
		{name: "one insert fails", store: &memStore{failTitles: map[string]bool{titleA: true}}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeLLM{responses: map[string]string{"news_parse_result": twoNewsResponse}}
			svc := newIngestService([]source.Adapter{twoNewsAdapter()}, llm, tt.store)
			if got := svc.FetchLatestNews(context.Background()); got != tt.want {
				t.Errorf("FetchLatestNews() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScrapeConcatenatesInAdapterOrder(t *testing.T) {
	adapters := []source.Adapter{
		&fakeAdapter{id: "a", kind: domain.RecordKindTender, items: []source.RawItem{{Title: "a1"}, {Title: "a2"}}},
		&fakeAdapter{id: "news", kind: domain.RecordKindNews, items: []source.RawItem{{Title: "n1"}}},
		&fakeAdapter{id: "b", kind: domain.RecordKindTender, err: errors.New("down")},
		&fakeAdapter{id: "c", kind: domain.RecordKindTender, items: []source.RawItem{{Title: "c1"}}},
	}
	svc := newIngestService(adapters, &fakeLLM{}, &memStore{})

	got := svc.scrape(context.Background(), domain.RecordKindTender)
	var titles []string
	for _, it := range got {
		titles = append(titles, it.Title)
	}
	if want := []string{"a1", "a2", "c1"}; !equalStrings(titles, want) {
		t.Errorf("scrape() = %v, want %v", titles, want)
	}
}

func TestScrapeSource(t *testing.T) {
	svc := newIngestService([]source.Adapter{twoNewsAdapter()}, &fakeLLM{}, &memStore{})

	items, err := svc.ScrapeSource(context.Background(), "bjx_news")
	if err != nil || len(items) != 2 {
		t.Errorf("ScrapeSource(bjx_news) = %d items, %v", len(items), err)
	}
	if _, err := svc.ScrapeSource(context.Background(), "nope"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ScrapeSource(nope) error = %v, want ErrInvalidInput", err)
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
