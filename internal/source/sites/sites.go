package sites

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"unicode/utf8"

	"github.com/timmy/pvhub/internal/domain"
	"github.com/timmy/pvhub/internal/source"
)

// Source ids.
const (
	BidCenter  = "bidcenter"
	BJXTender  = "bjx_tender"
	GGZY       = "ggzy"
	PowerChina = "powerchina"
	BJXNews    = "bjx_news"
	SolarBe    = "solarbe"
)

var rules = map[string]Rule{
	BidCenter: {
		ID:   BidCenter,
		Name: "采招网",
		Kind: domain.RecordKindTender,
		SearchURL: func(k string) string {
			return "https://www.bidcenter.com.cn/search/?keyword=" + url.QueryEscape(k) + "&type=1"
		},
		HrefPattern: regexp.MustCompile(`/zbkeyw|bidDetail`),
		Limit:       10,
	},
	BJXTender: {
		ID:   BJXTender,
		Name: "北极星光伏网",
		Kind: domain.RecordKindTender,
		SearchURL: func(k string) string {
			return "https://guangfu.bjx.com.cn/zb/search/?keyword=" + url.QueryEscape(k)
		},
		HrefPattern: regexp.MustCompile(`^https?://guangfu\.bjx\.com\.cn/zb/.+`),
		Limit:       8,
	},
	GGZY: {
		ID:   GGZY,
		Name: "全国公共资源交易平台",
		Kind: domain.RecordKindTender,
		SearchURL: func(k string) string {
			q := url.Values{}
			for _, key := range []string{
				"DEAL_TIME", "DEAL_CLASSIFY_ID", "DEAL_TYPE", "DEAL_PROVINCE", "DEAL_CITY",
				"DEAL_COUNTY", "DEAL_STAGE", "BID_SECTION_NAME", "TENDEREE", "AGENCY",
				"DEAL_CODE", "DEAL_CONTENT", "DEAL_AMOUNT_START", "DEAL_AMOUNT_END", "DEAL_STATUS",
			} {
				q.Set(key, "")
			}
			q.Set("DEAL_ISSHOW_INVALID", "1")
			q.Set("DEAL_NAME", k)
			q.Set("DEAL_FILED", "DEAL_TIME")
			q.Set("DEAL_SORT", "DESC")
			q.Set("PAGEINDEX", "1")
			q.Set("PAGESIZE", "10")
			return "https://deal.ggzy.gov.cn/ds/deal/dealList_find.jsp?" + q.Encode()
		},
		TitleAttr: true,
		Limit:     5,
	},
	PowerChina: {
		ID:   PowerChina,
		Name: "中国电建",
		Kind: domain.RecordKindTender,
		// column page, not a search; the keyword only filters anchors
		SearchURL: func(string) string {
			return "https://www.powerchina.cn/col/col5741/index.html"
		},
		Limit: 5,
	},
	BJXNews: {
		ID:   BJXNews,
		Name: "北极星光伏网",
		Kind: domain.RecordKindNews,
		SearchURL: func(k string) string {
			return "https://guangfu.bjx.com.cn/search/?keyword=" + url.QueryEscape(k) + "&type=news"
		},
		HrefPattern: regexp.MustCompile(`^https?://guangfu\.bjx\.com\.cn/news/\d+/\d+\.shtml$`),
		// the search page is already keyword-scoped, so long headlines pass too
		Accept: func(title, keyword string) bool {
			n := utf8.RuneCountInString(title)
			if n < 5 || n > 80 {
				return false
			}
			return containsKeyword(title, keyword) || n > 10
		},
		Limit: 8,
	},
	SolarBe: {
		ID:   SolarBe,
		Name: "索比光伏网",
		Kind: domain.RecordKindNews,
		SearchURL: func(k string) string {
			return "https://www.solarbe.com/search?q=" + url.QueryEscape(k) + "&type=news"
		},
		HrefPattern: regexp.MustCompile(`^https?://www\.solarbe\.com/.+`),
		Limit:       6,
	},
}

// registration order; scraped results are concatenated in this order
var order = []string{BidCenter, BJXTender, GGZY, PowerChina, BJXNews, SolarBe}

// Lookup returns the rule registered under id.
func Lookup(id string) (Rule, bool) {
	r, ok := rules[id]
	return r, ok
}

// IDs returns every known source id, sorted.
func IDs() []string {
	ids := make([]string, 0, len(rules))
	for id := range rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Build creates adapters for the enabled ids in registration order.
// Unknown ids are an error.
func Build(enabled []string, fetcher source.PageFetcher, snapshots source.SnapshotSink) ([]source.Adapter, error) {
	want := make(map[string]bool, len(enabled))
	for _, id := range enabled {
		if _, ok := rules[id]; !ok {
			return nil, fmt.Errorf("unknown source %q", id)
		}
		want[id] = true
	}

	var adapters []source.Adapter
	for _, id := range order {
		if want[id] {
			adapters = append(adapters, NewAdapter(rules[id], fetcher, snapshots))
		}
	}
	return adapters, nil
}
