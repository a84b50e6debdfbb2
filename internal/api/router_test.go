package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/timmy/pvhub/internal/api/middleware"
	"github.com/timmy/pvhub/internal/config"
	"github.com/timmy/pvhub/internal/repository"
	"github.com/timmy/pvhub/internal/service"
)

const testToken = "s3cret"

type fakeRunner struct {
	result service.RunResult
	err    error
	calls  []service.Trigger
}

func (f *fakeRunner) Run(_ context.Context, trigger service.Trigger) (service.RunResult, error) {
	f.calls = append(f.calls, trigger)
	return f.result, f.err
}

type fakeLLM struct {
	content string
}

func (f *fakeLLM) Invoke(context.Context, service.ChatRequest) (*service.ChatResponse, error) {
	resp := &service.ChatResponse{Choices: make([]service.ChatChoice, 1)}
	resp.Choices[0].Message.Content = f.content
	return resp, nil
}

func newTestRouter(t *testing.T, runner *fakeRunner) *gin.Engine {
	t.Helper()
	db, err := repository.InitDB(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         ":memory:",
		MaxOpenConns: 1,
		AutoMigrate:  true,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { sqlDB.Close() })

	manufacturers := repository.NewManufacturerRepository(db)
	content := service.NewContentService(
		repository.NewNewsRepository(db),
		repository.NewTenderRepository(db),
		manufacturers,
		repository.NewJobLogRepository(db),
		service.ContentServiceConfig{},
	)
	catalog := service.NewCatalogService(
		manufacturers,
		repository.NewEfficiencyRepository(db),
		repository.NewPaperRepository(db),
		repository.NewPatentRepository(db),
	)
	summary := service.NewSummaryService(&fakeLLM{content: `{"summary":"钙钛矿组件效率创新高","keywords":["钙钛矿","效率"]}`})

	return SetupRouter(Dependencies{
		Content: content,
		Catalog: catalog,
		Summary: summary,
		Runner:  runner,
		DB:      sqlDB,
	}, &config.ServerConfig{Mode: "test", AdminToken: testToken})
}

func do(t *testing.T, r http.Handler, method, path, body string, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, &fakeRunner{})
	w := do(t, r, http.MethodGet, "/health", "", false)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t, &fakeRunner{})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusForbidden},
		{"right token", "Bearer " + testToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/jobs", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestTriggerFetch(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		runner := &fakeRunner{result: service.RunResult{NewsCount: 2, TenderCount: 1}}
		r := newTestRouter(t, runner)

		w := do(t, r, http.MethodPost, "/api/v1/admin/fetch", "", true)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		var resp struct {
			Success     bool `json:"success"`
			NewsCount   int  `json:"newsCount"`
			TenderCount int  `json:"tenderCount"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !resp.Success || resp.NewsCount != 2 || resp.TenderCount != 1 {
			t.Errorf("response = %+v", resp)
		}
		if len(runner.calls) != 1 || runner.calls[0] != service.TriggerManual {
			t.Errorf("runner calls = %v, want one manual run", runner.calls)
		}
	})

	t.Run("failure", func(t *testing.T) {
		runner := &fakeRunner{err: errors.New("ingestion panicked: boom")}
		r := newTestRouter(t, runner)

		w := do(t, r, http.MethodPost, "/api/v1/admin/fetch", "", true)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", w.Code)
		}
		if !strings.Contains(w.Body.String(), "boom") {
			t.Errorf("body = %s, want error message", w.Body.String())
		}

		status := do(t, r, http.MethodGet, "/api/v1/admin/scheduler", "", true)
		if !strings.Contains(status.Body.String(), "failed: ingestion panicked") {
			t.Errorf("scheduler status = %s, want last failure", status.Body.String())
		}
		if !strings.Contains(status.Body.String(), `"state":"idle"`) {
			t.Errorf("scheduler status = %s, want idle timer", status.Body.String())
		}
	})
}

func TestNewsLifecycle(t *testing.T) {
	r := newTestRouter(t, &fakeRunner{})

	w := do(t, r, http.MethodPost, "/api/v1/admin/news",
		`{"title":"钙钛矿叠层电池效率突破","category":"research","isImportant":true}`, true)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created struct {
		ID       uint   `json:"id"`
		Category string `json:"category"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == 0 || created.Category != "research" {
		t.Fatalf("created = %+v", created)
	}

	w = do(t, r, http.MethodGet, "/api/v1/news/latest", "", false)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "钙钛矿叠层电池效率突破") {
		t.Errorf("latest = %d %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodGet, "/api/v1/news?category=research", "", false)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"total":1`) {
		t.Errorf("list = %d %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodGet, "/api/v1/search?q="+url.QueryEscape("叠层"), "", false)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "钙钛矿叠层电池效率突破") {
		t.Errorf("search = %d %s", w.Code, w.Body.String())
	}

	itemPath := fmt.Sprintf("/news/%d", created.ID)
	w = do(t, r, http.MethodDelete, "/api/v1/admin"+itemPath, "", true)
	if w.Code != http.StatusOK {
		t.Errorf("delete status = %d", w.Code)
	}
	w = do(t, r, http.MethodGet, "/api/v1"+itemPath, "", false)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", w.Code)
	}
}

func TestBadRequests(t *testing.T) {
	r := newTestRouter(t, &fakeRunner{})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		admin  bool
		want   int
	}{
		{"bad id", http.MethodGet, "/api/v1/news/abc", "", false, http.StatusBadRequest},
		{"zero id", http.MethodGet, "/api/v1/tenders/0", "", false, http.StatusBadRequest},
		{"missing tender", http.MethodGet, "/api/v1/tenders/42", "", false, http.StatusNotFound},
		{"unknown category", http.MethodGet, "/api/v1/news?category=gossip", "", false, http.StatusBadRequest},
		{"bad page", http.MethodGet, "/api/v1/news?page=x", "", false, http.StatusBadRequest},
		{"bad date", http.MethodGet, "/api/v1/news?fromDate=March", "", false, http.StatusBadRequest},
		{"blank search", http.MethodGet, "/api/v1/search?q=", "", false, http.StatusBadRequest},
		{"news without title", http.MethodPost, "/api/v1/admin/news", `{"summary":"x"}`, true, http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/api/v1/admin/tenders", `{`, true, http.StatusBadRequest},
		{"update missing news", http.MethodPut, "/api/v1/admin/news/9", `{"title":"t"}`, true, http.StatusNotFound},
		{"unknown stage", http.MethodGet, "/api/v1/manufacturers?stage=ipo", "", false, http.StatusBadRequest},
		{"missing manufacturer", http.MethodGet, "/api/v1/manufacturers/3", "", false, http.StatusNotFound},
		{"unknown cell type", http.MethodGet, "/api/v1/efficiency?cellType=dye", "", false, http.StatusBadRequest},
		{"bad paper offset", http.MethodGet, "/api/v1/tech/papers?offset=x", "", false, http.StatusBadRequest},
		{"missing paper", http.MethodGet, "/api/v1/tech/papers/5", "", false, http.StatusNotFound},
		{"unknown patent status", http.MethodGet, "/api/v1/tech/patents?status=lapsed", "", false, http.StatusBadRequest},
		{"missing patent", http.MethodGet, "/api/v1/tech/patents/5", "", false, http.StatusNotFound},
		{"short summary content", http.MethodPost, "/api/v1/news/summary", `{"title":"t","content":"太短"}`, false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, tt.method, tt.path, tt.body, tt.admin)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d, body = %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestGenerateSummary(t *testing.T) {
	r := newTestRouter(t, &fakeRunner{})

	body, _ := json.Marshal(map[string]string{
		"title":   "钙钛矿组件效率创新高",
		"content": strings.Repeat("钙钛矿光伏组件在第三方认证中取得了新的转换效率纪录。", 5),
	})
	w := do(t, r, http.MethodPost, "/api/v1/news/summary", string(body), false)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var out service.NewsSummary
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Summary == "" || len(out.Keywords) != 2 {
		t.Errorf("summary = %+v", out)
	}
}

func TestStats(t *testing.T) {
	r := newTestRouter(t, &fakeRunner{})

	do(t, r, http.MethodPost, "/api/v1/admin/tenders", `{"title":"某钙钛矿中试线EPC招标"}`, true)
	w := do(t, r, http.MethodGet, "/api/v1/stats", "", false)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	for _, want := range []string{`"tenderCount":1`, `"manufacturerCount":0`} {
		if !strings.Contains(w.Body.String(), want) {
			t.Errorf("stats = %s, want %s", w.Body.String(), want)
		}
	}
}

func TestEfficiencyEndpoints(t *testing.T) {
	r := newTestRouter(t, &fakeRunner{})

	if w := do(t, r, http.MethodPost, "/api/v1/admin/efficiency/seed", "", false); w.Code != http.StatusUnauthorized {
		t.Fatalf("seed without token = %d, want 401", w.Code)
	}
	w := do(t, r, http.MethodPost, "/api/v1/admin/efficiency/seed", "", true)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"success":true`) {
		t.Fatalf("seed = %d %s", w.Code, w.Body.String())
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"list by type", "/api/v1/efficiency?cellType=flexible", `"institution":"KAUST"`},
		{"current", "/api/v1/efficiency/current", `"efficiency":34.6`},
		{"chart", "/api/v1/efficiency/chart", `"efficiency":9.7`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodGet, tt.path, "", false)
			if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("GET %s = %d %s, want %s", tt.path, w.Code, w.Body.String(), tt.want)
			}
		})
	}
}

func TestCatalogListsStartEmpty(t *testing.T) {
	r := newTestRouter(t, &fakeRunner{})

	for _, path := range []string{"/api/v1/manufacturers", "/api/v1/tech/papers", "/api/v1/tech/patents"} {
		t.Run(path, func(t *testing.T) {
			w := do(t, r, http.MethodGet, path, "", false)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			if want := `{"items":[],"total":0}`; w.Body.String() != want {
				t.Errorf("body = %s, want %s", w.Body.String(), want)
			}
		})
	}

	w := do(t, r, http.MethodGet, "/api/v1/search?q="+url.QueryEscape("钙钛矿"), "", false)
	if !strings.Contains(w.Body.String(), `"manufacturers":[]`) {
		t.Errorf("search = %s, want empty manufacturers", w.Body.String())
	}
}
