package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/timmy/pvhub/internal/domain"
	"github.com/timmy/pvhub/internal/source"
)

var fixedNow = time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// fakeLLM answers by schema name and records every request.
type fakeLLM struct {
	mu        sync.Mutex
	responses map[string]string
	err       error
	requests  []ChatRequest
}

func (f *fakeLLM) Invoke(_ context.Context, req ChatRequest) (*ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	name := ""
	if req.Schema != nil {
		name = req.Schema.Name
	}
	resp := &ChatResponse{}
	if content, ok := f.responses[name]; ok {
		resp.Choices = []ChatChoice{{}}
		resp.Choices[0].Message.Content = content
	}
	return resp, nil
}

func (f *fakeLLM) calls(schema string) []ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ChatRequest
	for _, r := range f.requests {
		if r.Schema != nil && r.Schema.Name == schema {
			out = append(out, r)
		}
	}
	return out
}

type fakeAdapter struct {
	id    string
	kind  domain.RecordKind
	items []source.RawItem
	err   error
	panic bool
}

func (a *fakeAdapter) GetSourceID() string     { return a.id }
func (a *fakeAdapter) GetDisplayName() string  { return a.id }
func (a *fakeAdapter) Kind() domain.RecordKind { return a.kind }

func (a *fakeAdapter) Scrape(context.Context, string) ([]source.RawItem, error) {
	if a.panic {
		panic("scraper exploded")
	}
	return a.items, a.err
}

// memStore is an in-memory NewsStore and TenderStore with injectable errors.
type memStore struct {
	mu         sync.Mutex
	existing   []string
	news       []*domain.News
	tenders    []*domain.Tender
	existsErr  error
	createErr  error
	failTitles map[string]bool
}

func (s *memStore) ExistsByTitlePrefix(_ context.Context, title string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.existsErr != nil {
		return false, s.existsErr
	}
	prefix := []rune(title)
	if len(prefix) > 20 {
		prefix = prefix[:20]
	}
	for _, t := range s.existing {
		if strings.Contains(t, string(prefix)) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) create(title string) error {
	if s.createErr != nil {
		return s.createErr
	}
	if s.failTitles[title] {
		return errors.New("constraint violation")
	}
	s.existing = append(s.existing, title)
	return nil
}

func (s *memStore) Create(_ context.Context, item *domain.News) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.create(item.Title); err != nil {
		return err
	}
	s.news = append(s.news, item)
	return nil
}

type memTenderStore struct{ *memStore }

func (s memTenderStore) Create(_ context.Context, item *domain.Tender) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.create(item.Title); err != nil {
		return err
	}
	s.tenders = append(s.tenders, item)
	return nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent [][2]string
	err  error
}

func (n *recordingNotifier) NotifyOwner(_ context.Context, title, content string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, [2]string{title, content})
	return n.err
}
