package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Archiver stores the raw HTML of scraped pages under
// prefix/sourceID/YYYY-MM-DD/<uuid>.html so markup drift can be inspected later.
type Archiver struct {
	store  ObjectStore
	prefix string
	now    func() time.Time
}

// NewArchiver creates an Archiver writing under prefix.
func NewArchiver(store ObjectStore, prefix string) *Archiver {
	return &Archiver{store: store, prefix: strings.Trim(prefix, "/"), now: time.Now}
}

// SaveSnapshot writes body as a new snapshot of sourceID.
func (a *Archiver) SaveSnapshot(ctx context.Context, sourceID string, body []byte) error {
	key := path.Join(a.dayPrefix(sourceID, a.now()), uuid.New().String()+".html")
	if err := a.store.Put(ctx, key, bytes.NewReader(body), int64(len(body)), "text/html; charset=utf-8"); err != nil {
		return fmt.Errorf("failed to archive snapshot of %s: %w", sourceID, err)
	}
	return nil
}

// ListSnapshots returns the snapshot keys of sourceID taken on day (UTC).
func (a *Archiver) ListSnapshots(ctx context.Context, sourceID string, day time.Time) ([]string, error) {
	keys, err := a.store.List(ctx, a.dayPrefix(sourceID, day)+"/")
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// ReadSnapshot returns the archived body stored at key.
func (a *Archiver) ReadSnapshot(ctx context.Context, key string) ([]byte, error) {
	rc, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (a *Archiver) dayPrefix(sourceID string, t time.Time) string {
	return path.Join(a.prefix, sourceID, t.UTC().Format("2006-01-02"))
}
