package storage

import (
	"context"
	"strings"

	"github.com/timmy/pvhub/internal/config"
)

// NewArchiverFromConfig builds the snapshot archive described by cfg and
// makes sure its bucket exists. It returns nil when snapshots are disabled.
func NewArchiverFromConfig(ctx context.Context, cfg *config.SnapshotConfig) (*Archiver, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	store, err := NewS3Store(&S3Config{
		Type:      detectStorageType(cfg.Endpoint),
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		UseSSL:    cfg.UseSSL,
		Bucket:    cfg.Bucket,
		Region:    cfg.Region,
	})
	if err != nil {
		return nil, err
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return NewArchiver(store, cfg.Prefix), nil
}

// detectStorageType guesses the provider from the endpoint host.
func detectStorageType(endpoint string) StorageType {
	endpoint = strings.ToLower(endpoint)

	switch {
	case strings.Contains(endpoint, "r2.cloudflarestorage.com"):
		return StorageTypeR2
	case strings.Contains(endpoint, "amazonaws.com"), endpoint == "":
		return StorageTypeS3
	default:
		return StorageTypeS3Compatible
	}
}
