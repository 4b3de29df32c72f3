package storage

import (
	"context"
	"io"
	"strings"
)

// Storage persists opaque blobs by key. The cart store keeps guest cart
// snapshots here; it plays the part browser local storage plays for the
// web storefront.
type Storage interface {
	// Put stores content under key, replacing any previous value.
	Put(ctx context.Context, key string, content io.Reader) error

	// Get returns the content stored under key. The caller must close it.
	// Returns a not_found StorageError when the key is absent.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether key holds a value.
	Exists(ctx context.Context, key string) (bool, error)
}

// Config selects a Storage backend.
type Config struct {
	Provider  string // "local" or "memory"
	LocalPath string
}

// New creates the Storage named by cfg.Provider.
func New(cfg Config) (Storage, error) {
	switch cfg.Provider {
	case "local", "":
		local, err := NewLocalStorage(cfg.LocalPath)
		if err != nil {
			return nil, err
		}
		return local, nil
	case "memory":
		return NewMemoryStorage(), nil
	default:
		return nil, ErrUnknownProvider(cfg.Provider)
	}
}

// validKey rejects keys that could escape the storage root.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}
