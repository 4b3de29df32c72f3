package cartstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dukerupert/storefront/internal/cart"
	"github.com/dukerupert/storefront/internal/storage"
	"github.com/google/uuid"
)

// envelope wraps a persisted guest cart with the time it was written.
type envelope struct {
	SavedAt time.Time       `json:"savedAt"`
	Cart    json.RawMessage `json:"cart"`
}

// readGuestCart loads the persisted guest cart. A missing, expired or
// undecodable snapshot yields an empty cart; only storage failures are
// errors. Expired and undecodable snapshots are removed.
func (s *Store) readGuestCart(ctx context.Context) (cart.Cart, []cart.DroppedItem, error) {
	data, err := s.read(ctx, cart.StorageKeyCart)
	if err != nil || data == nil {
		return cart.NewEmptyCart(), nil, err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || len(env.Cart) == 0 {
		s.logger.Warn("discarding unreadable cart snapshot", "error", err)
		return cart.NewEmptyCart(), nil, s.storage.Delete(ctx, cart.StorageKeyCart)
	}

	if s.ttl > 0 && s.now().Sub(env.SavedAt) > s.ttl {
		s.logger.Info("guest cart snapshot expired", "saved_at", env.SavedAt, "ttl", s.ttl)
		return cart.NewEmptyCart(), nil, s.storage.Delete(ctx, cart.StorageKeyCart)
	}

	c, dropped, err := cart.ParseSnapshot(env.Cart)
	if err != nil {
		s.logger.Warn("discarding unreadable cart snapshot", "error", err)
		return cart.NewEmptyCart(), nil, s.storage.Delete(ctx, cart.StorageKeyCart)
	}
	return c, dropped, nil
}

func (s *Store) writeGuestCart(ctx context.Context, c cart.Cart) error {
	data, err := cart.Snapshot(c)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(envelope{SavedAt: s.now().UTC(), Cart: data})
	if err != nil {
		return fmt.Errorf("failed to encode snapshot envelope: %w", err)
	}
	return s.storage.Put(ctx, cart.StorageKeyCart, bytes.NewReader(payload))
}

// guestIdentity returns the pinned or persisted guest session ID, creating
// one on first use.
func (s *Store) guestIdentity(ctx context.Context) (string, error) {
	if s.fixedGuest != "" {
		return s.fixedGuest, nil
	}
	data, err := s.read(ctx, cart.StorageKeyGuestID)
	if err != nil {
		return "", err
	}
	if id := strings.TrimSpace(string(data)); id != "" {
		return id, nil
	}

	id := uuid.NewString()
	if err := s.storage.Put(ctx, cart.StorageKeyGuestID, strings.NewReader(id)); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) readSyncStatus(ctx context.Context) cart.SyncStatus {
	data, err := s.read(ctx, cart.StorageKeySyncStatus)
	if err != nil {
		return cart.SyncIdle
	}
	status := cart.SyncStatus(strings.TrimSpace(string(data)))
	if !status.Valid() {
		return cart.SyncIdle
	}
	return status
}

func (s *Store) writeSyncStatus(ctx context.Context, status cart.SyncStatus) error {
	return s.storage.Put(ctx, cart.StorageKeySyncStatus, strings.NewReader(string(status)))
}

// read returns the value under key, or nil when the key is absent.
func (s *Store) read(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.storage.Get(ctx, key)
	if storage.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}
