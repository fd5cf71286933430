// Package storage keeps generated artifacts (invoice PDFs, statistics SVGs) under
// slash-separated keys such as "invoices/7.pdf".
package storage

import (
	"context"
	"errors"
	"log/slog"
)

// ErrNotExist is returned when no artifact is stored under a key.
var ErrNotExist = errors.New("artifact does not exist")

// Store persists artifacts by key.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Mirrored writes to a primary store and copies every change to a mirror. Reads are
// served by the primary. Mirror failures are logged and never fail the call.
type Mirrored struct {
	Primary Store
	Mirror  Store
}

func (m *Mirrored) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := m.Primary.Put(ctx, key, data, contentType); err != nil {
		return err
	}
	if err := m.Mirror.Put(ctx, key, data, contentType); err != nil {
		slog.Warn("Artifact mirror upload failed", "key", key, "error", err)
	}
	return nil
}

func (m *Mirrored) Get(ctx context.Context, key string) ([]byte, error) {
	return m.Primary.Get(ctx, key)
}

func (m *Mirrored) Delete(ctx context.Context, key string) error {
	err := m.Primary.Delete(ctx, key)
	if mErr := m.Mirror.Delete(ctx, key); mErr != nil && !errors.Is(mErr, ErrNotExist) {
		slog.Warn("Artifact mirror delete failed", "key", key, "error", mErr)
	}
	return err
}
