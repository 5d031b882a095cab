// Package storage is the local-storage analogue: a tiny string-keyed blob
// port the cart and auth session persist through, so the core stays testable
// without a real browser storage behind it.
package storage

import (
	"context"
	"errors"
)

// Store persists raw values under string keys. Save replaces the whole value,
// mirroring how the web client rewrites localStorage entries wholesale.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("storage: key not found")
