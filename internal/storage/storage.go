// Package storage provides the durable key-value store the cart and
// wishlist persist into. Implementations keep no knowledge of what the
// values mean; they move opaque byte strings under fixed keys.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when the key has never been written
// or has been removed.
var ErrNotFound = errors.New("storage: key not found")

// Store is a string key-value store scoped to one shopper's device or
// profile. Consumers define this interface, not the backends.
type Store interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
