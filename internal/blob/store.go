// Package blob stores file ciphertext outside the database. The vault only
// ever writes encrypted bytes here, so the store needs no trust beyond
// availability.
package blob

import "context"

// Store is a ciphertext blob store keyed by opaque string keys.
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
