// Package metadata is the client's local key/value store. The CLI keeps the
// signed-in session (token and e-mail) here between runs.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeyToken = "token"
	KeyEmail = "email"
)

// Repository stores opaque values by key. Get returns (nil, nil) for an
// absent key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}
