package cookies

import (
	"context"
	"errors"
)

// ErrStoreClosed is returned by stores used after Close.
var ErrStoreClosed = errors.New("cookie store is closed")

// Store persists cookies between runs.
type Store interface {
	// Put inserts or replaces the cookie keyed by domain, path and name.
	Put(ctx context.Context, c *Cookie) error

	// List returns unexpired cookies, all domains when domain is empty.
	List(ctx context.Context, domain string) ([]*Cookie, error)

	Delete(ctx context.Context, domain, path, name string) error
	Clear(ctx context.Context) error
	Close() error
}
