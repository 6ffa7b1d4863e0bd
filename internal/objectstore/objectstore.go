package objectstore

import "context"

// Client persists uploaded images under opaque keys.
type Client interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}
