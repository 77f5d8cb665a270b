package serializer

import "context"

// Serializer writes a value somewhere.
type Serializer interface {
	Serialize(ctx context.Context, v any) error
}

// Closer releases resources held by a Serializer.
type Closer interface {
	Close() error
}
