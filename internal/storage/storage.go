// Package storage holds the object storage abstraction used for car listing
// images. Implementations stream content straight to an S3-compatible
// backend; no local disk is involved.
package storage

import (
	"context"
	"io"
	"time"
)

// PutObjectOptions define optional parameters for uploading an image.
// Size should be the exact byte count if known; -1 lets the backend
// buffer/chunk as it supports.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored image object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// Storage is an S3-compatible object store for listing images. Safe for
// concurrent use.
type Storage interface {
	// Put uploads an object under the given key from the provided reader.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL from which the image can be
	// fetched without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
