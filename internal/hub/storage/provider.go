package storage

import (
	"context"
	"io"
	"time"
)

// Provider is the artifact archive used by snapshot-upload executions to
// park bulk files in object storage and hand out temporary download links.
type Provider interface {
	// EnsureBucket makes sure the configured bucket exists (startup check).
	EnsureBucket(ctx context.Context) error

	// Upload stores an object under the given key.
	Upload(ctx context.Context, objectKey string, r io.Reader, size int64, contentType string) error

	// PresignedGetURL generates a signed, time-limited download link.
	PresignedGetURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
}
