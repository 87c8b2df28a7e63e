// Package storage keeps the photos customers attach to their orders.
package storage

import (
	"context"
	"io"
)

// Upload is a photo received from a client
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// PhotoStorage stores order photos and hands back the reference kept on the order.
// For local storage the reference is a path under the public prefix
// (/uploads/photos/<name>); for S3 it is the public URL or the object key.
type PhotoStorage interface {
	// Save validates and stores a photo, returning its reference
	Save(ctx context.Context, upload Upload) (string, error)

	// Open streams a stored photo back, used when forwarding photos to Telegram
	Open(ctx context.Context, ref string) (io.ReadCloser, error)

	// Delete removes a stored photo; unknown references are not an error
	Delete(ctx context.Context, ref string) error
}
