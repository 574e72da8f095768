// Package storage keeps uploaded media (menu item images) on a local
// directory or an S3-compatible bucket, chosen by STORAGE_DISK.
//
//	path := storage.ItemImagePath(item.ID, header.Filename)
//	err  := storage.Default().Put(ctx, path, file, header.Header.Get("Content-Type"))
//	url  := storage.URL(path)
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotExist = errors.New("storage: file does not exist")

// Disk is a flat key/value file store addressed by slash-separated paths.
type Disk interface {
	Put(ctx context.Context, path string, r io.Reader, contentType string) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Exists(ctx context.Context, path string) bool
	// Delete is a no-op for a missing path.
	Delete(ctx context.Context, path string) error
	URL(path string) string
}
