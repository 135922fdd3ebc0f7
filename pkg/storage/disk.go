// Package storage is the file store behind exported CSV documents.
//
// Two drivers are available:
//   - "local": local filesystem (default), served under /dashboard/exports
//   - "s3": S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Boot once at startup and pick a disk:
//
//	storage.Connect()
//	url, err := csvexport.Archive(ctx, storage.Default(), rec, "data-SKU-12345")
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned by Get and Open for missing paths.
var ErrNotFound = errors.New("storage: file not found")

// Disk is the driver interface. Paths are slash separated and relative to the
// disk root.
type Disk interface {
	// Put writes content to path, creating parents as needed.
	Put(ctx context.Context, path string, content []byte, contentType string) error

	// Get returns the full content of path.
	Get(ctx context.Context, path string) ([]byte, error)

	// Open streams path. Caller must close it.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	Exists(ctx context.Context, path string) bool

	// LastModified returns the file's last-modified time.
	LastModified(ctx context.Context, path string) (time.Time, error)

	// URL returns the public URL for path.
	URL(path string) string

	// Delete removes path. Missing files are not an error.
	Delete(ctx context.Context, path string) error

	// AllFiles lists every file under directory, recursively.
	AllFiles(ctx context.Context, directory string) ([]string, error)
}

// Prune deletes files under directory last modified before cutoff and returns
// how many were removed.
func Prune(ctx context.Context, d Disk, directory string, cutoff time.Time) (int, error) {
	files, err := d.AllFiles(ctx, directory)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, f := range files {
		mod, err := d.LastModified(ctx, f)
		if err != nil || !mod.Before(cutoff) {
			continue
		}
		if err := d.Delete(ctx, f); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
