package source

import (
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a reference points at nothing.
var ErrNotFound = errors.New("source: not found")

// ErrTooLarge is returned when content exceeds the loader's size limit.
var ErrTooLarge = errors.New("source: content too large")

// Store opens the bytes behind a reference.
// Implement this interface to read from other backends.
type Store interface {
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

// DiskStore reads files, resolving relative paths against a root directory.
type DiskStore struct {
	root string
}

// NewDiskStore creates a DiskStore. An empty root means the working
// directory.
func NewDiskStore(root string) *DiskStore {
	return &DiskStore{root: root}
}

// Open opens the file at ref.
func (s *DiskStore) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	path := ref
	if s.root != "" && !filepath.IsAbs(path) {
		path = filepath.Join(s.root, path)
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// IsS3 reports whether ref is an s3:// URI.
func IsS3(ref string) bool {
	return strings.HasPrefix(ref, "s3://")
}

// ParseS3 splits s3://bucket/key into bucket and key.
func ParseS3(ref string) (bucket, key string, err error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", errors.New("source: expected s3://bucket/key")
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", errors.New("source: missing object key")
	}
	return u.Host, key, nil
}
