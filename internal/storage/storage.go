// Package storage uploads binary objects (résumés) and resolves durable
// download URLs for them.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

// ErrNotFound reports a missing object.
var ErrNotFound = errors.New("object not found")

// Metadata travels with an uploaded object.
type Metadata struct {
	ContentType        string `json:"contentType"`
	ContentDisposition string `json:"contentDisposition"`
}

// ObjectStore is the upload side of an object storage backend.
type ObjectStore interface {
	// Put uploads body under key.
	Put(ctx context.Context, key string, body io.Reader, meta Metadata) error
	// URL resolves a retrievable reference to the object under key.
	URL(ctx context.Context, key string) (string, error)
}

func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}
