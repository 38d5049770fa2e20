package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const metaSuffix = ".meta.json"

// Local stores objects on disk with a JSON metadata sidecar. URLs point at
// baseURL, which the API serves through Open.
type Local struct {
	dir     string
	baseURL string
}

// NewLocal creates dir if needed.
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create dir: %w", err)
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *Local) path(key string) string {
	return filepath.Join(l.dir, filepath.FromSlash(key))
}

// Put writes body and its metadata under key.
func (l *Local) Put(ctx context.Context, key string, body io.Reader, meta Metadata) error {
	if !validKey(key) {
		return fmt.Errorf("storage: invalid key %q", key)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p := l.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("storage: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close object: %w", err)
	}

	rawMeta, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("storage: encode metadata: %w", err)
	}
	if err := os.WriteFile(p+metaSuffix, rawMeta, 0o644); err != nil {
		return fmt.Errorf("storage: write metadata: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("storage: commit object: %w", err)
	}
	return nil
}

// URL returns baseURL/key with each segment escaped.
func (l *Local) URL(_ context.Context, key string) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	if _, err := os.Stat(l.path(key)); err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return l.baseURL + "/" + strings.Join(parts, "/"), nil
}

// Open returns the object under key with its metadata. The caller closes
// the reader.
func (l *Local) Open(key string) (io.ReadCloser, Metadata, error) {
	if !validKey(key) {
		return nil, Metadata{}, ErrNotFound
	}
	var meta Metadata
	raw, err := os.ReadFile(l.path(key) + metaSuffix)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Metadata{}, ErrNotFound
		}
		return nil, Metadata{}, err
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, Metadata{}, fmt.Errorf("storage: decode metadata: %w", err)
	}
	f, err := os.Open(l.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, Metadata{}, ErrNotFound
		}
		return nil, Metadata{}, err
	}
	return f, meta, nil
}
