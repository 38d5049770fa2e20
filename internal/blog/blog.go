// Package blog resolves the visitor's selected blog record from the record
// cache and renders its rich-text description safely.
package blog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound reports that the selected title has no cached record.
var ErrNotFound = errors.New("blog not found")

// Cache keys read by the resolver.
const (
	SelectedTitleKey = "selectedBlogTitle"
	RecordsKey       = "blogs"
)

// Record is a blog entry as cached by the listing screen.
type Record struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Cover       string `json:"cover"`
}

// Provider is a read-only lookup-by-key data source.
type Provider interface {
	Lookup(ctx context.Context, key string) (string, bool, error)
}

// Resolver finds the selected record.
type Resolver struct{}

// Resolve reads the selected title from local and the cached records from
// session, and returns the record whose title matches exactly. A missing or
// unreadable record list counts as empty.
func (Resolver) Resolve(ctx context.Context, local, session Provider) (Record, error) {
	title, ok, err := local.Lookup(ctx, SelectedTitleKey)
	if err != nil {
		return Record{}, fmt.Errorf("lookup selected title: %w", err)
	}
	if !ok {
		return Record{}, ErrNotFound
	}

	raw, ok, err := session.Lookup(ctx, RecordsKey)
	if err != nil {
		return Record{}, fmt.Errorf("lookup blogs: %w", err)
	}
	if !ok {
		return Record{}, ErrNotFound
	}

	var records []Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return Record{}, ErrNotFound
	}
	for _, r := range records {
		if r.Title == title {
			return r, nil
		}
	}
	return Record{}, ErrNotFound
}
