package meta

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zymo/internal/blog"
)

func TestCareerPage(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	p := c.Career()
	assert.Equal(t, "https://zymo.app/career", p.Canonical)
	assert.Equal(t, p.Title, p.OGTitle)
	assert.True(t, strings.HasPrefix(p.Description, "Join Zymo"))
	assert.True(t, strings.HasPrefix(p.OGDescription, "Looking for a rewarding career?"))
}

func TestBlogDetailPage(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	long := strings.Repeat("a", 200)
	p := c.BlogDetail(blog.Record{Title: "Goa & back", Description: "<p>" + long + "</p>"})

	assert.Equal(t, "Goa & back - Zymo Blog", p.Title)
	assert.Equal(t, p.Title, p.OGTitle)
	assert.Equal(t, strings.Repeat("a", 150)+"...", p.Description)
	assert.Equal(t, long, p.OGDescription)
	assert.Equal(t, "https://zymo.app/blogs/Goa%20%26%20back", p.Canonical)
}

func TestBlogDetailCanonicalKeepsComponentMarks(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	p := c.BlogDetail(blog.Record{Title: "Road Trip (2024)!", Description: "x"})
	assert.Equal(t, "https://zymo.app/blogs/Road%20Trip%20(2024)!", p.Canonical)

	p = c.BlogDetail(blog.Record{Title: "Ooty/Kodai? *yes* it's 100% café", Description: "x"})
	assert.Equal(t, "https://zymo.app/blogs/Ooty%2FKodai%3F%20*yes*%20it's%20100%25%20caf%C3%A9", p.Canonical)
}

func TestBlogDetailFallback(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Blog Details - Zymo", c.BlogDetail(blog.Record{}).Title)
}

func TestParseRejectsIncompleteCatalog(t *testing.T) {
	_, err := Parse([]byte("base_url: https://x\npages:\n  career:\n    title: c\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("pages: {}"))
	assert.Error(t, err)

	_, err = Parse([]byte(":\n\t- nope"))
	assert.Error(t, err)
}
