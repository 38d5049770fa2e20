package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPutOpenURL(t *testing.T) {
	l, err := NewLocal(t.TempDir(), "http://localhost:8081/files/")
	require.NoError(t, err)
	ctx := context.Background()

	meta := Metadata{ContentType: "application/pdf", ContentDisposition: `inline; filename="cv.pdf"`}
	require.NoError(t, l.Put(ctx, "resumes/cv-1.pdf", strings.NewReader("%PDF-1.4 body"), meta))

	url, err := l.URL(ctx, "resumes/cv-1.pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8081/files/resumes/cv-1.pdf", url)

	rc, gotMeta, err := l.Open("resumes/cv-1.pdf")
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(body))
	assert.Equal(t, meta, gotMeta)
}

func TestLocalRejectsTraversal(t *testing.T) {
	l, err := NewLocal(t.TempDir(), "http://x")
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", "/etc/passwd", "../escape.pdf", "resumes/../../x", "a//b"} {
		assert.Error(t, l.Put(ctx, key, strings.NewReader("x"), Metadata{}), key)
		_, _, err := l.Open(key)
		assert.ErrorIs(t, err, ErrNotFound, key)
	}
}

func TestLocalMissingObject(t *testing.T) {
	l, err := NewLocal(t.TempDir(), "http://x")
	require.NoError(t, err)

	_, err = l.URL(context.Background(), "resumes/none.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = l.Open("resumes/none.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}
