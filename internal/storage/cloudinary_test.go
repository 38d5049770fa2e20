package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudinaryPut(t *testing.T) {
	var gotFields map[string]string
	var gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1_1/demo/raw/upload", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		gotFields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotFields[k] = v[0]
		}
		f, _, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			http.Error(w, "no file", http.StatusBadRequest)
			return
		}
		b, _ := io.ReadAll(f)
		gotFile = string(b)
		_ = json.NewEncoder(w).Encode(UploadResult{PublicID: gotFields["public_id"], ResourceType: "raw"})
	}))
	defer srv.Close()

	c := NewCloudinary("demo", "key", "secret", "careers")
	c.APIBase = srv.URL
	c.Now = func() time.Time { return time.Unix(1700000000, 0) }

	meta := Metadata{ContentType: "application/pdf", ContentDisposition: `inline; filename="a@x.com-resume.pdf"`}
	require.NoError(t, c.Put(context.Background(), "resumes/a@x.com-1.pdf", strings.NewReader("%PDF-1.7"), meta))

	assert.Equal(t, "%PDF-1.7", gotFile)
	assert.Equal(t, "careers/resumes/a@x.com-1.pdf", gotFields["public_id"])
	assert.Equal(t, "1700000000", gotFields["timestamp"])
	assert.Equal(t, `content_type\=application/pdf|content_disposition\=inline; filename\="a@x.com-resume.pdf"`, gotFields["context"])

	expected := c.sign(map[string]string{
		"timestamp": "1700000000",
		"public_id": "careers/resumes/a@x.com-1.pdf",
		"context":   gotFields["context"],
	})
	assert.Equal(t, expected, gotFields["signature"])

	url, err := c.URL(context.Background(), "resumes/a@x.com-1.pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/raw/upload/careers/resumes/a@x.com-1.pdf", url)
}

func TestCloudinaryPutError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"Invalid Signature"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewCloudinary("demo", "key", "secret", "")
	c.APIBase = srv.URL
	err := c.Put(context.Background(), "resumes/a.pdf", strings.NewReader("%PDF"), Metadata{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSignIgnoresExcludedKeys(t *testing.T) {
	c := &Cloudinary{APISecret: "s"}
	a := c.sign(map[string]string{"timestamp": "1", "api_key": "k1"})
	b := c.sign(map[string]string{"timestamp": "1", "api_key": "k2", "resource_type": "raw"})
	assert.Equal(t, a, b)
}
