package storage

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Cloudinary uploads objects as raw resources through the Cloudinary REST
// API. The object key becomes the public id, so delivery URLs are derived
// from the key alone.
type Cloudinary struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	APIBase   string
	CDNBase   string
	HTTP      *http.Client
	Now       func() time.Time
}

// NewCloudinary creates a Cloudinary backend.
func NewCloudinary(cloudName, apiKey, apiSecret, folder string) *Cloudinary {
	return &Cloudinary{
		CloudName: cloudName,
		APIKey:    apiKey,
		APISecret: apiSecret,
		Folder:    strings.Trim(folder, "/"),
		APIBase:   "https://api.cloudinary.com",
		CDNBase:   "https://res.cloudinary.com",
		HTTP:      &http.Client{Timeout: 30 * time.Second},
		Now:       time.Now,
	}
}

// UploadResult holds the response from Cloudinary after a successful upload.
type UploadResult struct {
	PublicID     string `json:"public_id"`
	SecureURL    string `json:"secure_url"`
	ResourceType string `json:"resource_type"`
	Bytes        int    `json:"bytes"`
}

func (c *Cloudinary) publicID(key string) string {
	if c.Folder == "" {
		return key
	}
	return path.Join(c.Folder, key)
}

// Put uploads body as a raw resource with key as its public id. Content
// type and disposition are kept as contextual metadata on the asset.
func (c *Cloudinary) Put(ctx context.Context, key string, body io.Reader, meta Metadata) error {
	if !validKey(key) {
		return fmt.Errorf("cloudinary: invalid key %q", key)
	}
	params := map[string]string{
		"timestamp": strconv.FormatInt(c.Now().Unix(), 10),
		"api_key":   c.APIKey,
		"public_id": c.publicID(key),
		"context":   contextParam(meta),
	}
	params["signature"] = c.sign(params)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range params {
		_ = w.WriteField(k, v)
	}
	part, err := w.CreateFormFile("file", path.Base(key))
	if err != nil {
		return fmt.Errorf("cloudinary: create form file failed: %w", err)
	}
	if _, err := io.Copy(part, body); err != nil {
		return fmt.Errorf("cloudinary: write file failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("cloudinary: close form failed: %w", err)
	}

	url := fmt.Sprintf("%s/v1_1/%s/raw/upload", c.APIBase, c.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return fmt.Errorf("cloudinary: create request failed: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("cloudinary: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("cloudinary: upload failed (%d): %s", resp.StatusCode, string(respBody))
	}

	var result UploadResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("cloudinary: decode response failed: %w", err)
	}
	if result.PublicID != "" && result.PublicID != params["public_id"] {
		return fmt.Errorf("cloudinary: stored as %q, want %q", result.PublicID, params["public_id"])
	}
	return nil
}

// URL returns the delivery URL of the raw asset under key.
func (c *Cloudinary) URL(_ context.Context, key string) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("cloudinary: invalid key %q", key)
	}
	return fmt.Sprintf("%s/%s/raw/upload/%s", c.CDNBase, c.CloudName, c.publicID(key)), nil
}

// contextParam encodes metadata as a Cloudinary context string; "=" and "|"
// inside values are escaped with a backslash.
func contextParam(meta Metadata) string {
	esc := strings.NewReplacer(`=`, `\=`, `|`, `\|`)
	var pairs []string
	if meta.ContentType != "" {
		pairs = append(pairs, "content_type="+esc.Replace(meta.ContentType))
	}
	if meta.ContentDisposition != "" {
		pairs = append(pairs, "content_disposition="+esc.Replace(meta.ContentDisposition))
	}
	return strings.Join(pairs, "|")
}

// sign computes the Cloudinary API signature from the given params.
// api_key, file and resource_type are excluded per the Cloudinary API.
func (c *Cloudinary) sign(params map[string]string) string {
	excludeKeys := map[string]bool{"api_key": true, "file": true, "resource_type": true}

	pairs := make([]string, 0, len(params))
	for k, v := range params {
		if !excludeKeys[k] && v != "" {
			pairs = append(pairs, k+"="+v)
		}
	}
	sort.Strings(pairs)

	payload := strings.Join(pairs, "&") + c.APISecret
	h := sha1.New()
	h.Write([]byte(payload))
	return fmt.Sprintf("%x", h.Sum(nil))
}
