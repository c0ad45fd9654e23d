// Package cloudinary implements media.Uploader against the Cloudinary
// image upload API.
//
// The API takes a single multipart POST to
//
//	https://api.cloudinary.com/v1_1/{cloud_name}/image/upload
//
// carrying the file plus `api_key`, `timestamp` and a `signature` — the
// SHA-1 of the non-file parameters (sorted, &-joined) concatenated with the
// API secret. The response JSON carries `secure_url`, the durable public
// URL the caller embeds in post content.
package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/sakif/blog-admin/internal/apperror"
	"github.com/sakif/blog-admin/internal/media"
)

// uploadTimeout bounds one upload round-trip. Image uploads are bigger and
// slower than data API calls, so this is looser than the data client's 10s.
const uploadTimeout = 30 * time.Second

var _ media.Uploader = (*Client)(nil)

// Client uploads images to one Cloudinary cloud.
type Client struct {
	cloudName string
	apiKey    string
	apiSecret string
	http      *http.Client

	// baseURL is overridable for tests; empty means the real API host.
	baseURL string

	// now is overridable for deterministic signature tests.
	now func() time.Time
}

// Config carries the three credentials the service issues per cloud.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
}

// New creates a Client. All three credentials are required.
func New(cfg Config) (*Client, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary: cloud name, API key and API secret are required")
	}
	return &Client{
		cloudName: cfg.CloudName,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		http:      &http.Client{Timeout: uploadTimeout},
		now:       time.Now,
	}, nil
}

// uploadResponse is the subset of the API response we read.
type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

// Upload sends data as an image resource and returns its secure URL.
func (c *Client) Upload(ctx context.Context, data []byte) (string, error) {
	timestamp := strconv.FormatInt(c.now().Unix(), 10)

	params := url.Values{}
	params.Set("timestamp", timestamp)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	for _, key := range []string{"timestamp"} {
		if err := mw.WriteField(key, params.Get(key)); err != nil {
			return "", fmt.Errorf("cloudinary: writing field %s: %w", key, err)
		}
	}
	if err := mw.WriteField("api_key", c.apiKey); err != nil {
		return "", fmt.Errorf("cloudinary: writing api_key: %w", err)
	}
	if err := mw.WriteField("signature", c.sign(params)); err != nil {
		return "", fmt.Errorf("cloudinary: writing signature: %w", err)
	}

	fw, err := mw.CreateFormFile("file", "upload")
	if err != nil {
		return "", fmt.Errorf("cloudinary: creating file part: %w", err)
	}
	if _, err := io.Copy(fw, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("cloudinary: writing file part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("cloudinary: finalizing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL(), &body)
	if err != nil {
		return "", fmt.Errorf("cloudinary: building request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", apperror.Remote("media", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperror.Remote("media", fmt.Errorf("reading response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperror.Remote("media", fmt.Errorf("upload returned status %d: %s", resp.StatusCode, respBody))
	}

	var parsed uploadResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", apperror.Remote("media", fmt.Errorf("decoding response: %w", err))
	}
	if parsed.SecureURL == "" {
		return "", apperror.Remote("media", fmt.Errorf("upload response had no secure_url"))
	}

	return parsed.SecureURL, nil
}

func (c *Client) uploadURL() string {
	base := c.baseURL
	if base == "" {
		base = "https://api.cloudinary.com"
	}
	return fmt.Sprintf("%s/v1_1/%s/image/upload", base, c.cloudName)
}

// sign computes the request signature: the signed parameters sorted by key,
// joined as key=value with &, concatenated with the API secret, SHA-1,
// hex-encoded. `file`, `api_key` and the signature itself are excluded per
// the service's signing rules.
func (c *Client) sign(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var toSign bytes.Buffer
	for i, k := range keys {
		if i > 0 {
			toSign.WriteByte('&')
		}
		toSign.WriteString(k)
		toSign.WriteByte('=')
		toSign.WriteString(params.Get(k))
	}
	toSign.WriteString(c.apiSecret)

	sum := sha1.Sum(toSign.Bytes())
	return hex.EncodeToString(sum[:])
}
