package blobstore

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultAPIBaseURL is the blob store's admin API endpoint
	DefaultAPIBaseURL = "https://api.cloudinary.com/v1_1"
	// DefaultFetchTimeout bounds origin fetches for the download proxy.
	// Generous because it covers the whole body transfer, not just headers.
	DefaultFetchTimeout = 5 * time.Minute
)

// FetchResult is an origin response ready for relaying. Body must be closed
// by the caller.
type FetchResult struct {
	StatusCode    int
	ContentType   string
	ContentLength int64 // -1 when the origin did not provide one
	Body          io.ReadCloser
}

// BlobStore abstracts the object-storage service holding actual file bytes.
type BlobStore interface {
	// Fetch retrieves the bytes behind a delivery URL. A non-2xx origin
	// status is returned in the result, not as an error; network-level
	// failures are errors.
	Fetch(ctx context.Context, rawURL string) (*FetchResult, error)

	// Destroy removes the object with the given public ID. Callers treat
	// failures as best-effort: log and move on.
	Destroy(ctx context.Context, publicID string) error
}

// Config holds blob store account credentials
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
}

// Client is the Cloudinary-backed BlobStore implementation
type Client struct {
	config     Config
	apiBaseURL string
	httpClient *http.Client
}

// NewClient creates a blob store client with default timeouts
func NewClient(config Config) *Client {
	return &Client{
		config:     config,
		apiBaseURL: DefaultAPIBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultFetchTimeout,
		},
	}
}

// NewClientWithHTTP creates a client with a custom HTTP client and API base
// URL, used by tests to point at a local origin.
func NewClientWithHTTP(config Config, apiBaseURL string, httpClient *http.Client) *Client {
	return &Client{
		config:     config,
		apiBaseURL: apiBaseURL,
		httpClient: httpClient,
	}
}

// Fetch retrieves the bytes behind a delivery URL. When the origin rejects
// an unsigned upload URL (strict-asset accounts answer 401), the fetch is
// retried once with a delivery signature inserted.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	result, err := c.fetchOnce(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if result.StatusCode == http.StatusUnauthorized {
		if signed := c.SignedDeliveryURL(rawURL); signed != rawURL {
			_ = result.Body.Close()
			return c.fetchOnce(ctx, signed)
		}
	}

	return result, nil
}

func (c *Client) fetchOnce(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create fetch request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	return &FetchResult{
		StatusCode:    resp.StatusCode,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
		Body:          resp.Body,
	}, nil
}

// Destroy removes the object with the given public ID via the signed admin
// API. Raw resource type is used because e-library uploads are documents,
// not images.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	// Signature covers the alphabetically sorted request params plus secret
	toSign := fmt.Sprintf("public_id=%s&timestamp=%s%s", publicID, timestamp, c.config.APISecret)
	digest := sha1.Sum([]byte(toSign))

	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("timestamp", timestamp)
	form.Set("api_key", c.config.APIKey)
	form.Set("signature", hex.EncodeToString(digest[:]))

	endpoint := fmt.Sprintf("%s/%s/raw/destroy", c.apiBaseURL, c.config.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create destroy request: %w", err)
	}
	req.URL.RawQuery = form.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("destroy %s: %w", publicID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("destroy %s: status %d: %s", publicID, resp.StatusCode, string(body))
	}

	return nil
}
