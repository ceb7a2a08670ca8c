package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"folio/internal/book"
	"folio/internal/config"
	"folio/internal/services"
)

const (
	defaultBaseURL     = "https://api.tatum.io/v3/ipfs"
	defaultHTTPTimeout = 30 * time.Second
	placeholderImage   = "https://via.placeholder.com/350x500/4F46E5/FFFFFF?text=Book+NFT"
)

// Ref is the content-addressed URI returned by a successful publish. It is
// consumed exactly once by the chain call that follows it.
type Ref string

// Client uploads metadata documents to a content-addressed pinning endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// Option customizes the pinning client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the default API base (useful for tests/mocks).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithClock overrides the timestamp source used in the document.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient constructs a pinning client.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// NewClientFromConfig constructs a pinning client from application config.
func NewClientFromConfig(cfg *config.Config, opts ...Option) *Client {
	base := []Option{
		WithBaseURL(cfg.IPFS.BaseURL),
		WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.IPFS.RequestTimeoutSeconds) * time.Second,
		}),
	}
	return NewClient(cfg.IPFS.APIKey, append(base, opts...)...)
}

type pinResponse struct {
	IPFSHash string `json:"ipfsHash"`
}

// Publish serializes the canonical metadata document for the request and
// uploads it as a single blob. Either a full valid URI is returned or an
// error carrying the publish marker; there is no partial success.
func (c *Client) Publish(ctx context.Context, req book.MintRequest) (Ref, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", services.Wrap(services.ErrPublish, "metadata", "publish", "api key required", nil)
	}

	document, err := c.buildDocument(req)
	if err != nil {
		return "", services.Wrap(services.ErrPublish, "metadata", "publish", "encode document", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "metadata.json")
	if err != nil {
		return "", services.Wrap(services.ErrPublish, "metadata", "publish", "build form", err)
	}
	if _, err := part.Write(document); err != nil {
		return "", services.Wrap(services.ErrPublish, "metadata", "publish", "write form", err)
	}
	if err := writer.Close(); err != nil {
		return "", services.Wrap(services.ErrPublish, "metadata", "publish", "finalize form", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, &body)
	if err != nil {
		return "", services.Wrap(services.ErrPublish, "metadata", "publish", "request", err)
	}
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", services.Wrap(services.ErrPublish, "metadata", "publish", "upload", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrPublish, "metadata", "publish", "read response", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", services.Wrap(services.ErrPublish, "metadata", "publish",
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(payload))), nil)
	}

	var parsed pinResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", services.Wrap(services.ErrPublish, "metadata", "publish", "decode response", err)
	}
	hash := strings.TrimSpace(parsed.IPFSHash)
	if hash == "" {
		return "", services.Wrap(services.ErrPublish, "metadata", "publish", "response missing content id", nil)
	}
	return Ref("ipfs://" + hash), nil
}
