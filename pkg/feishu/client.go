package feishu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the Open Platform endpoint of the mainland deployment.
	DefaultBaseURL = "https://open.feishu.cn"

	// blocksPageSize is the maximum page size accepted by the block listing endpoint.
	blocksPageSize = 500

	maxRetries = 3
)

// ErrAPI is wrapped by every *APIError.
var ErrAPI = errors.New("feishu api error")

// APIError reports a response whose envelope carried a non-zero code.
type APIError struct {
	Endpoint string
	Code     int
	Msg      string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: code %d: %s", e.Endpoint, e.Code, e.Msg)
}

func (e *APIError) Unwrap() error { return ErrAPI }

// Client represents a Feishu Open Platform client authenticated with an
// internal app's credentials. It owns its own TokenCache and refreshes the
// tenant access token transparently before it expires.
type Client struct {
	appID      string
	appSecret  string
	baseURL    string
	httpClient *http.Client
	retryDelay time.Duration
	tokens     *TokenCache
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint, e.g. for the Lark deployment.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithRetryDelay sets the base backoff between retried requests.
// Attempt n waits n*delay.
func WithRetryDelay(delay time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = delay
	}
}

// NewClient creates a new client for the given app credentials.
// The client is configured with connection pooling and a 2-minute timeout,
// media downloads of large images are the slowest requests it performs.
func NewClient(appID, appSecret string, opts ...ClientOption) *Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 10,
	}

	c := &Client{
		appID:     appID,
		appSecret: appSecret,
		baseURL:   DefaultBaseURL,
		httpClient: &http.Client{
			Timeout:   2 * time.Minute,
			Transport: transport,
		},
		retryDelay: 2 * time.Second,
		tokens:     NewTokenCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AccessToken returns a valid tenant access token, requesting a new one
// only when the cached token is missing or about to expire.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	token, err := c.tokens.Get(ctx, c.fetchToken)
	if err != nil {
		return "", err
	}
	return token.Value, nil
}

func (c *Client) fetchToken(ctx context.Context) (Token, error) {
	payload, err := json.Marshal(map[string]string{
		"app_id":     c.appID,
		"app_secret": c.appSecret,
	})
	if err != nil {
		return Token{}, fmt.Errorf("failed to encode token request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/open-apis/auth/v3/tenant_access_token/internal", nil, payload, false)
	if err != nil {
		return Token{}, fmt.Errorf("failed to get tenant access token: %w", err)
	}

	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Token{}, fmt.Errorf("failed to parse token response: %w", err)
	}
	if resp.Code != 0 {
		return Token{}, &APIError{Endpoint: "tenant_access_token", Code: resp.Code, Msg: resp.Msg}
	}

	return Token{
		Value:     resp.TenantAccessToken,
		ExpiresAt: c.tokens.now().Add(time.Duration(resp.Expire)*time.Second - expirySkew),
	}, nil
}

// GetDocument retrieves the metadata (title, revision) of a docx document.
func (c *Client) GetDocument(ctx context.Context, documentID string) (*Document, error) {
	var data documentData
	if err := c.getJSON(ctx, "/open-apis/docx/v1/documents/"+url.PathEscape(documentID), nil, &data); err != nil {
		return nil, err
	}
	return &data.Document, nil
}

// ListBlocks retrieves every block of a document in document order,
// following the page token until the listing is exhausted.
func (c *Client) ListBlocks(ctx context.Context, documentID string) ([]Block, error) {
	path := "/open-apis/docx/v1/documents/" + url.PathEscape(documentID) + "/blocks"

	var blocks []Block
	pageToken := ""
	for {
		query := url.Values{}
		query.Set("page_size", strconv.Itoa(blocksPageSize))
		if pageToken != "" {
			query.Set("page_token", pageToken)
		}

		var page BlocksPage
		if err := c.getJSON(ctx, path, query, &page); err != nil {
			return nil, err
		}
		blocks = append(blocks, page.Items...)

		if !page.HasMore || page.PageToken == "" {
			return blocks, nil
		}
		pageToken = page.PageToken
	}
}

// ListFolder lists the files of a drive folder. At most pageCount pages of
// pageSize entries are requested.
func (c *Client) ListFolder(ctx context.Context, folderToken string, pageSize, pageCount int) ([]File, error) {
	if pageSize <= 0 {
		pageSize = 200
	}
	if pageCount <= 0 {
		pageCount = 3
	}

	var files []File
	pageToken := ""
	for i := 0; i < pageCount; i++ {
		query := url.Values{}
		query.Set("folder_token", folderToken)
		query.Set("page_size", strconv.Itoa(pageSize))
		if pageToken != "" {
			query.Set("page_token", pageToken)
		}

		var page FilesPage
		if err := c.getJSON(ctx, "/open-apis/drive/v1/files", query, &page); err != nil {
			return nil, err
		}
		files = append(files, page.Files...)

		if !page.HasMore {
			break
		}
		pageToken = page.NextPageToken
	}
	return files, nil
}

// DownloadMedia downloads the raw bytes of a media resource (image, file).
func (c *Client) DownloadMedia(ctx context.Context, token string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/open-apis/drive/v1/medias/"+url.PathEscape(token)+"/download", nil, nil, true)
}

// getJSON performs an authenticated GET, checks the envelope code and
// decodes its data member into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, query, nil, true)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to parse response of %s: %w", path, err)
	}
	if env.Code != 0 {
		return &APIError{Endpoint: path, Code: env.Code, Msg: env.Msg}
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to parse data of %s: %w", path, err)
	}
	return nil
}

// do executes a request with automatic retries (up to 3 attempts) on
// transport errors, 429 and 5xx responses. A 401 invalidates the cached
// token so the next attempt authenticates again.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload []byte, auth bool) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
		if auth {
			token, err := c.AccessToken(ctx)
			if err != nil {
				return nil, err
			}
			req.Header.Set("Authorization", "Bearer "+token)
		}

		body, status, err := c.roundTrip(req)
		if err != nil {
			lastErr = fmt.Errorf("attempt %d failed to execute request: %w", attempt, err)
			if attempt < maxRetries && ctx.Err() == nil {
				c.backoff(ctx, attempt)
				continue
			}
			return nil, lastErr
		}

		if status != http.StatusOK {
			lastErr = fmt.Errorf("API request %s failed with status %d: %s", path, status, string(body))
			if status == http.StatusUnauthorized && auth {
				c.tokens.Invalidate()
			}
			if attempt < maxRetries && (status == http.StatusTooManyRequests || status >= 500 || status == http.StatusUnauthorized) {
				c.backoff(ctx, attempt)
				continue
			}
			return nil, lastErr
		}

		return body, nil
	}

	return nil, lastErr
}

func (c *Client) roundTrip(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func (c *Client) backoff(ctx context.Context, attempt int) {
	if c.retryDelay <= 0 {
		return
	}
	timer := time.NewTimer(time.Duration(attempt) * c.retryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
