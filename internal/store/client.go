// Package store implements the typed client for the remote content store:
// a Git-hosting "contents" API addressing blobs by repo path.
package store

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/ifor-lux/luxconsole/internal/config"
	"github.com/ifor-lux/luxconsole/internal/constants"
	"github.com/ifor-lux/luxconsole/internal/http"
	"github.com/ifor-lux/luxconsole/internal/logging"
	"github.com/ifor-lux/luxconsole/internal/ratelimit"
	"github.com/ifor-lux/luxconsole/internal/util/paths"
)

// Client talks to the contents API of one repository on one branch.
//
// Every mutation is an independent commit; there are no transactions. Reads
// carry a cache-defeating timestamp so listings reflect the latest commit
// rather than a cached edge response.
type Client struct {
	httpClient *nethttp.Client
	baseURL    string // {api}/repos/{owner}/{name}/contents
	rawBase    string // {raw}/{owner}/{name}/{branch}
	branch     string
	token      string
	limiter    *ratelimit.RateLimiter
	logger     *logging.Logger
	now        func() time.Time // cache-bust clock, replaceable in tests
}

// NewClient creates a content store client from the resolved configuration.
func NewClient(cfg *config.Config, logger *logging.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	base, err := http.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = base
	retryClient.RetryMax = constants.RetryMax
	retryClient.RetryWaitMin = constants.RetryWaitMin
	retryClient.RetryWaitMax = constants.RetryWaitMax
	retryClient.Logger = nil // retries surface through the limiter and errors

	apiBase := strings.TrimSuffix(cfg.APIBaseURL, "/")
	rawBase := strings.TrimSuffix(cfg.RawBaseURL, "/")

	return &Client{
		httpClient: retryClient.StandardClient(),
		baseURL:    fmt.Sprintf("%s/repos/%s/contents", apiBase, cfg.Repo),
		rawBase:    fmt.Sprintf("%s/%s/%s", rawBase, cfg.Repo, cfg.Branch),
		branch:     cfg.Branch,
		token:      cfg.Token,
		limiter:    ratelimit.NewStoreRateLimiter(),
		logger:     logger,
		now:        time.Now,
	}, nil
}

// List returns the entries under path, "" meaning the repository root.
//
// A path the store does not know yields an empty listing, not an error: the
// store only tracks files, so an empty directory and a missing one are
// indistinguishable.
func (c *Client) List(ctx context.Context, path string) ([]Item, error) {
	resp, err := c.doRequest(ctx, nethttp.MethodGet, c.contentsURL(path, true), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == nethttp.StatusNotFound {
		return []Item{}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, rejectionError(resp.StatusCode, readStoreMessage(resp.Body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}

	var items []Item
	if err := json.Unmarshal(body, &items); err != nil {
		// A file path returns a single object instead of an array; callers
		// listing a file get nothing, same as the original console.
		return []Item{}, nil
	}
	return items, nil
}

// Get fetches a single file: current hash, decoded content, download URL.
func (c *Client) Get(ctx context.Context, path string) (*File, error) {
	resp, err := c.doRequest(ctx, nethttp.MethodGet, c.contentsURL(path, true), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, rejectionError(resp.StatusCode, readStoreMessage(resp.Body))
	}

	var cr contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, transportError(err)
	}

	// The store wraps base64 at 60 columns; strip the newlines first.
	content, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(cr.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("failed to decode file content: %w", err)
	}

	return &File{
		SHA:         cr.SHA,
		Content:     content,
		DownloadURL: cr.DownloadURL,
	}, nil
}

// Put creates or updates the blob at path. An empty sha creates; a non-empty
// sha replaces the blob it identifies, so a stale sha cannot silently
// clobber a concurrent write. Returns the store-assigned hash.
func (c *Client) Put(ctx context.Context, path, message string, content []byte, sha string) (string, error) {
	req := putRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  c.branch,
		SHA:     sha,
	}

	resp, err := c.doRequest(ctx, nethttp.MethodPut, c.contentsURL(path, false), req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", rejectionError(resp.StatusCode, readStoreMessage(resp.Body))
	}

	var pr putResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return "", transportError(err)
	}
	return pr.Content.SHA, nil
}

// Delete removes the blob at path. A 404 is success: the entry is already
// gone, which is the state the caller asked for.
func (c *Client) Delete(ctx context.Context, path, message, sha string) error {
	req := deleteRequest{
		Message: message,
		SHA:     sha,
		Branch:  c.branch,
	}

	resp, err := c.doRequest(ctx, nethttp.MethodDelete, c.contentsURL(path, false), req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == nethttp.StatusNotFound {
		c.logger.Debugf("delete %s: already gone", path)
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return rejectionError(resp.StatusCode, readStoreMessage(resp.Body))
	}
	return nil
}

// RawURL returns the direct-fetch URL for a path, used when the API supplied
// no download_url (optimistic placeholders).
func (c *Client) RawURL(path string) string {
	return c.rawBase + "/" + paths.Encode(path)
}

// FetchRaw downloads arbitrary content from a raw or download URL.
// Raw hosts need no API auth header.
func (c *Client) FetchRaw(ctx context.Context, url string) ([]byte, error) {
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, url, nil)
	if err != nil {
		return nil, transportError(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, rejectionError(resp.StatusCode, "")
	}
	return io.ReadAll(resp.Body)
}

// contentsURL builds the request URL for a store path. Reads get the branch
// pin and a cache-bust stamp; writes address the branch in the body.
func (c *Client) contentsURL(path string, read bool) string {
	url := c.baseURL
	if encoded := paths.Encode(path); encoded != "" {
		url += "/" + encoded
	}
	if read {
		url += fmt.Sprintf("?ref=%s&t=%d", c.branch, c.now().UnixMilli())
	}
	return url
}

// doRequest performs an authenticated API request with rate limiting.
func (c *Client) doRequest(ctx context.Context, method, url string, body interface{}) (*nethttp.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter cancelled: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := nethttp.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debugf("store call failed: %s %s: %v", method, url, err)
		return nil, transportError(err)
	}
	return resp, nil
}

// readStoreMessage extracts the store's error message from a failed
// response body, if it sent one.
func readStoreMessage(body io.Reader) string {
	var er errorResponse
	if err := json.NewDecoder(body).Decode(&er); err != nil {
		return ""
	}
	return er.Message
}
