// Package realtime is a minimal REST client for the realtime database that
// backs the console's admin records: end-user accounts, notifications and
// the published app update.
//
// Every node is addressed as {base}/{path}.json with the legacy auth secret
// as a query parameter. Writes are whole-value puts, pushes under generated
// keys, or field patches.
package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/ifor-lux/luxconsole/internal/config"
	"github.com/ifor-lux/luxconsole/internal/constants"
	luxhttp "github.com/ifor-lux/luxconsole/internal/http"
	"github.com/ifor-lux/luxconsole/internal/logging"
)

// ErrNotConfigured is returned when no database URL is set; the admin
// record commands are optional and the file browser works without them.
var ErrNotConfigured = fmt.Errorf("realtime database URL not configured")

// APIError is a non-2xx response from the database.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("realtime database error (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("realtime database error (HTTP %d)", e.StatusCode)
}

// Client talks to one realtime database instance.
type Client struct {
	httpClient *retryablehttp.Client
	baseURL    string
	secret     string
	logger     *logging.Logger
}

// NewClient builds a database client from configuration. The secret is
// optional; without it requests go out unauthenticated, which public-read
// rules accept.
func NewClient(cfg *config.Config, logger *logging.Logger) (*Client, error) {
	if cfg.DatabaseURL == "" {
		return nil, ErrNotConfigured
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	base, err := luxhttp.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = base
	retryClient.RetryMax = constants.RetryMax
	retryClient.RetryWaitMin = constants.RetryWaitMin
	retryClient.RetryWaitMax = constants.RetryWaitMax
	retryClient.Logger = nil

	return &Client{
		httpClient: retryClient,
		baseURL:    strings.TrimRight(cfg.DatabaseURL, "/"),
		secret:     cfg.DatabaseSecret,
		logger:     logger,
	}, nil
}

// nodeURL addresses one database node as REST.
func (c *Client) nodeURL(path string) string {
	u := c.baseURL + "/" + strings.Trim(path, "/") + ".json"
	if c.secret != "" {
		u += "?auth=" + url.QueryEscape(c.secret)
	}
	return u
}

// Get reads a node into out. A null node leaves out untouched.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// Set writes a node wholesale, replacing whatever was there.
func (c *Client) Set(ctx context.Context, path string, v any) error {
	_, err := c.do(ctx, http.MethodPut, path, v)
	return err
}

// Push stores v under a server-generated key below path and returns the key.
func (c *Client) Push(ctx context.Context, path string, v any) (string, error) {
	body, err := c.do(ctx, http.MethodPost, path, v)
	if err != nil {
		return "", err
	}
	var resp struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decoding push response: %w", err)
	}
	return resp.Name, nil
}

// Update patches individual fields of a node, leaving the rest in place.
func (c *Client) Update(ctx context.Context, path string, fields map[string]any) error {
	_, err := c.do(ctx, http.MethodPatch, path, fields)
	return err
}

// Delete removes a node. Deleting an absent node succeeds.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, v any) ([]byte, error) {
	var payload io.Reader
	if v != nil {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding %s body: %w", path, err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.nodeURL(path), payload)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debugf("realtime %s %s", method, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("realtime database unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: readDatabaseMessage(body)}
	}
	return body, nil
}

// readDatabaseMessage extracts the error field the database sends with
// failures.
func readDatabaseMessage(body []byte) string {
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	return resp.Error
}
