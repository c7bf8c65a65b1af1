// Package client talks to a running character's HTTP API on behalf of the
// client commands (say, status, hotkey, memory recent, turns).
package client

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

	"github.com/Gorgooo61/AI-character/api"
	"github.com/Gorgooo61/AI-character/pkg/config"
	"github.com/Gorgooo61/AI-character/pkg/session"
	"github.com/Gorgooo61/AI-character/pkg/storage"
	"github.com/Gorgooo61/AI-character/pkg/utils"
)

const defaultTimeout = 10 * time.Second

// Client calls one character API.
type Client struct {
	target     string
	httpClient *http.Client
}

func New(target string) (*Client, error) {
	if _, err := url.Parse(target); err != nil {
		return nil, fmt.Errorf("invalid API target URL: %w", err)
	}
	return &Client{
		target:     target,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}, nil
}

// Target returns the API URL for a client command: flagTarget when set,
// then the URL recorded by a running character in configDir, then the
// configured client.api_target.
func Target(flagTarget, configDir string) (string, error) {
	if flagTarget != "" {
		return flagTarget, nil
	}

	if manager, err := session.NewManager(configDir); err == nil {
		if state, err := manager.Load(); err == nil && state != nil && state.APIURL != "" {
			return state.APIURL, nil
		}
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return "", fmt.Errorf("loading config: %w", err)
	}
	cfg, err := cfger.LoadConfig()
	if err != nil {
		return "", fmt.Errorf("loading config: %w", err)
	}
	return cfg.Client.APITarget, nil
}

func (c *Client) Ping(ctx context.Context) error {
	var pong string
	return c.do(ctx, http.MethodGet, "/ping", nil, nil, &pong)
}

func (c *Client) Status(ctx context.Context) (*api.StatusResponse, error) {
	var out api.StatusResponse
	if err := c.do(ctx, http.MethodGet, "/status", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Say queues text as user input.
func (c *Client) Say(ctx context.Context, text string) error {
	return c.do(ctx, http.MethodPost, "/input", nil, api.InputRequest{Text: text}, nil)
}

func (c *Client) Hotkey(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, "/hotkey", nil, api.HotkeyRequest{Name: name}, nil)
}

func (c *Client) Switches(ctx context.Context, req api.SwitchesRequest) (*api.StatusResponse, error) {
	var out api.StatusResponse
	if err := c.do(ctx, http.MethodPost, "/switches", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Recent(ctx context.Context) (*api.RecentResponse, error) {
	var out api.RecentResponse
	if err := c.do(ctx, http.MethodGet, "/memory/recent", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchFacts runs a long-term memory search with the server's thresholds.
func (c *Client) SearchFacts(ctx context.Context, query string) (*api.SearchResponse, error) {
	var out api.SearchResponse
	q := url.Values{"q": {query}}
	if err := c.do(ctx, http.MethodGet, "/memory/search", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Turns(ctx context.Context, limit int) (*api.TurnsResponse, error) {
	var out api.TurnsResponse
	var q url.Values
	if limit > 0 {
		q = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	if err := c.do(ctx, http.MethodGet, "/turns", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Turn fetches a single archived turn by ID.
func (c *Client) Turn(ctx context.Context, id string) (*storage.Turn, error) {
	var out storage.Turn
	if err := c.do(ctx, http.MethodGet, "/turns/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends body as JSON and decodes a 2xx response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u, err := url.Parse(c.target)
	if err != nil {
		return fmt.Errorf("invalid API target URL: %w", err)
	}
	u.Path = path
	u.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", utils.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to character API at %s: %w", c.target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// StatusError is a non-2xx API response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed (HTTP %d): %s", e.Code, e.Message)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

func errorMessage(data []byte) string {
	var er api.ErrorResponse
	if err := json.Unmarshal(data, &er); err == nil && er.Error != "" {
		return er.Error
	}
	return string(data)
}
