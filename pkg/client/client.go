package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dira-homes/dira/internal/version"
)

const defaultTimeout = 30 * time.Second

// Client talks to a dira API server. It is safe for concurrent use.
type Client struct {
	base      *url.URL
	http      *http.Client
	token     string
	userAgent string
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("dira: base URL required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("dira: parse base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("dira: base URL %q must be absolute", baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""

	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if cfg.userAgent == "" {
		cfg.userAgent = "dira-go/" + version.Version
	}

	return &Client{base: u, http: cfg.httpClient, token: cfg.token, userAgent: cfg.userAgent}, nil
}

// Search starts a listing search.
func (c *Client) Search() *SearchBuilder {
	return &SearchBuilder{client: c}
}

// Listing fetches one listing with its files.
func (c *Client) Listing(ctx context.Context, id string) (Result, error) {
	var out Result
	if err := c.get(ctx, "/apartments/"+url.PathEscape(id), "", &out); err != nil {
		return Result{}, err
	}
	return out, nil
}

// MyListings returns the listings owned by the authenticated user.
func (c *Client) MyListings(ctx context.Context) ([]Result, error) {
	var out []Result
	if err := c.get(ctx, "/users/me/apartments", "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Health reports whether the server answers its health check.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/health", "", nil)
}

// get issues a GET for the escaped path relative to the base URL.
func (c *Client) get(ctx context.Context, path, rawQuery string, out any) error {
	u := *c.base
	u.RawPath = c.base.EscapedPath() + path
	unescaped, err := url.PathUnescape(u.RawPath)
	if err != nil {
		return fmt.Errorf("dira: invalid path %q: %w", path, err)
	}
	u.Path = unescaped
	u.RawQuery = rawQuery

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dira: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("dira: GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("dira: decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}
	var body struct {
		Message string `json:"message"`
		Field   string `json:"field"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(data, &body) == nil && body.Message != "" {
		apiErr.Message = body.Message
		apiErr.Field = body.Field
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
