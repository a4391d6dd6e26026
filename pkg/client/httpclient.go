package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"
)

const DefaultTimeout = 10 * time.Second

// HttpClient is a JSON-over-HTTP client rooted at BaseURL. Request paths are
// appended to it, so an empty BaseURL takes absolute URLs.
type HttpClient struct {
	BaseURL string
	Headers map[string]string

	http     *http.Client
	username string
	password string
}

type Option func(*HttpClient)

func WithTimeout(d time.Duration) Option {
	return func(c *HttpClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithBasicAuth sends credentials on every request.
func WithBasicAuth(username, password string) Option {
	return func(c *HttpClient) {
		c.username = username
		c.password = password
	}
}

// WithCookieJar keeps cookies between requests. The token cookie flow relies on it.
func WithCookieJar() Option {
	return func(c *HttpClient) {
		jar, _ := cookiejar.New(nil)
		c.http.Jar = jar
	}
}

func NewHttpClient(baseURL string, opts ...Option) *HttpClient {
	c := &HttpClient{
		BaseURL: baseURL,
		Headers: map[string]string{},
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Response is a fully read response. Body is safe to use after the
// connection is released.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) DecodeJSON(target any) error {
	return json.Unmarshal(r.Body, target)
}

func (c *HttpClient) GET(path string) (*Response, error) {
	return c.Do(context.Background(), http.MethodGet, path, nil, nil)
}

func (c *HttpClient) POST(path string, body any) (*Response, error) {
	return c.Do(context.Background(), http.MethodPost, path, body, nil)
}

func (c *HttpClient) PUT(path string, body any) (*Response, error) {
	return c.Do(context.Background(), http.MethodPut, path, body, nil)
}

func (c *HttpClient) DELETE(path string) (*Response, error) {
	return c.Do(context.Background(), http.MethodDelete, path, nil, nil)
}

// Do sends body as JSON when it is non-nil. headers override the client's
// default headers.
func (c *HttpClient) Do(ctx context.Context, method, path string, body any, headers map[string]string) (*Response, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, set := range []map[string]string{c.Headers, headers} {
		for key, value := range set {
			req.Header.Set(key, value)
		}
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %s response: %w", method, path, err)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// WaitForHealthy polls /health until it answers 200 or maxWait elapses.
func (c *HttpClient) WaitForHealthy(maxWait time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), maxWait)
	defer cancel()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		resp, err := c.Do(ctx, http.MethodGet, "/health", nil, nil)
		if err == nil && resp.StatusCode == http.StatusOK {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("service did not become healthy within %v", maxWait)
		case <-ticker.C:
		}
	}
}

// GetErrorMessage extracts the message from a `{message, error?}` body.
func GetErrorMessage(resp *Response) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := resp.DecodeJSON(&body); err != nil {
		return fmt.Sprintf("status %d: %s", resp.StatusCode, resp.Body)
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
