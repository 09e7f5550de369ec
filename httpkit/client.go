package httpkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/schema"
)

var queryEncoder = schema.NewEncoder()

// Client performs the HTTP round trips of generated Go client stubs.
type Client struct {
	baseURL string
	http    *http.Client
	header  http.Header
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.header.Add(key, value)
	}
}

// NewClient creates a Client sending requests to baseURL, e.g.
// "https://api.example.com". Generated paths already carry the API base path.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		header:  make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends one request. query, when non-nil, is a struct encoded into the
// query string through its `schema` tags; body, when non-nil, is sent as
// JSON. A 2xx answer is decoded into out unless out is nil; any other status
// is returned as a *StatusError.
func (c *Client) Do(ctx context.Context, method, path string, query, body, out any) error {
	u := c.baseURL + path
	if query != nil {
		values := url.Values{}
		if err := queryEncoder.Encode(query, values); err != nil {
			return fmt.Errorf("encode query: %w", err)
		}
		if encoded := values.Encode(); encoded != "" {
			u += "?" + encoded
		}
	}

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return err
	}
	for key, values := range c.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &StatusError{Code: res.StatusCode, Message: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// PathParam formats and escapes a value for use as a path segment.
func PathParam(v any) string {
	return url.PathEscape(fmt.Sprint(v))
}
