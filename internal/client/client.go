// Package client is a typed REST client for the agency API. Reads are cached
// per method, path and query; successful writes drop the cached reads under
// the prefixes they affect.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"agency-backend/internal/cache"
	"agency-backend/internal/transport"
)

var ErrUnauthorized = errors.New("unauthorized: admin password missing or rejected")

// APIError is any non-2xx response other than 401.
type APIError struct {
	Status  int
	Message string
	Details map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	session *Session
	cache   cache.Cache
	ttl     time.Duration
	log     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithCache(cc cache.Cache, ttl time.Duration) Option {
	return func(c *Client) { c.cache, c.ttl = cc, ttl }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New returns a client for the API rooted at baseURL, e.g.
// "https://agency.example". Responses are cached in memory for a minute
// unless WithCache says otherwise.
func New(baseURL string, session *Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		session: session,
		cache:   cache.NewMemory(),
		ttl:     time.Minute,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CacheKey is the read cache key for a request.
func CacheKey(method, path string, query url.Values) string {
	key := method + " " + path
	if encoded := query.Encode(); encoded != "" {
		key += "?" + encoded
	}
	return key
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	key := CacheKey(http.MethodGet, path, query)
	if cached, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		c.log.Debug("client cache hit", slog.String("key", key))
		return decode(cached, out)
	}

	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if err := c.cache.Set(ctx, key, body, c.ttl); err != nil {
		c.log.Warn("client cache set failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return decode(body, out)
}

// GetRaw fetches a non-JSON body such as an ICS export, bypassing the cache.
func (c *Client) GetRaw(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

func (c *Client) Post(ctx context.Context, path string, in, out interface{}, invalidate ...string) error {
	return c.mutate(ctx, http.MethodPost, path, in, out, invalidate)
}

func (c *Client) Put(ctx context.Context, path string, in, out interface{}, invalidate ...string) error {
	return c.mutate(ctx, http.MethodPut, path, in, out, invalidate)
}

func (c *Client) Delete(ctx context.Context, path string, out interface{}, invalidate ...string) error {
	return c.mutate(ctx, http.MethodDelete, path, nil, out, invalidate)
}

func (c *Client) mutate(ctx context.Context, method, path string, in, out interface{}, invalidate []string) error {
	var payload io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(raw)
	}
	body, err := c.do(ctx, method, path, nil, payload)
	if err != nil {
		return err
	}
	for _, prefix := range invalidate {
		if err := c.cache.DeletePrefix(ctx, CacheKey(http.MethodGet, prefix, nil)); err != nil {
			c.log.Warn("client cache invalidate failed", slog.String("prefix", prefix), slog.String("error", err.Error()))
		}
	}
	return decode(body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload io.Reader) ([]byte, error) {
	target := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}
	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != nil {
		if pw := c.session.Password(); pw != "" {
			req.Header.Set("Authorization", "Bearer "+pw)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	c.log.Debug("client request", slog.String("method", method), slog.String("path", path), slog.Int("status", resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if c.session != nil {
			if err := c.session.Clear(); err != nil {
				c.log.Warn("client session clear failed", slog.String("error", err.Error()))
			}
		}
		return nil, ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		apiErr := &APIError{Status: resp.StatusCode}
		var er transport.ErrorResponse
		if json.Unmarshal(body, &er) == nil {
			apiErr.Message = er.Error
			apiErr.Details = er.Details
		}
		return nil, apiErr
	}
	return body, nil
}

func decode(body []byte, out interface{}) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}
