package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/sumanshinde/cloth-pos/internal/config"
)

// IdempotencyHeader carries the client-generated request id on sale and return submissions
const IdempotencyHeader = "Idempotency-Key"

// APIError is a non-2xx answer from the backend, with its message surfaced verbatim
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a backend 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to the REST backend on behalf of one authenticated cashier.
// The token is fixed at construction; nothing is read from ambient state.
type Client struct {
	baseURL    string
	authScheme string
	token      string
	httpClient *http.Client
}

// NewClient builds an authenticated client. An empty token yields an anonymous client (login only).
func NewClient(cfg config.BackendConfig, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	scheme := cfg.AuthScheme
	if scheme == "" {
		scheme = "Token"
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		authScheme: scheme,
		token:      token,
		httpClient: httpClient,
	}
}

// WithToken returns a copy of the client bound to token
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// rootURL strips the trailing /api segment; token auth lives beside the API, not under it
func (c *Client) rootURL() string {
	return strings.TrimSuffix(c.baseURL, "/api")
}

type requestOption func(*http.Request)

func withIdempotencyKey(key string) requestOption {
	return func(req *http.Request) {
		if key != "" {
			req.Header.Set(IdempotencyHeader, key)
		}
	}
}

func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, body, out interface{}, opts ...requestOption) error {
	target := endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		target = c.baseURL + endpoint
	}
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", c.authScheme+" "+c.token)
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request %s %s failed: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read backend response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw, resp.Status)}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}

// errorMessage extracts {"error": ...}, {"detail": ...} or a field-error map from a backend body
func errorMessage(raw []byte, status string) string {
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		if text := strings.TrimSpace(string(raw)); text != "" && len(text) < 512 {
			return text
		}
		return status
	}

	for _, key := range []string{"error", "detail", "non_field_errors"} {
		if v, ok := body[key]; ok {
			return flatten(v)
		}
	}

	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+flatten(body[k]))
	}
	if len(parts) == 0 {
		return status
	}
	return strings.Join(parts, "; ")
}

func flatten(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, flatten(item))
		}
		return strings.Join(parts, " ")
	default:
		b, _ := json.Marshal(val)
		return string(b)
	}
}

// listEnvelope accepts both a bare JSON array and a paginated {"results": [...]} body
type listEnvelope[T any] struct {
	Items []T
}

func (l *listEnvelope[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &l.Items)
	}
	var page struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return err
	}
	l.Items = page.Results
	return nil
}

func list[T any](ctx context.Context, c *Client, endpoint string, query url.Values) ([]T, error) {
	var env listEnvelope[T]
	if err := c.do(ctx, http.MethodGet, endpoint, query, nil, &env); err != nil {
		return nil, err
	}
	if env.Items == nil {
		return []T{}, nil
	}
	return env.Items, nil
}
