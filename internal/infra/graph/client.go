package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"officegw/internal/domain"
)

// TokenSource exchanges a user/session pair for a bearer token. The
// authentication layer behind it is an external collaborator.
type TokenSource interface {
	Token(ctx context.Context, userID, sessionID string) (string, error)
}

// Client sends authenticated REST requests to the upstream suite API.
type Client struct {
	baseURL    string
	version    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *zap.Logger
	maxRetries int
}

type ClientOptions struct {
	BaseURL    string
	Version    string
	HTTPClient *http.Client
	Tokens     TokenSource
	Logger     *zap.Logger

	// MaxRetries caps retries after a 5xx or transport failure. Zero
	// means the default of one retry; negative disables retries.
	MaxRetries int
}

func NewClient(opts ClientOptions) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	version := opts.Version
	if version == "" {
		version = "v1.0"
	}
	maxRetries := opts.MaxRetries
	switch {
	case maxRetries == 0:
		maxRetries = 1
	case maxRetries < 0:
		maxRetries = 0
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		version:    version,
		httpClient: httpClient,
		tokens:     opts.Tokens,
		logger:     logger.Named("graph"),
		maxRetries: maxRetries,
	}
}

func (c *Client) API(path, userID, sessionID string) domain.Request {
	return &request{
		client:    c,
		path:      path,
		userID:    userID,
		sessionID: sessionID,
		version:   c.version,
	}
}

type request struct {
	client    *Client
	path      string
	userID    string
	sessionID string
	version   string
	query     url.Values
}

func (r *request) Query(params map[string]string) domain.Request {
	if r.query == nil {
		r.query = url.Values{}
	}
	for key, value := range params {
		r.query.Set(key, value)
	}
	return r
}

func (r *request) Version(v string) domain.Request {
	if v != "" {
		r.version = v
	}
	return r
}

func (r *request) Get(ctx context.Context) (map[string]any, error) {
	return r.do(ctx, http.MethodGet, nil)
}

func (r *request) Post(ctx context.Context, body map[string]any) (map[string]any, error) {
	return r.do(ctx, http.MethodPost, body)
}

func (r *request) Put(ctx context.Context, body map[string]any) (map[string]any, error) {
	return r.do(ctx, http.MethodPut, body)
}

func (r *request) Patch(ctx context.Context, body map[string]any) (map[string]any, error) {
	return r.do(ctx, http.MethodPatch, body)
}

func (r *request) Delete(ctx context.Context) (map[string]any, error) {
	return r.do(ctx, http.MethodDelete, nil)
}

func (r *request) do(ctx context.Context, method string, body map[string]any) (map[string]any, error) {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, domain.Wrap(domain.CategoryUpstream, fmt.Errorf("encode request body: %w", err))
		}
		payload = encoded
	}

	var lastErr error
	for attempt := 0; attempt <= r.client.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}
		result, retryable, err := r.attempt(ctx, method, payload)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		r.client.logger.Warn("upstream request retrying",
			zap.String("method", method),
			zap.String("path", r.path),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}
	return nil, lastErr
}

func (r *request) attempt(ctx context.Context, method string, payload []byte) (result map[string]any, retryable bool, err error) {
	endpoint := r.client.baseURL + "/" + r.version + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, false, domain.Wrap(domain.CategoryUpstream, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if r.client.tokens != nil {
		token, tokenErr := r.client.tokens.Token(ctx, r.userID, r.sessionID)
		if tokenErr != nil {
			return nil, false, domain.E(domain.CategoryAuth, "token exchange failed", domain.ErrorOptions{
				Cause:  tokenErr,
				UserID: r.userID,
			})
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.client.httpClient.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, domain.Wrap(domain.CategoryUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, false, domain.Wrap(domain.CategoryUpstream, err)
	}

	if resp.StatusCode >= 400 {
		return nil, resp.StatusCode >= 500, domain.E(domain.CategoryUpstream,
			fmt.Sprintf("upstream returned %d", resp.StatusCode),
			domain.ErrorOptions{Context: map[string]any{
				"statusCode": resp.StatusCode,
				"path":       r.path,
			}})
	}

	if len(raw) == 0 {
		return map[string]any{}, false, nil
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, false, domain.Wrap(domain.CategoryUpstream, fmt.Errorf("decode response: %w", err))
	}
	return decoded, false, nil
}

var _ domain.Client = (*Client)(nil)
