// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package stash

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/stashplayer/internal/config"
	"github.com/tomtom215/stashplayer/internal/filter"
	"github.com/tomtom215/stashplayer/internal/logging"
	"github.com/tomtom215/stashplayer/internal/metrics"
)

// Finder is the interface the API layer consumes. Satisfied by *Client
// and by CircuitBreakerClient; tests substitute fakes.
type Finder interface {
	FindScenes(ctx context.Context, qd filter.QueryDescriptor) (*SceneResult, error)
	FindPerformers(ctx context.Context, qd filter.QueryDescriptor) (*PerformerResult, error)
	FindStudios(ctx context.Context, qd filter.QueryDescriptor) (*StudioResult, error)
	FindTags(ctx context.Context, qd filter.QueryDescriptor) (*TagResult, error)
	Ping(ctx context.Context) error
}

// Client is a GraphQL-over-HTTP client for the upstream Stash server.
type Client struct {
	baseURL        string
	apiKey         string
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewClient creates a Stash client from configuration. The client-side
// limiter smooths request bursts against the upstream; retries only
// trigger on HTTP 429 with exponential backoff.
func NewClient(cfg *config.StashConfig) *Client {
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), int(cfg.RequestsPerSecond)+1)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.URL, "/"),
		apiKey:         cfg.APIKey,
		client:         &http.Client{Timeout: timeout},
		limiter:        limiter,
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: time.Second,
	}
}

// graphQLRequest is the POST body of one GraphQL call.
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphQLError is one upstream error entry.
type graphQLError struct {
	Message string `json:"message"`
}

// graphQLResponse is the envelope of one GraphQL reply.
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// query executes one GraphQL operation and unmarshals the named field of
// the response data into out.
func (c *Client) query(ctx context.Context, operation, document string, variables map[string]any, field string, out any) error {
	start := time.Now()
	err := c.doQuery(ctx, document, variables, field, out)
	metrics.ObserveUpstreamRequest(operation, err, time.Since(start))
	return err
}

func (c *Client) doQuery(ctx context.Context, document string, variables map[string]any, field string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	body, err := json.Marshal(graphQLRequest{Query: document, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequestWithRateLimit(ctx, body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upstream returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var envelope graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("upstream GraphQL error: %s", envelope.Errors[0].Message)
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	raw, ok := data[field]
	if !ok {
		return fmt.Errorf("response missing field %q", field)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %q: %w", field, err)
	}

	return nil
}

// doRequestWithRateLimit performs the HTTP POST with automatic handling
// of upstream HTTP 429 responses: exponential backoff (1s, 2s, 4s, ...)
// up to maxRetries, honoring context cancellation during waits.
func (c *Client) doRequestWithRateLimit(ctx context.Context, body []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/graphql", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("ApiKey", c.apiKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		_ = resp.Body.Close()
		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		lastErr = fmt.Errorf("upstream rate limited (HTTP 429), attempt %d/%d", attempt+1, c.maxRetries+1)
		logging.Warn().Dur("backoff", delay).Int("attempt", attempt+1).Msg("upstream rate limited, backing off")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("exhausted retries: %w", lastErr)
}

// FindScenes fetches one page of scenes matching the descriptor.
func (c *Client) FindScenes(ctx context.Context, qd filter.QueryDescriptor) (*SceneResult, error) {
	variables, err := Variables(qd)
	if err != nil {
		return nil, err
	}
	var result SceneResult
	if err := c.query(ctx, "findScenes", findScenesDocument, variables, "findScenes", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FindPerformers fetches one page of performers matching the descriptor.
func (c *Client) FindPerformers(ctx context.Context, qd filter.QueryDescriptor) (*PerformerResult, error) {
	variables, err := Variables(qd)
	if err != nil {
		return nil, err
	}
	var result PerformerResult
	if err := c.query(ctx, "findPerformers", findPerformersDocument, variables, "findPerformers", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FindStudios fetches one page of studios matching the descriptor.
func (c *Client) FindStudios(ctx context.Context, qd filter.QueryDescriptor) (*StudioResult, error) {
	variables, err := Variables(qd)
	if err != nil {
		return nil, err
	}
	var result StudioResult
	if err := c.query(ctx, "findStudios", findStudiosDocument, variables, "findStudios", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FindTags fetches one page of tags matching the descriptor.
func (c *Client) FindTags(ctx context.Context, qd filter.QueryDescriptor) (*TagResult, error) {
	variables, err := Variables(qd)
	if err != nil {
		return nil, err
	}
	var result TagResult
	if err := c.query(ctx, "findTags", findTagsDocument, variables, "findTags", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ping verifies connectivity by asking the upstream for its version.
func (c *Client) Ping(ctx context.Context) error {
	var version struct {
		Version string `json:"version"`
	}
	return c.query(ctx, "version", versionDocument, nil, "version", &version)
}

// StreamURL returns the upstream stream URL for a scene, used by the
// stream proxy handler.
func (c *Client) StreamURL(sceneID string) string {
	url := fmt.Sprintf("%s/scene/%s/stream", c.baseURL, sceneID)
	if c.apiKey != "" {
		url += "?apikey=" + c.apiKey
	}
	return url
}
