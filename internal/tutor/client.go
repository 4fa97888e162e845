// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tutor provides the HTTP client for the hosted answer-generation
// service.
//
// The backend exposes a single chat endpoint that generates a tutor answer
// for one user turn and, when requested, folds web-search augmentation into
// the same response. There is no separate search round trip.
package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/tutorchat-tui/internal/model"
)

// Configuration constants for the answer service.
const (
	// DefaultBaseURL is the default address of the tutoring backend.
	DefaultBaseURL = "http://localhost:8000"

	// chatPath is the answer-generation endpoint.
	chatPath = "/api/chat"

	// DefaultTimeout bounds one answer-generation call. A timed-out turn
	// settles as a transport failure; it never leaves a turn unresolved.
	DefaultTimeout = 120 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

// sharedHTTPClient pools connections across all answer requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
	Timeout: DefaultTimeout,
}

// ErrEmptyResponse indicates a 2xx response with no answer text.
var ErrEmptyResponse = errors.New("answer service returned an empty response")

// =============================================================================
// WIRE TYPES
// =============================================================================

// Professor is the persona payload sent with every request. The model type
// travels in its own top-level field, so it is not part of this object.
type Professor struct {
	Name         string `json:"name"`
	Field        string `json:"field"`
	TeachingMode string `json:"teachingMode"`
	AdviceType   string `json:"adviceType"`
}

// ProfessorFromProfile converts a tutor profile to its wire form,
// substituting the generic fallback persona when the profile is unset.
func ProfessorFromProfile(p model.TutorProfile) Professor {
	if p.IsZero() {
		p = model.DefaultProfile()
	}
	return Professor{
		Name:         p.Name,
		Field:        p.Field,
		TeachingMode: p.TeachingMode,
		AdviceType:   p.AdviceType,
	}
}

// ChatRequest is the request body for the answer endpoint.
type ChatRequest struct {
	Message      string    `json:"message"`
	ModelType    string    `json:"model_type"`
	Professor    Professor `json:"professor"`
	EnableSearch bool      `json:"enable_search"`
}

// SearchResult is one web-search source in a successful response.
type SearchResult struct {
	Title      string `json:"title"`
	Link       string `json:"link"`
	Summary    string `json:"summary"`
	IsAcademic bool   `json:"is_academic,omitempty"`
}

// ToSource converts a wire search result to the domain type.
func (r SearchResult) ToSource() model.SearchSource {
	return model.SearchSource{
		Title:      r.Title,
		Link:       r.Link,
		Summary:    r.Summary,
		IsAcademic: r.IsAcademic,
	}
}

// ChatResponse is the success response from the answer endpoint.
type ChatResponse struct {
	Response      string         `json:"response"`
	SearchResults []SearchResult `json:"search_results,omitempty"`
}

// Sources converts the response's search results to domain sources.
// Returns nil when the response carried none.
func (r *ChatResponse) Sources() []model.SearchSource {
	if len(r.SearchResults) == 0 {
		return nil
	}
	sources := make([]model.SearchSource, 0, len(r.SearchResults))
	for _, sr := range r.SearchResults {
		sources = append(sources, sr.ToSource())
	}
	return sources
}

// errorResponse is the error body the backend sends on non-2xx statuses.
type errorResponse struct {
	Detail string `json:"detail"`
}

// =============================================================================
// API ERROR
// =============================================================================

// APIError represents a non-success status reported by the answer service.
// Detail carries the server-provided message verbatim when present.
type APIError struct {
	Status int
	Detail string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("answer service returned HTTP %d", e.Status)
}

// Is implements errors.Is support: two APIErrors match on status.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Status == t.Status
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the answer-generation service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client for the given backend base URL. An empty URL
// selects the default local backend.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: sharedHTTPClient,
		// One turn per second with a small burst is far above human typing
		// speed; it only guards against accidental tight loops.
		limiter: rate.NewLimiter(rate.Limit(1), 3),
	}
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout <= 0 {
		return c
	}
	// Clone so the shared pooled client keeps its own timeout.
	httpClient := *c.httpClient
	httpClient.Timeout = timeout
	c.httpClient = &httpClient
	return c
}

// WithHTTPClient replaces the underlying HTTP client (used by tests).
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

// WithRateLimit replaces the client-side rate limiter. A nil limiter
// disables rate limiting.
func (c *Client) WithRateLimit(limiter *rate.Limiter) *Client {
	c.limiter = limiter
	return c
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Chat sends one user turn to the answer service and returns the generated
// answer, with search results folded in when the backend performed a
// search.
//
// Any transport error, and any non-2xx status, is returned as an error;
// for non-2xx statuses the error is an *APIError carrying the server's
// detail message when one was provided.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("answer request failed: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("answer service: %d %s (%v)", resp.StatusCode, httpReq.URL.Path, time.Since(start))

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read answer response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp.StatusCode, respBody)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode answer response: %w", err)
	}
	if chatResp.Response == "" {
		return nil, ErrEmptyResponse
	}

	return &chatResp, nil
}

// decodeAPIError builds an *APIError from a non-2xx response, surfacing
// the backend's detail field verbatim when present.
func decodeAPIError(status int, body []byte) error {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Detail != "" {
		return &APIError{Status: status, Detail: errResp.Detail}
	}
	return &APIError{Status: status}
}
