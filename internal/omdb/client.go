// Package omdb is a thin client for the OMDb movie metadata API
// (https://www.omdbapi.com). It makes exactly one outbound request per
// lookup — no retries, no caching — and maps the provider's responses to
// the application's error taxonomy so callers never have to inspect HTTP
// details.
package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/xid"

	"github.com/Pooch41/Cinephile-Online/internal/apperror"
	"github.com/Pooch41/Cinephile-Online/internal/model"
)

// DefaultBaseURL is the public OMDb endpoint.
const DefaultBaseURL = "https://www.omdbapi.com"

// DefaultTimeout bounds each lookup. A request that takes longer is
// reported as unavailable — there is no backoff or background retry.
const DefaultTimeout = 10 * time.Second

// payload is the portion of the OMDb title-search response we care about.
// OMDb returns a much larger object — we only unmarshal the fields we need.
//
// OMDb signals "no such title" in-band: the HTTP status is 200 but the
// payload carries Response="False" plus an Error message.
type payload struct {
	Title    string `json:"Title"`
	Director string `json:"Director"`
	Year     string `json:"Year"`
	Poster   string `json:"Poster"`
	Response string `json:"Response"` // "True" or "False"
	Error    string `json:"Error"`    // set when Response is "False"
}

// Client fetches movie metadata from OMDb.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates an OMDb client. baseURL may be empty to use the public
// endpoint; timeout <= 0 falls back to DefaultTimeout. The API key is
// required — config validation guarantees it is set before we get here.
func New(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch looks up a movie by title and returns a normalized, unsaved Movie
// (ID 0 — the repository assigns the ID on insert).
//
// Error mapping:
//   - transport failure or non-2xx status → apperror.ErrUnavailable
//   - well-formed "no such title" payload → apperror.ErrNotFound
//
// Provider fields missing or set to OMDb's "N/A" placeholder come back as
// empty strings, not errors.
func (c *Client) Fetch(ctx context.Context, title string) (*model.Movie, error) {
	// Correlation id for tracing a single outbound call through the logs.
	reqID := xid.New().String()

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("t", title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("omdb: building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("omdb lookup",
		slog.String("requestId", reqID),
		slog.String("title", title),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("omdb request failed",
			slog.String("requestId", reqID),
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("omdb: requesting %q: %w",
			title, apperror.Unavailable("omdb", err.Error()))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("omdb returned non-2xx status",
			slog.String("requestId", reqID),
			slog.String("title", title),
			slog.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("omdb: requesting %q: %w", title,
			apperror.Unavailable("omdb",
				fmt.Sprintf("unexpected status %d", resp.StatusCode)))
	}

	var p payload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("omdb: decoding response for %q: %w",
			title, apperror.Unavailable("omdb", err.Error()))
	}

	if p.Response == "False" {
		c.logger.Warn("omdb has no match for title",
			slog.String("requestId", reqID),
			slog.String("title", title),
			slog.String("providerError", p.Error),
		)
		return nil, apperror.NotFound("movie", title)
	}

	return &model.Movie{
		Title:       normalize(p.Title),
		Director:    normalize(p.Director),
		ReleaseYear: normalize(p.Year),
		PosterURL:   normalize(p.Poster),
	}, nil
}

// normalize maps OMDb's "N/A" placeholder to the empty string so absent
// metadata is represented one way throughout the app.
func normalize(v string) string {
	if v == "N/A" {
		return ""
	}
	return v
}
