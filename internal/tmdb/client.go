// Package tmdb is a read-only client for The Movie Database v3 API.
package tmdb

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

	"moviewatch/internal/models"
)

const (
	DefaultBaseURL = "https://api.themoviedb.org/3"
	defaultTimeout = 10 * time.Second
)

// APIError is a non-2xx response from the provider.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tmdb: %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return models.ErrNotFound
	}
	return models.ErrTransport
}

// Client talks to TMDB with a bearer read-access token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New returns a client. An empty baseURL selects the public API.
func New(baseURL, token string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

type searchResponse struct {
	Page         int                   `json:"page"`
	Results      []models.MovieSummary `json:"results"`
	TotalPages   int                   `json:"total_pages"`
	TotalResults int                   `json:"total_results"`
}

// SearchMovies returns the first page of results for query.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]models.MovieSummary, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")

	var resp searchResponse
	if err := c.get(ctx, "/search/movie", params, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	if resp.Results == nil {
		return []models.MovieSummary{}, nil
	}
	return resp.Results, nil
}

// MovieDetails fetches one movie by id.
func (c *Client) MovieDetails(ctx context.Context, movieID string) (models.MovieDetail, error) {
	var out models.MovieDetail
	if err := c.get(ctx, "/movie/"+url.PathEscape(movieID), nil, &out); err != nil {
		return models.MovieDetail{}, fmt.Errorf("details %q: %w", movieID, err)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", models.ErrTransport, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var payload struct {
		StatusMessage string `json:"status_message"`
	}
	msg := http.StatusText(resp.StatusCode)
	if err := json.Unmarshal(raw, &payload); err == nil && payload.StatusMessage != "" {
		msg = payload.StatusMessage
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

// IsNotFound reports whether err is a provider 404.
func IsNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}
