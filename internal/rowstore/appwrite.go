package rowstore

import (
	"bytes"
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
	defaultTimeout   = 15 * time.Second
	maxErrorBodySize = 1 << 16

	headerProject = "X-Appwrite-Project"
	headerKey     = "X-Appwrite-Key"
)

// Config identifies the remote database.
type Config struct {
	Endpoint   string // e.g. https://cloud.appwrite.io/v1
	ProjectID  string
	DatabaseID string
	APIKey     string
	Timeout    time.Duration
}

// AppwriteClient implements Client over HTTP.
type AppwriteClient struct {
	cfg        Config
	httpClient *http.Client
}

var _ Client = (*AppwriteClient)(nil)

// Error is a non-2xx response from the store.
type Error struct {
	Status  int
	Type    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("rowstore: %d %s: %s", e.Status, e.Type, e.Message)
}

// Unwrap maps HTTP status codes onto the shared error kinds.
func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return models.ErrNotFound
	case http.StatusConflict:
		return models.ErrConflict
	default:
		return models.ErrTransport
	}
}

// NewAppwriteClient validates cfg and returns a client. httpClient may be nil.
func NewAppwriteClient(cfg Config, httpClient *http.Client) (*AppwriteClient, error) {
	if cfg.Endpoint == "" || cfg.ProjectID == "" || cfg.DatabaseID == "" {
		return nil, errors.New("rowstore: endpoint, project id and database id are required")
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &AppwriteClient{cfg: cfg, httpClient: httpClient}, nil
}

// ListRows returns all rows of table matching every query.
func (c *AppwriteClient) ListRows(ctx context.Context, table string, queries ...Query) (RowList, error) {
	params := url.Values{}
	for _, q := range queries {
		params.Add("queries[]", q.String())
	}
	endpoint := c.rowsURL(table)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var out RowList
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return RowList{}, fmt.Errorf("list rows in %s: %w", table, err)
	}
	return out, nil
}

// CreateRow inserts a row with an explicit id. An existing id yields a 409.
func (c *AppwriteClient) CreateRow(ctx context.Context, table, rowID string, data map[string]any) (Row, error) {
	body := map[string]any{"rowId": rowID, "data": data}

	var out Row
	if err := c.do(ctx, http.MethodPost, c.rowsURL(table), body, &out); err != nil {
		return nil, fmt.Errorf("create row %s in %s: %w", rowID, table, err)
	}
	return out, nil
}

// UpdateRow patches the named fields of an existing row.
func (c *AppwriteClient) UpdateRow(ctx context.Context, table, rowID string, data map[string]any) (Row, error) {
	body := map[string]any{"data": data}

	var out Row
	if err := c.do(ctx, http.MethodPatch, c.rowsURL(table)+"/"+url.PathEscape(rowID), body, &out); err != nil {
		return nil, fmt.Errorf("update row %s in %s: %w", rowID, table, err)
	}
	return out, nil
}

func (c *AppwriteClient) rowsURL(table string) string {
	return fmt.Sprintf("%s/tablesdb/%s/tables/%s/rows",
		c.cfg.Endpoint, url.PathEscape(c.cfg.DatabaseID), url.PathEscape(table))
}

func (c *AppwriteClient) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerProject, c.cfg.ProjectID)
	if c.cfg.APIKey != "" {
		req.Header.Set(headerKey, c.cfg.APIKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", models.ErrTransport, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

	var payload struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
		apiErr.Message = payload.Message
		apiErr.Type = payload.Type
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
