package servagri

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client performs CRUD calls against the content API. Every operation is
// one request/response round-trip; a non-success status surfaces as a
// single descriptive error and leaves the caller's state untouched.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a Client for the API served at baseURL
// (e.g. "https://example.com"). httpc may be nil, in which case
// http.DefaultClient is used; cancellation comes from the per-call context.
func NewClient(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpc: httpc}
}

// ListNews fetches all news items.
func (c *Client) ListNews(ctx context.Context) ([]NewsItem, error) {
	var items []NewsItem
	if err := c.do(ctx, http.MethodGet, "/api/news", nil, &items); err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	return items, nil
}

// CreateNews stores a new news item and returns the created row,
// including the store-assigned id and timestamp.
func (c *Client) CreateNews(ctx context.Context, n NewsItem) (NewsItem, error) {
	var created NewsItem
	if err := c.do(ctx, http.MethodPost, "/api/news/add", n, &created); err != nil {
		return NewsItem{}, fmt.Errorf("create news: %w", err)
	}
	return created, nil
}

// UpdateNews replaces all mutable fields of the news item matching n.ID
// and returns the updated row.
func (c *Client) UpdateNews(ctx context.Context, n NewsItem) (NewsItem, error) {
	var updated NewsItem
	if err := c.do(ctx, http.MethodPut, "/api/news/update", n, &updated); err != nil {
		return NewsItem{}, fmt.Errorf("update news: %w", err)
	}
	return updated, nil
}

// DeleteNews removes the news item with the given id.
func (c *Client) DeleteNews(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, "/api/news/delete", deleteRequest{ID: id}, nil); err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	return nil
}

// ListProjects fetches all projects.
func (c *Client) ListProjects(ctx context.Context) ([]ProjectItem, error) {
	var items []ProjectItem
	if err := c.do(ctx, http.MethodGet, "/api/projects", nil, &items); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return items, nil
}

// CreateProject stores a new project and returns the created row.
func (c *Client) CreateProject(ctx context.Context, p ProjectItem) (ProjectItem, error) {
	var created ProjectItem
	if err := c.do(ctx, http.MethodPost, "/api/projects/add", p, &created); err != nil {
		return ProjectItem{}, fmt.Errorf("create project: %w", err)
	}
	return created, nil
}

// UpdateProject replaces all mutable fields of the project matching p.ID
// and returns the updated row.
func (c *Client) UpdateProject(ctx context.Context, p ProjectItem) (ProjectItem, error) {
	var updated ProjectItem
	if err := c.do(ctx, http.MethodPut, "/api/projects/update", p, &updated); err != nil {
		return ProjectItem{}, fmt.Errorf("update project: %w", err)
	}
	return updated, nil
}

// DeleteProject removes the project with the given id.
func (c *Client) DeleteProject(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, "/api/projects/delete", deleteRequest{ID: id}, nil); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

type deleteRequest struct {
	ID int `json:"id"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
