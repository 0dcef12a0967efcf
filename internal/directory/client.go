// Package directory talks to the external HR directory that owns the raw
// employee and project records. Staffmatch only mirrors them for ranking.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/talentmesh/staffmatch/internal/store"
)

type Client interface {
	ListEmployees(ctx context.Context) ([]*store.Employee, error)
	ListProjects(ctx context.Context) ([]*store.Project, error)
}

type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPClient) doReq(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("directory %s %s: %d %s", method, path, resp.StatusCode, string(body))
	}
	return body, nil
}

func (c *HTTPClient) ListEmployees(ctx context.Context) ([]*store.Employee, error) {
	data, err := c.doReq(ctx, "GET", "/api/employees")
	if err != nil {
		return nil, err
	}
	var employees []*store.Employee
	if err := json.Unmarshal(data, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

func (c *HTTPClient) ListProjects(ctx context.Context) ([]*store.Project, error) {
	data, err := c.doReq(ctx, "GET", "/api/projects")
	if err != nil {
		return nil, err
	}
	var projects []*store.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}
