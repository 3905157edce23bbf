// Package platform is the HTTP client for the remote risk-management
// platform: project creation/update from OTM text, raw OTM fetch, and the
// exact-id existence lookup used for conflict resolution.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/otm-exchange/otmctl/internal/config"
	"github.com/otm-exchange/otmctl/internal/logger"
)

const otmContentType = "application/vnd.otm+yaml"

// ProjectInfo is the platform's description of a project touched by a
// create or update call.
type ProjectInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	UUID string `json:"uuid"`
}

// ConflictError reports that the platform rejected a create because a
// project with a colliding name or id already exists. It carries the remote
// message verbatim; it does not say whether the collision is by id or by
// name — that distinction comes from ExistsByID.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return "project already exists: " + e.Message
}

// StatusError is a non-2xx response outside the conflict case.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: platform returned status %d: %s", e.Op, e.Status, e.Body)
}

// Client talks to the platform API. All methods are synchronous; the only
// timeout discipline is the HTTP client's.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *slog.Logger
}

// NewClient builds a client from config.
func NewClient(cfg config.Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: cfg.APIURL,
		token:   cfg.APIToken,
		http:    &http.Client{Timeout: timeout},
		log:     logger.Default,
	}
}

// CreateProject submits an OTM document as a new project. A 409 response
// is returned as *ConflictError.
func (c *Client) CreateProject(ctx context.Context, doc []byte) (*ProjectInfo, error) {
	resp, err := c.send(ctx, http.MethodPost, "/api/v1/projects/otm", doc)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	switch {
	case resp.StatusCode == http.StatusConflict:
		c.log.Warn("create rejected as conflict", "status", resp.StatusCode)
		return nil, &ConflictError{Message: remoteMessage(body)}
	case resp.StatusCode >= 400:
		return nil, &StatusError{Op: "create project", Status: resp.StatusCode, Body: remoteMessage(body)}
	}
	return decodeProjectInfo(body)
}

// UpdateProject replaces the project identified by ref (project id or
// remote UUID) with the given OTM document.
func (c *Client) UpdateProject(ctx context.Context, ref string, doc []byte) (*ProjectInfo, error) {
	resp, err := c.send(ctx, http.MethodPut, "/api/v1/projects/otm/"+url.PathEscape(ref), doc)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, &StatusError{Op: "update project " + ref, Status: resp.StatusCode, Body: remoteMessage(body)}
	}
	return decodeProjectInfo(body)
}

// FetchOTM retrieves the project's OTM document verbatim.
func (c *Client) FetchOTM(ctx context.Context, ref string) ([]byte, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/v1/projects/"+url.PathEscape(ref)+"/otm", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read export body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, &StatusError{Op: "fetch project " + ref, Status: resp.StatusCode, Body: remoteMessage(body)}
	}
	return body, nil
}

// ExistsByID looks up a project by its exact OTM project id. It returns
// the project's remote UUID when found; a 404 means "does not exist" and
// is not an error.
func (c *Client) ExistsByID(ctx context.Context, id string) (bool, string, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/v1/projects/by-id/"+url.PathEscape(id), nil)
	if err != nil {
		return false, "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, "", nil
	case resp.StatusCode >= 400:
		return false, "", &StatusError{Op: "lookup project " + id, Status: resp.StatusCode, Body: remoteMessage(body)}
	}
	var out struct {
		UUID string `json:"uuid"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return false, "", fmt.Errorf("decode lookup response: %w", err)
	}
	return true, out.UUID, nil
}

func (c *Client) send(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", otmContentType)
	}
	if c.token != "" {
		req.Header.Set("X-Api-Token", c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("platform request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("platform request failed: %w", err)
	}
	return resp, nil
}

func decodeProjectInfo(body []byte) (*ProjectInfo, error) {
	var info ProjectInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("decode project response: %w", err)
	}
	return &info, nil
}

// remoteMessage extracts the platform's error message when the body is the
// usual {"message": "..."} JSON, falling back to the raw body.
func remoteMessage(body []byte) string {
	var out struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &out); err == nil && out.Message != "" {
		return out.Message
	}
	return string(bytes.TrimSpace(body))
}
