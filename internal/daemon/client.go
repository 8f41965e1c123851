// Package daemon is the HTTP client for the local Side daemon API.
//
// The daemon listens on localhost and exposes workspaces and their tasks
// under /api/v1. Every call makes exactly one request: there is no retry,
// no caching and no authentication.
package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is where a locally started daemon serves its API.
	DefaultBaseURL = "http://localhost:8855/api/v1"

	// DefaultConnectTimeout bounds connection establishment only.
	DefaultConnectTimeout = 5 * time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 8 << 20
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the API root, e.g. "http://localhost:8855/api/v1".
	// Defaults to DefaultBaseURL.
	BaseURL string

	// ConnectTimeout bounds dialing the daemon. Defaults to DefaultConnectTimeout.
	// No overall request timeout is applied; callers bound that with ctx.
	ConnectTimeout time.Duration

	// HTTPClient overrides the transport entirely. ConnectTimeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to the Side daemon.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client from config.
func NewClient(config ClientConfig) (*Client, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("daemon: invalid base URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("daemon: base URL %q must use http or https", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("daemon: base URL %q has no host", baseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.ConnectTimeout
		if timeout <= 0 {
			timeout = DefaultConnectTimeout
		}
		httpClient = newHTTPClient(timeout)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}, nil
}

func newHTTPClient(connectTimeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	return &http.Client{Transport: transport}
}

// BaseURL returns the API root the client sends requests to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListWorkspaces fetches every workspace the daemon knows about.
//
// Only a 200 response with a decodable body succeeds. Transport failures,
// any other status and undecodable bodies all return an error wrapping
// ErrUnavailable; the response is never partially usable.
func (c *Client) ListWorkspaces(ctx context.Context) (*WorkspaceList, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/workspaces/", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, &APIError{StatusCode: status})
	}

	list, err := decodeWorkspaceList(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return list, nil
}

// CreateWorkspace registers a new workspace bound to req.LocalRepoDir.
func (c *Client) CreateWorkspace(ctx context.Context, req CreateWorkspaceRequest) (*Workspace, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/workspaces", req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, &APIError{StatusCode: status, Message: errorMessage(body)}
	}
	return decodeWorkspace(body)
}

// ListTasks fetches the tasks of one workspace, optionally filtered by status.
func (c *Client) ListTasks(ctx context.Context, workspaceID string, statuses []TaskStatus) (*TaskList, error) {
	path, err := taskPath(workspaceID, "")
	if err != nil {
		return nil, err
	}
	if len(statuses) > 0 {
		names := make([]string, len(statuses))
		for i, s := range statuses {
			names[i] = string(s)
		}
		query := url.Values{}
		query.Set("statuses", strings.Join(names, ","))
		path += "?" + query.Encode()
	}

	status, body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if status != http.StatusOK {
		return nil, &APIError{StatusCode: status, Message: errorMessage(body)}
	}
	return decodeTaskList(body)
}

// CreateTask adds a task to a workspace.
func (c *Client) CreateTask(ctx context.Context, workspaceID string, req TaskRequest) (*Task, error) {
	path, err := taskPath(workspaceID, "")
	if err != nil {
		return nil, err
	}
	return c.taskCall(ctx, http.MethodPost, path, req)
}

// GetTask fetches one task.
func (c *Client) GetTask(ctx context.Context, workspaceID, taskID string) (*Task, error) {
	path, err := oneTaskPath(workspaceID, taskID)
	if err != nil {
		return nil, err
	}
	return c.taskCall(ctx, http.MethodGet, path, nil)
}

// UpdateTask replaces a task's description, status, agent and flow type.
func (c *Client) UpdateTask(ctx context.Context, workspaceID, taskID string, req TaskRequest) (*Task, error) {
	path, err := oneTaskPath(workspaceID, taskID)
	if err != nil {
		return nil, err
	}
	return c.taskCall(ctx, http.MethodPut, path, req)
}

// DeleteTask removes a task. The daemon answers 404 for unknown tasks.
func (c *Client) DeleteTask(ctx context.Context, workspaceID, taskID string) error {
	path, err := oneTaskPath(workspaceID, taskID)
	if err != nil {
		return err
	}

	status, body, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return &APIError{StatusCode: status, Message: errorMessage(body)}
	}
	return nil
}

func (c *Client) taskCall(ctx context.Context, method, path string, payload any) (*Task, error) {
	status, body, err := c.do(ctx, method, path, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, &APIError{StatusCode: status, Message: errorMessage(body)}
	}
	return decodeTask(body)
}

// taskPath builds /workspaces/{id}/tasks[/{taskID}] with escaped segments.
func taskPath(workspaceID, taskID string) (string, error) {
	if workspaceID == "" {
		return "", fmt.Errorf("daemon: workspace id is required")
	}
	path := "/workspaces/" + url.PathEscape(workspaceID) + "/tasks"
	if taskID != "" {
		path += "/" + url.PathEscape(taskID)
	}
	return path, nil
}

// oneTaskPath is taskPath for endpoints addressing a single task.
func oneTaskPath(workspaceID, taskID string) (string, error) {
	if taskID == "" {
		return "", fmt.Errorf("daemon: task id is required")
	}
	return taskPath(workspaceID, taskID)
}

// do sends one request and returns the status and full body.
func (c *Client) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return 0, nil, fmt.Errorf("reading response: %w", err)
	}
	if len(body) > maxResponseBytes {
		return 0, nil, fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedResponse, maxResponseBytes)
	}
	return resp.StatusCode, body, nil
}
