// Package api is the HTTP client for the task REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/riordanpawley/tasktable/internal/domain"
)

// HTTPClient abstracts HTTP requests for testing
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TaskFetcher loads the task list for a project
type TaskFetcher interface {
	FetchTasks(ctx context.Context, projectID string) ([]domain.Task, error)
}

// SubtaskFetcher loads the subtasks of one parent
type SubtaskFetcher interface {
	FetchSubtasks(ctx context.Context, parentID string) ([]domain.Task, error)
}

// TaskUpdater sends a partial update guarded by the task version
type TaskUpdater interface {
	UpdateTask(ctx context.Context, id string, update domain.TaskUpdate, version int64) (*domain.Task, error)
}

// TaskDeleter removes a task
type TaskDeleter interface {
	DeleteTask(ctx context.Context, id string) error
}

// UserFetcher lists the users tasks can be assigned to
type UserFetcher interface {
	FetchUsers(ctx context.Context) ([]domain.Assignee, error)
}

// Backend is everything the table needs from the server
type Backend interface {
	TaskFetcher
	SubtaskFetcher
	TaskUpdater
	TaskDeleter
	UserFetcher
	Health(ctx context.Context) error
}

// TaskList is the envelope for list responses
type TaskList struct {
	Tasks []domain.Task `json:"tasks"`
}

// UserList is the envelope for the user directory
type UserList struct {
	Users []domain.Assignee `json:"users"`
}

// ErrorBody is the envelope for error responses
type ErrorBody struct {
	Error string `json:"error"`
}

// Client talks to the task REST API
type Client struct {
	baseURL    string
	httpClient HTTPClient
	logger     *slog.Logger
}

// NewClient creates a new API client with dependency injection
func NewClient(baseURL string, httpClient HTTPClient, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// FetchTasks lists every task of a project using GET /api/projects/{id}/tasks
func (c *Client) FetchTasks(ctx context.Context, projectID string) ([]domain.Task, error) {
	c.logger.Debug("fetching tasks", "project", projectID)

	var list TaskList
	path := "/api/projects/" + url.PathEscape(projectID) + "/tasks"
	if err := c.do(ctx, "fetch", "", http.MethodGet, path, nil, nil, &list); err != nil {
		return nil, err
	}

	c.logger.Debug("fetched tasks", "count", len(list.Tasks))
	return nonNil(list.Tasks), nil
}

// FetchSubtasks lists the children of parentID using GET /api/tasks/{id}/subtasks
func (c *Client) FetchSubtasks(ctx context.Context, parentID string) ([]domain.Task, error) {
	c.logger.Debug("fetching subtasks", "parent", parentID)

	var list TaskList
	path := "/api/tasks/" + url.PathEscape(parentID) + "/subtasks"
	if err := c.do(ctx, "subtasks", parentID, http.MethodGet, path, nil, nil, &list); err != nil {
		return nil, err
	}

	c.logger.Debug("fetched subtasks", "parent", parentID, "count", len(list.Tasks))
	return nonNil(list.Tasks), nil
}

// UpdateTask sends update using PUT /api/tasks/{id}.
// The server rejects it with 409 when version is no longer current.
func (c *Client) UpdateTask(ctx context.Context, id string, update domain.TaskUpdate, version int64) (*domain.Task, error) {
	c.logger.Debug("updating task", "id", id, "fields", update.Fields(), "version", version)

	body, err := json.Marshal(update)
	if err != nil {
		return nil, &domain.APIError{Op: "update", TaskID: id, Message: "failed to encode update", Err: err}
	}

	headers := http.Header{}
	headers.Set("If-Match", strconv.FormatInt(version, 10))

	var task domain.Task
	path := "/api/tasks/" + url.PathEscape(id)
	if err := c.do(ctx, "update", id, http.MethodPut, path, body, headers, &task); err != nil {
		return nil, err
	}

	c.logger.Debug("task updated", "id", id, "version", task.Version)
	return &task, nil
}

// DeleteTask removes a task using DELETE /api/tasks/{id}
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	c.logger.Debug("deleting task", "id", id)

	path := "/api/tasks/" + url.PathEscape(id)
	if err := c.do(ctx, "delete", id, http.MethodDelete, path, nil, nil, nil); err != nil {
		return err
	}

	c.logger.Debug("task deleted", "id", id)
	return nil
}

// FetchUsers lists assignable users using GET /api/users
func (c *Client) FetchUsers(ctx context.Context) ([]domain.Assignee, error) {
	c.logger.Debug("fetching users")

	var list UserList
	if err := c.do(ctx, "users", "", http.MethodGet, "/api/users", nil, nil, &list); err != nil {
		return nil, err
	}
	if list.Users == nil {
		list.Users = []domain.Assignee{}
	}

	c.logger.Debug("fetched users", "count", len(list.Users))
	return list.Users, nil
}

// Health pings GET /api/health
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, "health", "", http.MethodGet, "/api/health", nil, nil, nil)
}

func (c *Client) do(ctx context.Context, op, taskID, method, path string, body []byte, headers http.Header, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &domain.APIError{Op: op, TaskID: taskID, Message: "failed to create request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "op", op, "id", taskID, "error", err)
		return &domain.APIError{Op: op, TaskID: taskID, Err: fmt.Errorf("%w: %w", domain.ErrOffline, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(op, taskID, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.APIError{Op: op, TaskID: taskID, Status: resp.StatusCode, Message: "failed to parse JSON", Err: err}
	}
	return nil
}

func statusError(op, taskID string, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	message := strings.TrimSpace(string(data))
	var eb ErrorBody
	if json.Unmarshal(data, &eb) == nil && eb.Error != "" {
		message = eb.Error
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	apiErr := &domain.APIError{Op: op, TaskID: taskID, Status: resp.StatusCode, Message: message}
	switch resp.StatusCode {
	case http.StatusNotFound:
		apiErr.Err = domain.ErrNotFound
	case http.StatusConflict, http.StatusPreconditionFailed:
		apiErr.Err = domain.ErrConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		apiErr.Err = domain.ErrInvalidValue
	default:
		apiErr.Err = fmt.Errorf("status %d", resp.StatusCode)
	}
	return apiErr
}

func nonNil(tasks []domain.Task) []domain.Task {
	if tasks == nil {
		return []domain.Task{}
	}
	return tasks
}
