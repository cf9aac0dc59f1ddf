package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"daylist/internal/logs"
	"daylist/internal/tasks/data"
)

const (
	DefaultBaseURL = "http://localhost:8080/api"
	DefaultTimeout = 10 * time.Second

	maxErrorBody = 64 << 10
)

// TasksAPI is the REST surface of the task backend.
type TasksAPI interface {
	GetTasks(ctx context.Context) ([]data.Task, error)
	AddTask(ctx context.Context, task data.Task) (data.Task, error)
	EditTask(ctx context.Context, task data.Task) (data.Task, error)
	DeleteTask(ctx context.Context, id string) error
	Undo(ctx context.Context, id string) (data.Task, error)
	OrderTasks(ctx context.Context, ids []string) error
}

// Client talks to the backend over HTTP+JSON.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sends a bearer token on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// NewClient creates a client for the backend rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type orderRequest struct {
	IDs []string `json:"ids"`
}

func (c *Client) GetTasks(ctx context.Context) ([]data.Task, error) {
	var tasks []data.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, fmt.Errorf("get tasks: %w", err)
	}
	return tasks, nil
}

func (c *Client) AddTask(ctx context.Context, task data.Task) (data.Task, error) {
	var created data.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", task, &created); err != nil {
		return data.Task{}, fmt.Errorf("add task: %w", err)
	}
	return created, nil
}

func (c *Client) EditTask(ctx context.Context, task data.Task) (data.Task, error) {
	var updated data.Task
	if err := c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(task.ID), task, &updated); err != nil {
		return data.Task{}, fmt.Errorf("edit task %s: %w", task.ID, err)
	}
	return updated, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

func (c *Client) Undo(ctx context.Context, id string) (data.Task, error) {
	var restored data.Task
	if err := c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(id)+"/undo", nil, &restored); err != nil {
		return data.Task{}, fmt.Errorf("undo delete %s: %w", id, err)
	}
	return restored, nil
}

func (c *Client) OrderTasks(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	if err := c.do(ctx, http.MethodPut, "/tasks/order", orderRequest{IDs: ids}, nil); err != nil {
		return fmt.Errorf("order tasks: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		logs.Logger.Printf("%s %s failed after %s: %v", method, path, time.Since(start), err)
		return err
	}
	defer resp.Body.Close()

	logs.Logger.Printf("%s %s -> %d (%s) [%s]", method, path, resp.StatusCode, time.Since(start), requestID)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(resp, requestID)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newError(resp *http.Response, requestID string) *Error {
	apiErr := &Error{
		StatusCode: resp.StatusCode,
		RequestID:  requestID,
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil {
		apiErr.Message = eb.Error
		if apiErr.Message == "" {
			apiErr.Message = eb.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
