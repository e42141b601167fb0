// Package board is the client side of the kanban dashboard: an HTTP client
// for the task API, an in-memory board that groups tasks into the four
// lanes and applies optimistic drag-drop transitions, and a reconciler
// that debounces realtime change events into re-fetches.
package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/sony/gobreaker"

	"github.com/davidmorenoc/taskboard-api/internal/models"
)

// Client talks to the task API. It keeps the session cookie between calls
// and routes every request through a circuit breaker so a dead server
// stops being hammered.
type Client struct {
	baseURL string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker
}

// NewClient creates a Client for the API at baseURL.
func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "taskboard-api",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
	})

	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
		},
		cb: cb,
	}, nil
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	_, err = c.cb.Execute(func() (interface{}, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			var apiErr apiError
			if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Message != "" {
				return nil, fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Message, resp.StatusCode)
			}
			return nil, fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return nil, fmt.Errorf("failed to decode response: %w", err)
			}
		}
		return nil, nil
	})
	return err
}

// Login authenticates against the API and stores the session cookie.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/api/auth/login", body, nil)
}

// ListTasks fetches the task list under the given filter ("team" or "my").
func (c *Client) ListTasks(ctx context.Context, filter string) ([]models.Task, error) {
	var resp struct {
		Tasks []models.Task `json:"tasks"`
	}
	path := "/api/task?filter=" + filter
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// UpdateTaskState moves a task to the given lane.
func (c *Client) UpdateTaskState(ctx context.Context, taskID string, state models.TaskState) error {
	body := map[string]string{"state": string(state)}
	return c.do(ctx, http.MethodPatch, "/api/task/"+taskID, body, nil)
}
