// File: internal/taskflow/client.go

// Package taskflow is a thin client for the external task board API the
// simulated agents work against. The board is optional; every consumer
// tolerates a nil *Client and falls back to request-style actions.
package taskflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/chimera/api/schemas"
	"github.com/xkilldash9x/chimera/internal/config"
)

// Client talks to the task board. Authentication is cookie based: Login
// establishes a session the jar carries on subsequent requests.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	logger     *zap.Logger
}

// New builds a client from config. Returns nil when no base URL is set.
func New(cfg config.TaskFlowConfig, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, nil
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		username: cfg.Username,
		password: cfg.Password,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
		logger: logger.Named("taskflow"),
	}, nil
}

// Login authenticates against the board and stores the session cookie.
func (c *Client) Login(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{
		"username": c.username,
		"password": c.password,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal login payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("login rejected with status %d: %s", resp.StatusCode, string(respBody))
	}

	c.logger.Info("Authenticated with task board", zap.String("base_url", c.baseURL))
	return nil
}

// Tasks fetches the current task list.
func (c *Client) Tasks(ctx context.Context) ([]schemas.Task, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tasks", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tasks request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tasks request returned status %d", resp.StatusCode)
	}

	var tasks []schemas.Task
	if err := json.NewDecoder(resp.Body).Decode(&tasks); err != nil {
		return nil, fmt.Errorf("failed to decode task list: %w", err)
	}
	return tasks, nil
}

// UpdateTask pushes a status change for one task.
func (c *Client) UpdateTask(ctx context.Context, task schemas.Task) error {
	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task update: %w", err)
	}

	url := fmt.Sprintf("%s/api/tasks/%d", c.baseURL, task.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create task update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("task update request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("task update returned status %d", resp.StatusCode)
	}

	c.logger.Debug("Task updated",
		zap.Int("task_id", task.ID),
		zap.String("status", task.Status),
	)
	return nil
}
