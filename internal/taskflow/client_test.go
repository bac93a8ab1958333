// File: internal/taskflow/client_test.go
package taskflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/chimera/api/schemas"
	"github.com/xkilldash9x/chimera/internal/config"
)

func newBoardServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds["username"] != "monitor" || creds["password"] != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		// Path must cover the whole API, matching real boards; without it
		// the default-path rules scope the cookie to /api/auth only.
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc123", Path: "/"})
	})
	mux.HandleFunc("/api/tasks", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err != nil || c.Value != "abc123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode([]schemas.Task{
			{ID: 1, Title: "Ship login", Status: "open"},
			{ID: 2, Title: "Fix search", Status: "open"},
		})
	})
	mux.HandleFunc("/api/tasks/1", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		var task schemas.Task
		require.NoError(t, json.NewDecoder(r.Body).Decode(&task))
		assert.Equal(t, "completed", task.Status)
	})
	return httptest.NewServer(mux)
}

func newBoardClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := New(config.TaskFlowConfig{
		BaseURL:  baseURL,
		Username: "monitor",
		Password: "hunter2",
		Timeout:  5 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, client)
	return client
}

func TestClientSessionFlow(t *testing.T) {
	srv := newBoardServer(t)
	defer srv.Close()
	ctx := context.Background()

	client := newBoardClient(t, srv.URL)
	require.NoError(t, client.Login(ctx))

	tasks, err := client.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Ship login", tasks[0].Title)

	require.NoError(t, client.UpdateTask(ctx, schemas.Task{ID: 1, Title: "Ship login", Status: "completed"}))
}

func TestClientRejectedLogin(t *testing.T) {
	srv := newBoardServer(t)
	defer srv.Close()

	client, err := New(config.TaskFlowConfig{
		BaseURL:  srv.URL,
		Username: "monitor",
		Password: "wrong",
	}, zap.NewNop())
	require.NoError(t, err)

	err = client.Login(context.Background())
	assert.ErrorContains(t, err, "401")
}

func TestClientWithoutBaseURLIsNil(t *testing.T) {
	client, err := New(config.TaskFlowConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestTasksRequireSession(t *testing.T) {
	srv := newBoardServer(t)
	defer srv.Close()

	client := newBoardClient(t, srv.URL)
	_, err := client.Tasks(context.Background())
	assert.ErrorContains(t, err, "401")
}
