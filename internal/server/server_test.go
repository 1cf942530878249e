package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jjudge-oj/usersvc/config"
	"github.com/jjudge-oj/usersvc/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, expiryHours int) *httptest.Server {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	mem := store.NewMemory()
	srv, err := NewWithDependencies(
		config.Config{ServerPort: 0, SessionExpiryHours: expiryHours},
		log,
		Dependencies{Users: mem.Users(), Sessions: mem.Sessions()},
	)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Shutdown(context.Background())
	})
	return ts
}

func do(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestAccountScenario(t *testing.T) {
	ts := newTestServer(t, 2)
	creds := map[string]string{"username": "alice", "password": "secret123"}

	resp, body := do(t, http.MethodPost, ts.URL+"/users", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var user map[string]any
	require.NoError(t, json.Unmarshal(body, &user))
	assert.Len(t, user, 2, "signup response must only carry id and username: %s", body)
	assert.Equal(t, "alice", user["username"])
	userID, _ := user["id"].(string)
	require.NotEmpty(t, userID)

	before := time.Now()
	resp, body = do(t, http.MethodPost, ts.URL+"/sessions", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var session struct {
		ID        string    `json:"id"`
		UserID    string    `json:"userId"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	require.NoError(t, json.Unmarshal(body, &session))
	assert.Equal(t, userID, session.UserID)
	assert.NotEmpty(t, session.ID)
	assert.WithinDuration(t, before.Add(2*time.Hour), session.ExpiresAt, 5*time.Second)

	resp, body = do(t, http.MethodGet, ts.URL+"/sessions/"+session.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = do(t, http.MethodDelete, ts.URL+"/sessions/"+session.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body)

	resp, _ = do(t, http.MethodGet, ts.URL+"/sessions/"+session.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthzAndMetrics(t *testing.T) {
	ts := newTestServer(t, 1)

	resp, body := do(t, http.MethodGet, ts.URL+"/healthz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, body = do(t, http.MethodGet, ts.URL+"/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `route="/healthz"`), "expected healthz request in metrics")
}

func TestNewWithDependencies_Validation(t *testing.T) {
	mem := store.NewMemory()

	_, err := NewWithDependencies(config.Config{SessionExpiryHours: 0}, nil,
		Dependencies{Users: mem.Users(), Sessions: mem.Sessions()})
	assert.Error(t, err)

	_, err = NewWithDependencies(config.Config{SessionExpiryHours: 1}, nil, Dependencies{})
	assert.Error(t, err)
}
