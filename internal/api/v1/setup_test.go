package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"taskboard/internal/metrics"
	"taskboard/internal/repository"
	"taskboard/internal/service"
	"taskboard/internal/token"
)

const testSecret = "test-secret"

type testEnv struct {
	app    *fiber.App
	store  *repository.MemoryStore
	tokens *token.Service
}

// newTestEnv wires the real services over the in-memory store.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := repository.NewMemoryStore()
	tokens := token.NewService(testSecret, 24*time.Hour)
	reg := prometheus.NewRegistry()

	app := NewApp(Deps{
		Auth:     service.NewAuthService(store.Users(), tokens).WithHashCost(bcrypt.MinCost),
		Tasks:    service.NewTaskService(store.Tasks()),
		Tokens:   tokens,
		Metrics:  metrics.NewCollector(reg),
		TokenTTL: tokens.TTL(),
	}, AppOptions{
		CORSOrigins:    "http://localhost:5173",
		MetricsHandler: metrics.Handler(reg),
	})
	return &testEnv{app: app, store: store, tokens: tokens}
}

func (e *testEnv) do(t *testing.T, method, path, tok string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func decodeMap(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	decodeInto(t, resp, &m)
	return m
}

// signUp registers a fresh user and returns its token and id.
func (e *testEnv) signUp(t *testing.T, prefix string) (string, string) {
	t.Helper()

	email := fmt.Sprintf("%s_%d@example.com", prefix, time.Now().UnixNano())
	resp := e.do(t, "POST", "/api/auth/signup", "", map[string]string{
		"name":     prefix,
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	result := decodeMap(t, resp)
	tok, ok := result["token"].(string)
	require.True(t, ok && tok != "", "expected token in signup response")
	user, ok := result["user"].(map[string]interface{})
	require.True(t, ok, "expected user in signup response")
	return tok, user["id"].(string)
}
