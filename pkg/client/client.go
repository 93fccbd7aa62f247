// Package client is a Go client for the taskboard HTTP API.
//
// It keeps the session token in a TokenStore, attaches it as a bearer token
// to every protected call and forgets it on SignOut. Non-2xx answers are
// returned as *APIError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoToken is returned by protected calls when no token is stored.
var ErrNoToken = errors.New("client: not signed in")

type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("taskboard: %d %s", e.Status, e.Message)
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Task struct {
	ID          string    `json:"id"`
	User        string    `json:"user"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	DueDate     string    `json:"dueDate,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateTaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
}

// UpdateTaskInput is a partial update; nil fields are not sent.
type UpdateTaskInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a client for the API rooted at baseURL, e.g.
// "http://localhost:3000". A nil store means an in-memory one.
func New(baseURL string, store TokenStore, opts ...Option) *Client {
	if store == nil {
		store = NewMemoryTokenStore()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		tokens:  store,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SignUp(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.authenticate(ctx, "/api/auth/signup", body)
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	return c.authenticate(ctx, "/api/auth/signin", body)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*AuthResponse, error) {
	var res AuthResponse
	if err := c.do(ctx, http.MethodPost, path, "", body, &res); err != nil {
		return nil, err
	}
	if res.Token != "" {
		if err := c.tokens.Save(res.Token); err != nil {
			return nil, err
		}
	}
	return &res, nil
}

// SignOut tells the server to drop the cookie and forgets the local token.
// The token is cleared even when the server call fails.
func (c *Client) SignOut(ctx context.Context) error {
	callErr := c.do(ctx, http.MethodPost, "/api/auth/signout", "", struct{}{}, nil)
	if err := c.tokens.Clear(); err != nil {
		return err
	}
	return callErr
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.authed(ctx, http.MethodGet, "/api/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ListTasks(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := c.authed(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	var t Task
	if err := c.authed(ctx, http.MethodGet, taskPath(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) CreateTask(ctx context.Context, in CreateTaskInput) (*Task, error) {
	var t Task
	if err := c.authed(ctx, http.MethodPost, "/api/tasks", in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, in UpdateTaskInput) (*Task, error) {
	var t Task
	if err := c.authed(ctx, http.MethodPut, taskPath(id), in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.authed(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

func taskPath(id string) string {
	return "/api/tasks/" + url.PathEscape(id)
}

func (c *Client) authed(ctx context.Context, method, path string, body, out any) error {
	tok, err := c.tokens.Load()
	if err != nil {
		return err
	}
	if tok == "" {
		return ErrNoToken
	}
	return c.do(ctx, method, path, tok, body, out)
}

func (c *Client) do(ctx context.Context, method, path, tok string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var body struct {
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
	}
	return apiErr
}
