// Package client is a Go SDK for the AynaForm HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Umesh-Verma07/AynaForm/pkg/models"
)

// ErrNotLoggedIn is returned by owner operations called without a session token.
var ErrNotLoggedIn = errors.New("client: not logged in")

// APIError is a non-2xx reply from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  []FieldError
}

type FieldError struct {
	Message string   `json:"message"`
	Path    []string `json:"path"`
	Code    string   `json:"code"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s (HTTP %d)", e.Code, e.Message, e.Status)
}

// HasCode reports whether err is an APIError carrying code.
func HasCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// Client talks to an AynaForm server. Owner operations use the token held
// by Session, which Login fills and Logout clears.
type Client struct {
	base    *url.URL
	cfg     Config
	client  *http.Client
	Session *Session

	closed int32
}

func New(cfg Config, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	u, err := url.ParseRequestURI(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	logger.Debug("client: created", slog.String("base_url", cfg.BaseURL), slog.Duration("timeout", cfg.Timeout))
	return &Client{base: u, cfg: cfg, client: httpClient, Session: NewSession()}, nil
}

func NewDefault(cfg Config) (*Client, error) {
	defaultClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 15 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
	return New(cfg, defaultClient)
}

// Close releases idle connections of the underlying transport. It is
// idempotent.
func (c *Client) Close() error {
	if c == nil || !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	c.client.CloseIdleConnections()
	return nil
}

// package-level logger for pkg/client; can be replaced by callers
var logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

// SetLogger sets the logger used by pkg/client. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", false, nil, nil)
}

func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/register", false, models.Credentials{Username: username, Password: password}, nil)
}

// Login authenticates and stores the token in the session.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", false, models.Credentials{Username: username, Password: password}, &out); err != nil {
		return err
	}
	c.Session.Set(username, out.Token)
	return nil
}

// Logout forgets the session token. The server keeps no session state.
func (c *Client) Logout() {
	c.Session.Clear()
}

func (c *Client) CreateForm(ctx context.Context, in models.FormInput) (*models.Form, error) {
	var f models.Form
	if err := c.do(ctx, http.MethodPost, "/api/forms", true, in, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) ListForms(ctx context.Context) ([]models.Form, error) {
	var forms []models.Form
	if err := c.do(ctx, http.MethodGet, "/api/forms", true, nil, &forms); err != nil {
		return nil, err
	}
	return forms, nil
}

// GetForm fetches a form anonymously, as a respondent would.
func (c *Client) GetForm(ctx context.Context, id string) (*models.Form, error) {
	var f models.Form
	if err := c.do(ctx, http.MethodGet, formPath(id), false, nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) UpdateForm(ctx context.Context, id string, in models.FormInput) (*models.Form, error) {
	var f models.Form
	if err := c.do(ctx, http.MethodPut, formPath(id), true, in, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) DeleteForm(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, formPath(id), true, nil, nil)
}

// SubmitResponse posts an anonymous response and returns its id.
func (c *Client) SubmitResponse(ctx context.Context, formID string, answers []models.Answer) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, formPath(formID, "responses"), false, models.SubmissionInput{Answers: answers}, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) ListResponses(ctx context.Context, formID string) ([]models.Response, error) {
	var responses []models.Response
	if err := c.do(ctx, http.MethodGet, formPath(formID, "responses"), true, nil, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func (c *Client) Summary(ctx context.Context, formID string) ([]models.QuestionSummary, error) {
	var summary []models.QuestionSummary
	if err := c.do(ctx, http.MethodGet, formPath(formID, "summary"), true, nil, &summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// ExportCSV returns the raw CSV document of the form's responses.
func (c *Client) ExportCSV(ctx context.Context, formID string) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.do(ctx, http.MethodGet, formPath(formID, "export"), true, nil, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Client) DeleteQuestionAnswers(ctx context.Context, formID, questionID string) error {
	return c.do(ctx, http.MethodDelete, formPath(formID, "questions", questionID, "responses"), true, nil, nil)
}

func formPath(id string, rest ...string) string {
	parts := []string{"/api/forms", url.PathEscape(id)}
	for _, r := range rest {
		parts = append(parts, url.PathEscape(r))
	}
	return strings.Join(parts, "/")
}

// do sends body as JSON and decodes the reply into out. A *bytes.Buffer out
// receives the raw body.
func (c *Client) do(ctx context.Context, method, path string, authed bool, body, out any) error {
	var token string
	if authed {
		if token = c.Session.Token(); token == "" {
			return ErrNotLoggedIn
		}
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	// path segments are already escaped by formPath
	target := strings.TrimRight(c.base.String(), "/") + path
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	logger.Debug("client: request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	switch dst := out.(type) {
	case nil:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case *bytes.Buffer:
		_, err := dst.ReadFrom(resp.Body)
		return err
	default:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Error  string       `json:"error"`
		Code   string       `json:"code"`
		Errors []FieldError `json:"errors"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(raw, &body); err != nil || body.Code == "" {
		apiErr.Code = "HTTP_ERROR"
		apiErr.Message = strings.TrimSpace(string(raw))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	apiErr.Code, apiErr.Message, apiErr.Fields = body.Code, body.Error, body.Errors
	return apiErr
}
