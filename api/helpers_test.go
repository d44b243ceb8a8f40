package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Umesh-Verma07/AynaForm/api"
	"github.com/Umesh-Verma07/AynaForm/internal/config"
	"github.com/Umesh-Verma07/AynaForm/pkg/repository/mock"
)

const testSecret = "testsecret"

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func init() {
	api.SetLogger(discard)
}

func testConfig() *config.Config {
	return &config.Config{
		Addr:          ":0",
		JWTSecret:     testSecret,
		APITimeout:    time.Second,
		DatabasePath:  ":memory:",
		TokenDuration: time.Hour,
		BcryptCost:    bcrypt.MinCost,
		Responses:     config.ResponsesConfig{AnswerMatching: "id"},
	}
}

func newTestServer(t *testing.T, mutate func(cfg *config.Config)) (http.Handler, *mock.Store) {
	t.Helper()
	cfg := testConfig()
	if mutate != nil {
		mutate(cfg)
	}
	store := mock.NewStore()
	deps, err := api.NewDeps(cfg, store, discard)
	if err != nil {
		t.Fatalf("NewDeps: %v", err)
	}
	return api.SetupRoutes(deps, "test", "2025-01-01T00:00:00Z"), store
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

type errorBody struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Errors []struct {
		Message string   `json:"message"`
		Path    []string `json:"path"`
		Code    string   `json:"code"`
	} `json:"errors"`
}

func login(t *testing.T, h http.Handler, username string) string {
	t.Helper()
	creds := map[string]string{"username": username, "password": "password123"}
	if w := doJSON(t, h, http.MethodPost, "/api/auth/register", "", creds); w.Code != http.StatusCreated {
		t.Fatalf("register %s: %d %s", username, w.Code, w.Body.String())
	}
	w := doJSON(t, h, http.MethodPost, "/api/auth/login", "", creds)
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", username, w.Code, w.Body.String())
	}
	return decode[struct {
		Token string `json:"token"`
	}](t, w).Token
}

func sampleForm() map[string]any {
	return map[string]any{
		"title": "Test Form",
		"questions": []map[string]any{
			{"text": "Q1", "type": "text"},
			{"text": "Q2", "type": "mcq", "options": []string{"A", "B"}},
		},
	}
}
