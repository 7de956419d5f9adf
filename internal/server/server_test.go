package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/hallboard/hallboard/internal/model"
	"github.com/hallboard/hallboard/internal/service"
	"github.com/hallboard/hallboard/internal/store"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

const (
	testJWTSecret = "test-secret-for-integration-tests"
	testUsername  = "admin"
	testPassword  = "supersecretpassword"
)

// testEnv holds the shared state for integration tests.
type testEnv struct {
	server  *Server
	store   *store.Store
	authSvc *service.AuthService
}

// newTestEnv creates a fresh environment with an in-memory store, a seeded
// admin account, and a fully wired Server.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("store.OpenMemory: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	admin := &model.Admin{
		Username:     testUsername,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
	if err := st.CreateAdmin(context.Background(), admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	authSvc := service.NewAuthService(st, testJWTSecret)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0 // no throttling in tests
	srv := New(cfg, st, authSvc, logger)

	return &testEnv{server: srv, store: st, authSvc: authSvc}
}

// do executes a request against the test server and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	e.server.ServeHTTP(rr, req)
	return rr
}

// doAuth executes an authenticated request using a bearer token.
func (e *testEnv) doAuth(t *testing.T, method, path string, body io.Reader, token string) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, method, path, body, map[string]string{
		"Authorization": "Bearer " + token,
	})
}

// adminToken logs in through the API and returns the session token from the
// cookie the server set.
func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	rr := e.do(t, "POST", "/api/auth/login", jsonBody(t, map[string]interface{}{
		"username": testUsername,
		"password": testPassword,
	}), nil)
	assertStatus(t, rr, http.StatusOK)

	for _, c := range rr.Result().Cookies() {
		if c.Name == "token" && c.Value != "" {
			return c.Value
		}
	}
	t.Fatal("adminToken: login response did not set a token cookie")
	return ""
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(data)
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

func assertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rr.Code, rr.Body.String())
	}
}

func entryBody(t *testing.T, name string) io.Reader {
	t.Helper()
	return jsonBody(t, map[string]interface{}{
		"name":     name,
		"category": "organic",
		"month":    "march",
		"year":     2025,
		"link":     "https://example.com/builds/" + name,
		"avatar":   "https://example.com/a.png",
		"discord":  "alice#1",
		"x_handle": "@alice",
	})
}

// ---------------------------------------------------------------------------
// Health and docs
// ---------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/api/health", nil, nil)
	assertStatus(t, rr, http.StatusOK)

	var resp struct {
		OK        bool   `json:"ok"`
		Status    string `json:"status"`
		Uptime    string `json:"uptime"`
		Timestamp string `json:"timestamp"`
	}
	decodeJSON(t, rr, &resp)
	if !resp.OK || resp.Status != "ok" {
		t.Errorf("expected healthy response, got %+v", resp)
	}
	if resp.Uptime == "" || resp.Timestamp == "" {
		t.Errorf("expected uptime and timestamp, got %+v", resp)
	}
}

func TestOpenAPIEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/openapi.json", nil, nil)
	assertStatus(t, rr, http.StatusOK)

	var doc struct {
		OpenAPI string                 `json:"openapi"`
		Paths   map[string]interface{} `json:"paths"`
	}
	decodeJSON(t, rr, &doc)
	if doc.OpenAPI == "" {
		t.Error("expected openapi version field")
	}
	for _, p := range []string{"/api/auth/login", "/api/hof", "/api/wbc", "/api/health"} {
		if _, ok := doc.Paths[p]; !ok {
			t.Errorf("expected path %q in OpenAPI document", p)
		}
	}
}

// ---------------------------------------------------------------------------
// Authentication flow
// ---------------------------------------------------------------------------

func TestLoginValidation(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "POST", "/api/auth/login", bytes.NewReader([]byte("{not json")), nil)
	assertStatus(t, rr, http.StatusBadRequest)

	rr = env.do(t, "POST", "/api/auth/login", jsonBody(t, map[string]string{"username": testUsername}), nil)
	assertStatus(t, rr, http.StatusBadRequest)

	rr = env.do(t, "POST", "/api/auth/login", jsonBody(t, map[string]string{
		"username": testUsername, "password": "wrong",
	}), nil)
	assertStatus(t, rr, http.StatusUnauthorized)

	rr = env.do(t, "POST", "/api/auth/login", jsonBody(t, map[string]string{
		"username": "nobody", "password": testPassword,
	}), nil)
	assertStatus(t, rr, http.StatusUnauthorized)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "POST", "/api/auth/login", jsonBody(t, map[string]interface{}{
		"username": testUsername, "password": testPassword,
	}), nil)
	assertStatus(t, rr, http.StatusOK)

	var resp struct {
		Message string            `json:"message"`
		Admin   model.AdminPublic `json:"admin"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Admin.Username != testUsername {
		t.Errorf("expected admin payload, got %+v", resp)
	}

	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "token" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected token cookie")
	}
	if !cookie.HttpOnly {
		t.Error("expected HttpOnly cookie")
	}
	if cookie.MaxAge != int(service.SessionTTL.Seconds()) {
		t.Errorf("expected cookie MaxAge %d, got %d", int(service.SessionTTL.Seconds()), cookie.MaxAge)
	}

	if _, err := env.authSvc.ValidateToken(cookie.Value); err != nil {
		t.Errorf("cookie token failed validation: %v", err)
	}
}

func TestLoginRememberMeExtendsCookie(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "POST", "/api/auth/login", jsonBody(t, map[string]interface{}{
		"username": testUsername, "password": testPassword, "rememberMe": true,
	}), nil)
	assertStatus(t, rr, http.StatusOK)

	for _, c := range rr.Result().Cookies() {
		if c.Name == "token" {
			if c.MaxAge != int(service.RememberMeTTL.Seconds()) {
				t.Errorf("expected MaxAge %d, got %d", int(service.RememberMeTTL.Seconds()), c.MaxAge)
			}
			return
		}
	}
	t.Fatal("expected token cookie")
}

func TestLogoutClearsCookie(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "POST", "/api/auth/logout", nil, nil)
	assertStatus(t, rr, http.StatusOK)

	for _, c := range rr.Result().Cookies() {
		if c.Name == "token" {
			if c.MaxAge >= 0 {
				t.Errorf("expected expired cookie, got MaxAge %d", c.MaxAge)
			}
			return
		}
	}
	t.Fatal("expected token cookie in logout response")
}

func TestMeEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/api/auth/me", nil, nil)
	assertStatus(t, rr, http.StatusUnauthorized)

	token := env.adminToken(t)
	rr = env.doAuth(t, "GET", "/api/auth/me", nil, token)
	assertStatus(t, rr, http.StatusOK)

	var resp struct {
		Admin service.Identity `json:"admin"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Admin.Username != testUsername || resp.Admin.Role != model.RoleAdmin {
		t.Errorf("unexpected identity %+v", resp.Admin)
	}
}

// ---------------------------------------------------------------------------
// Route authentication policy
// ---------------------------------------------------------------------------

func TestMutatingRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		method, path string
	}{
		{"POST", "/api/hof"},
		{"PUT", "/api/hof/1"},
		{"PATCH", "/api/hof/1/placement"},
		{"DELETE", "/api/hof/1"},
		{"GET", "/api/hof/profile?discord=alice%231"},
		{"POST", "/api/wbc"},
		{"PUT", "/api/wbc/1"},
		{"DELETE", "/api/wbc/1"},
		{"GET", "/api/wbc/profile?discord=alice%231"},
	}
	for _, tc := range cases {
		rr := env.do(t, tc.method, tc.path, nil, nil)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401 without token, got %d", tc.method, tc.path, rr.Code)
		}
	}
}

func TestListingsArePublic(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/hof", "/api/wbc"} {
		rr := env.do(t, "GET", path, nil, nil)
		assertStatus(t, rr, http.StatusOK)

		var entries []json.RawMessage
		decodeJSON(t, rr, &entries)
		if entries == nil {
			t.Errorf("%s: expected JSON array, got %s", path, rr.Body.String())
		}
	}
}

// ---------------------------------------------------------------------------
// Hall of Fame CRUD over HTTP
// ---------------------------------------------------------------------------

func TestHoFCRUDFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	// Create
	rr := env.doAuth(t, "POST", "/api/hof", entryBody(t, "Neon Citadel"), token)
	assertStatus(t, rr, http.StatusCreated)

	var created model.HoFEntry
	decodeJSON(t, rr, &created)
	if created.ID == 0 || created.Name != "Neon Citadel" {
		t.Fatalf("unexpected created entry %+v", created)
	}

	// Listed with filters
	rr = env.do(t, "GET", "/api/hof?month=march&year=2025&category=organic", nil, nil)
	assertStatus(t, rr, http.StatusOK)
	var listed []model.HoFEntry
	decodeJSON(t, rr, &listed)
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("expected the created entry in filtered list, got %+v", listed)
	}

	// Replace
	rr = env.doAuth(t, "PUT", fmt.Sprintf("/api/hof/%d", created.ID), entryBody(t, "Neon Citadel II"), token)
	assertStatus(t, rr, http.StatusOK)
	var replaced model.HoFEntry
	decodeJSON(t, rr, &replaced)
	if replaced.Name != "Neon Citadel II" || replaced.ID != created.ID {
		t.Fatalf("unexpected replaced entry %+v", replaced)
	}

	// Patch placement
	rr = env.doAuth(t, "PATCH", fmt.Sprintf("/api/hof/%d/placement", created.ID),
		jsonBody(t, map[string]int{"placement": 1}), token)
	assertStatus(t, rr, http.StatusOK)
	var patched model.HoFEntry
	decodeJSON(t, rr, &patched)
	if patched.Placement == nil || *patched.Placement != 1 {
		t.Fatalf("expected placement 1, got %+v", patched.Placement)
	}
	if patched.Name != "Neon Citadel II" {
		t.Errorf("patch must not change other fields, got %q", patched.Name)
	}

	// Delete
	rr = env.doAuth(t, "DELETE", fmt.Sprintf("/api/hof/%d", created.ID), nil, token)
	assertStatus(t, rr, http.StatusOK)
	var deleted model.MessageResponse
	decodeJSON(t, rr, &deleted)
	if deleted.ID != created.ID {
		t.Errorf("expected deleted id %d, got %+v", created.ID, deleted)
	}

	// Gone
	rr = env.doAuth(t, "DELETE", fmt.Sprintf("/api/hof/%d", created.ID), nil, token)
	assertStatus(t, rr, http.StatusNotFound)
}

func TestHoFNotFoundResponses(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	cases := []struct {
		method, path string
		body         io.Reader
	}{
		{"PUT", "/api/hof/99999", entryBody(t, "ghost")},
		{"PATCH", "/api/hof/99999/placement", jsonBody(t, map[string]int{"placement": 1})},
		{"DELETE", "/api/hof/99999", nil},
		// Malformed ids cannot match any row.
		{"PUT", "/api/hof/abc", entryBody(t, "ghost")},
		{"DELETE", "/api/hof/abc", nil},
	}
	for _, tc := range cases {
		rr := env.doAuth(t, tc.method, tc.path, tc.body, token)
		if rr.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d: %s", tc.method, tc.path, rr.Code, rr.Body.String())
		}
	}
}

// ---------------------------------------------------------------------------
// World Build Contest CRUD over HTTP
// ---------------------------------------------------------------------------

func TestWBCCRUDFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	body := jsonBody(t, map[string]interface{}{
		"name":       "Skyport",
		"month":      "april",
		"year":       2025,
		"date_range": "Apr 1 - Apr 14",
		"link":       "https://example.com/wbc/skyport",
		"discord":    "erin#5",
		"x_handle":   "@erin",
		"avatar":     "https://example.com/e.png",
	})
	rr := env.doAuth(t, "POST", "/api/wbc", body, token)
	assertStatus(t, rr, http.StatusCreated)

	var created model.WBCEntry
	decodeJSON(t, rr, &created)
	if created.ID == 0 || created.Name != "Skyport" {
		t.Fatalf("unexpected created entry %+v", created)
	}
	if created.DateRange == nil || *created.DateRange != "Apr 1 - Apr 14" {
		t.Errorf("expected date range persisted, got %v", created.DateRange)
	}

	rr = env.do(t, "GET", "/api/wbc?year=2025", nil, nil)
	assertStatus(t, rr, http.StatusOK)
	var listed []model.WBCEntry
	decodeJSON(t, rr, &listed)
	if len(listed) != 1 {
		t.Fatalf("expected 1 entry for 2025, got %d", len(listed))
	}

	rr = env.doAuth(t, "PUT", fmt.Sprintf("/api/wbc/%d", created.ID), jsonBody(t, map[string]interface{}{
		"name": "Skyport II", "month": "may", "year": 2025,
		"link": "l", "discord": "erin#5", "x_handle": "@erin", "avatar": "av",
	}), token)
	assertStatus(t, rr, http.StatusOK)
	var replaced model.WBCEntry
	decodeJSON(t, rr, &replaced)
	if replaced.Name != "Skyport II" {
		t.Fatalf("unexpected replaced entry %+v", replaced)
	}

	rr = env.doAuth(t, "DELETE", fmt.Sprintf("/api/wbc/%d", created.ID), nil, token)
	assertStatus(t, rr, http.StatusOK)

	rr = env.doAuth(t, "PUT", fmt.Sprintf("/api/wbc/%d", created.ID), jsonBody(t, map[string]interface{}{
		"name": "gone",
	}), token)
	assertStatus(t, rr, http.StatusNotFound)
}

// ---------------------------------------------------------------------------
// Creator profiles over HTTP
// ---------------------------------------------------------------------------

func TestProfileEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	// Entry write seeds the creator profile.
	rr := env.doAuth(t, "POST", "/api/hof", entryBody(t, "Neon Citadel"), token)
	assertStatus(t, rr, http.StatusCreated)

	rr = env.doAuth(t, "GET", "/api/hof/profile?discord=alice%231", nil, token)
	assertStatus(t, rr, http.StatusOK)

	var p model.Profile
	decodeJSON(t, rr, &p)
	if p.Discord != "alice#1" {
		t.Errorf("expected discord alice#1, got %q", p.Discord)
	}
	if p.DisplayName == nil || *p.DisplayName != "Neon Citadel" {
		t.Errorf("expected display name from entry, got %v", p.DisplayName)
	}

	// Same directory is reachable from the WBC group.
	rr = env.doAuth(t, "GET", "/api/wbc/profile?discord=alice%231", nil, token)
	assertStatus(t, rr, http.StatusOK)

	// Missing parameter is a client error; unknown handles are not found.
	rr = env.doAuth(t, "GET", "/api/hof/profile", nil, token)
	assertStatus(t, rr, http.StatusBadRequest)

	rr = env.doAuth(t, "GET", "/api/hof/profile?discord=nobody", nil, token)
	assertStatus(t, rr, http.StatusNotFound)
}
