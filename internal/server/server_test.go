package server

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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shsharma-work/manhwa-translator/internal/config"
	"github.com/shsharma-work/manhwa-translator/internal/handlers"
	"github.com/shsharma-work/manhwa-translator/internal/repository"
	"github.com/shsharma-work/manhwa-translator/internal/security"
	"github.com/shsharma-work/manhwa-translator/internal/services"
	"github.com/shsharma-work/manhwa-translator/internal/store"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := &config.Config{
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		AccessTTL:    30 * time.Minute,
	}

	mem := store.NewMemoryStore()
	repo := repository.NewUserRepository(mem, "users")
	hasher := security.NewPasswordHasher(4)
	codec := security.NewTokenCodec("test-secret")
	logger := zap.NewNop()

	userSvc := services.NewUserService(repo, hasher, services.PasswordPolicy{MinLength: 8, MaxLength: 100}, logger)
	authSvc := services.NewAuthService(userSvc, codec, cfg.AccessTTL, logger)
	h := handlers.NewHandler(authSvc, userSvc, logger)

	return New(cfg, h, authSvc, logger)
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func register(t *testing.T, app *fiber.App, email, username, password string) map[string]any {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"email": email, "username": username, "password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestRegisterLoginMe(t *testing.T) {
	app := newTestApp(t)

	profile := register(t, app, "a@b.com", "alice", "Passw0rd")
	assert.NotEmpty(t, profile["user_id"])
	assert.Equal(t, true, profile["is_active"])
	assert.Equal(t, false, profile["is_verified"])
	assert.NotContains(t, profile, "hashed_password")
	assert.NotContains(t, profile, "password")

	resp, body := doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email": "a@b.com", "password": "Passw0rd",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "bearer", body["token_type"])
	assert.Equal(t, float64(1800), body["expires_in"])
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)

	resp, me := doJSON(t, app, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "a@b.com", me["email"])
	assert.Equal(t, "alice", me["username"])
}

func TestRegister_SchemaAndDomainErrors(t *testing.T) {
	app := newTestApp(t)

	// missing fields: schema-level rejection
	resp, _ := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{"email": "a@b.com"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// weak password: domain validation
	resp, body := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"email": "a@b.com", "username": "alice", "password": "password1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "uppercase")

	// duplicate email
	register(t, app, "a@b.com", "alice", "Passw0rd")
	resp, body = doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"email": "a@b.com", "username": "bob", "password": "Passw0rd",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "email")

	// duplicate username
	resp, body = doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"email": "c@d.com", "username": "alice", "password": "Passw0rd",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "username")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "a@b.com", "alice", "Passw0rd")

	for _, creds := range []fiber.Map{
		{"email": "a@b.com", "password": "wrongpassword"},
		{"email": "nope@x.com", "password": "Passw0rd"},
	} {
		resp, body := doJSON(t, app, http.MethodPost, "/auth/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "invalid email or password", body["error"])
	}
}

func TestMe_Unauthorized(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "a@b.com", "alice", "Passw0rd")
	token := login(t, app, "a@b.com", "Passw0rd")

	// no header
	resp, body := doJSON(t, app, http.MethodGet, "/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "missing credentials", body["error"])

	// malformed scheme
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Basic abc123")
	raw, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, raw.StatusCode)

	// tampered token
	tampered := token[:len(token)-2] + "xx"
	resp, body = doJSON(t, app, http.MethodGet, "/users/me", tampered, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid or expired token", body["error"])
}

func TestGetUserByID_OwnershipCheck(t *testing.T) {
	app := newTestApp(t)
	profile := register(t, app, "a@b.com", "alice", "Passw0rd")
	register(t, app, "c@d.com", "bob", "Passw0rd")
	token := login(t, app, "a@b.com", "Passw0rd")

	selfID, _ := profile["user_id"].(string)
	resp, body := doJSON(t, app, http.MethodGet, "/users/"+selfID, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", body["username"])

	resp, body = doJSON(t, app, http.MethodGet, "/users/some-other-id", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "access denied", body["error"])
}

func TestUpdateMe(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "a@b.com", "alice", "Passw0rd")
	token := login(t, app, "a@b.com", "Passw0rd")

	resp, body := doJSON(t, app, http.MethodPut, "/users/me", token, fiber.Map{"username": "alice_2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice_2", body["username"])
	assert.Equal(t, "a@b.com", body["email"])

	// conflicting username is rejected
	register(t, app, "c@d.com", "bob", "Passw0rd")
	resp, _ = doJSON(t, app, http.MethodPut, "/users/me", token, fiber.Map{"username": "bob"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteMe(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "a@b.com", "alice", "Passw0rd")
	token := login(t, app, "a@b.com", "Passw0rd")

	resp, _ := doJSON(t, app, http.MethodDelete, "/users/me", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// the token no longer resolves to a user
	resp, _ = doJSON(t, app, http.MethodGet, "/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListUsers(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "a@b.com", "alice", "Passw0rd")
	register(t, app, "c@d.com", "bob", "Passw0rd")
	token := login(t, app, "a@b.com", "Passw0rd")

	req := httptest.NewRequest(http.MethodGet, "/users/?limit=10", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var profiles []map[string]any
	require.NoError(t, json.Unmarshal(raw, &profiles))
	assert.Len(t, profiles, 2)
	for _, p := range profiles {
		assert.NotContains(t, p, "hashed_password")
	}

	resp, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/users/?limit=%d", -1), token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
