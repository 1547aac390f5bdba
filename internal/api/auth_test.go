package api

import (
	"net/http"
	"testing"

	"budget_buddy/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupReturnsUsableToken(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(t, r, http.MethodPost, "/signup", "", gin.H{
		"user": gin.H{"name": "Alice", "email": "alice@x.com", "password": "secret1"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Alice", user["name"])
	assert.Equal(t, "alice@x.com", user["email"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, w.Body.String(), "password_digest")

	// The freshly issued token must resolve to the same user right away
	token := body["token"].(string)
	w = doRequest(t, r, http.MethodGet, "/current_user", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	current := decodeBody(t, w)["user"].(map[string]any)
	assert.Equal(t, user["id"], current["id"])
}

func TestSignupNormalizesEmail(t *testing.T) {
	r, db := setupRouter(t)

	w := doRequest(t, r, http.MethodPost, "/signup", "", gin.H{
		"user": gin.H{"name": "Bob", "email": "  BOB@X.COM ", "password": "secret1"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var user domain.User
	require.NoError(t, db.First(&user).Error)
	assert.Equal(t, "bob@x.com", user.Email)
}

func TestSignupValidationErrors(t *testing.T) {
	r, _ := setupRouter(t)
	signupUser(t, r, "Alice", "alice@x.com", "secret1")

	tests := []struct {
		name    string
		payload gin.H
		want    string
	}{
		{"blank name", gin.H{"email": "a@x.com", "password": "secret1"}, "Name can't be blank"},
		{"blank email", gin.H{"name": "A", "password": "secret1"}, "Email can't be blank"},
		{"blank password", gin.H{"name": "A", "email": "a@x.com"}, "Password can't be blank"},
		{"short password", gin.H{"name": "A", "email": "a@x.com", "password": "12345"}, "Password is too short (minimum is 6 characters)"},
		{"duplicate email", gin.H{"name": "A", "email": "ALICE@x.com", "password": "secret1"}, "Email has already been taken"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, r, http.MethodPost, "/signup", "", gin.H{"user": tt.payload})
			require.Equal(t, http.StatusUnprocessableEntity, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, "error", body["status"])
			assert.Contains(t, body["errors"], tt.want)
		})
	}
}

func TestLoginSupersedesPreviousSession(t *testing.T) {
	r, _ := setupRouter(t)
	t1 := signupUser(t, r, "Alice", "alice@x.com", "secret1")

	// Login with a differently cased email issues a fresh token
	w := doRequest(t, r, http.MethodPost, "/login", "", gin.H{
		"email": "ALICE@X.COM", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	t2 := body["token"].(string)
	require.NotEqual(t, t1, t2)

	// The old token is superseded, the new one works
	w = doRequest(t, r, http.MethodGet, "/incomes", t1, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = doRequest(t, r, http.MethodGet, "/incomes", t2, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginInvalidCredentials(t *testing.T) {
	r, _ := setupRouter(t)
	signupUser(t, r, "Alice", "alice@x.com", "secret1")

	// Wrong password and unknown email fail identically
	for _, payload := range []gin.H{
		{"email": "alice@x.com", "password": "wrong-pass"},
		{"email": "nobody@x.com", "password": "secret1"},
	} {
		w := doRequest(t, r, http.MethodPost, "/login", "", payload)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid email or password", decodeBody(t, w)["error"])
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	r, _ := setupRouter(t)
	token := signupUser(t, r, "Alice", "alice@x.com", "secret1")

	w := doRequest(t, r, http.MethodDelete, "/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Logged out", body["message"])
	assert.Equal(t, "success", body["status"])

	w = doRequest(t, r, http.MethodGet, "/incomes", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutIsIdempotent(t *testing.T) {
	r, _ := setupRouter(t)

	// Unknown token and no token at all both report success
	w := doRequest(t, r, http.MethodDelete, "/logout", "deadbeef", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, r, http.MethodDelete, "/logout", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", decodeBody(t, w)["status"])
}

func TestCurrentUserWithoutToken(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(t, r, http.MethodGet, "/current_user", "", nil)
	require.Equal(t, http.StatusOK, w.Code, "current_user never answers 401")
	body := decodeBody(t, w)
	assert.Nil(t, body["user"])
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Not authenticated", body["message"])
}

func TestProtectedRoutesRejectBadAuth(t *testing.T) {
	r, _ := setupRouter(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"malformed header", "Token abc"},
		{"unknown token", "Bearer deadbeef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, w := newRawRequest(t, r, tt.header)
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Unauthorized", decodeBody(t, w)["error"])
		})
	}
}
