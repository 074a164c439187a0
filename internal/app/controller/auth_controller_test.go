package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ctoapp/cto-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(env *testEnv, path string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Error   string                 `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestAuthController_Signup(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("valid signup", func(t *testing.T) {
		w := postJSON(env, "/api/authentication/signup", map[string]interface{}{
			"email":           "user@example.com",
			"password":        "secret77",
			"passwordConfirm": "secret77",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		body := decodeEnvelope(t, w)
		assert.True(t, body.Success)
		assert.Equal(t, true, body.Data["sent"])
		assert.Len(t, env.mail.sent, 1)
	})

	t.Run("short password fails binding", func(t *testing.T) {
		w := postJSON(env, "/api/authentication/signup", map[string]interface{}{
			"email":           "short@example.com",
			"password":        "abc",
			"passwordConfirm": "abc",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)

		body := decodeEnvelope(t, w)
		assert.False(t, body.Success)
		assert.NotEmpty(t, body.Error)
	})

	t.Run("duplicate signup conflicts", func(t *testing.T) {
		w := postJSON(env, "/api/authentication/signup", map[string]interface{}{
			"email":           "user@example.com",
			"password":        "secret77",
			"passwordConfirm": "secret77",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthController_SignupConfirmLoginChain(t *testing.T) {
	env := setupTestEnv(t)

	w := postJSON(env, "/api/authentication/signup", map[string]interface{}{
		"email":           "chain@example.com",
		"password":        "secret77",
		"passwordConfirm": "secret77",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Login is refused until the account confirms
	w = postJSON(env, "/api/authentication/login", map[string]interface{}{
		"email":    "chain@example.com",
		"password": "secret77",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Pull the challenge from the database, standing in for the mailbox
	var challenge model.UserConfirmation
	require.NoError(t, env.db.Order("id DESC").First(&challenge).Error)

	w = postJSON(env, "/api/authentication/confirm", map[string]interface{}{
		"email": "chain@example.com",
		"code":  challenge.Code,
		"token": challenge.Token,
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	assert.NotEmpty(t, body.Data["token"])

	w = postJSON(env, "/api/authentication/login", map[string]interface{}{
		"email":    "chain@example.com",
		"password": "secret77",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body = decodeEnvelope(t, w)
	assert.True(t, body.Success)
	assert.NotEmpty(t, body.Data["token"])
}

func TestAuthController_ForgotResetChain(t *testing.T) {
	env := setupTestEnv(t)
	env.tokenForRole(t, "reset@example.com", model.RoleUser)

	w := postJSON(env, "/api/authentication/forgot", map[string]interface{}{
		"email": "reset@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, env.mail.sent, 1)

	var reset model.PasswordReset
	require.NoError(t, env.db.Order("id DESC").First(&reset).Error)

	w = postJSON(env, fmt.Sprintf("/api/authentication/reset/%s", reset.Token), map[string]interface{}{
		"email":           "reset@example.com",
		"password":        "fresh888",
		"passwordConfirm": "fresh888",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeEnvelope(t, w)
	assert.NotEmpty(t, body.Data["token"])

	// The new password logs in
	w = postJSON(env, "/api/authentication/login", map[string]interface{}{
		"email":    "reset@example.com",
		"password": "fresh888",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAuthController_LoginInvalidCredentials(t *testing.T) {
	env := setupTestEnv(t)
	env.tokenForRole(t, "user@example.com", model.RoleUser)

	w := postJSON(env, "/api/authentication/login", map[string]interface{}{
		"email":    "user@example.com",
		"password": "wrong999",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	body := decodeEnvelope(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, "Invalid credentials", body.Error)
}
