package handlers

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/vacuum-planner/internal/config"
	"github.com/vancomm/vacuum-planner/internal/logging"
	"github.com/vancomm/vacuum-planner/internal/middleware"
)

func newTestAuth(t *testing.T, operators OperatorStore) *Auth {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return NewAuth(
		logging.NewNop(),
		operators,
		&config.Cookies{SameSite: http.SameSiteStrictMode},
		config.NewJWTFromKeys(key, &key.PublicKey, time.Hour),
	)
}

func postForm(h http.HandlerFunc, username, password string) *httptest.ResponseRecorder {
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func cookieNames(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	cookies := make(map[string]*http.Cookie)
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c
	}
	return cookies
}

func TestRegisterAndLogin(t *testing.T) {
	auth := newTestAuth(t, newMemoryOperators())

	rec := postForm(auth.Register, "ann", "hunter2")
	require.Equal(t, http.StatusCreated, rec.Code)
	var info OperatorInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&info))
	assert.Equal(t, "ann", info.Username)
	assert.Contains(t, cookieNames(rec), "auth")
	assert.True(t, cookieNames(rec)["sign"].HttpOnly)

	rec = postForm(auth.Register, "ann", "other")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = postForm(auth.Login, "ann", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())

	rec = postForm(auth.Login, "bob", "hunter2")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postForm(auth.Login, "ann", "hunter2")
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := cookieNames(rec)
	require.Contains(t, cookies, "auth")
	require.Contains(t, cookies, "sign")

	claims, err := auth.jwt.ParseOperatorClaims(cookies["auth"].Value + "." + cookies["sign"].Value)
	require.NoError(t, err)
	assert.Equal(t, info.OperatorId, claims.OperatorId)
}

func TestRegisterBadBody(t *testing.T) {
	auth := newTestAuth(t, newMemoryOperators())

	assert.Equal(t, http.StatusBadRequest, postForm(auth.Register, "", "pw").Code)
	assert.Equal(t, http.StatusBadRequest, postForm(auth.Register, "ann", "").Code)

	rec := postForm(auth.Register, "ann", strings.Repeat("x", 73))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, ErrBadPasswordTooLong.Error(), body["error"])
}

func TestAuthWithoutStorage(t *testing.T) {
	auth := newTestAuth(t, nil)

	assert.Equal(t, http.StatusServiceUnavailable, postForm(auth.Register, "ann", "pw").Code)
	assert.Equal(t, http.StatusServiceUnavailable, postForm(auth.Login, "ann", "pw").Code)
}

func TestLogout(t *testing.T) {
	auth := newTestAuth(t, nil)

	rec := httptest.NewRecorder()
	auth.Logout(rec, httptest.NewRequest(http.MethodPost, "/v1/logout", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	for _, c := range rec.Result().Cookies() {
		assert.Equal(t, -1, c.MaxAge)
	}
}

func TestStatus(t *testing.T) {
	auth := newTestAuth(t, nil)

	t.Run("anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		auth.Status(rec, httptest.NewRequest(http.MethodGet, "/v1/auth/status", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var status Status
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
		assert.False(t, status.LoggedIn)
		assert.Nil(t, status.Operator)
	})

	t.Run("logged in", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/auth/status", nil)
		claims := config.NewOperatorClaims(5, "cy", time.Hour)
		req = req.WithContext(context.WithValue(req.Context(), middleware.CtxOperatorClaims, claims))

		rec := httptest.NewRecorder()
		auth.Status(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var status Status
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
		assert.True(t, status.LoggedIn)
		require.NotNil(t, status.Operator)
		assert.Equal(t, int64(5), status.Operator.OperatorId)
		assert.Contains(t, cookieNames(rec), "sign")
	})
}
