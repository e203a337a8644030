package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevMosaicRakib/The-Social-Runner-sub000/internal/common/utils"
)

const testSecret = "test-secret"

func issueToken(t *testing.T, userID int64, tokenType string) string {
	t.Helper()

	token, err := utils.GenerateJWT(&utils.JWTClaims{
		UserID:    userID,
		Username:  "runner",
		Type:      tokenType,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
		IssuedAt:  time.Now().Unix(),
	}, testSecret)
	require.NoError(t, err)
	return token
}

func TestAuthenticate_ValidToken(t *testing.T) {
	mw := NewMiddleware(testSecret)

	var gotID int64
	var gotOK bool
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/buddies/matches", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, 42, "access"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, gotOK)
	assert.Equal(t, int64(42), gotID)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	mw := NewMiddleware(testSecret)
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/buddies/matches", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	mw := NewMiddleware(testSecret)
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/buddies/matches", nil)
	req.Header.Set("Authorization", "Token abc123")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	mw := NewMiddleware("a-different-secret")
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/buddies/matches", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, 42, "access"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_RefreshTokenRejected(t *testing.T) {
	mw := NewMiddleware(testSecret)
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/buddies/matches", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, 42, "refresh"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
