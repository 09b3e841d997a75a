package iam

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenExchange(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, grantType, r.PostForm.Get("grant_type"))
		assert.Equal(t, "my-api-key", r.PostForm.Get("apikey"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "tok-123", "expires_in": 3600}`))
	}))
	defer srv.Close()

	ts := New(srv.URL, "my-api-key", 5*time.Second)
	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.TokenType)
	// Freshness window is fixed regardless of the reported lifetime.
	assert.WithinDuration(t, time.Now().Add(tokenFreshness), tok.Expiry, 5*time.Second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTokenCachedAcrossCalls(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"access_token": "tok-123"}`))
	}))
	defer srv.Close()

	ts := New(srv.URL, "my-api-key", 5*time.Second)
	for i := 0; i < 3; i++ {
		tok, err := ts.Token()
		require.NoError(t, err)
		assert.Equal(t, "tok-123", tok.AccessToken)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestTokenNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errorMessage": "Provided API key could not be found"}`))
	}))
	defer srv.Close()

	ts := New(srv.URL, "bogus", 5*time.Second)
	_, err := ts.Token()
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusBadRequest, authErr.StatusCode)
	assert.Contains(t, authErr.Body, "could not be found")
}

func TestTokenMissingAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token_type": "Bearer"}`))
	}))
	defer srv.Close()

	ts := New(srv.URL, "my-api-key", 5*time.Second)
	_, err := ts.Token()
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Error(), "access_token missing")
}

func TestTokenMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	ts := New(srv.URL, "my-api-key", 5*time.Second)
	_, err := ts.Token()
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestTokenUnreachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	ts := New(srv.URL, "my-api-key", time.Second)
	_, err := ts.Token()
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Zero(t, authErr.StatusCode)
}
