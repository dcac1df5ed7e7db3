package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshAccessToken(t *testing.T) {
	var gotForm map[string]string
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"client_id":     r.PostFormValue("client_id"),
			"client_secret": r.PostFormValue("client_secret"),
			"refresh_token": r.PostFormValue("refresh_token"),
			"grant_type":    r.PostFormValue("grant_type"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "fresh-token", "expires_in": 3599}`))
	}))
	defer srv.Close()

	token, err := refreshAccessToken(context.Background(), srv.Client(), srv.URL, "id", "secret", "long-lived")
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
	assert.Equal(t, 1, calls)
	assert.Equal(t, map[string]string{
		"client_id":     "id",
		"client_secret": "secret",
		"refresh_token": "long-lived",
		"grant_type":    "refresh_token",
	}, gotForm)
}

func TestRefreshAccessTokenEmptyRefreshToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("token endpoint must not be called without a refresh token")
	}))
	defer srv.Close()

	_, err := refreshAccessToken(context.Background(), srv.Client(), srv.URL, "id", "secret", "")
	require.Error(t, err)
}

func TestRefreshAccessTokenRejected(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "invalid_grant"}`))
	}))
	defer srv.Close()

	_, err := refreshAccessToken(context.Background(), srv.Client(), srv.URL, "id", "secret", "revoked")
	require.Error(t, err)
	assert.Equal(t, 1, calls, "a rejected refresh must not be retried")
}

func TestRefreshAccessTokenEmptyAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := refreshAccessToken(context.Background(), srv.Client(), srv.URL, "id", "secret", "long-lived")
	require.Error(t, err)
}
