package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoginSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/signin", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "alice", req["username"])
		require.Equal(t, "secret", req["password"])

		_ = json.NewEncoder(w).Encode(map[string]string{
			"accessToken": "tok-1",
			"tokenType":   "Bearer",
			"id":          "u1",
			"role":        "ROLE_ADMIN",
			"username":    "alice",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	lr, err := c.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	require.Equal(t, "tok-1", lr.AccessToken)
	require.Equal(t, "Bearer", lr.TokenType)
	require.Equal(t, "ROLE_ADMIN", lr.Role)
}

func TestLoginRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"authentication failed"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	require.True(t, IsUnauthorized(err))
}

func TestStatusActive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/status", r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ACTIVE"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	st, err := c.Status(context.Background(), "Bearer", "tok-1")
	require.NoError(t, err)
	require.Equal(t, StatusActive, st)
}

func TestStatusInactive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "INACTIVE"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	st, err := c.Status(context.Background(), "", "tok-1")
	require.NoError(t, err)
	require.Equal(t, StatusInactive, st)
}

func TestStatusUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "token revoked", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Status(context.Background(), "Bearer", "tok-1")
	require.True(t, IsUnauthorized(err))
}

func TestStatusServerErrorIsNotUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Status(context.Background(), "Bearer", "tok-1")
	require.Error(t, err)
	require.False(t, IsUnauthorized(err))

	var he *HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusInternalServerError, he.Code)
}

func TestStatusNetworkErrorIsNotUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := New(srv.URL)
	_, err := c.Status(context.Background(), "Bearer", "tok-1")
	require.Error(t, err)
	require.False(t, IsUnauthorized(err))
}

func TestLogout(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/signout", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "signed out"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.Logout(context.Background(), "Bearer", "tok-1"))
	require.True(t, called)
}
