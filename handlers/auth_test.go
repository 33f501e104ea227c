package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/roles"
	"github.com/taskhive/taskhive/internal/sessions"
	"github.com/taskhive/taskhive/internal/tokens"
	"github.com/taskhive/taskhive/internal/users"
	"github.com/taskhive/taskhive/pkg/middleware"
)

func init() { gin.SetMode(gin.TestMode) }

type authFixture struct {
	router   *gin.Engine
	usersSvc *users.Service
	tokenReg *sessions.Service
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TokenTTL = 5 * 24 * time.Hour

	usersSvc := users.NewService(users.NewMemoryRepository())
	tokenReg := sessions.NewService(sessions.NewMemoryRepository())
	auth := middleware.Auth(tokens.NewVerifier(cfg.JWT.Secret), tokenReg)

	r := gin.New()
	NewAuthHandler(cfg, usersSvc, tokenReg, nil).Register(r.Group("/"), auth)
	return &authFixture{router: r, usersSvc: usersSvc, tokenReg: tokenReg}
}

func (f *authFixture) createUser(t *testing.T, username, password string, role roles.Role) *models.User {
	t.Helper()
	u, err := f.usersSvc.Create(context.Background(), users.CreateInput{
		Username:    username,
		Password:    password,
		Email:       username + "@example.com",
		FullName:    "Test " + username,
		PhoneNumber: "+490000",
		Role:        role,
	})
	require.NoError(t, err)
	return u
}

func (f *authFixture) signIn(t *testing.T, username, password string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var payload map[string]interface{}
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	}
	return w, payload
}

func TestSignInReturnsProfilePayload(t *testing.T) {
	f := newAuthFixture(t)
	u := f.createUser(t, "alice", "pw", roles.Admin)

	w, payload := f.signIn(t, "alice", "pw")
	require.Equal(t, http.StatusOK, w.Code)

	for _, field := range []string{
		"accessToken", "tokenType", "id", "role", "fullName", "username",
		"email", "phoneNumber", "createdDate", "lastModifiedDate",
	} {
		require.Contains(t, payload, field)
	}
	require.Equal(t, "Bearer", payload["tokenType"])
	require.Equal(t, u.ID, payload["id"])
	require.Equal(t, "ROLE_ADMIN", payload["role"])
	require.NotContains(t, payload, "tokenTimestamp", "the server never sends the client-side stamp")

	// dates are RFC3339
	_, err := time.Parse(time.RFC3339, payload["createdDate"].(string))
	require.NoError(t, err)
}

func TestSignInRejectsBadPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.createUser(t, "alice", "pw", roles.User)

	w, _ := f.signIn(t, "alice", "wrong")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStatusReportsActive(t *testing.T) {
	f := newAuthFixture(t)
	f.createUser(t, "bob", "pw", roles.User)
	_, payload := f.signIn(t, "bob", "pw")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/status", nil)
	req.Header.Set("Authorization", "Bearer "+payload["accessToken"].(string))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ACTIVE"}`, w.Body.String())
}

func TestStatusReportsInactiveAfterDeactivation(t *testing.T) {
	f := newAuthFixture(t)
	u := f.createUser(t, "carol", "pw", roles.User)
	_, payload := f.signIn(t, "carol", "pw")

	inactive := models.StatusInactive
	_, err := f.usersSvc.Update(context.Background(), u.ID, users.UpdateInput{Status: &inactive})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/status", nil)
	req.Header.Set("Authorization", "Bearer "+payload["accessToken"].(string))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"INACTIVE"}`, w.Body.String())
}

func TestStatusWithoutTokenIs401(t *testing.T) {
	f := newAuthFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/status", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignOutRevokesToken(t *testing.T) {
	f := newAuthFixture(t)
	f.createUser(t, "dave", "pw", roles.User)
	_, payload := f.signIn(t, "dave", "pw")
	tok := payload["accessToken"].(string)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// the token dies with the signout even though its exp is days away
	req = httptest.NewRequest(http.MethodGet, "/api/auth/status", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
