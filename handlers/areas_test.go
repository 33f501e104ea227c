package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/roles"
	"github.com/taskhive/taskhive/internal/sessions"
	"github.com/taskhive/taskhive/internal/tokens"
)

type areaFixture struct {
	router   *gin.Engine
	tokenReg *sessions.Service
}

func newAreaFixture(t *testing.T) *areaFixture {
	t.Helper()
	reg := sessions.NewService(sessions.NewMemoryRepository())
	r := gin.New()
	NewAreaHandler(tokens.NewVerifier("test-secret"), reg).Register(r)
	return &areaFixture{router: r, tokenReg: reg}
}

func (f *areaFixture) token(t *testing.T, role roles.Role) string {
	t.Helper()
	raw, jti, err := tokens.Generate("test-secret", &models.User{ID: "u1", Role: role}, time.Hour)
	require.NoError(t, err)
	require.NoError(t, f.tokenReg.Issue(context.Background(), jti, "u1", time.Hour))
	return raw
}

func (f *areaFixture) get(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestUnauthenticatedNavigationRedirectsToLogin(t *testing.T) {
	f := newAreaFixture(t)
	for _, path := range []string{"/admin/dashboard", "/manager/projects", "/user/projects", "/", "/whatever"} {
		w := f.get(path, "")
		require.Equal(t, http.StatusFound, w.Code, "path %s", path)
		require.Equal(t, "/login", w.Header().Get("Location"), "path %s", path)
	}
}

func TestUnauthenticatedLoginPagesRender(t *testing.T) {
	f := newAreaFixture(t)
	for _, path := range []string{"/login", "/forgot-password"} {
		w := f.get(path, "")
		require.Equal(t, http.StatusOK, w.Code, "path %s", path)
	}
}

func TestOwnAreaRenders(t *testing.T) {
	f := newAreaFixture(t)
	cases := map[roles.Role]string{
		roles.Admin:   "/admin/dashboard",
		roles.Manager: "/manager/projects",
		roles.User:    "/user/projects",
	}
	for role, path := range cases {
		w := f.get(path, f.token(t, role))
		require.Equal(t, http.StatusOK, w.Code, "role %s", role)
	}
}

// Foreign areas never error; the caller lands on their own dashboard.
func TestForeignAreaRedirectsToOwnLanding(t *testing.T) {
	f := newAreaFixture(t)

	w := f.get("/manager/projects", f.token(t, roles.Admin))
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/admin/dashboard", w.Header().Get("Location"))

	w = f.get("/admin/dashboard", f.token(t, roles.User))
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/user/projects", w.Header().Get("Location"))
}

func TestAuthenticatedLoginRedirectsToLanding(t *testing.T) {
	f := newAreaFixture(t)
	w := f.get("/login", f.token(t, roles.Manager))
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/manager/projects", w.Header().Get("Location"))
}

// Invalid or revoked credentials on the browser surface count as
// unauthenticated: redirect to login, never a 401 page.
func TestBadCredentialsRouteToLogin(t *testing.T) {
	f := newAreaFixture(t)

	w := f.get("/admin/dashboard", "garbage-token")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))

	raw, jti, err := tokens.Generate("test-secret", &models.User{ID: "u1", Role: roles.Admin}, time.Hour)
	require.NoError(t, err)
	require.NoError(t, f.tokenReg.Issue(context.Background(), jti, "u1", time.Hour))
	require.NoError(t, f.tokenReg.Revoke(context.Background(), jti))

	w = f.get("/admin/dashboard", raw)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))
}
