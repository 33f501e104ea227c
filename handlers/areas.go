package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/roles"
	"github.com/taskhive/taskhive/pkg/middleware"
)

// AreaHandler serves the browser-facing routing surface: /login,
// /forgot-password, the three role areas, and the root/unmatched fallback.
// Navigation carries an optional Bearer credential; the outcome is decided
// entirely by the roles mapping table, so every (role, path) pair has
// exactly one result and mismatches always redirect.
type AreaHandler struct {
	ver middleware.Verifier
	reg middleware.Registry
}

func NewAreaHandler(ver middleware.Verifier, reg middleware.Registry) *AreaHandler {
	return &AreaHandler{ver: ver, reg: reg}
}

// Register wires the routing surface. Unmatched paths (including "/") are
// caught by NoRoute.
func (h *AreaHandler) Register(r *gin.Engine) {
	r.GET("/login", h.Route)
	r.GET("/forgot-password", h.Route)
	r.NoRoute(h.Route)
}

// Route resolves the requested path against the caller's role.
func (h *AreaHandler) Route(c *gin.Context) {
	role := h.roleOf(c)
	out := roles.ResolvePath(role, c.Request.URL.Path)
	if !out.Allowed {
		c.Redirect(http.StatusFound, out.Redirect)
		return
	}
	area := roles.AreaOfPath(c.Request.URL.Path)
	if area == roles.AreaLogin {
		c.JSON(http.StatusOK, gin.H{"view": strings.TrimPrefix(c.Request.URL.Path, "/")})
		return
	}
	c.JSON(http.StatusOK, gin.H{"area": area, "landing": role.Landing()})
}

// roleOf extracts the role from an optional Bearer credential. Anything
// short of a valid, live token counts as unauthenticated; the routing
// surface never errors on bad credentials, it just routes to login.
func (h *AreaHandler) roleOf(c *gin.Context) roles.Role {
	auth := c.GetHeader("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	claims, err := h.ver.Verify(c.Request.Context(), parts[1])
	if err != nil {
		return ""
	}
	if h.reg != nil {
		live, err := h.reg.Live(c.Request.Context(), claims.JTI)
		if err != nil || !live {
			return ""
		}
	}
	return claims.Role
}
