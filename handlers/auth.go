package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/oidc"
	"github.com/taskhive/taskhive/internal/sessions"
	"github.com/taskhive/taskhive/internal/tokens"
	"github.com/taskhive/taskhive/internal/users"
	"github.com/taskhive/taskhive/pkg/logger"
	"github.com/taskhive/taskhive/pkg/metrics"
	"github.com/taskhive/taskhive/pkg/middleware"
)

// SignInRequest supports password signin and, when OIDC is configured,
// SSO signin with a verified ID token.
type SignInRequest struct {
	Mode     string `json:"mode"` // "password" (default) | "sso"
	Username string `json:"username"`
	Password string `json:"password"`
	IDToken  string `json:"idToken"`
}

// AuthHandler serves signin, signout and the account liveness check.
type AuthHandler struct {
	cfg      *config.Config
	usersSvc *users.Service
	tokenReg *sessions.Service
	sso      *oidc.Verifier // nil unless OIDC is configured
}

func NewAuthHandler(cfg *config.Config, u *users.Service, reg *sessions.Service, sso *oidc.Verifier) *AuthHandler {
	return &AuthHandler{cfg: cfg, usersSvc: u, tokenReg: reg, sso: sso}
}

// Register routes under /api/auth. The status and signout endpoints sit
// behind the auth middleware.
func (h *AuthHandler) Register(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	a := rg.Group("/api/auth")
	a.POST("/signin", h.SignIn)
	a.GET("/status", auth, h.Status)
	a.POST("/signout", auth, h.SignOut)
}

// SignIn verifies credentials and returns the profile-plus-token payload
// the client persists. The client stamps its own tokenTimestamp; the
// response deliberately carries no expiry hint beyond the token itself.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var u *models.User
	var err error
	switch req.Mode {
	case "", "password":
		u, err = h.usersSvc.Authenticate(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
			return
		}
	case "sso":
		if h.sso == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "SSO not configured"})
			return
		}
		claims, verr := h.sso.Verify(c.Request.Context(), req.IDToken)
		if verr != nil {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid ID token"})
			return
		}
		u, err = h.usersSvc.UpsertFromClaims(c.Request.Context(), claims)
		if err != nil {
			logger.Errorf("sso upsert failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "user upsert failed"})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported mode"})
		return
	}

	access, jti, err := tokens.Generate(h.cfg.JWT.Secret, u, h.cfg.JWT.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	if err := h.tokenReg.Issue(c.Request.Context(), jti, u.ID, h.cfg.JWT.TokenTTL); err != nil {
		logger.Errorf("failed to register issued token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{
		"accessToken":      access,
		"tokenType":        "Bearer",
		"id":               u.ID,
		"role":             u.Role,
		"fullName":         u.FullName,
		"username":         u.Username,
		"email":            u.Email,
		"phoneNumber":      u.PhoneNumber,
		"createdDate":      u.CreatedDate.UTC().Format(time.RFC3339),
		"lastModifiedDate": u.LastModifiedDate.UTC().Format(time.RFC3339),
	})
}

// Status is the liveness check the client gate polls. It answers ACTIVE or
// INACTIVE for the account behind the token; a bad or revoked token never
// reaches here (the middleware answers 401).
func (h *AuthHandler) Status(c *gin.Context) {
	claims := middleware.Claims(c)
	u, err := h.usersSvc.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user lookup failed"})
		return
	}
	if u == nil {
		// account deleted since the token was issued
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": u.Status})
}

// SignOut revokes the presented token in the issued-token registry.
func (h *AuthHandler) SignOut(c *gin.Context) {
	claims := middleware.Claims(c)
	if err := h.tokenReg.Revoke(c.Request.Context(), claims.JTI); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}
