package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/roles"
	"github.com/taskhive/taskhive/internal/tokens"
	"github.com/taskhive/taskhive/pkg/metrics"
)

// ClaimsKey is the gin context key the auth middleware stores verified
// claims under.
const ClaimsKey = "auth"

// Verifier is the minimal interface the middleware depends on.
type Verifier interface {
	Verify(ctx context.Context, raw string) (*tokens.Claims, error)
}

// Registry answers whether an issued token is still honored. Satisfied by
// *sessions.Service.
type Registry interface {
	Live(ctx context.Context, jti string) (bool, error)
}

// Auth verifies the Bearer token and checks it against the issued-token
// registry, so signed-out tokens die before their exp claim. On success
// the verified claims are stored under ClaimsKey.
func Auth(ver Verifier, reg Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed Authorization header"})
			return
		}
		claims, err := ver.Verify(c.Request.Context(), raw)
		if err != nil {
			metrics.AuthRejected.WithLabelValues("invalid_token").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if reg != nil {
			live, err := reg.Live(c.Request.Context(), claims.JTI)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token check failed"})
				return
			}
			if !live {
				metrics.AuthRejected.WithLabelValues("revoked").Inc()
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token revoked"})
				return
			}
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// Claims returns the verified claims stored by Auth, or nil.
func Claims(c *gin.Context) *tokens.Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*tokens.Claims)
	return claims
}

// RequireRole rejects authenticated callers whose role is not in allowed.
// The REST surface answers 403; redirect semantics belong to the browser
// routing surface, not the API.
func RequireRole(allowed ...roles.Role) gin.HandlerFunc {
	set := make(map[roles.Role]struct{}, len(allowed))
	for _, r := range allowed {
		set[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if _, ok := set[claims.Role]; !ok {
			metrics.AuthRejected.WithLabelValues("forbidden").Inc()
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
