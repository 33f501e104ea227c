package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/roles"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the verified contents of an access token.
type Claims struct {
	UserID string
	Role   roles.Role
	JTI    string
	Expiry time.Time
}

// Generate creates a signed HS256 access token for the user, valid for the
// fixed session window. The jti identifies the token in the issued-token
// registry so signout can revoke it.
func Generate(secret string, u *models.User, ttl time.Duration) (token, jti string, err error) {
	jti = uuid.NewString()
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  u.ID,
		"role": string(u.Role),
		"jti":  jti,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = jt.SignedString([]byte(secret))
	return token, jti, err
}

// Verify parses and validates a signed access token.
func Verify(secret, raw string) (*Claims, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, _ := mc["sub"].(string)
	role, _ := mc["role"].(string)
	jti, _ := mc["jti"].(string)
	if sub == "" || jti == "" {
		return nil, ErrInvalidToken
	}
	c := &Claims{UserID: sub, Role: roles.Role(role), JTI: jti}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.Expiry = exp.Time
	}
	return c, nil
}
