package tokens

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/roles"
)

func testUser() *models.User {
	return &models.User{ID: "u1", Role: roles.Manager}
}

func TestGenerateVerifyRoundTrip(t *testing.T) {
	raw, jti, err := Generate("secret", testUser(), time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	require.NotEmpty(t, jti)

	c, err := Verify("secret", raw)
	require.NoError(t, err)
	require.Equal(t, "u1", c.UserID)
	require.Equal(t, roles.Manager, c.Role)
	require.Equal(t, jti, c.JTI)
	require.WithinDuration(t, time.Now().Add(time.Hour), c.Expiry, time.Minute)
}

func TestVerifyWrongSecret(t *testing.T) {
	raw, _, err := Generate("secret", testUser(), time.Hour)
	require.NoError(t, err)

	_, err = Verify("other-secret", raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpired(t *testing.T) {
	raw, _, err := Generate("secret", testUser(), -time.Minute)
	require.NoError(t, err)

	_, err = Verify("secret", raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	_, err := Verify("secret", "not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifierAdapter(t *testing.T) {
	raw, jti, err := Generate("secret", testUser(), time.Hour)
	require.NoError(t, err)

	v := NewVerifier("secret")
	c, err := v.Verify(context.Background(), raw)
	require.NoError(t, err)
	require.Equal(t, jti, c.JTI)
}
