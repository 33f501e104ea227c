package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/roles"
)

func newTestService() *Service {
	return NewService(NewMemoryRepository())
}

func TestCreateAndAuthenticate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	u, err := svc.Create(ctx, CreateInput{
		Username: "alice",
		Password: "s3cret",
		Email:    "alice@example.com",
		FullName: "Alice Admin",
		Role:     roles.Admin,
	})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Equal(t, models.StatusActive, u.Status)
	require.NotEqual(t, "s3cret", u.PasswordHash, "password must be hashed")

	got, err := svc.Authenticate(ctx, "alice", "s3cret")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "s3cret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Username: "", Password: "x", Role: roles.User})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Create(ctx, CreateInput{Username: "bob", Password: "x", Role: "ROLE_WIZARD"})
	require.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.Create(ctx, CreateInput{Username: "bob", Password: "x", Role: roles.User})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Username: "bob", Password: "y", Role: roles.User})
	require.ErrorIs(t, err, ErrUsernameTaken)
}

// Disabled accounts still pass credential verification. The status endpoint
// is what reports INACTIVE, so clients can tell a disabled account apart
// from a wrong password.
func TestAuthenticateInactiveAccount(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	u, err := svc.Create(ctx, CreateInput{Username: "carol", Password: "pw", Role: roles.User})
	require.NoError(t, err)

	inactive := models.StatusInactive
	_, err = svc.Update(ctx, u.ID, UpdateInput{Status: &inactive})
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, "carol", "pw")
	require.NoError(t, err)
	require.Equal(t, models.StatusInactive, got.Status)
}

func TestUpdatePartialFields(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	u, err := svc.Create(ctx, CreateInput{
		Username: "dave",
		Password: "pw",
		Email:    "dave@old.example",
		Role:     roles.User,
	})
	require.NoError(t, err)

	email := "dave@new.example"
	mgr := roles.Manager
	got, err := svc.Update(ctx, u.ID, UpdateInput{Email: &email, Role: &mgr})
	require.NoError(t, err)
	require.Equal(t, "dave@new.example", got.Email)
	require.Equal(t, roles.Manager, got.Role)
	require.Equal(t, "dave", got.Username, "unset fields untouched")

	bad := roles.Role("ROLE_NOPE")
	_, err = svc.Update(ctx, u.ID, UpdateInput{Role: &bad})
	require.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.Update(ctx, "missing-id", UpdateInput{Email: &email})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	u, err := svc.Create(ctx, CreateInput{Username: "eve", Password: "pw", Role: roles.User})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, u.ID))
	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	require.Nil(t, got)

	require.ErrorIs(t, svc.Delete(ctx, u.ID), ErrNotFound)
}

func TestUpsertFromClaims(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	u, err := svc.UpsertFromClaims(ctx, map[string]interface{}{
		"preferred_username": "sso-alice",
		"email":              "alice@idp.example",
		"name":               "Alice",
	})
	require.NoError(t, err)
	require.Equal(t, roles.User, u.Role, "SSO accounts start in the user role")

	// second signin refreshes the profile rather than duplicating it
	u2, err := svc.UpsertFromClaims(ctx, map[string]interface{}{
		"preferred_username": "sso-alice",
		"email":              "alice@company.example",
		"name":               "Alice A.",
	})
	require.NoError(t, err)
	require.Equal(t, u.ID, u2.ID)
	require.Equal(t, "alice@company.example", u2.Email)

	_, err = svc.UpsertFromClaims(ctx, map[string]interface{}{"email": "no-username@x"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
