package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/apiclient"
	"github.com/taskhive/taskhive/internal/roles"
)

func TestFromLoginStampsTimestamp(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	lr := &apiclient.LoginResponse{
		AccessToken: "tok",
		TokenType:   "Bearer",
		ID:          "u1",
		Role:        "ROLE_MANAGER",
		Username:    "bob",
		Email:       "bob@example.com",
	}

	s := FromLogin(lr, now)
	require.Equal(t, "tok", s.AccessToken)
	require.Equal(t, roles.Manager, s.Role)
	require.Equal(t, now.UnixMilli(), s.TokenTimestamp)
	require.Equal(t, now, s.LoginTime())
}
