package session

import (
	"time"

	"github.com/taskhive/taskhive/internal/apiclient"
	"github.com/taskhive/taskhive/internal/roles"
)

// FromLogin builds the session record persisted after a successful signin.
// The token timestamp is stamped here, once; nothing refreshes it later.
func FromLogin(lr *apiclient.LoginResponse, now time.Time) *Session {
	return &Session{
		AccessToken:      lr.AccessToken,
		TokenType:        lr.TokenType,
		ID:               lr.ID,
		Role:             roles.Role(lr.Role),
		FullName:         lr.FullName,
		Username:         lr.Username,
		Email:            lr.Email,
		PhoneNumber:      lr.PhoneNumber,
		CreatedDate:      lr.CreatedDate,
		LastModifiedDate: lr.LastModifiedDate,
		TokenTimestamp:   now.UnixMilli(),
	}
}
