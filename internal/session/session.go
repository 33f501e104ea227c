package session

import (
	"time"

	"github.com/taskhive/taskhive/internal/roles"
)

// Session is the one record persisted by the client after a successful
// login. The field set is fixed: everything the signin response carries,
// plus tokenTimestamp stamped by the client at login time. Nothing here is
// re-validated field by field afterwards; the profile is a snapshot.
type Session struct {
	AccessToken      string     `json:"accessToken"`
	TokenType        string     `json:"tokenType"`
	ID               string     `json:"id"`
	Role             roles.Role `json:"role"`
	FullName         string     `json:"fullName"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	PhoneNumber      string     `json:"phoneNumber"`
	CreatedDate      string     `json:"createdDate"`
	LastModifiedDate string     `json:"lastModifiedDate"`
	// TokenTimestamp is epoch milliseconds recorded once at login and never
	// refreshed afterwards. Expiry is a fixed window from this instant;
	// continued use does not slide it.
	TokenTimestamp int64 `json:"tokenTimestamp"`
}

// LoginTime returns the instant the session was created.
func (s *Session) LoginTime() time.Time {
	return time.UnixMilli(s.TokenTimestamp)
}

// Age returns the elapsed time since login as seen at now.
func (s *Session) Age(now time.Time) time.Duration {
	return now.Sub(s.LoginTime())
}

// Expired reports whether the fixed window has elapsed at now.
func (s *Session) Expired(now time.Time, maxAge time.Duration) bool {
	return s.Age(now) > maxAge
}
