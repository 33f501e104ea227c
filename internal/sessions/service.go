package sessions

import (
	"context"
	"time"
)

// Service wraps the issued-token registry with the operations the auth
// handlers and middleware need.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service { return &Service{repo: r} }

// Issue records a freshly signed token so it can later be revoked.
func (s *Service) Issue(ctx context.Context, jti, userID string, ttl time.Duration) error {
	return s.repo.Create(ctx, &Record{
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(ttl),
	})
}

// Live reports whether the token identified by jti is still honored.
func (s *Service) Live(ctx context.Context, jti string) (bool, error) {
	rec, err := s.repo.GetByJTI(ctx, jti)
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}

// Revoke kills a single token. Revoking an unknown jti is a no-op.
func (s *Service) Revoke(ctx context.Context, jti string) error {
	return s.repo.DeleteByJTI(ctx, jti)
}

// RevokeUser kills every live token for the user, used when an account is
// deactivated.
func (s *Service) RevokeUser(ctx context.Context, userID string) error {
	return s.repo.DeleteByUser(ctx, userID)
}
