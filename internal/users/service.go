package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/roles"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
)

// Service encapsulates account business logic: admin CRUD, credential
// verification for signin, and status changes.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service { return &Service{repo: r} }

// CreateInput carries the fields an admin supplies when creating a user.
type CreateInput struct {
	Username    string
	Password    string
	Email       string
	FullName    string
	PhoneNumber string
	Role        roles.Role
}

// Create registers a new account with a bcrypt password hash. New accounts
// start ACTIVE.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return nil, ErrInvalidCredentials
	}
	if !in.Role.Valid() {
		return nil, ErrInvalidRole
	}
	existing, err := s.repo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		PhoneNumber:  in.PhoneNumber,
		Role:         in.Role,
		Status:       models.StatusActive,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate verifies the credentials and returns the account. Inactive
// accounts authenticate fine; the status endpoint is what reports them
// INACTIVE, so the client gate can tell "disabled" apart from "bad
// password".
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.List(ctx)
}

// UpdateInput carries mutable profile fields; nil pointers leave the field
// unchanged.
type UpdateInput struct {
	Email       *string
	FullName    *string
	PhoneNumber *string
	Role        *roles.Role
	Status      *models.AccountStatus
	Password    *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*models.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.FullName != nil {
		u.FullName = *in.FullName
	}
	if in.PhoneNumber != nil {
		u.PhoneNumber = *in.PhoneNumber
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, ErrInvalidRole
		}
		u.Role = *in.Role
	}
	if in.Status != nil {
		u.Status = *in.Status
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// UpsertFromClaims creates or refreshes an account from verified OIDC
// claims, used by the SSO signin path. SSO accounts land in the user role;
// admins promote them afterwards.
func (s *Service) UpsertFromClaims(ctx context.Context, claims map[string]interface{}) (*models.User, error) {
	username, _ := claims["preferred_username"].(string)
	if username == "" {
		username, _ = claims["sub"].(string)
	}
	if username == "" {
		return nil, ErrInvalidCredentials
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		u = &models.User{
			ID:       uuid.NewString(),
			Username: username,
			Email:    email,
			FullName: name,
			Role:     roles.User,
			Status:   models.StatusActive,
		}
		if err := s.repo.Create(ctx, u); err != nil {
			return nil, err
		}
		return u, nil
	}
	u.Email = email
	u.FullName = name
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
