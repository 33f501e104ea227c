package projects

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNameRequired = errors.New("project name required")

// Service wraps the repository with validation and visibility rules.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service { return &Service{repo: r} }

func (s *Service) Create(ctx context.Context, name, description, managerID string, memberIDs []string) (*Project, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	p := &Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		ManagerID:   managerID,
		MemberIDs:   memberIDs,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	return s.repo.Get(ctx, id)
}

// ListAll returns every project, for the admin and manager areas.
func (s *Service) ListAll(ctx context.Context) ([]*Project, error) {
	return s.repo.List(ctx)
}

// ListMine returns the projects the user manages or belongs to, for the
// user area.
func (s *Service) ListMine(ctx context.Context, userID string) ([]*Project, error) {
	return s.repo.ListByMember(ctx, userID)
}

func (s *Service) Update(ctx context.Context, id string, name, description *string, memberIDs *[]string) (*Project, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		if *name == "" {
			return nil, ErrNameRequired
		}
		p.Name = *name
	}
	if description != nil {
		p.Description = *description
	}
	if memberIDs != nil {
		p.MemberIDs = *memberIDs
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
