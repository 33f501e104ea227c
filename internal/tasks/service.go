package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTitleRequired   = errors.New("task title required")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrSubtaskNotFound = errors.New("subtask not found")
)

// Service wraps the repository with validation and the subtask operations.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service { return &Service{repo: r} }

func (s *Service) Create(ctx context.Context, projectID, title, description, assigneeID string, due *time.Time) (*Task, error) {
	if title == "" {
		return nil, ErrTitleRequired
	}
	t := &Task{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		AssigneeID:  assigneeID,
		Status:      StatusTodo,
		DueDate:     due,
		Subtasks:    []Subtask{},
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Task, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByProject(ctx context.Context, projectID string) ([]*Task, error) {
	return s.repo.ListByProject(ctx, projectID)
}

// UpdateInput carries mutable task fields; nil leaves a field unchanged.
type UpdateInput struct {
	Title       *string
	Description *string
	AssigneeID  *string
	Status      *Status
	DueDate     *time.Time
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, ErrTitleRequired
		}
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.AssigneeID != nil {
		t.AssigneeID = *in.AssigneeID
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		t.Status = *in.Status
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// DeleteByProject removes every task in a project, used when the project
// itself is deleted.
func (s *Service) DeleteByProject(ctx context.Context, projectID string) error {
	return s.repo.DeleteByProject(ctx, projectID)
}

// AddSubtask appends a checklist item to the task.
func (s *Service) AddSubtask(ctx context.Context, taskID, title string) (*Task, error) {
	if title == "" {
		return nil, ErrTitleRequired
	}
	t, err := s.repo.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	t.Subtasks = append(t.Subtasks, Subtask{ID: uuid.NewString(), Title: title})
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateSubtask renames and/or checks off a checklist item.
func (s *Service) UpdateSubtask(ctx context.Context, taskID, subtaskID string, title *string, done *bool) (*Task, error) {
	t, err := s.repo.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == subtaskID {
			if title != nil {
				if *title == "" {
					return nil, ErrTitleRequired
				}
				t.Subtasks[i].Title = *title
			}
			if done != nil {
				t.Subtasks[i].Done = *done
			}
			found = true
			break
		}
	}
	if !found {
		return nil, ErrSubtaskNotFound
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// RemoveSubtask drops a checklist item.
func (s *Service) RemoveSubtask(ctx context.Context, taskID, subtaskID string) (*Task, error) {
	t, err := s.repo.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	kept := t.Subtasks[:0]
	found := false
	for _, st := range t.Subtasks {
		if st.ID == subtaskID {
			found = true
			continue
		}
		kept = append(kept, st)
	}
	if !found {
		return nil, ErrSubtaskNotFound
	}
	t.Subtasks = kept
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
