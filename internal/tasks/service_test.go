package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreateDefaults(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	due := time.Now().Add(48 * time.Hour)
	task, err := svc.Create(ctx, "p1", "Write docs", "user guide", "u1", &due)
	require.NoError(t, err)
	require.Equal(t, StatusTodo, task.Status)
	require.NotNil(t, task.Subtasks)
	require.Empty(t, task.Subtasks)

	_, err = svc.Create(ctx, "p1", "", "", "", nil)
	require.ErrorIs(t, err, ErrTitleRequired)
}

func TestUpdateStatusValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	task, err := svc.Create(ctx, "p1", "Write docs", "", "", nil)
	require.NoError(t, err)

	done := StatusDone
	got, err := svc.Update(ctx, task.ID, UpdateInput{Status: &done})
	require.NoError(t, err)
	require.Equal(t, StatusDone, got.Status)

	bogus := Status("WAITING")
	_, err = svc.Update(ctx, task.ID, UpdateInput{Status: &bogus})
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestSubtaskLifecycle(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	task, err := svc.Create(ctx, "p1", "Release", "", "", nil)
	require.NoError(t, err)

	task, err = svc.AddSubtask(ctx, task.ID, "tag the build")
	require.NoError(t, err)
	task, err = svc.AddSubtask(ctx, task.ID, "write changelog")
	require.NoError(t, err)
	require.Len(t, task.Subtasks, 2)

	st := task.Subtasks[0]
	done := true
	task, err = svc.UpdateSubtask(ctx, task.ID, st.ID, nil, &done)
	require.NoError(t, err)
	require.True(t, task.Subtasks[0].Done)
	require.Equal(t, "tag the build", task.Subtasks[0].Title)

	task, err = svc.RemoveSubtask(ctx, task.ID, st.ID)
	require.NoError(t, err)
	require.Len(t, task.Subtasks, 1)
	require.Equal(t, "write changelog", task.Subtasks[0].Title)

	_, err = svc.RemoveSubtask(ctx, task.ID, "missing")
	require.ErrorIs(t, err, ErrSubtaskNotFound)
	_, err = svc.UpdateSubtask(ctx, task.ID, "missing", nil, &done)
	require.ErrorIs(t, err, ErrSubtaskNotFound)
}

func TestDeleteByProject(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.Create(ctx, "p1", "a", "", "", nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "p1", "b", "", "", nil)
	require.NoError(t, err)
	keep, err := svc.Create(ctx, "p2", "c", "", "", nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteByProject(ctx, "p1"))

	list, err := svc.ListByProject(ctx, "p1")
	require.NoError(t, err)
	require.Empty(t, list)

	got, err := svc.Get(ctx, keep.ID)
	require.NoError(t, err)
	require.Equal(t, "c", got.Title)
}
