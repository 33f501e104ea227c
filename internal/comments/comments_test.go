package comments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateAndListOrdered(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	first, err := svc.Create(ctx, "t1", "u1", "first")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "t1", "u2", "second")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "t2", "u1", "other task")
	require.NoError(t, err)

	list, err := svc.ListByTask(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, first.ID, list[0].ID, "oldest first")

	_, err = svc.Create(ctx, "t1", "u1", "")
	require.ErrorIs(t, err, ErrBodyRequired)
}

func TestUpdateIsAuthorOnly(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	c, err := svc.Create(ctx, "t1", "u1", "typo here")
	require.NoError(t, err)

	got, err := svc.Update(ctx, c.ID, "u1", "fixed")
	require.NoError(t, err)
	require.Equal(t, "fixed", got.Body)

	_, err = svc.Update(ctx, c.ID, "u2", "hijack")
	require.ErrorIs(t, err, ErrNotAuthor)

	_, err = svc.Update(ctx, "missing", "u1", "x")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAuthorOrAdmin(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	c, err := svc.Create(ctx, "t1", "u1", "hello")
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, c.ID, "u2", false), ErrNotAuthor)
	require.NoError(t, svc.Delete(ctx, c.ID, "u2", true), "admins may delete any comment")

	c, err = svc.Create(ctx, "t1", "u1", "again")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, c.ID, "u1", false))
}
