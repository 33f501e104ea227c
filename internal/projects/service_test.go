package projects

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateRequiresName(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	_, err := svc.Create(context.Background(), "", "desc", "mgr-1", nil)
	require.ErrorIs(t, err, ErrNameRequired)
}

func TestCreateAndGet(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	p, err := svc.Create(ctx, "Website Relaunch", "new marketing site", "mgr-1", []string{"u1", "u2"})
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "Website Relaunch", got.Name)
	require.True(t, got.HasMember("u1"))
	require.True(t, got.HasMember("mgr-1"), "the manager counts as a member")
	require.False(t, got.HasMember("stranger"))
}

func TestListMineFiltersByMembership(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.Create(ctx, "Alpha", "", "mgr-1", []string{"u1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Beta", "", "mgr-2", []string{"u2"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Gamma", "", "u1", nil)
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestUpdatePartial(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	p, err := svc.Create(ctx, "Alpha", "old", "mgr-1", nil)
	require.NoError(t, err)

	desc := "new description"
	got, err := svc.Update(ctx, p.ID, nil, &desc, nil)
	require.NoError(t, err)
	require.Equal(t, "Alpha", got.Name)
	require.Equal(t, "new description", got.Description)

	empty := ""
	_, err = svc.Update(ctx, p.ID, &empty, nil, nil)
	require.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.Update(ctx, "missing", nil, &desc, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	p, err := svc.Create(ctx, "Alpha", "", "mgr-1", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID))
	require.ErrorIs(t, svc.Delete(ctx, p.ID), ErrNotFound)
}
