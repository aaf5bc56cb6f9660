package users

import (
	"context"
	"net/url"
	"testing"

	"devcamper/internal/domain/user"
	"devcamper/internal/query"
	"devcamper/internal/store/memory"
	"devcamper/internal/store/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCRUD(t *testing.T) {
	svc := NewService(memory.New().Users())
	ctx := context.Background()

	admin, err := svc.Create(ctx, CreateRequest{Name: "Admin", Email: "admin@example.com", Password: "123456", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, admin.Role)

	u, err := svc.Create(ctx, CreateRequest{Name: "Sam", Email: "sam@example.com", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, user.RoleUser, u.Role)

	p, err := query.Parse(url.Values{"role": {"user"}}, user.QuerySchema)
	require.NoError(t, err)
	res, err := svc.List(ctx, p)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, u.ID, res.Items[0].ID)

	role := "publisher"
	updated, err := svc.Update(ctx, u.ID, UpdateRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, user.RolePublisher, updated.Role)

	bad := "root"
	_, err = svc.Update(ctx, u.ID, UpdateRequest{Role: &bad})
	assert.Error(t, err)

	require.NoError(t, svc.Delete(ctx, u.ID))
	_, err = svc.Get(ctx, u.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, u.ID), repositories.ErrNotFound)
}
