package course

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"devcamper/internal/apperr"
	"devcamper/internal/domain/bootcamp"
	"devcamper/internal/domain/user"
	"devcamper/internal/store/memory"
	"devcamper/internal/store/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Service, *memory.Store, *bootcamp.Bootcamp) {
	t.Helper()
	st := memory.New()
	b := bootcamp.New("Devworks", "p1")
	require.NoError(t, st.Bootcamps().Create(context.Background(), b))
	return NewService(st.Courses(), st.Bootcamps(), st.UnitOfWork()), st, b
}

func owner() *user.User { return &user.User{ID: "p1", Role: user.RolePublisher} }

func req(title string, tuition float64) CreateRequest {
	return CreateRequest{
		Title:        title,
		Description:  "desc",
		Weeks:        "8",
		Tuition:      tuition,
		MinimumSkill: "beginner",
	}
}

func averageCost(t *testing.T, st *memory.Store, id string) *float64 {
	t.Helper()
	b, err := st.Bootcamps().FindByID(context.Background(), id)
	require.NoError(t, err)
	return b.AverageCost
}

func TestCreate_RecomputesAverageCost(t *testing.T) {
	svc, st, b := setup(t)
	ctx := context.Background()

	c1, err := svc.Create(ctx, owner(), b.ID, req("Front End", 8000))
	require.NoError(t, err)
	assert.Equal(t, "Devworks", c1.Bootcamp.Name)
	_, err = svc.Create(ctx, owner(), b.ID, req("Back End", 10001))
	require.NoError(t, err)

	// mean 9000.5 rounds up to the next ten
	require.NotNil(t, averageCost(t, st, b.ID))
	assert.Equal(t, 9010.0, *averageCost(t, st, b.ID))

	tuition := 12000.0
	_, err = svc.Update(ctx, owner(), c1.ID, UpdateRequest{Tuition: &tuition})
	require.NoError(t, err)
	assert.Equal(t, 11010.0, *averageCost(t, st, b.ID))

	require.NoError(t, svc.Delete(ctx, owner(), c1.ID))
	assert.Equal(t, 10010.0, *averageCost(t, st, b.ID))

	list, err := svc.ListByBootcamp(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NoError(t, svc.Delete(ctx, owner(), list[0].ID))
	assert.Nil(t, averageCost(t, st, b.ID))
}

func TestCreate_RequiresBootcampOwner(t *testing.T) {
	svc, st, b := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &user.User{ID: "p2", Role: user.RolePublisher}, b.ID, req("X", 100))
	var ae *apperr.Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, http.StatusForbidden, ae.Code)

	// nothing was written
	list, err := st.Courses().FindByBootcamp(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Create(ctx, &user.User{ID: "a1", Role: user.RoleAdmin}, b.ID, req("X", 100))
	require.NoError(t, err)
}

func TestCreate_MissingBootcamp(t *testing.T) {
	svc, _, _ := setup(t)
	_, err := svc.Create(context.Background(), owner(), "nope", req("X", 100))
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestUpdate_NotOwner(t *testing.T) {
	svc, _, b := setup(t)
	ctx := context.Background()
	c, err := svc.Create(ctx, owner(), b.ID, req("X", 100))
	require.NoError(t, err)

	title := "Y"
	_, err = svc.Update(ctx, &user.User{ID: "p2", Role: user.RolePublisher}, c.ID, UpdateRequest{Title: &title})
	var ae *apperr.Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, http.StatusForbidden, ae.Code)

	err = svc.Delete(ctx, &user.User{ID: "p2", Role: user.RolePublisher}, c.ID)
	require.True(t, errors.As(err, &ae))
}

func TestListByBootcamp_UnknownBootcamp(t *testing.T) {
	svc, _, _ := setup(t)
	_, err := svc.ListByBootcamp(context.Background(), "nope")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
