package review

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"devcamper/internal/apperr"
	"devcamper/internal/domain/bootcamp"
	"devcamper/internal/domain/user"
	"devcamper/internal/query"
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
	return NewService(st.Reviews(), st.Bootcamps(), st.UnitOfWork()), st, b
}

func reviewer(id string) *user.User { return &user.User{ID: id, Role: user.RoleUser} }

func averageRating(t *testing.T, st *memory.Store, id string) *float64 {
	t.Helper()
	b, err := st.Bootcamps().FindByID(context.Background(), id)
	require.NoError(t, err)
	return b.AverageRating
}

func TestCreate_RecomputesAverageRating(t *testing.T) {
	svc, st, b := setup(t)
	ctx := context.Background()

	r1, err := svc.Create(ctx, reviewer("u1"), b.ID, CreateRequest{Title: "Great", Text: "Loved it", Rating: 8})
	require.NoError(t, err)
	_, err = svc.Create(ctx, reviewer("u2"), b.ID, CreateRequest{Title: "Fine", Text: "Ok", Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, 6.5, *averageRating(t, st, b.ID))

	rating := 10
	_, err = svc.Update(ctx, reviewer("u1"), r1.ID, UpdateRequest{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 7.5, *averageRating(t, st, b.ID))

	require.NoError(t, svc.Delete(ctx, reviewer("u1"), r1.ID))
	assert.Equal(t, 5.0, *averageRating(t, st, b.ID))
}

func TestListByBootcamp(t *testing.T) {
	svc, st, b := setup(t)
	ctx := context.Background()
	other := bootcamp.New("Codemasters", "p2")
	require.NoError(t, st.Bootcamps().Create(ctx, other))

	_, err := svc.Create(ctx, reviewer("u1"), b.ID, CreateRequest{Title: "A", Text: "a", Rating: 9})
	require.NoError(t, err)
	_, err = svc.Create(ctx, reviewer("u1"), other.ID, CreateRequest{Title: "B", Text: "b", Rating: 4})
	require.NoError(t, err)

	p := query.Params{Page: query.Page{Page: 1, Limit: 25}}
	res, err := svc.ListByBootcamp(ctx, b.ID, p)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "A", res.Items[0].Title)

	_, err = svc.ListByBootcamp(ctx, "missing", p)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCreate_OneReviewPerUser(t *testing.T) {
	svc, st, b := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, reviewer("u1"), b.ID, CreateRequest{Title: "A", Text: "a", Rating: 9})
	require.NoError(t, err)
	_, err = svc.Create(ctx, reviewer("u1"), b.ID, CreateRequest{Title: "B", Text: "b", Rating: 1})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	// the rejected review did not move the average
	assert.Equal(t, 9.0, *averageRating(t, st, b.ID))
}

func TestCreate_RatingBounds(t *testing.T) {
	svc, _, b := setup(t)
	_, err := svc.Create(context.Background(), reviewer("u1"), b.ID, CreateRequest{Title: "A", Text: "a", Rating: 11})
	assert.Error(t, err)
	_, err = svc.Create(context.Background(), reviewer("u1"), b.ID, CreateRequest{Title: "A", Text: "a", Rating: 0})
	assert.Error(t, err)
}

func TestUpdate_NotOwner(t *testing.T) {
	svc, _, b := setup(t)
	ctx := context.Background()
	rv, err := svc.Create(ctx, reviewer("u1"), b.ID, CreateRequest{Title: "A", Text: "a", Rating: 9})
	require.NoError(t, err)

	title := "hijack"
	_, err = svc.Update(ctx, reviewer("u2"), rv.ID, UpdateRequest{Title: &title})
	var ae *apperr.Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, http.StatusForbidden, ae.Code)

	admin := &user.User{ID: "a1", Role: user.RoleAdmin}
	require.NoError(t, svc.Delete(ctx, admin, rv.ID))
}
