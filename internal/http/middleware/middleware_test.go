package middlewarex

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"devcamper/internal/auth"
	"devcamper/internal/domain/user"
	"devcamper/internal/ratelimit"
	"devcamper/internal/store/repositories"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type users map[string]*user.User

func (u users) FindByID(_ context.Context, id string) (*user.User, error) {
	if v, ok := u[id]; ok {
		return v, nil
	}
	return nil, repositories.ErrNotFound
}

type brokenUsers struct{}

func (brokenUsers) FindByID(context.Context, string) (*user.User, error) {
	return nil, errors.New("connection refused")
}

func whoami(w http.ResponseWriter, r *http.Request) {
	u, _ := CurrentUser(r.Context())
	_, _ = w.Write([]byte(u.ID))
}

func TestProtect(t *testing.T) {
	tokens, err := auth.NewTokens("secret", time.Hour)
	require.NoError(t, err)
	known := users{"u1": {ID: "u1", Role: user.RoleUser}}
	h := Protect(tokens, known)(http.HandlerFunc(whoami))

	tok, err := tokens.Issue("u1", "user")
	require.NoError(t, err)

	t.Run("bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1", rec.Body.String())
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tok})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"success":false,"error":"Not authorized to access this route"}`, rec.Body.String())
	})

	t.Run("garbage", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("deleted user", func(t *testing.T) {
		ghost, err := tokens.Issue("gone", "user")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+ghost)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestProtect_UserLookupFailure(t *testing.T) {
	tokens, err := auth.NewTokens("secret", time.Hour)
	require.NoError(t, err)
	h := Protect(tokens, brokenUsers{})(http.HandlerFunc(whoami))

	tok, err := tokens.Issue("u1", "user")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Server Error"}`, rec.Body.String())
}

func TestAuthorize(t *testing.T) {
	h := Authorize(user.RolePublisher, user.RoleAdmin)(http.HandlerFunc(whoami))

	serve := func(u *user.User) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if u != nil {
			req = req.WithContext(WithUser(req.Context(), u))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, serve(&user.User{ID: "p", Role: user.RolePublisher}))
	assert.Equal(t, http.StatusOK, serve(&user.User{ID: "a", Role: user.RoleAdmin}))
	assert.Equal(t, http.StatusForbidden, serve(&user.User{ID: "u", Role: user.RoleUser}))
	assert.Equal(t, http.StatusUnauthorized, serve(nil))
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	var limited int
	h := RateLimit(ratelimit.New(rdb, 2, time.Minute), func() { limited++ })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{204, 204, 429}, codes)
	assert.Equal(t, 1, limited)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
