package middlewarex

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"devcamper/internal/auth"
	"devcamper/internal/domain/user"
	"devcamper/internal/http/respond"
	"devcamper/internal/store/repositories"

	"github.com/rs/zerolog/hlog"
)

// TokenCookie is the cookie the token is also delivered in.
const TokenCookie = "token"

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type UserLoader interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
}

// Protect requires a valid token, from the Authorization bearer header or
// the token cookie, and loads its user into the request context.
func Protect(tokens TokenVerifier, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearer(r)
			if raw == "" {
				respond.Fail(w, http.StatusUnauthorized, respond.MsgNotAuthorized)
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				hlog.FromRequest(r).Debug().Err(err).Msg("token rejected")
				respond.Fail(w, http.StatusUnauthorized, respond.MsgNotAuthorized)
				return
			}

			u, err := users.FindByID(r.Context(), claims.Subject)
			if errors.Is(err, repositories.ErrNotFound) {
				respond.Fail(w, http.StatusUnauthorized, respond.MsgNotAuthorized)
				return
			}
			if err != nil {
				respond.Error(w, r, err, claims.Subject)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

func bearer(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "none" {
		return c.Value
	}
	return ""
}

// Authorize allows only the given roles. It must run after Protect.
func Authorize(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r.Context())
			if !ok {
				respond.Fail(w, http.StatusUnauthorized, respond.MsgNotAuthorized)
				return
			}
			if !u.HasRole(roles...) {
				respond.Fail(w, http.StatusForbidden, "User role "+string(u.Role)+" is not authorized to access this route")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
