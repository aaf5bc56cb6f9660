package handlers

import (
	"net/http"
	"time"

	middlewarex "devcamper/internal/http/middleware"
	"devcamper/internal/http/respond"
	"devcamper/internal/services/account"
)

// CookieOptions controls the token cookie set on login.
type CookieOptions struct {
	MaxAge time.Duration
	Secure bool
}

type tokenBody struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// sendToken answers with the token in the body and in an HTTP-only cookie.
func sendToken(w http.ResponseWriter, status int, sess *account.Session, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     middlewarex.TokenCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  time.Now().Add(opts.MaxAge),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	respond.JSON(w, status, tokenBody{Success: true, Token: sess.Token})
}

func Register(svc *account.Service, opts CookieOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req account.RegisterRequest
		if err := decode(r, &req); err != nil {
			respond.Error(w, r, err, "")
			return
		}
		sess, err := svc.Register(r.Context(), req)
		if err != nil {
			respond.Error(w, r, err, "")
			return
		}
		sendToken(w, http.StatusOK, sess, opts)
	}
}

func Login(svc *account.Service, opts CookieOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req account.LoginRequest
		if err := decode(r, &req); err != nil {
			respond.Error(w, r, err, "")
			return
		}
		sess, err := svc.Login(r.Context(), req)
		if err != nil {
			respond.Error(w, r, err, "")
			return
		}
		sendToken(w, http.StatusOK, sess, opts)
	}
}

// Logout overwrites the token cookie with a short-lived placeholder.
func Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     middlewarex.TokenCookie,
			Value:    "none",
			Path:     "/",
			Expires:  time.Now().Add(10 * time.Second),
			HttpOnly: true,
		})
		respond.Data(w, http.StatusOK, struct{}{})
	}
}

func Me(svc *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := actor(w, r)
		if !ok {
			return
		}
		me, err := svc.Me(r.Context(), u.ID)
		if err != nil {
			respond.Error(w, r, err, u.ID)
			return
		}
		respond.Data(w, http.StatusOK, me)
	}
}

func UpdateDetails(svc *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := actor(w, r)
		if !ok {
			return
		}
		var req account.UpdateDetailsRequest
		if err := decode(r, &req); err != nil {
			respond.Error(w, r, err, u.ID)
			return
		}
		updated, err := svc.UpdateDetails(r.Context(), u, req)
		if err != nil {
			respond.Error(w, r, err, u.ID)
			return
		}
		respond.Data(w, http.StatusOK, updated)
	}
}

func UpdatePassword(svc *account.Service, opts CookieOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := actor(w, r)
		if !ok {
			return
		}
		var req account.UpdatePasswordRequest
		if err := decode(r, &req); err != nil {
			respond.Error(w, r, err, u.ID)
			return
		}
		sess, err := svc.UpdatePassword(r.Context(), u, req)
		if err != nil {
			respond.Error(w, r, err, u.ID)
			return
		}
		sendToken(w, http.StatusOK, sess, opts)
	}
}
