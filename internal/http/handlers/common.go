package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"devcamper/internal/apperr"
	"devcamper/internal/domain/user"
	middlewarex "devcamper/internal/http/middleware"
	"devcamper/internal/http/respond"
	"devcamper/internal/query"
)

const maxBody = 1 << 20

// decode reads a JSON request body into v.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.BadRequest("Request body is empty")
		}
		return apperr.BadRequest("Invalid JSON body")
	}
	return nil
}

// actor returns the authenticated user, writing a 401 when there is none.
func actor(w http.ResponseWriter, r *http.Request) (*user.User, bool) {
	u, ok := middlewarex.CurrentUser(r.Context())
	if !ok {
		respond.Fail(w, http.StatusUnauthorized, respond.MsgNotAuthorized)
	}
	return u, ok
}

// list runs the shared list pipeline: parse, fetch, envelope. parentID
// names the parent resource in not-found errors.
func list[T any](w http.ResponseWriter, r *http.Request, schema query.Schema, parentID string, fetch func(query.Params) (query.Result[T], error)) {
	p, err := query.Parse(r.URL.Query(), schema)
	if err != nil {
		respond.Error(w, r, err, "")
		return
	}

	res, err := fetch(p)
	if err != nil {
		respond.Error(w, r, err, parentID)
		return
	}

	env, err := query.NewEnvelope(res, p)
	if err != nil {
		respond.Error(w, r, err, "")
		return
	}
	respond.JSON(w, http.StatusOK, env)
}
