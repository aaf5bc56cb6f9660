// Package respond writes the JSON bodies shared by every endpoint.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"devcamper/internal/apperr"
	"devcamper/internal/query"
	"devcamper/internal/store/repositories"
	"devcamper/internal/validation"

	"github.com/rs/zerolog/hlog"
)

const (
	MsgNotAuthorized = "Not authorized to access this route"
	MsgDuplicate     = "Duplicate field value entered"
	MsgServerError   = "Server Error"
)

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type dataBody struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type listBody struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Data    any  `json:"data"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Data writes {success:true, data}.
func Data(w http.ResponseWriter, status int, v any) {
	JSON(w, status, dataBody{Success: true, Data: v})
}

// List writes {success:true, count, data} for unpaginated collections.
func List[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	JSON(w, http.StatusOK, listBody{Success: true, Count: len(items), Data: items})
}

// Fail writes {success:false, error} with the given status.
func Fail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Success: false, Error: msg})
}

// Error maps err onto a status and message. id is the resource id named in
// the request path, used for not-found messages.
func Error(w http.ResponseWriter, r *http.Request, err error, id string) {
	var (
		qerr *query.Error
		verr *validation.Error
		aerr *apperr.Error
	)
	switch {
	case errors.As(err, &qerr):
		Fail(w, http.StatusBadRequest, qerr.Error())
	case errors.As(err, &verr):
		Fail(w, http.StatusBadRequest, verr.Error())
	case errors.As(err, &aerr):
		if aerr.Err != nil {
			hlog.FromRequest(r).Warn().Err(aerr.Err).Int("status", aerr.Code).Msg(aerr.Message)
		}
		Fail(w, aerr.Code, aerr.Message)
	case errors.Is(err, repositories.ErrNotFound):
		Fail(w, http.StatusNotFound, "Resource not found with id of "+id)
	case errors.Is(err, repositories.ErrDuplicate):
		Fail(w, http.StatusBadRequest, MsgDuplicate)
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		Fail(w, http.StatusInternalServerError, MsgServerError)
	}
}
