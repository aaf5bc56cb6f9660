package handlers

import (
	"net/http"

	"devcamper/internal/domain/user"
	"devcamper/internal/http/respond"
	"devcamper/internal/query"
	"devcamper/internal/services/users"

	"github.com/go-chi/chi/v5"
)

// ListUsers handles GET /users (admin)
func ListUsers(svc *users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list(w, r, user.QuerySchema, "", func(p query.Params) (query.Result[*user.User], error) {
			return svc.List(r.Context(), p)
		})
	}
}

func GetUser(svc *users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		u, err := svc.Get(r.Context(), id)
		if err != nil {
			respond.Error(w, r, err, id)
			return
		}
		respond.Data(w, http.StatusOK, u)
	}
}

func CreateUser(svc *users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req users.CreateRequest
		if err := decode(r, &req); err != nil {
			respond.Error(w, r, err, "")
			return
		}
		u, err := svc.Create(r.Context(), req)
		if err != nil {
			respond.Error(w, r, err, "")
			return
		}
		respond.Data(w, http.StatusCreated, u)
	}
}

func UpdateUser(svc *users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req users.UpdateRequest
		if err := decode(r, &req); err != nil {
			respond.Error(w, r, err, id)
			return
		}
		u, err := svc.Update(r.Context(), id, req)
		if err != nil {
			respond.Error(w, r, err, id)
			return
		}
		respond.Data(w, http.StatusOK, u)
	}
}

func DeleteUser(svc *users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := svc.Delete(r.Context(), id); err != nil {
			respond.Error(w, r, err, id)
			return
		}
		respond.Data(w, http.StatusOK, struct{}{})
	}
}
