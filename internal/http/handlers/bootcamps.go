package handlers

import (
	"net/http"

	"devcamper/internal/domain/bootcamp"
	"devcamper/internal/http/respond"
	"devcamper/internal/query"
	bootcampsvc "devcamper/internal/services/bootcamp"

	"github.com/go-chi/chi/v5"
)

// ListBootcamps handles GET /bootcamps
func ListBootcamps(svc *bootcampsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list(w, r, bootcamp.QuerySchema, "", func(p query.Params) (query.Result[*bootcamp.Bootcamp], error) {
			return svc.List(r.Context(), p)
		})
	}
}

func GetBootcamp(svc *bootcampsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		b, err := svc.Get(r.Context(), id)
		if err != nil {
			respond.Error(w, r, err, id)
			return
		}
		respond.Data(w, http.StatusOK, b)
	}
}

func CreateBootcamp(svc *bootcampsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := actor(w, r)
		if !ok {
			return
		}
		var req bootcampsvc.CreateRequest
		if err := decode(r, &req); err != nil {
			respond.Error(w, r, err, "")
			return
		}
		b, err := svc.Create(r.Context(), u, req)
		if err != nil {
			respond.Error(w, r, err, "")
			return
		}
		respond.Data(w, http.StatusCreated, b)
	}
}

func UpdateBootcamp(svc *bootcampsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := actor(w, r)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")
		var req bootcampsvc.UpdateRequest
		if err := decode(r, &req); err != nil {
			respond.Error(w, r, err, id)
			return
		}
		b, err := svc.Update(r.Context(), u, id, req)
		if err != nil {
			respond.Error(w, r, err, id)
			return
		}
		respond.Data(w, http.StatusOK, b)
	}
}

func DeleteBootcamp(svc *bootcampsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := actor(w, r)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")
		if err := svc.Delete(r.Context(), u, id); err != nil {
			respond.Error(w, r, err, id)
			return
		}
		respond.Data(w, http.StatusOK, struct{}{})
	}
}

// BootcampsInRadius handles GET /bootcamps/radius/{zipcode}/{distance}
func BootcampsInRadius(svc *bootcampsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		found, err := svc.InRadius(r.Context(), chi.URLParam(r, "zipcode"), chi.URLParam(r, "distance"))
		if err != nil {
			respond.Error(w, r, err, "")
			return
		}
		respond.List(w, found)
	}
}
