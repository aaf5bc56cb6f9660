package handlers

import (
	"net/http"

	"devcamper/internal/domain/review"
	"devcamper/internal/http/respond"
	"devcamper/internal/query"
	reviewsvc "devcamper/internal/services/review"

	"github.com/go-chi/chi/v5"
)

// ListReviews handles GET /reviews and, scoped to one bootcamp,
// GET /bootcamps/{id}/reviews.
func ListReviews(svc *reviewsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		list(w, r, review.QuerySchema, id, func(p query.Params) (query.Result[*review.Review], error) {
			if id != "" {
				return svc.ListByBootcamp(r.Context(), id, p)
			}
			return svc.List(r.Context(), p)
		})
	}
}

func GetReview(svc *reviewsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		rv, err := svc.Get(r.Context(), id)
		if err != nil {
			respond.Error(w, r, err, id)
			return
		}
		respond.Data(w, http.StatusOK, rv)
	}
}

func CreateReview(svc *reviewsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := actor(w, r)
		if !ok {
			return
		}
		bootcampID := chi.URLParam(r, "id")
		var req reviewsvc.CreateRequest
		if err := decode(r, &req); err != nil {
			respond.Error(w, r, err, bootcampID)
			return
		}
		rv, err := svc.Create(r.Context(), u, bootcampID, req)
		if err != nil {
			respond.Error(w, r, err, bootcampID)
			return
		}
		respond.Data(w, http.StatusCreated, rv)
	}
}

func UpdateReview(svc *reviewsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := actor(w, r)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")
		var req reviewsvc.UpdateRequest
		if err := decode(r, &req); err != nil {
			respond.Error(w, r, err, id)
			return
		}
		rv, err := svc.Update(r.Context(), u, id, req)
		if err != nil {
			respond.Error(w, r, err, id)
			return
		}
		respond.Data(w, http.StatusOK, rv)
	}
}

func DeleteReview(svc *reviewsvc.Service) http.HandlerFunc {
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
