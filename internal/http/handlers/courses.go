package handlers

import (
	"net/http"

	"devcamper/internal/domain/course"
	"devcamper/internal/http/respond"
	"devcamper/internal/query"
	coursesvc "devcamper/internal/services/course"

	"github.com/go-chi/chi/v5"
)

// ListCourses handles GET /courses
func ListCourses(svc *coursesvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list(w, r, course.QuerySchema, "", func(p query.Params) (query.Result[*course.Course], error) {
			return svc.List(r.Context(), p)
		})
	}
}

// ListBootcampCourses handles GET /bootcamps/{id}/courses
func ListBootcampCourses(svc *coursesvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		courses, err := svc.ListByBootcamp(r.Context(), id)
		if err != nil {
			respond.Error(w, r, err, id)
			return
		}
		respond.List(w, courses)
	}
}

func GetCourse(svc *coursesvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		c, err := svc.Get(r.Context(), id)
		if err != nil {
			respond.Error(w, r, err, id)
			return
		}
		respond.Data(w, http.StatusOK, c)
	}
}

func CreateCourse(svc *coursesvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := actor(w, r)
		if !ok {
			return
		}
		bootcampID := chi.URLParam(r, "id")
		var req coursesvc.CreateRequest
		if err := decode(r, &req); err != nil {
			respond.Error(w, r, err, bootcampID)
			return
		}
		c, err := svc.Create(r.Context(), u, bootcampID, req)
		if err != nil {
			respond.Error(w, r, err, bootcampID)
			return
		}
		respond.Data(w, http.StatusCreated, c)
	}
}

func UpdateCourse(svc *coursesvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := actor(w, r)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")
		var req coursesvc.UpdateRequest
		if err := decode(r, &req); err != nil {
			respond.Error(w, r, err, id)
			return
		}
		c, err := svc.Update(r.Context(), u, id, req)
		if err != nil {
			respond.Error(w, r, err, id)
			return
		}
		respond.Data(w, http.StatusOK, c)
	}
}

func DeleteCourse(svc *coursesvc.Service) http.HandlerFunc {
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
