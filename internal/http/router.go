package httpx

import (
	"context"
	"net/http"
	"time"

	"devcamper/internal/domain/user"
	"devcamper/internal/http/handlers"
	middlewarex "devcamper/internal/http/middleware"
	"devcamper/internal/http/respond"
	"devcamper/internal/metrics"
	"devcamper/internal/services/account"
	"devcamper/internal/services/bootcamp"
	"devcamper/internal/services/course"
	"devcamper/internal/services/review"
	"devcamper/internal/services/users"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

// RouterDependencies holds all dependencies for the HTTP router
type RouterDependencies struct {
	BootcampService *bootcamp.Service
	CourseService   *course.Service
	ReviewService   *review.Service
	UserService     *users.Service
	AccountService  *account.Service

	Tokens  middlewarex.TokenVerifier
	Users   middlewarex.UserLoader
	Limiter middlewarex.Limiter // nil disables rate limiting
	Metrics *metrics.Metrics    // nil disables /metrics

	Cookie handlers.CookieOptions
	// Ping reports database health for /health.
	Ping func(ctx context.Context) error
}

// NewRouter builds the HTTP handler for the API.
func NewRouter(deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("req_id", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(chimw.Recoverer)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	// Health check (public)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if deps.Ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ping(ctx); err != nil {
				hlog.FromRequest(r).Error().Err(err).Msg("health check failed")
				respond.JSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable"})
				return
			}
		}
		respond.JSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	protect := middlewarex.Protect(deps.Tokens, deps.Users)
	authorize := middlewarex.Authorize

	r.Route("/api/v1", func(r chi.Router) {
		if deps.Limiter != nil {
			var onLimited func()
			if deps.Metrics != nil {
				onLimited = deps.Metrics.RateLimited
			}
			r.Use(middlewarex.RateLimit(deps.Limiter, onLimited))
		}

		r.Route("/bootcamps", func(r chi.Router) {
			r.Get("/", handlers.ListBootcamps(deps.BootcampService))
			r.With(protect, authorize(user.RolePublisher, user.RoleAdmin)).
				Post("/", handlers.CreateBootcamp(deps.BootcampService))
			r.Get("/radius/{zipcode}/{distance}", handlers.BootcampsInRadius(deps.BootcampService))

			// nested resources share the bootcamp's {id} segment
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", handlers.GetBootcamp(deps.BootcampService))
				r.With(protect, authorize(user.RolePublisher, user.RoleAdmin)).
					Put("/", handlers.UpdateBootcamp(deps.BootcampService))
				r.With(protect, authorize(user.RolePublisher, user.RoleAdmin)).
					Delete("/", handlers.DeleteBootcamp(deps.BootcampService))

				r.Get("/courses", handlers.ListBootcampCourses(deps.CourseService))
				r.With(protect, authorize(user.RolePublisher, user.RoleAdmin)).
					Post("/courses", handlers.CreateCourse(deps.CourseService))

				r.Get("/reviews", handlers.ListReviews(deps.ReviewService))
				r.With(protect, authorize(user.RoleUser, user.RoleAdmin)).
					Post("/reviews", handlers.CreateReview(deps.ReviewService))
			})
		})

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", handlers.ListCourses(deps.CourseService))
			r.Get("/{id}", handlers.GetCourse(deps.CourseService))
			r.With(protect, authorize(user.RolePublisher, user.RoleAdmin)).
				Put("/{id}", handlers.UpdateCourse(deps.CourseService))
			r.With(protect, authorize(user.RolePublisher, user.RoleAdmin)).
				Delete("/{id}", handlers.DeleteCourse(deps.CourseService))
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", handlers.ListReviews(deps.ReviewService))
			r.Get("/{id}", handlers.GetReview(deps.ReviewService))
			r.With(protect, authorize(user.RoleUser, user.RoleAdmin)).
				Put("/{id}", handlers.UpdateReview(deps.ReviewService))
			r.With(protect, authorize(user.RoleUser, user.RoleAdmin)).
				Delete("/{id}", handlers.DeleteReview(deps.ReviewService))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", handlers.Register(deps.AccountService, deps.Cookie))
			r.Post("/login", handlers.Login(deps.AccountService, deps.Cookie))
			r.Get("/logout", handlers.Logout())
			r.Group(func(r chi.Router) {
				r.Use(protect)
				r.Get("/me", handlers.Me(deps.AccountService))
				r.Put("/updatedetails", handlers.UpdateDetails(deps.AccountService))
				r.Put("/updatepassword", handlers.UpdatePassword(deps.AccountService, deps.Cookie))
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(protect, authorize(user.RoleAdmin))
			r.Get("/", handlers.ListUsers(deps.UserService))
			r.Post("/", handlers.CreateUser(deps.UserService))
			r.Get("/{id}", handlers.GetUser(deps.UserService))
			r.Put("/{id}", handlers.UpdateUser(deps.UserService))
			r.Delete("/{id}", handlers.DeleteUser(deps.UserService))
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Fail(w, http.StatusNotFound, "Route not found")
	})

	return r
}
