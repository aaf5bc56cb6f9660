package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devcamper/internal/auth"
	"devcamper/internal/config"
	"devcamper/internal/geocode"
	httpx "devcamper/internal/http"
	"devcamper/internal/http/handlers"
	middlewarex "devcamper/internal/http/middleware"
	"devcamper/internal/metrics"
	"devcamper/internal/ratelimit"
	"devcamper/internal/reconcile"
	"devcamper/internal/services/account"
	"devcamper/internal/services/bootcamp"
	"devcamper/internal/services/course"
	"devcamper/internal/services/review"
	"devcamper/internal/services/users"
	"devcamper/internal/store/postgres"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	config.SetupLogger(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init DB
	if cfg.DB.Migrate {
		if err := postgres.Migrate(cfg.DB.DSN); err != nil {
			log.Fatal().Err(err).Msg("db migrate fail")
		}
	}
	pool := postgres.MustOpen(ctx, cfg.DB.DSN, cfg.DB.MaxWait)
	defer pool.Close()
	repo := postgres.NewRepo(pool)

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.JWTExpire)
	if err != nil {
		log.Fatal().Err(err).Msg("token setup fail")
	}

	var geocoder geocode.Geocoder
	if cfg.Geocoder.APIKey != "" {
		geocoder = geocode.NewMapQuest(cfg.Geocoder.BaseURL, cfg.Geocoder.APIKey, 10*time.Second)
	} else {
		log.Warn().Msg("GEOCODER_API_KEY not set, using static geocoder")
		geocoder = &geocode.Static{Fallback: &geocode.Result{}}
	}

	var limiter middlewarex.Limiter
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis not reachable, rate limiter fails open")
		}
		limiter = ratelimit.New(rdb, cfg.RateLimitPerMin, time.Minute)
	}

	// RECONCILE_INTERVAL=0 turns the worker off
	if cfg.ReconcileInterval > 0 {
		go reconcile.NewWorker(repo.Bootcamps(), repo.UnitOfWork(), cfg.ReconcileInterval).Run(ctx)
	}

	r := httpx.NewRouter(httpx.RouterDependencies{
		BootcampService: bootcamp.NewService(repo.Bootcamps(), repo.Courses(), geocoder),
		CourseService:   course.NewService(repo.Courses(), repo.Bootcamps(), repo.UnitOfWork()),
		ReviewService:   review.NewService(repo.Reviews(), repo.Bootcamps(), repo.UnitOfWork()),
		UserService:     users.NewService(repo.Users()),
		AccountService:  account.NewService(repo.Users(), tokens),
		Tokens:          tokens,
		Users:           repo.Users(),
		Limiter:         limiter,
		Metrics:         metrics.New(),
		Cookie: handlers.CookieOptions{
			MaxAge: time.Duration(cfg.Auth.CookieExpireDays) * 24 * time.Hour,
			Secure: cfg.IsProduction(),
		},
		Ping: repo.Ping,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("env", cfg.App.Env).Msgf("DevCamper API listening on :%s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	log.Info().Msg("server stopped")
}
