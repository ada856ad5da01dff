package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/bookwell/bookwell-api/internal/config"
	"github.com/bookwell/bookwell-api/internal/domain/blockeddate"
	"github.com/bookwell/bookwell-api/internal/domain/booking"
	"github.com/bookwell/bookwell-api/internal/domain/notification"
	"github.com/bookwell/bookwell-api/internal/domain/resource"
	"github.com/bookwell/bookwell-api/internal/domain/schedule"
	"github.com/bookwell/bookwell-api/internal/middleware"
	"github.com/bookwell/bookwell-api/internal/pkg/database"
	"github.com/bookwell/bookwell-api/internal/pkg/jwt"
	"github.com/bookwell/bookwell-api/internal/pkg/logger"
	pkgresponse "github.com/bookwell/bookwell-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
	})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Bookwell API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	// Redis is optional: without it booking events stay instance-local.
	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret)

	// ---------- Repositories ----------
	resourceRepo := resource.NewRepository(db)
	blockedDateRepo := blockeddate.NewRepository(db)
	bookingRepo := booking.NewRepository(db)

	// ---------- WebSocket hub ----------
	hub := notification.NewHub(redis)
	go hub.Run()
	defer hub.Shutdown()

	// ---------- Services ----------
	resourceService := resource.NewService(resourceRepo)
	blockedDateRegistry := blockeddate.NewRegistry(blockedDateRepo)
	eventPublisher := notification.NewPublisher(redis, hub)
	bookingService := booking.NewService(bookingRepo, blockedDateRegistry, resourceRepo, eventPublisher)
	availability := schedule.NewAvailability(resourceRepo, blockedDateRegistry, bookingRepo)

	// ---------- Handlers ----------
	resourceHandler := resource.NewHandler(resourceService)
	blockedDateHandler := blockeddate.NewHandler(blockedDateRegistry)
	bookingHandler := booking.NewHandler(bookingService)
	scheduleHandler := schedule.NewHandler(availability)
	wsHandler := notification.NewHandler(hub, cfg.AllowedOrigins)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Completer job ----------
	if cfg.CompleterEnabled {
		completer := booking.NewCompleter(bookingService)
		scheduler := cron.New()
		if _, err := scheduler.AddFunc(cfg.CompleterSchedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := completer.Run(ctx); err != nil {
				log.Error().Err(err).Msg("Completer sweep failed")
			}
		}); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.CompleterSchedule).Msg("Invalid completer schedule")
		}
		scheduler.Start()
		defer scheduler.Stop()
		log.Info().Str("schedule", cfg.CompleterSchedule).Msg("Completer job scheduled")
	}

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(middleware.Timeout(cfg.DBTimeout + 5*time.Second))

	// WebSocket endpoint (browser clients pass the token as a query param)
	r.Get("/ws/bookings", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(wsHandler.WebSocket)).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/resources", resourceHandler.Routes(authMiddleware))

		r.Route("/resources/{id}", func(r chi.Router) {
			schedule.RegisterRoutes(r, scheduleHandler)
			r.Mount("/blocked-dates", blockedDateHandler.Routes(authMiddleware))
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware)
				r.Get("/bookings", bookingHandler.ListByResource)
				r.Get("/stats", bookingHandler.Stats)
			})
		})

		r.Mount("/bookings", bookingHandler.Routes(authMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
