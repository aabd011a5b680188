package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campuspool/campuspool/internal/cache"
	"github.com/campuspool/campuspool/internal/config"
	"github.com/campuspool/campuspool/internal/database"
	"github.com/campuspool/campuspool/internal/handler"
	"github.com/campuspool/campuspool/internal/middleware"
	"github.com/campuspool/campuspool/internal/repository"
	"github.com/campuspool/campuspool/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize New Relic (optional)
	var nrApp *newrelic.Application
	if cfg.NewRelicEnabled && cfg.NewRelicLicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelicAppName),
			newrelic.ConfigLicense(cfg.NewRelicLicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
			newrelic.ConfigInfoLogger(os.Stdout),
		)
		if err != nil {
			log.Printf("Warning: Failed to initialize New Relic: %v", err)
		} else {
			log.Println("New Relic initialized successfully")
			if err := nrApp.WaitForConnection(10 * time.Second); err != nil {
				log.Printf("Warning: New Relic connection timeout: %v", err)
			}
		}
	}

	// Initialize PostgreSQL
	db, err := database.NewPostgres(
		cfg.DatabaseURL,
		cfg.DBMaxConnections,
		cfg.DBMaxIdleConnections,
	)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis
	redis, err := database.NewRedis(cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()
	log.Println("Connected to Redis")

	// Initialize cache
	statsCache := cache.NewStatsCache(redis.Client)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	rideRepo := repository.NewRideRepository(db.DB)
	requestRepo := repository.NewRideRequestRepository(db.DB)
	sosRepo := repository.NewSosRepository(db.DB)
	chatRepo := repository.NewChatRepository(db.DB)
	statsRepo := repository.NewStatsRepository(db.DB)

	// Initialize services
	authService := service.NewAuthService(userRepo, service.AuthConfig{
		JWTSecret:       cfg.JWTSecret,
		TokenTTLMinutes: cfg.TokenTTLMinutes,
		CampusDomain:    cfg.CampusDomain,
		AdminEmail:      cfg.AdminEmail,
		AdminPassword:   cfg.AdminPassword,
	})
	rideService := service.NewRideService(rideRepo, requestRepo, userRepo)
	requestService := service.NewRequestService(requestRepo, rideRepo, userRepo)
	sosService := service.NewSosService(sosRepo, requestRepo, rideRepo)
	chatService := service.NewChatService(chatRepo, requestRepo, rideRepo)
	statsService := service.NewStatsService(statsRepo, statsCache)

	// Seed the admin account
	if err := authService.EnsureAdmin(context.Background()); err != nil {
		log.Printf("Warning: failed to ensure admin user: %v", err)
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	rideHandler := handler.NewRideHandler(rideService)
	requestHandler := handler.NewRequestHandler(requestService)
	sosHandler := handler.NewSosHandler(sosService)
	chatHandler := handler.NewChatHandler(chatService)
	adminHandler := handler.NewAdminHandler(authService, rideService, sosService, statsService)

	authMw := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// New Relic middleware
	if nrApp != nil {
		r.Use(middleware.NewRelicMiddleware(nrApp))
	}

	// Rate limiter
	rateLimiter := middleware.NewRateLimiter(redis.Client, cfg.RateLimitPerMinute, time.Minute)
	r.Use(rateLimiter.Handler)

	// Idempotency middleware
	idempotencyMw := middleware.NewIdempotencyMiddleware(redis.Client)
	r.Use(idempotencyMw.Handler)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := db.Health(ctx); err != nil {
			http.Error(w, "database unhealthy", http.StatusServiceUnavailable)
			return
		}
		if err := redis.Health(ctx); err != nil {
			http.Error(w, "redis unhealthy", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","services":{"database":"up","redis":"up"}}`))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		authHandler.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(authMw.Handler)
			authHandler.RegisterRoutes(r)
			rideHandler.RegisterRoutes(r)
			requestHandler.RegisterRoutes(r)
			sosHandler.RegisterRoutes(r)
			chatHandler.RegisterRoutes(r)
			adminHandler.RegisterRoutes(r)
		})
	})

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	log.Println("API endpoints:")
	log.Println("  POST /api/auth/signup                - Sign up with a campus email")
	log.Println("  POST /api/auth/login                 - Log in")
	log.Println("  POST /api/rides                      - Post a ride (driver)")
	log.Println("  GET  /api/rides                      - Browse open rides")
	log.Println("  POST /api/ride-requests              - Request a seat (rider)")
	log.Println("  PUT  /api/ride-requests/{id}         - Accept or reject (driver)")
	log.Println("  POST /api/ride-requests/{id}/start   - Start ride with PIN (driver)")
	log.Println("  POST /api/ride-requests/{id}/reached-safely - Confirm arrival (rider)")
	log.Println("  POST /api/sos                        - Raise an SOS")
	log.Println("  GET  /api/chat/{requestId}/messages  - Trip chat")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server stopped gracefully")
}
