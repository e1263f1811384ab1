package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/careplane/hospital-records/internal/auth"
	"github.com/careplane/hospital-records/internal/config"
	"github.com/careplane/hospital-records/internal/database"
	"github.com/careplane/hospital-records/internal/handlers"
	"github.com/careplane/hospital-records/internal/middleware"
	"github.com/careplane/hospital-records/internal/repository"
	"github.com/careplane/hospital-records/internal/services"
	"github.com/careplane/hospital-records/internal/session"
	"github.com/careplane/hospital-records/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize logger
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting hospital records backend")

	// Connect to database
	dbConfig := database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		LogLevel: cfg.Database.LogLevel,
	}

	if err := database.Connect(dbConfig); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	// Initialize session store
	var sessions session.Store
	if cfg.Session.Backend == "redis" {
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		sessions, err = session.NewRedisStore(addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		log.Info().Msg("Redis session store initialized")
	} else {
		sessions = session.NewMemoryStore()
		log.Info().Msg("Memory session store initialized")
	}
	defer sessions.Close()

	// Discover the identity provider and build the auth client
	authClient, err := auth.NewClient(auth.Config{
		Domain:       cfg.Auth.Domain,
		ClientID:     cfg.Auth.ClientID,
		ClientSecret: cfg.Auth.ClientSecret,
		CallbackURL:  cfg.Auth.CallbackURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to discover identity provider")
	}
	log.Info().Str("domain", cfg.Auth.Domain).Msg("Identity provider discovered")

	// Initialize repositories
	departmentRepo := repository.NewDepartmentRepository()
	accountRepo := repository.NewAccountRepository()
	recordRepo := repository.NewRecordRepository()

	// Initialize services
	registry := services.NewRegistryService(departmentRepo, accountRepo, recordRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(sessions)
	departmentHandler := handlers.NewDepartmentHandler(registry)
	accountHandler := handlers.NewAccountHandler(registry)
	recordHandler := handlers.NewRecordHandler(registry)
	authHandler := handlers.NewAuthHandler(authClient, sessions, registry, cfg.Session.TTL)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Compress(5))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Auth gateway
	r.Get("/", authHandler.Index)
	r.Get("/callback", authHandler.Callback)
	r.Get("/login", authHandler.Login)
	r.Get("/logout/", authHandler.Logout)
	r.Post("/register", accountHandler.Register)

	// Departments
	r.Route("/departments", func(r chi.Router) {
		r.Get("/", departmentHandler.List)
		r.Post("/", departmentHandler.Create)
		r.Get("/{id}/", departmentHandler.Get)
		r.Put("/{id}/", departmentHandler.Replace)
		r.Delete("/{id}/", departmentHandler.Delete)
		r.Get("/{id}/doctors/", departmentHandler.ListDoctors)
		r.Get("/{id}/patients/", departmentHandler.ListPatients)
	})

	// Doctors
	r.Route("/doctors", func(r chi.Router) {
		r.Get("/", accountHandler.ListDoctors)
		r.Post("/", accountHandler.CreateDoctor)
		r.Get("/{id}/", accountHandler.Get)
		r.Put("/{id}/", accountHandler.Replace)
		r.Delete("/{id}/", accountHandler.Delete)
	})

	// Patients
	r.Route("/patients", func(r chi.Router) {
		r.Get("/", accountHandler.ListPatients)
		r.Post("/", accountHandler.CreatePatient)
		r.Get("/{id}/", accountHandler.Get)
		r.Put("/{id}/", accountHandler.Replace)
		r.Delete("/{id}/", accountHandler.Delete)
	})

	// Patient records
	r.Route("/patient_records", func(r chi.Router) {
		r.Get("/", recordHandler.List)
		r.Post("/", recordHandler.Create)
		r.Get("/{id}/", recordHandler.Get)
		r.Put("/{id}/", recordHandler.Replace)
		r.Delete("/{id}/", recordHandler.Delete)
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
