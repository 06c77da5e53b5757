// Command userservice is the entry point of the user-account service. It
// initializes configuration, the database pool and migrations, the services
// and handlers, sets up the HTTP router and middleware, and runs the server
// with graceful shutdown.
//
// @title User Service API
// @version 1.0
// @description User-account microservice: registration, login, and self-service profile management.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/userservice-go/apperror"
	"github.com/user/userservice-go/auth"
	"github.com/user/userservice-go/config"
	"github.com/user/userservice-go/db"
	_ "github.com/user/userservice-go/docs" // Generated Swagger docs
	"github.com/user/userservice-go/store"
	"github.com/user/userservice-go/users"
)

const serviceName = "user-service"

func main() {
	// Load .env in development; production sets variables directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	accounts := store.NewPostgresStore(pool)

	// Manual dependency injection: services get their collaborators through
	// constructors.
	tokens := auth.NewTokenService(*cfg.Auth)
	authService := auth.NewService(accounts, tokens)
	authHandlers := auth.NewHandlers(authService)
	authMW := auth.NewMiddleware(tokens)

	userService := users.NewService(accounts)
	userHandlers := users.NewHandlers(userService)

	r := newRouter(cfg, accounts, authHandlers, authMW, userHandlers)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s (env=%s)", addr, cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for SIGINT/SIGTERM, then drain in-flight requests.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// newRouter assembles the chi router: global middleware, CORS, the Swagger
// UI, and all service routes.
func newRouter(cfg *config.AppConfig, accounts store.Store, authHandlers *auth.Handlers, authMW *auth.Middleware, userHandlers *users.Handlers) *chi.Mux {
	r := chi.NewRouter()

	// Chi requires all middleware to be registered before any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Get("/health", handleHealth())

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", authHandlers.HandleRegister())
		r.Post("/login", authHandlers.HandleLogin())

		r.Get("/", authMW.Authenticated(userHandlers.HandleListUsers()))
		r.Get("/me", authMW.Authenticated(userHandlers.HandleGetCurrentUser()))
		r.Get("/{id:[0-9]+}", authMW.Authenticated(userHandlers.HandleGetUser()))
		r.Put("/{id:[0-9]+}", authMW.Authenticated(userHandlers.HandleUpdateUser()))
		r.Delete("/{id:[0-9]+}", authMW.Authenticated(userHandlers.HandleDeactivateUser()))
	})

	// The bulk-delete cleanup path exists for test environments only. It is
	// not mounted in production at all, and the handler re-checks the
	// environment in case the router is ever built with a different config.
	if !cfg.IsProduction() {
		r.Delete("/api/test/cleanup", handleCleanup(cfg, accounts))
	}

	return r
}

// handleHealth reports service liveness.
func handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth.WriteJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": serviceName,
		})
	}
}

// handleCleanup deletes every account. Guarded twice: the route is only
// mounted outside production, and the handler refuses if the loaded
// configuration says production anyway.
func handleCleanup(cfg *config.AppConfig, accounts store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.IsProduction() {
			auth.WriteError(w, r, apperror.NewForbiddenError("not available in production", nil))
			return
		}
		if err := accounts.DeleteAll(r.Context()); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		log.Printf("test cleanup: all accounts deleted")
		auth.WriteJSON(w, http.StatusOK, map[string]string{"message": "Test data cleaned"})
	}
}
