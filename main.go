package main

import (
	"log"
	"net/http"

	"drillpay/config"
	"drillpay/database"
	"drillpay/handlers"
	"drillpay/middleware"
	"drillpay/store"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	auth := middleware.NewAuthenticator(cfg.JWTSecret, cfg.JWTExpiration, db)
	st := store.New(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, auth)
	logHandler := handlers.NewLogHandler(st)
	bundleHandler := handlers.NewBundleHandler(st)

	// Setup router
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)

	// Public routes
	router.Post("/api/register", authHandler.Register)
	router.Post("/api/login", authHandler.Login)

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Get("/api/me", authHandler.Me)
		r.Post("/api/logout", authHandler.Logout)
		r.Post("/api/change-password", authHandler.ChangePassword)

		// Log entries
		r.Get("/api/logs", logHandler.List)
		r.Post("/api/logs", logHandler.Create)
		r.Put("/api/logs/{id}", logHandler.Update)
		r.Delete("/api/logs/{id}", logHandler.Delete)
		r.Get("/api/logs/export.csv", logHandler.ExportCSV)

		// Bundles
		r.Get("/api/balance", bundleHandler.Balance)
		r.Get("/api/summary", bundleHandler.Summary)
		r.Get("/api/bundles", bundleHandler.List)
		r.Post("/api/bundles", bundleHandler.Submit)
		r.Get("/api/bundles/{id}", bundleHandler.Get)
		r.Patch("/api/bundles/{id}/status", bundleHandler.SetStatus)
		r.Delete("/api/bundles/{id}", bundleHandler.Delete)
	})

	log.Printf("Server starting on port %s", cfg.ServerPort)
	log.Fatal(http.ListenAndServe(":"+cfg.ServerPort, router))
}
