package router

import (
	"marketplace-api/internal/audit"
	"marketplace-api/internal/handler"
	"marketplace-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	StatusHandler   *handler.StatusHandler
	UserHandler     *handler.UserHandler
	ItemHandler     *handler.ItemHandler
	PurchaseHandler *handler.PurchaseHandler
	PincodeHandler  *handler.PincodeHandler
	AdminHandler    *handler.AdminHandler

	AuditLogger *audit.Logger
}

// New creates and configures the HTTP router. The audit interceptor sits
// inside the global middleware stack, so every /api request is logged with
// its final status code.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	if cfg.AuditLogger != nil {
		r.Use(middleware.AuditRequests(cfg.AuditLogger))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.StatusHandler != nil {
		r.Get("/api/status", cfg.StatusHandler.Status)
	}

	if cfg.UserHandler != nil {
		r.Post("/api/signup", cfg.UserHandler.Signup)
		r.Post("/api/login", cfg.UserHandler.Login)
		r.Get("/api/me", cfg.UserHandler.Me)
		r.Get("/api/user/activity", cfg.UserHandler.Activity)
	}

	if cfg.ItemHandler != nil {
		r.Get("/api/items", cfg.ItemHandler.List)
		r.Post("/api/items", cfg.ItemHandler.Create)
	}

	if cfg.PurchaseHandler != nil {
		r.Post("/api/purchase", cfg.PurchaseHandler.Purchase)
		r.Get("/api/purchases", cfg.PurchaseHandler.List)
	}

	if cfg.PincodeHandler != nil {
		r.Get("/api/pincode/{pincode}", cfg.PincodeHandler.Lookup)
		r.Post("/api/log_pincode", cfg.PincodeHandler.LogPincode)
	}

	if cfg.AdminHandler != nil {
		r.Post("/api/reset", cfg.AdminHandler.Reset)
		r.Get("/api/admin/logs", cfg.AdminHandler.GetAuditLogs)
	}

	return r
}
