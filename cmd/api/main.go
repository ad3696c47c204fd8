package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"marketplace-api/internal/audit"
	"marketplace-api/internal/cache"
	"marketplace-api/internal/config"
	"marketplace-api/internal/handler"
	"marketplace-api/internal/repository"
	"marketplace-api/internal/router"
	"marketplace-api/internal/service"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Marketplace API...")

	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		log.Fatalf("Failed to create data dir: %v", err)
	}
	if err := os.MkdirAll(cfg.Storage.LogsDir, 0o755); err != nil {
		log.Fatalf("Failed to create logs dir: %v", err)
	}

	store := repository.NewStore(cfg.Storage.DataDir)

	// Optional SQLite audit archive
	var archive repository.AuditArchive
	if cfg.AuditDB.Path != "" {
		sqliteArchive, err := repository.NewSQLiteAuditArchive(cfg.AuditDB.Path)
		if err != nil {
			log.Printf("Warning: audit archive initialization failed: %v", err)
		} else {
			defer sqliteArchive.Close()
			archive = sqliteArchive
		}
	}

	// Escalation notifier, only when the sink is fully configured
	var notifier *audit.Notifier
	if cfg.ServiceNow.Configured() {
		notifier = audit.NewNotifier(audit.NotifierConfig{
			URL:             cfg.ServiceNow.TableURL(),
			User:            cfg.ServiceNow.User,
			Pass:            cfg.ServiceNow.Pass,
			Retries:         cfg.ServiceNow.Retries,
			Backoff:         cfg.ServiceNow.Backoff,
			Timeout:         cfg.ServiceNow.Timeout,
			ActivityLogPath: filepath.Join(cfg.Storage.LogsDir, "activity.log"),
		})
		notifier.Start()
		log.Printf("Escalation notifier initialized (table: %s)", cfg.ServiceNow.Table)
	} else {
		log.Println("Escalation sink not configured, failures stay local")
	}

	auditLogger := audit.NewLogger(cfg.Storage.LogsDir, notifier, archive)

	// Lookup cache: Redis when configured, in-process memory otherwise
	var lookupCache cache.Cache
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(cache.RedisCacheConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Printf("Warning: Redis connection failed, falling back to memory cache: %v", err)
		} else {
			lookupCache = redisCache
		}
	}
	if lookupCache == nil {
		lookupCache = cache.NewMemoryCache()
	}
	defer lookupCache.Close()

	var lookupClient *http.Client
	if cfg.Lookup.Enabled {
		lookupClient = &http.Client{Timeout: cfg.Lookup.Timeout}
	}

	// Services
	userService := service.NewUserService(store, auditLogger)
	itemService := service.NewItemService(store, auditLogger)
	purchaseService := service.NewPurchaseService(store, auditLogger)
	activityService := service.NewActivityService(store, auditLogger)
	adminService := service.NewAdminService(store, auditLogger)
	pincodeService := service.NewPincodeService(lookupClient, lookupCache, cfg.Cache.TTL, cfg.Lookup.BaseURL, auditLogger)

	// Router
	r := router.New(router.Config{
		StatusHandler:   handler.NewStatusHandler(cfg.App.Name, cfg.App.Version),
		UserHandler:     handler.NewUserHandler(userService, activityService),
		ItemHandler:     handler.NewItemHandler(itemService),
		PurchaseHandler: handler.NewPurchaseHandler(purchaseService),
		PincodeHandler:  handler.NewPincodeHandler(pincodeService),
		AdminHandler:    handler.NewAdminHandler(adminService, archive),
		AuditLogger:     auditLogger,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	// Drain pending escalations after the server stops accepting requests.
	if notifier != nil {
		log.Println("Draining escalation queue...")
		notifier.Stop()
	}

	log.Println("Server stopped")
}
