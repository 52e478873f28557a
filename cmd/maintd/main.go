package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	stdsync "sync"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"condo-maintain-backend/config"
	"condo-maintain-backend/internal/ai"
	"condo-maintain-backend/internal/api"
	"condo-maintain-backend/internal/connectivity"
	"condo-maintain-backend/internal/db"
	"condo-maintain-backend/internal/maintenance"
	"condo-maintain-backend/internal/notification"
	"condo-maintain-backend/internal/remote"
	"condo-maintain-backend/internal/report"
	"condo-maintain-backend/internal/store"
	"condo-maintain-backend/internal/sync"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "condo-maintain ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	// Initialize the local database. This is the only store the API
	// writes to; the application must come up even with no network.
	localDB, err := db.InitLocal(&cfg.LocalDB)
	if err != nil {
		logger.Fatalf("failed to initialize local database: %v", err)
	}
	appStore := store.NewGormStore(localDB)
	logger.Println("local store initialized")

	// The remote store opens lazily; reachability is probed by the
	// connectivity monitor, not assumed at startup.
	remoteStore, err := remote.Open(&cfg.RemoteDB)
	if err != nil {
		logger.Fatalf("failed to configure remote store: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monitor := connectivity.NewMonitor(remoteStore, cfg.Sync.ProbeInterval)
	engine := sync.NewEngine(appStore, remoteStore, monitor)

	// Web push is optional; without VAPID keys anomaly alerts are
	// simply not delivered.
	var webpushOptions *webpush.Options
	var alerts maintenance.AlertDispatcher
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, localDB, webpushOptions)
		workerPool.Start(ctx)
		alerts = workerPool
		logger.Println("anomaly alert worker pool started")
	} else {
		logger.Println("VAPID keys not configured; anomaly push alerts are disabled")
	}

	maintSvc := maintenance.NewService(appStore, alerts)
	aiClient := ai.NewClient(&cfg.AI)
	reports := report.NewBuilder(appStore, aiClient)

	// On every transition to online: make sure the remote schema
	// exists, then run a reconciliation pass. The initial probe fires
	// this too when the app starts with connectivity.
	var migrateOnce stdsync.Once
	monitor.Subscribe(func(online bool) {
		if !online {
			return
		}
		go func() {
			if migrator, ok := remoteStore.(remote.Migrator); ok {
				migrateOnce.Do(func() {
					if err := migrator.EnsureMigrated(ctx); err != nil {
						logger.Printf("Warning: remote migration failed: %v", err)
					}
				})
			}
			engine.Run(ctx)
		}()
	})
	go monitor.Run(ctx)

	// Initialize router
	handler := api.NewHandler(appStore, engine, monitor, maintSvc, reports, aiClient, webpushOptions)
	router := api.NewRouter(handler, &cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
