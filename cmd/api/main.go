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

	"sitescrape-go/pkg/api"
	"sitescrape-go/pkg/cli/logger"
	"sitescrape-go/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.Init(logger.Options{File: cfg.Log.File, Level: cfg.Log.Level}); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.CloseLog()

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.DevBackend.Host, cfg.DevBackend.Port),
		Handler:      api.NewHandler(cfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // scrapes can be slow
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("scrape backend starting on %s (plugins: %v)", srv.Addr, cfg.DevBackend.Plugins)
		logger.Log("scrape backend listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
