package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/sessions"

	"qbank/api"
	"qbank/app"
	"qbank/config"
	"qbank/moderation"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	cfg := config.Load()

	a := app.New(context.Background(), cfg)
	defer a.Close()

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode

	poller := moderation.NewPoller(a.Stats, cfg.APITimeout)
	if err := poller.Start(moderation.EverySchedule(config.StatsPollInterval)); err != nil {
		log.Fatalf("❌ %v", err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.NewRouter(a, store),
	}

	log.Printf("Starting dashboard on %s", srv.Addr)
	log.Println("Endpoints available:")
	log.Println("  GET  /")
	log.Println("  GET  /buckets/:status")
	log.Println("  POST /buckets/:status/action")
	log.Println("  GET  /buckets/:status/export")
	log.Println("  GET  /questions/:id/report")
	log.Println("  POST /questions/:id/link")
	log.Println("  POST /questions/:id/delete")
	log.Println("  GET  /generate")
	log.Println("  POST /generate")
	log.Println("  GET  /api/health")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	poller.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
