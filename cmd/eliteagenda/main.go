package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"eliteagenda/internal/assistant"
	"eliteagenda/internal/database"
	"eliteagenda/internal/logging"
	"eliteagenda/internal/push"
	"eliteagenda/internal/reminder"
	"eliteagenda/internal/server"
)

func main() {
	// .env is optional; real env vars win either way
	godotenv.Load()

	logger := logging.Setup(os.Getenv("ELITE_LOG_LEVEL"))

	port := envOr("ELITE_PORT", "8080")
	dbPath := envOr("ELITE_DB_PATH", "eliteagenda.db")

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("open database", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	loc := time.Local
	if tz := os.Getenv("ELITE_TZ"); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			logger.Error("load timezone", "tz", tz, "error", err)
			os.Exit(1)
		}
	}

	keywords := reminder.DefaultMedicineKeywords
	if kw := os.Getenv("ELITE_MEDICINE_KEYWORDS"); kw != "" {
		keywords = nil
		for _, k := range strings.Split(kw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keywords = append(keywords, k)
			}
		}
	}

	cfg := server.Config{
		Push: push.Config{
			VAPIDPublicKey:  os.Getenv("ELITE_VAPID_PUBLIC_KEY"),
			VAPIDPrivateKey: os.Getenv("ELITE_VAPID_PRIVATE_KEY"),
			Subscriber:      os.Getenv("ELITE_VAPID_SUBSCRIBER"),
		},
		Assistant: assistant.Config{
			APIKey: os.Getenv("ELITE_GEMINI_API_KEY"),
			Model:  os.Getenv("ELITE_GEMINI_MODEL"),
		},
		MedicineKeywords: keywords,
		Location:         loc,
		SecureCookies:    os.Getenv("ELITE_SECURE_COOKIES") == "true",
		StaticDir:        envOr("ELITE_STATIC_DIR", "web/static"),
	}

	if cfg.Push.VAPIDPublicKey == "" {
		logger.Info("VAPID keys not set, web push disabled")
	}
	if cfg.Assistant.APIKey == "" {
		logger.Info("Gemini API key not set, assistant disabled")
	}

	srv := server.New(db, cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv.Scheduler().Start(ctx)
	defer srv.Scheduler().Stop()

	// Periodic cleanup of expired sessions and stale rate-limit entries
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := srv.SessionStore().DeleteExpired(); err != nil {
					logger.Error("session cleanup", "error", err)
				} else if n > 0 {
					logger.Info("session cleanup", "deleted", n)
				}
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
