package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"inventora/webclient/internal/cache"
	"inventora/webclient/internal/config"
	"inventora/webclient/internal/export"
	"inventora/webclient/internal/gateway"
	"inventora/webclient/internal/httpapi"
	"inventora/webclient/internal/service"
	"inventora/webclient/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] WARN: .env not loaded: %v", err)
	}
	cfg := config.Load()
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	closers := make([]func() error, 0, 1)

	views := cache.ViewCache(cache.NoopViewCache{})
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisViewCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Printf("redis unavailable (%v), using noop view cache", err)
		} else {
			views = redisCache
			closers = append(closers, redisCache.Close)
			log.Println("view cache: redis")
		}
	} else {
		log.Println("view cache: noop")
	}

	mailer := export.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	if !mailer.Configured() {
		log.Println("mail: SMTP_HOST not set, report email disabled")
	}

	sessionTTL := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	sessions := session.NewManager(sessionTTL)
	apiTimeout := time.Duration(cfg.APITimeoutSeconds) * time.Second
	newGateway := func() (*gateway.Client, error) {
		return gateway.New(cfg.APIBaseURL, apiTimeout)
	}

	svc := service.New(sessions, views, mailer, newGateway, service.Options{
		ViewTTL:        time.Duration(cfg.ViewCacheTTLSeconds) * time.Second,
		ReportPageSize: cfg.ReportPageSize,
		ListPageSize:   cfg.ListPageSize,
	})
	auth := httpapi.NewAuthManager(cfg.AuthSecret, sessionTTL)
	api := httpapi.New(svc, auth, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Exports render the whole report before writing.
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweepSessions(sweepCtx, sessions, time.Duration(cfg.SessionSweepSeconds)*time.Second)

	go func() {
		log.Printf("inventora web client listening on %s (api %s)", cfg.Address(), cfg.APIBaseURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	stopSweep()

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close error: %v", err)
		}
	}

	log.Println("server stopped")
}

func sweepSessions(ctx context.Context, sessions *session.Manager, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions.Sweep()
		}
	}
}

func validateConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil {
		return fmt.Errorf("API_BASE_URL is invalid: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute http(s) URL, got %q", cfg.APIBaseURL)
	}
	if cfg.SMTPHost != "" && cfg.SMTPFrom == "" {
		return fmt.Errorf("SMTP_FROM must be set when SMTP_HOST is")
	}
	return nil
}
