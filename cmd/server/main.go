package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MeJR20270/project-book/internal/config"
	"github.com/MeJR20270/project-book/internal/handlers"
	"github.com/MeJR20270/project-book/internal/logging"
	"github.com/MeJR20270/project-book/internal/store"
	"github.com/MeJR20270/project-book/internal/uploads"
	"github.com/MeJR20270/project-book/web"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "optional YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("Server exited gracefully.")
}

func run(configPath string) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if _, err := logging.New(logging.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON}); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Init DB
	db, err := store.NewStore(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return err
	}

	// 3. Session Setup
	sessionStore, err := handlers.NewSessionStore(handlers.SessionOptions{
		Dir:    cfg.SessionDir,
		Key:    cfg.SessionKey,
		Secure: cfg.CookieSecure,
		Domain: cfg.CookieDomain,
	})
	if err != nil {
		return err
	}

	// 4. Init Templates
	templates := handlers.NewTemplateCache()
	if err := templates.Load(web.Templates, "templates"); err != nil {
		return err
	}

	// 5. Routes
	loginLimiter := handlers.NewRateLimiter(cfg.LoginWindow)
	defer loginLimiter.Stop()

	mux := handlers.NewRouter(&handlers.Deps{
		Store:        db,
		Templates:    templates,
		SessionStore: sessionStore,
	}, handlers.RouterOptions{
		Uploads:        uploads.NewSaver(afero.NewOsFs(), cfg.UploadDir, handlers.UploadsPrefix, cfg.ImageWidth),
		MaxUploadBytes: cfg.UploadMaxMB << 20,
		LoginLimiter:   loginLimiter,
	})

	// 6. Middleware Setup
	handler := handlers.Chain(mux, handlers.ChainOptions{
		CSRFKey:        cfg.CSRFKey,
		Secure:         cfg.CookieSecure,
		TrustedOrigins: []string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port},
		MaxBodyBytes:   cfg.UploadMaxMB << 20,
	})

	// 7. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, gCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		slog.Info("Server starting", "port", cfg.Port, "db", cfg.DBPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gCtx.Done()
		slog.Info("Shutting down server gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
