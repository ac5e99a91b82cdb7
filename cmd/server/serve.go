package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnshRaj112/bookswap-backend/internal/config"
	"github.com/AnshRaj112/bookswap-backend/internal/database"
	"github.com/AnshRaj112/bookswap-backend/internal/handlers"
	"github.com/AnshRaj112/bookswap-backend/internal/middleware"
	"github.com/AnshRaj112/bookswap-backend/internal/routes"
	"github.com/AnshRaj112/bookswap-backend/internal/services"
	"github.com/AnshRaj112/bookswap-backend/internal/storage"
	"github.com/AnshRaj112/bookswap-backend/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	// Redis is optional; without it only the in-process limiters apply.
	var limiter *middleware.RateLimiter
	if cfg.RedisURI != "" {
		if err := database.ConnectRedis(cfg.RedisURI); err != nil {
			logger.Warn("redis unavailable, redis rate limiting disabled", "error", err)
		} else {
			defer database.DisconnectRedis()
			limiter = middleware.NewRateLimiter(database.RedisClient)
		}
	}

	images, err := storage.New(ctx, cfg)
	if err != nil {
		logger.Warn("image storage unavailable, uploads disabled", "driver", cfg.ImageDriver, "error", err)
		images = nil
	} else {
		logger.Info("image storage ready", "driver", images.Driver())
	}

	tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if !tokens.Enabled() && cfg.AuthMode == config.AuthModeToken {
		logger.Error("AUTH_MODE=token requires JWT_SECRET; every mutation will be rejected")
	}

	h := &handlers.Handler{
		Auth:   services.NewAuthService(st.users, tokens),
		Books:  services.NewBookService(st.books, st.users, images, services.NewEnricher(st.users, cfg.EnrichConcurrency)),
		Users:  services.NewUserService(st.users),
		Images: images,
	}
	router := routes.NewRouter(h, routes.Options{Config: cfg, Tokens: tokens, RateLimiter: limiter})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("bookswap backend listening", "port", cfg.Port, "env", cfg.Environment, "store", cfg.StoreDriver, "auth_mode", cfg.AuthMode)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
