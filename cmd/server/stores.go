package main

import (
	"context"
	"fmt"
	"net/url"

	"github.com/AnshRaj112/bookswap-backend/internal/config"
	"github.com/AnshRaj112/bookswap-backend/internal/database"
	"github.com/AnshRaj112/bookswap-backend/internal/repositories"
	"github.com/AnshRaj112/bookswap-backend/pkg/logger"
)

type stores struct {
	users repositories.UserStore
	books repositories.BookStore
	close func()
}

// openStores connects the driver named by STORE_DRIVER and makes sure its
// schema or indexes exist.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.StoreDriver {
	case "mongo", "mongodb":
		logger.Info("using mongodb store", "uri", maskURI(cfg.MongoURI))
		if err := database.Connect(cfg.MongoURI); err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		if err := repositories.EnsureMongoIndexes(ctx, database.DB); err != nil {
			database.Disconnect()
			return nil, fmt.Errorf("ensure mongodb indexes: %w", err)
		}
		return &stores{
			users: repositories.NewMongoUserStore(database.DB),
			books: repositories.NewMongoBookStore(database.DB),
			close: func() { database.Disconnect() },
		}, nil

	case "postgres", "postgresql":
		logger.Info("using postgres store", "uri", maskURI(cfg.PostgresURI))
		if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &stores{
			users: repositories.NewPostgresUserStore(database.PostgresDB),
			books: repositories.NewPostgresBookStore(database.PostgresDB),
			close: func() { database.DisconnectPostgres() },
		}, nil

	case "memory":
		logger.Warn("using in-memory store; data is lost on restart")
		return &stores{
			users: repositories.NewMemoryUserStore(),
			books: repositories.NewMemoryBookStore(),
			close: func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}

// maskURI hides the password in a connection string for logging.
func maskURI(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, has := u.User.Password(); has {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
