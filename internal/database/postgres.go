package database

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"github.com/AnshRaj112/bookswap-backend/pkg/logger"
)

var PostgresDB *sql.DB

// ConnectPostgres opens the pool and makes sure the schema exists.
func ConnectPostgres(postgresURI string) error {
	var err error

	PostgresDB, err = sql.Open("postgres", postgresURI)
	if err != nil {
		return err
	}

	PostgresDB.SetMaxOpenConns(25)
	PostgresDB.SetMaxIdleConns(5)
	PostgresDB.SetConnMaxLifetime(5 * time.Minute)

	if err = PostgresDB.Ping(); err != nil {
		return err
	}

	logger.Info("connected to postgres")

	return InitPostgresTables(PostgresDB)
}

// InitPostgresTables creates the users and books tables if they don't exist.
func InitPostgresTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL DEFAULT '',
			email VARCHAR(255) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL,
			mobile VARCHAR(50) NOT NULL DEFAULT '',
			role VARCHAR(20) NOT NULL DEFAULT 'seeker',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// No foreign key on owner_id; books may reference removed owners.
		`CREATE TABLE IF NOT EXISTS books (
			id UUID PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			author VARCHAR(255) NOT NULL,
			genre VARCHAR(255) NOT NULL DEFAULT '',
			location VARCHAR(255) NOT NULL DEFAULT '',
			owner_id UUID NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'available',
			image TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_books_owner_id ON books(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_books_created_at ON books(created_at)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	logger.Info("postgres tables initialized")
	return nil
}

func DisconnectPostgres() error {
	if PostgresDB != nil {
		return PostgresDB.Close()
	}
	return nil
}
