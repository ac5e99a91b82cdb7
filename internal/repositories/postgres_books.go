package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/bookswap-backend/internal/metrics"
	"github.com/AnshRaj112/bookswap-backend/internal/models"
)

type PostgresBookStore struct {
	db *sql.DB
}

func NewPostgresBookStore(db *sql.DB) *PostgresBookStore {
	return &PostgresBookStore{db: db}
}

const bookColumns = `id, title, author, genre, location, owner_id, status, image, created_at`

func scanBook(row rowScanner) (*models.Book, error) {
	var (
		b       models.Book
		id, own uuid.UUID
		status  string
	)
	if err := row.Scan(&id, &b.Title, &b.Author, &b.Genre, &b.Location, &own, &status, &b.Image, &b.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	b.ID = id.String()
	b.OwnerID = own.String()
	b.Status = models.BookStatus(status)
	return &b, nil
}

func (s *PostgresBookStore) Create(ctx context.Context, b *models.Book) error {
	owner, err := uuid.Parse(b.OwnerID)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer metrics.ObserveStore(booksCollection, "insert", time.Now())

	id := uuid.New()
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO books (id, title, author, genre, location, owner_id, status, image, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, id, b.Title, b.Author, b.Genre, b.Location, owner, string(b.Status), b.Image, now)
	if err != nil {
		return err
	}
	b.ID = id.String()
	b.CreatedAt = now
	return nil
}

func (s *PostgresBookStore) List(ctx context.Context) ([]models.Book, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer metrics.ObserveStore(booksCollection, "find", time.Now())

	rows, err := s.db.QueryContext(ctx, `SELECT `+bookColumns+` FROM books ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []models.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

func (s *PostgresBookStore) FindByID(ctx context.Context, id string) (*models.Book, error) {
	bid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer metrics.ObserveStore(booksCollection, "find_one", time.Now())

	return scanBook(s.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, bid))
}

func (s *PostgresBookStore) Update(ctx context.Context, id string, f models.BookFields) (*models.Book, error) {
	bid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer metrics.ObserveStore(booksCollection, "update", time.Now())

	return scanBook(s.db.QueryRowContext(ctx, `
		UPDATE books SET title = $2, author = $3, genre = $4, location = $5, image = $6
		WHERE id = $1
		RETURNING `+bookColumns, bid, f.Title, f.Author, f.Genre, f.Location, f.Image))
}

func (s *PostgresBookStore) SetStatus(ctx context.Context, id string, status models.BookStatus) (*models.Book, error) {
	bid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer metrics.ObserveStore(booksCollection, "set_status", time.Now())

	return scanBook(s.db.QueryRowContext(ctx, `
		UPDATE books SET status = $2 WHERE id = $1
		RETURNING `+bookColumns, bid, string(status)))
}

func (s *PostgresBookStore) DeleteOwned(ctx context.Context, id, ownerID string) error {
	bid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer metrics.ObserveStore(booksCollection, "delete", time.Now())

	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1 AND owner_id = $2`, bid, owner)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
