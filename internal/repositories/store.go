// Package repositories persists users and books. Each store has a MongoDB,
// a PostgreSQL and an in-memory implementation behind the same interface.
package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/AnshRaj112/bookswap-backend/internal/models"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// opTimeout bounds every single store round trip.
const opTimeout = 5 * time.Second

type UserStore interface {
	// Create assigns ID and CreatedAt on u and persists it.
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByIDs returns the users that exist among ids, keyed by ID. Unknown
	// or malformed ids are simply absent from the map.
	FindByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
}

type BookStore interface {
	// Create assigns ID and CreatedAt on b and persists it.
	Create(ctx context.Context, b *models.Book) error
	// List returns every book in storage order.
	List(ctx context.Context) ([]models.Book, error)
	FindByID(ctx context.Context, id string) (*models.Book, error)
	Update(ctx context.Context, id string, f models.BookFields) (*models.Book, error)
	SetStatus(ctx context.Context, id string, status models.BookStatus) (*models.Book, error)
	// DeleteOwned removes the book only if it exists and belongs to ownerID.
	DeleteOwned(ctx context.Context, id, ownerID string) error
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, opTimeout)
}
