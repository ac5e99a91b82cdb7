package services

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/bookswap-backend/internal/models"
	"github.com/AnshRaj112/bookswap-backend/internal/repositories"
	"github.com/AnshRaj112/bookswap-backend/internal/storage"
)

type fixture struct {
	users  *repositories.MemoryUserStore
	books  *repositories.MemoryBookStore
	tokens *TokenIssuer
	auth   *AuthService
	book   *BookService
	user   *UserService
	// uploads is the local image directory behind book
	uploads string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:   repositories.NewMemoryUserStore(),
		books:   repositories.NewMemoryBookStore(),
		tokens:  NewTokenIssuer("test-secret", 0),
		uploads: t.TempDir(),
	}
	f.auth = NewAuthService(f.users, f.tokens)
	f.book = NewBookService(f.books, f.users, storage.NewLocal(f.uploads), NewEnricher(f.users, 4))
	f.user = NewUserService(f.users)
	return f
}

func (f *fixture) register(t *testing.T, name, email string, role models.Role) models.AuthUser {
	t.Helper()
	res, err := f.auth.Register(context.Background(), RegisterInput{
		Name: name, Email: email, Password: "pw-" + name, Mobile: "555-" + name, Role: string(role),
	})
	require.NoError(t, err)
	return res.User
}

func (f *fixture) createBook(t *testing.T, ownerID, title string) *models.Book {
	t.Helper()
	b, err := f.book.Create(context.Background(), CreateBookInput{
		Title: title, Author: "Someone", Location: "Pune", OwnerID: ownerID,
	}, Requester{})
	require.NoError(t, err)
	return b
}

func (f *fixture) uploadedFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.uploads)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
