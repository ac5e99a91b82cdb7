package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/bookswap-backend/internal/models"
)

func TestMemoryUserStore(t *testing.T) {
	testUserStore(t, NewMemoryUserStore())
}

func TestMemoryBookStore(t *testing.T) {
	testBookStore(t, NewMemoryBookStore(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
}

func TestMemoryUserStore_Remove(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUserStore()

	u := &models.User{Name: "Gone", Email: "gone@example.com", PasswordHash: "h", Mobile: "1", Role: models.RoleOwner}
	require.NoError(t, users.Create(ctx, u))

	users.Remove(u.ID)

	_, err := users.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// the email is free again
	again := &models.User{Name: "Back", Email: "gone@example.com", PasswordHash: "h", Mobile: "1", Role: models.RoleOwner}
	assert.NoError(t, users.Create(ctx, again))
}

func TestMemoryBookStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	books := NewMemoryBookStore()

	b := &models.Book{Title: "Dune", Author: "Herbert", Location: "Pune", OwnerID: "o1", Status: models.StatusAvailable}
	require.NoError(t, books.Create(ctx, b))

	got, err := books.FindByID(ctx, b.ID)
	require.NoError(t, err)
	got.Title = "mutated"

	again, err := books.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", again.Title)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.co", NormalizeEmail("  A@B.Co "))
}
