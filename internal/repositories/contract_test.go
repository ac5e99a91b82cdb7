package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/bookswap-backend/internal/models"
)

// testUserStore exercises the UserStore contract. Every driver runs it.
func testUserStore(t *testing.T, users UserStore) {
	ctx := context.Background()

	alice := &models.User{Name: "Alice", Email: " Alice@Example.com ", PasswordHash: "h", Mobile: "111", Role: models.RoleOwner}
	require.NoError(t, users.Create(ctx, alice))
	require.NotEmpty(t, alice.ID)
	assert.Equal(t, "alice@example.com", alice.Email)
	assert.False(t, alice.CreatedAt.IsZero())

	t.Run("duplicate email", func(t *testing.T) {
		dup := &models.User{Name: "Mallory", Email: "ALICE@example.com", PasswordHash: "x", Mobile: "0", Role: models.RoleSeeker}
		assert.ErrorIs(t, users.Create(ctx, dup), ErrDuplicateEmail)

		got, err := users.FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.Name)
	})

	t.Run("find", func(t *testing.T) {
		got, err := users.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "h", got.PasswordHash)
		assert.Equal(t, models.RoleOwner, got.Role)

		_, err = users.FindByID(ctx, "not-an-id")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = users.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("find many", func(t *testing.T) {
		bob := &models.User{Name: "Bob", Email: "bob@example.com", PasswordHash: "h", Mobile: "222", Role: models.RoleSeeker}
		require.NoError(t, users.Create(ctx, bob))

		found, err := users.FindByIDs(ctx, []string{alice.ID, bob.ID, "garbage"})
		require.NoError(t, err)
		assert.Len(t, found, 2)
		assert.Equal(t, "Bob", found[bob.ID].Name)

		empty, err := users.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("update", func(t *testing.T) {
		got, err := users.Update(ctx, alice.ID, models.UserUpdate{Mobile: "999"})
		require.NoError(t, err)
		assert.Equal(t, "999", got.Mobile)
		assert.Equal(t, "Alice", got.Name)

		_, err = users.Update(ctx, alice.ID, models.UserUpdate{Email: "bob@example.com"})
		assert.ErrorIs(t, err, ErrDuplicateEmail)

		got, err = users.Update(ctx, alice.ID, models.UserUpdate{Email: "Alice2@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "alice2@example.com", got.Email)

		byEmail, err := users.FindByEmail(ctx, "alice2@example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, byEmail.ID)

		_, err = users.Update(ctx, "missing", models.UserUpdate{Name: "x"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

// testBookStore exercises the BookStore contract. ownerID and otherID must be
// valid identifiers for the driver.
func testBookStore(t *testing.T, books BookStore, ownerID, otherID string) {
	ctx := context.Background()

	first := &models.Book{Title: "Dune", Author: "Herbert", Location: "Pune", OwnerID: ownerID, Status: models.StatusAvailable}
	second := &models.Book{Title: "Emma", Author: "Austen", Genre: "Classic", Location: "Delhi", OwnerID: ownerID, Status: models.StatusAvailable}
	require.NoError(t, books.Create(ctx, first))
	require.NoError(t, books.Create(ctx, second))
	require.NotEmpty(t, first.ID)

	t.Run("list keeps insertion order", func(t *testing.T) {
		all, err := books.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, first.ID, all[0].ID)
		assert.Equal(t, second.ID, all[1].ID)
		assert.Equal(t, ownerID, all[0].OwnerID)
	})

	t.Run("update replaces fields only", func(t *testing.T) {
		got, err := books.Update(ctx, second.ID, models.BookFields{Title: "Persuasion", Author: "Austen", Location: "Goa"})
		require.NoError(t, err)
		assert.Equal(t, "Persuasion", got.Title)
		assert.Empty(t, got.Genre)
		assert.Equal(t, ownerID, got.OwnerID)
		assert.Equal(t, models.StatusAvailable, got.Status)

		_, err = books.Update(ctx, "nope", models.BookFields{Title: "x"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("set status", func(t *testing.T) {
		got, err := books.SetStatus(ctx, first.ID, models.StatusUnavailable)
		require.NoError(t, err)
		assert.Equal(t, models.StatusUnavailable, got.Status)

		reread, err := books.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusUnavailable, reread.Status)
		assert.Equal(t, "Dune", reread.Title)
	})

	t.Run("delete requires owner", func(t *testing.T) {
		assert.ErrorIs(t, books.DeleteOwned(ctx, first.ID, otherID), ErrNotFound)
		_, err := books.FindByID(ctx, first.ID)
		require.NoError(t, err)

		require.NoError(t, books.DeleteOwned(ctx, first.ID, ownerID))
		_, err = books.FindByID(ctx, first.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		assert.ErrorIs(t, books.DeleteOwned(ctx, first.ID, ownerID), ErrNotFound)
	})
}
