package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/bookswap-backend/internal/models"
)

func TestUserService_Get(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "Olga", "olga@example.com", models.RoleOwner)

	got, err := f.user.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Olga", got.Name)
	assert.Equal(t, "555-Olga", got.Mobile)

	_, err = f.user.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "Olga", "olga@example.com", models.RoleOwner)
	f.register(t, "Mal", "mal@example.com", models.RoleSeeker)

	got, err := f.user.Update(ctx, u.ID, models.UserUpdate{Mobile: " 999 "})
	require.NoError(t, err)
	assert.Equal(t, "999", got.Mobile)
	assert.Equal(t, "Olga", got.Name)

	_, err = f.user.Update(ctx, u.ID, models.UserUpdate{Name: "  "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.user.Update(ctx, u.ID, models.UserUpdate{Email: "mal@example.com"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.user.Update(ctx, "missing", models.UserUpdate{Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)

	// login follows the new email
	_, err = f.user.Update(ctx, u.ID, models.UserUpdate{Email: "olga@new.example"})
	require.NoError(t, err)
	_, err = f.auth.Login(ctx, "olga@new.example", "pw-Olga")
	assert.NoError(t, err)
}
