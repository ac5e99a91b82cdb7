package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/bookswap-backend/internal/models"
	"github.com/AnshRaj112/bookswap-backend/internal/repositories"
	"github.com/AnshRaj112/bookswap-backend/internal/storage"
)

func TestCreateThenList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Olga", "olga@example.com", models.RoleOwner)

	created := f.createBook(t, owner.ID, "Dune")
	assert.Equal(t, models.StatusAvailable, created.Status)
	assert.Empty(t, created.Genre)
	assert.Empty(t, created.Image)

	list, err := f.book.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, models.StatusAvailable, list[0].Status)
	assert.Equal(t, "Olga", list[0].OwnerName)
	assert.Equal(t, "olga@example.com", list[0].OwnerEmail)
	assert.Equal(t, "555-Olga", list[0].OwnerMobile)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Olga", "olga@example.com", models.RoleOwner)

	cases := map[string]CreateBookInput{
		"no title":    {Author: "A", Location: "L", OwnerID: owner.ID},
		"no author":   {Title: "T", Location: "L", OwnerID: owner.ID},
		"no location": {Title: "T", Author: "A", OwnerID: owner.ID},
		"no owner":    {Title: "T", Author: "A", Location: "L"},
		"ghost owner": {Title: "T", Author: "A", Location: "L", OwnerID: "ffffffffffffffffffffffff"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.book.Create(ctx, in, Requester{})
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	all, err := f.books.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreate_WithImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Olga", "olga@example.com", models.RoleOwner)

	b, err := f.book.Create(ctx, CreateBookInput{
		Title: "Dune", Author: "Herbert", Location: "Pune", OwnerID: owner.ID,
		Image: &Upload{Filename: "cover.png", Body: strings.NewReader("png")},
	}, Requester{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(b.Image, storage.LocalPrefix))

	data, err := f.book.images.Get(ctx, b.Image)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}

func TestCreate_KeepsImageRef(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Olga", "olga@example.com", models.RoleOwner)

	b, err := f.book.Create(ctx, CreateBookInput{
		Title: "Dune", Author: "Herbert", Location: "Pune", OwnerID: owner.ID, ImageRef: " uploads/abc.png ",
	}, Requester{})
	require.NoError(t, err)
	assert.Equal(t, "uploads/abc.png", b.Image)

	// an uploaded file wins over the reference
	b, err = f.book.Create(ctx, CreateBookInput{
		Title: "Dune", Author: "Herbert", Location: "Pune", OwnerID: owner.ID, ImageRef: "uploads/abc.png",
		Image: &Upload{Filename: "cover.jpg", Body: strings.NewReader("jpg")},
	}, Requester{})
	require.NoError(t, err)
	assert.NotEqual(t, "uploads/abc.png", b.Image)
	assert.True(t, strings.HasPrefix(b.Image, storage.LocalPrefix))
}

func TestCreate_StoreFailureRemovesImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Olga", "olga@example.com", models.RoleOwner)
	svc := NewBookService(brokenBooks{f.books}, f.users, f.book.images, f.book.enricher)

	_, err := svc.Create(ctx, CreateBookInput{
		Title: "Dune", Author: "Herbert", Location: "Pune", OwnerID: owner.ID,
		Image: &Upload{Filename: "cover.png", Body: strings.NewReader("png")},
	}, Requester{})
	assert.ErrorIs(t, err, ErrStorage)
	assert.Empty(t, f.uploadedFiles(t))
}

func TestCreate_VerifiedRequester(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Olga", "olga@example.com", models.RoleOwner)
	other := f.register(t, "Mal", "mal@example.com", models.RoleOwner)

	b, err := f.book.Create(ctx, CreateBookInput{Title: "T", Author: "A", Location: "L"},
		Requester{UserID: owner.ID, Verified: true})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, b.OwnerID)

	_, err = f.book.Create(ctx, CreateBookInput{Title: "T", Author: "A", Location: "L", OwnerID: other.ID},
		Requester{UserID: owner.ID, Verified: true})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdate_ReplacesFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Olga", "olga@example.com", models.RoleOwner)

	b, err := f.book.Create(ctx, CreateBookInput{
		Title: "Dune", Author: "Herbert", Genre: "SF", Location: "Pune", OwnerID: owner.ID,
		Image: &Upload{Filename: "c.jpg", Body: strings.NewReader("img")},
	}, Requester{})
	require.NoError(t, err)
	_, err = f.book.SetStatus(ctx, b.ID, "unavailable", Requester{})
	require.NoError(t, err)

	got, err := f.book.Update(ctx, b.ID, UpdateBookInput{Title: "Dune Messiah", Author: "Herbert", Location: "Goa"}, Requester{})
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", got.Title)
	assert.Equal(t, "Goa", got.Location)
	assert.Empty(t, got.Genre, "empty genre overwrites")
	assert.Empty(t, got.Image, "absent image clears")
	assert.Equal(t, owner.ID, got.OwnerID)
	assert.Equal(t, models.StatusUnavailable, got.Status)
}

func TestUpdate_KeepsImageRef(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Olga", "olga@example.com", models.RoleOwner)
	b := f.createBook(t, owner.ID, "Dune")

	got, err := f.book.Update(ctx, b.ID, UpdateBookInput{
		Title: "Dune", Author: "Herbert", Location: "Pune", ImageRef: "uploads/old.jpg",
	}, Requester{})
	require.NoError(t, err)
	assert.Equal(t, "uploads/old.jpg", got.Image)
}

func TestUpdate_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Olga", "olga@example.com", models.RoleOwner)
	other := f.register(t, "Mal", "mal@example.com", models.RoleOwner)
	b := f.createBook(t, owner.ID, "Dune")

	_, err := f.book.Update(ctx, b.ID, UpdateBookInput{Title: "X", Author: "Y"}, Requester{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.book.Update(ctx, "missing", UpdateBookInput{Title: "X", Author: "Y", Location: "Z"}, Requester{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.book.Update(ctx, b.ID, UpdateBookInput{Title: "X", Author: "Y", Location: "Z"},
		Requester{UserID: other.ID, Verified: true})
	assert.ErrorIs(t, err, ErrNotFound)

	stored, err := f.books.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", stored.Title)
}

func TestUpdate_MissingBookStoresNoImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.book.Update(ctx, "000000000000000000000000", UpdateBookInput{
		Title: "Dune", Author: "Herbert", Location: "Pune",
		Image: &Upload{Filename: "cover.png", Body: strings.NewReader("png")},
	}, Requester{})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.uploadedFiles(t))
}

func TestUpdate_StoreFailureRemovesImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Olga", "olga@example.com", models.RoleOwner)
	b := f.createBook(t, owner.ID, "Dune")
	svc := NewBookService(brokenBooks{f.books}, f.users, f.book.images, f.book.enricher)

	_, err := svc.Update(ctx, b.ID, UpdateBookInput{
		Title: "Dune", Author: "Herbert", Location: "Pune",
		Image: &Upload{Filename: "cover.png", Body: strings.NewReader("png")},
	}, Requester{})
	assert.ErrorIs(t, err, ErrStorage)
	assert.Empty(t, f.uploadedFiles(t))
}

func TestSetStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Olga", "olga@example.com", models.RoleOwner)
	b := f.createBook(t, owner.ID, "Dune")

	got, err := f.book.SetStatus(ctx, b.ID, "unavailable", Requester{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnavailable, got.Status)

	list, err := f.book.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnavailable, list[0].Status)

	_, err = f.book.SetStatus(ctx, b.ID, "bogus", Requester{})
	assert.ErrorIs(t, err, ErrValidation)

	stored, err := f.books.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnavailable, stored.Status)

	// transitions are unrestricted, including back again
	got, err = f.book.SetStatus(ctx, b.ID, "available", Requester{UserID: owner.ID, Verified: true})
	require.NoError(t, err)
	assert.Equal(t, models.StatusAvailable, got.Status)
}

func TestSetStatus_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Olga", "olga@example.com", models.RoleOwner)
	other := f.register(t, "Mal", "mal@example.com", models.RoleOwner)
	b := f.createBook(t, owner.ID, "Dune")

	_, err := f.book.SetStatus(ctx, "missing", "available", Requester{})
	assert.ErrorIs(t, err, ErrNotFound)

	// status is validated before the lookup
	_, err = f.book.SetStatus(ctx, "missing", "Available", Requester{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.book.SetStatus(ctx, b.ID, "unavailable", Requester{UserID: other.ID, Verified: true})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "Olga", "olga@example.com", models.RoleOwner)
	other := f.register(t, "Mal", "mal@example.com", models.RoleSeeker)
	b := f.createBook(t, owner.ID, "Dune")

	err := f.book.Delete(ctx, b.ID, Requester{UserID: other.ID})
	assert.ErrorIs(t, err, ErrNotFound)
	err = f.book.Delete(ctx, b.ID, Requester{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.books.FindByID(ctx, b.ID)
	require.NoError(t, err, "listing survives a non-owner delete")

	require.NoError(t, f.book.Delete(ctx, b.ID, Requester{UserID: owner.ID}))

	list, err := f.book.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, f.book.Delete(ctx, b.ID, Requester{UserID: owner.ID}), ErrNotFound)
}

func TestList_MissingOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gone := f.register(t, "Gone", "gone@example.com", models.RoleOwner)
	stays := f.register(t, "Stays", "stays@example.com", models.RoleOwner)

	orphan := f.createBook(t, gone.ID, "Orphan")
	kept := f.createBook(t, stays.ID, "Kept")
	f.users.Remove(gone.ID)

	list, err := f.book.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, orphan.ID, list[0].ID)
	assert.Empty(t, list[0].OwnerName)
	assert.Empty(t, list[0].OwnerEmail)
	assert.Empty(t, list[0].OwnerMobile)

	assert.Equal(t, kept.ID, list[1].ID)
	assert.Equal(t, "Stays", list[1].OwnerName)
}

func TestStoreImage_Disabled(t *testing.T) {
	f := newFixture(t)
	svc := NewBookService(f.books, f.users, nil, NewEnricher(f.users, 1))
	owner := f.register(t, "Olga", "olga@example.com", models.RoleOwner)

	_, err := svc.Create(context.Background(), CreateBookInput{
		Title: "T", Author: "A", Location: "L", OwnerID: owner.ID,
		Image: &Upload{Filename: "x.png", Body: strings.NewReader("x")},
	}, Requester{})
	assert.ErrorIs(t, err, ErrValidation)
}

// brokenBooks fails every write while reads still work.
type brokenBooks struct {
	*repositories.MemoryBookStore
}

func (brokenBooks) Create(context.Context, *models.Book) error {
	return errors.New("disk full")
}

func (brokenBooks) Update(context.Context, string, models.BookFields) (*models.Book, error) {
	return nil, errors.New("disk full")
}
