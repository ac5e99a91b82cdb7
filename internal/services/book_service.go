package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/AnshRaj112/bookswap-backend/internal/metrics"
	"github.com/AnshRaj112/bookswap-backend/internal/models"
	"github.com/AnshRaj112/bookswap-backend/internal/repositories"
	"github.com/AnshRaj112/bookswap-backend/internal/storage"
	"github.com/AnshRaj112/bookswap-backend/pkg/logger"
)

const (
	msgMissingFields   = "Missing required fields"
	msgInvalidStatus   = "Invalid status"
	msgBookNotFound    = "Book not found"
	msgNotFoundOrOwner = "Book not found or unauthorized"
)

// Requester is the identity acting on a listing. Verified is true only when
// UserID came from a signed token rather than from the request body.
type Requester struct {
	UserID   string
	Verified bool
}

// Upload is an image file attached to a create or update request.
type Upload struct {
	Filename string
	Body     io.Reader
}

type CreateBookInput struct {
	Title    string
	Author   string
	Genre    string
	Location string
	OwnerID  string
	// Image is stored when set. Otherwise ImageRef, typically a reference
	// returned by /api/upload, is kept as-is.
	Image    *Upload
	ImageRef string
}

type UpdateBookInput struct {
	Title    string
	Author   string
	Genre    string
	Location string
	// Image replaces the stored image when set. Otherwise ImageRef is stored
	// as-is, and an empty ImageRef clears the image.
	Image    *Upload
	ImageRef string
}

// BookService implements the listing lifecycle.
type BookService struct {
	books    repositories.BookStore
	users    repositories.UserStore
	images   storage.ImageStore
	enricher *Enricher
}

func NewBookService(books repositories.BookStore, users repositories.UserStore, images storage.ImageStore, enricher *Enricher) *BookService {
	return &BookService{books: books, users: users, images: images, enricher: enricher}
}

// List returns every listing decorated with owner contact fields.
func (s *BookService) List(ctx context.Context) ([]models.EnrichedBook, error) {
	books, err := s.books.List(ctx)
	if err != nil {
		return nil, storageError("Server error", err)
	}
	return s.enricher.Enrich(ctx, books), nil
}

func (s *BookService) Create(ctx context.Context, in CreateBookInput, req Requester) (*models.Book, error) {
	b := &models.Book{
		Title:    strings.TrimSpace(in.Title),
		Author:   strings.TrimSpace(in.Author),
		Genre:    strings.TrimSpace(in.Genre),
		Location: strings.TrimSpace(in.Location),
		OwnerID:  strings.TrimSpace(in.OwnerID),
		Status:   models.StatusAvailable,
		Image:    strings.TrimSpace(in.ImageRef),
	}
	if req.Verified {
		if b.OwnerID == "" {
			b.OwnerID = req.UserID
		} else if b.OwnerID != req.UserID {
			return nil, validationError("ownerId does not match the signed-in user")
		}
	}
	if b.Title == "" || b.Author == "" || b.Location == "" || b.OwnerID == "" {
		return nil, validationError(msgMissingFields)
	}

	if _, err := s.users.FindByID(ctx, b.OwnerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, validationError("Owner does not exist")
		}
		return nil, storageError("Error saving book", err)
	}

	if in.Image != nil {
		ref, err := s.storeImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		b.Image = ref
	}

	if err := s.books.Create(ctx, b); err != nil {
		if in.Image != nil {
			s.discardImage(ctx, b.Image)
		}
		return nil, storageError("Error saving book", err)
	}
	logger.WithCtx(ctx).Info("book created", "book_id", b.ID, "owner_id", b.OwnerID)
	return b, nil
}

// Update replaces the editable fields. Owner and status are never touched.
func (s *BookService) Update(ctx context.Context, id string, in UpdateBookInput, req Requester) (*models.Book, error) {
	f := models.BookFields{
		Title:    strings.TrimSpace(in.Title),
		Author:   strings.TrimSpace(in.Author),
		Genre:    strings.TrimSpace(in.Genre),
		Location: strings.TrimSpace(in.Location),
		Image:    strings.TrimSpace(in.ImageRef),
	}
	if f.Title == "" || f.Author == "" || f.Location == "" {
		return nil, validationError(msgMissingFields)
	}
	// An upload is only written once the listing is known to exist.
	if err := s.authorize(ctx, id, req, in.Image != nil); err != nil {
		return nil, err
	}

	if in.Image != nil {
		ref, err := s.storeImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		f.Image = ref
	}

	b, err := s.books.Update(ctx, id, f)
	if err != nil {
		if in.Image != nil {
			s.discardImage(ctx, f.Image)
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundError(msgBookNotFound)
		}
		return nil, storageError("Server error", err)
	}
	return b, nil
}

// SetStatus moves a listing to status directly. The value is checked
// before any lookup, so an invalid status never reaches storage.
func (s *BookService) SetStatus(ctx context.Context, id, status string, req Requester) (*models.Book, error) {
	st := models.BookStatus(status)
	if !st.Valid() {
		return nil, validationError(msgInvalidStatus)
	}
	if err := s.authorize(ctx, id, req, false); err != nil {
		return nil, err
	}

	b, err := s.books.SetStatus(ctx, id, st)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundError(msgBookNotFound)
		}
		return nil, storageError("Server error", err)
	}
	logger.WithCtx(ctx).Info("book status changed", "book_id", b.ID, "status", b.Status)
	return b, nil
}

// Delete removes the listing only when req is its owner. A missing listing
// and a listing owned by someone else are reported identically.
func (s *BookService) Delete(ctx context.Context, id string, req Requester) error {
	owner := strings.TrimSpace(req.UserID)
	if owner == "" {
		return notFoundError(msgNotFoundOrOwner)
	}

	if err := s.books.DeleteOwned(ctx, id, owner); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFoundError(msgNotFoundOrOwner)
		}
		return storageError("Server error", err)
	}
	logger.WithCtx(ctx).Info("book deleted", "book_id", id, "owner_id", owner)
	return nil
}

// authorize enforces ownership for token-verified requesters. With
// mustExist it also looks the listing up for anonymous requesters.
func (s *BookService) authorize(ctx context.Context, id string, req Requester, mustExist bool) error {
	if !req.Verified && !mustExist {
		return nil
	}
	b, err := s.books.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFoundError(msgBookNotFound)
		}
		return storageError("Server error", err)
	}
	if req.Verified && b.OwnerID != req.UserID {
		return notFoundError(msgNotFoundOrOwner)
	}
	return nil
}

func (s *BookService) storeImage(ctx context.Context, up *Upload) (string, error) {
	if s.images == nil {
		return "", validationError("Image uploads are not enabled")
	}
	driver := s.images.Driver()
	ref, err := s.images.Put(ctx, up.Filename, up.Body)
	if err != nil {
		metrics.ImageUploads.WithLabelValues(driver, "error").Inc()
		if errors.Is(err, storage.ErrTooLarge) {
			return "", validationError("Image exceeds 10MB limit")
		}
		return "", storageError("Error saving image", err)
	}
	metrics.ImageUploads.WithLabelValues(driver, "ok").Inc()
	return ref, nil
}

// discardImage removes an image whose listing write failed.
func (s *BookService) discardImage(ctx context.Context, ref string) {
	if err := s.images.Delete(ctx, ref); err != nil {
		logger.WithCtx(ctx).Warn("could not remove orphaned image", "ref", ref, "error", err)
	}
}
