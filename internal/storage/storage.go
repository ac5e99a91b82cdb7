// Package storage holds uploaded book cover images. A driver turns bytes
// into an opaque reference string that is persisted on the book and can be
// resolved back to bytes later.
//
//	ref, err := images.Put(ctx, header.Filename, file)
//	data, err := images.Get(ctx, ref)
//	err = images.Delete(ctx, ref)
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/AnshRaj112/bookswap-backend/internal/config"
)

// MaxImageSize caps a single upload.
const MaxImageSize = 10 << 20

var (
	ErrNotFound     = errors.New("storage: image not found")
	ErrTooLarge     = errors.New("storage: image exceeds size limit")
	ErrBadReference = errors.New("storage: reference does not belong to this driver")
)

// ImageStore is implemented by every driver.
type ImageStore interface {
	// Put stores the content of r and returns its reference. filename is only
	// used for its extension.
	Put(ctx context.Context, filename string, r io.Reader) (string, error)
	Get(ctx context.Context, ref string) ([]byte, error)
	// Delete removes the image behind ref. Deleting something already gone
	// is not an error.
	Delete(ctx context.Context, ref string) error
	Driver() string
}

// New builds the driver selected by IMAGE_DRIVER.
func New(ctx context.Context, cfg *config.Config) (ImageStore, error) {
	switch cfg.ImageDriver {
	case "", "local":
		return NewLocal(cfg.UploadDir), nil
	case "s3":
		return NewS3(ctx, S3Options{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Key:      cfg.S3Key,
			Secret:   cfg.S3Secret,
			Endpoint: cfg.S3Endpoint,
			BaseURL:  cfg.S3URL,
		})
	case "cloudinary":
		return NewCloudinary(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.ImageDriver)
	}
}

// objectName returns a fresh random name keeping a sane extension from
// the client's filename.
func objectName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 6 || strings.ContainsFunc(ext[min(1, len(ext)):], func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		ext = ""
	}
	return uuid.NewString() + ext
}

// readLimited reads all of r, failing with ErrTooLarge past MaxImageSize.
func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxImageSize {
		return nil, ErrTooLarge
	}
	return data, nil
}
