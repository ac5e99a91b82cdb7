package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

const cloudinaryHost = "https://res.cloudinary.com/"

// Cloudinary uploads images to a Cloudinary folder. The reference is the
// secure delivery URL.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
	http   *http.Client
}

func NewCloudinary(cloudName, apiKey, apiSecret, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("storage/cloudinary: init: %w", err)
	}
	if folder == "" {
		folder = "bookswap/books"
	}
	return &Cloudinary{cld: cld, folder: folder, http: http.DefaultClient}, nil
}

func (d *Cloudinary) Driver() string { return "cloudinary" }

func (d *Cloudinary) Put(ctx context.Context, _ string, r io.Reader) (string, error) {
	data, err := readLimited(r)
	if err != nil {
		return "", err
	}

	res, err := d.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     uuid.NewString(),
		Folder:       d.folder,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("storage/cloudinary: upload: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("storage/cloudinary: upload: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}

// Get downloads the delivered asset. Cloudinary has no read API for the
// original bytes beyond its CDN URL.
func (d *Cloudinary) Get(ctx context.Context, ref string) ([]byte, error) {
	if !strings.HasPrefix(ref, cloudinaryHost) {
		return nil, ErrBadReference
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage/cloudinary: get: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("storage/cloudinary: get: status %d", resp.StatusCode)
	}
	return readLimited(resp.Body)
}

// publicID recovers the asset id from a delivery URL of the form
// https://res.cloudinary.com/<cloud>/image/upload/v<version>/<folder>/<id>.<ext>.
func publicID(ref string) (string, bool) {
	if !strings.HasPrefix(ref, cloudinaryHost) {
		return "", false
	}
	_, rest, ok := strings.Cut(ref, "/upload/")
	if !ok {
		return "", false
	}
	if v, after, found := strings.Cut(rest, "/"); found && len(v) > 1 && v[0] == 'v' &&
		strings.Trim(v[1:], "0123456789") == "" {
		rest = after
	}
	id := strings.TrimSuffix(rest, path.Ext(rest))
	return id, id != ""
}

func (d *Cloudinary) Delete(ctx context.Context, ref string) error {
	id, ok := publicID(ref)
	if !ok {
		return ErrBadReference
	}
	res, err := d.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: id, ResourceType: "image"})
	if err != nil {
		return fmt.Errorf("storage/cloudinary: delete %s: %w", id, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("storage/cloudinary: delete %s: %s", id, res.Error.Message)
	}
	return nil
}
