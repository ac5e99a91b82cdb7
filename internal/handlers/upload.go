package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/bookswap-backend/internal/metrics"
	"github.com/AnshRaj112/bookswap-backend/internal/storage"
	"github.com/AnshRaj112/bookswap-backend/pkg/logger"
	"github.com/AnshRaj112/bookswap-backend/pkg/response"
)

type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
}

// UploadImage stores a standalone "file" upload and returns its reference,
// which clients may later send as a book's image value.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.Images == nil {
		response.Error(w, http.StatusInternalServerError, "Image storage not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxImageSize+formOverhead)
	if err := r.ParseMultipartForm(storage.MaxImageSize); err != nil {
		badForm(w, r, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	driver := h.Images.Driver()
	ref, err := h.Images.Put(r.Context(), header.Filename, file)
	if err != nil {
		metrics.ImageUploads.WithLabelValues(driver, "error").Inc()
		if errors.Is(err, storage.ErrTooLarge) {
			response.Error(w, http.StatusBadRequest, "Image exceeds 10MB limit")
			return
		}
		logger.WithCtx(r.Context()).Error("image upload failed", "driver", driver, "error", err)
		response.ErrorWithCause(w, http.StatusInternalServerError, "Failed to upload file", err.Error())
		return
	}
	metrics.ImageUploads.WithLabelValues(driver, "ok").Inc()

	response.JSON(w, http.StatusOK, UploadResponse{
		Success: true,
		Message: "File uploaded successfully",
		URL:     ref,
	})
}

// ServeImage resolves /uploads/{name} through the image store.
func (h *Handler) ServeImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	if h.Images == nil || name == "" || strings.Contains(name, "/") {
		http.NotFound(w, r)
		return
	}

	data, err := h.Images.Get(r.Context(), storage.LocalPrefix+name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrBadReference) {
			http.NotFound(w, r)
			return
		}
		logger.WithCtx(r.Context()).Error("image read failed", "name", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Write(data) //nolint:errcheck
}
