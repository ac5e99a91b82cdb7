package handlers

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/bookswap-backend/internal/models"
	"github.com/AnshRaj112/bookswap-backend/internal/services"
	"github.com/AnshRaj112/bookswap-backend/internal/storage"
	"github.com/AnshRaj112/bookswap-backend/pkg/response"
)

// multipart overhead allowed on top of the image itself
const formOverhead = 1 << 20

type BookResponse struct {
	Success bool         `json:"success"`
	Book    *models.Book `json:"book"`
}

// bookForm is the create/update payload, sent either as multipart form
// data (with an optional "image" file) or as JSON.
type bookForm struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Genre    string `json:"genre"`
	Location string `json:"location"`
	OwnerID  string `json:"ownerId"`
	Image    string `json:"image"`

	upload *services.Upload
	file   multipart.File
}

func (f *bookForm) close() {
	if f.file != nil {
		f.file.Close()
	}
}

func isMultipart(r *http.Request) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mediaType == "multipart/form-data"
}

func readBookForm(w http.ResponseWriter, r *http.Request) (*bookForm, error) {
	f := &bookForm{}
	if !isMultipart(r) {
		return f, decodeJSON(w, r, f)
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxImageSize+formOverhead)
	if err := r.ParseMultipartForm(storage.MaxImageSize); err != nil {
		return nil, err
	}
	f.Title = r.FormValue("title")
	f.Author = r.FormValue("author")
	f.Genre = r.FormValue("genre")
	f.Location = r.FormValue("location")
	f.OwnerID = r.FormValue("ownerId")
	f.Image = r.FormValue("image")

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		f.file = file
		f.upload = &services.Upload{Filename: header.Filename, Body: file}
	case errors.Is(err, http.ErrMissingFile):
	default:
		return nil, err
	}
	return f, nil
}

func badForm(w http.ResponseWriter, r *http.Request, err error) {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) && isMultipart(r) {
		response.Error(w, http.StatusBadRequest, "Image exceeds 10MB limit")
		return
	}
	badBody(w, err)
}

// ListBooks returns a bare JSON array of enriched listings.
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.Books.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, books)
}

func (h *Handler) CreateBook(w http.ResponseWriter, r *http.Request) {
	form, err := readBookForm(w, r)
	if err != nil {
		badForm(w, r, err)
		return
	}
	defer form.close()

	book, err := h.Books.Create(r.Context(), services.CreateBookInput{
		Title:    form.Title,
		Author:   form.Author,
		Genre:    form.Genre,
		Location: form.Location,
		OwnerID:  form.OwnerID,
		Image:    form.upload,
		ImageRef: form.Image,
	}, requester(r, ""))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, BookResponse{Success: true, Book: book})
}

func (h *Handler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	form, err := readBookForm(w, r)
	if err != nil {
		badForm(w, r, err)
		return
	}
	defer form.close()

	book, err := h.Books.Update(r.Context(), chi.URLParam(r, "id"), services.UpdateBookInput{
		Title:    form.Title,
		Author:   form.Author,
		Genre:    form.Genre,
		Location: form.Location,
		Image:    form.upload,
		ImageRef: form.Image,
	}, requester(r, ""))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, BookResponse{Success: true, Book: book})
}

type StatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateBookStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badBody(w, err)
		return
	}

	book, err := h.Books.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status, requester(r, ""))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, BookResponse{Success: true, Book: book})
}

type DeleteRequest struct {
	OwnerID string `json:"ownerId"`
}

// DeleteBook takes the owner from the JSON body, falling back to the
// ownerId query parameter for clients that cannot send a DELETE body.
func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	var req DeleteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badBody(w, err)
		return
	}
	if req.OwnerID == "" {
		req.OwnerID = r.URL.Query().Get("ownerId")
	}

	if err := h.Books.Delete(r.Context(), chi.URLParam(r, "id"), requester(r, req.OwnerID)); err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
