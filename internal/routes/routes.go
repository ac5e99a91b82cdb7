package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/bookswap-backend/internal/handlers"
	"github.com/AnshRaj112/bookswap-backend/internal/metrics"
	"github.com/AnshRaj112/bookswap-backend/internal/middleware"
)

// SetupRoutes mounts the API on r. authMode decides whether mutating book
// and profile routes demand a verified token.
func SetupRoutes(r chi.Router, h *handlers.Handler, authMode string) {
	requireID := middleware.RequireIdentity(authMode)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK")) //nolint:errcheck
	})
	r.Get("/metrics", metrics.Handler())

	// Auth
	r.Post("/api/auth/register", h.Register)
	r.Post("/api/auth/login", h.Login)

	// Books
	r.Get("/api/books", h.ListBooks)
	r.Group(func(r chi.Router) {
		r.Use(requireID)
		r.Post("/api/books", h.CreateBook)
		r.Put("/api/books/{id}", h.UpdateBook)
		r.Patch("/api/books/{id}/status", h.UpdateBookStatus)
		r.Delete("/api/books/{id}", h.DeleteBook)
	})

	// Profiles
	r.Get("/api/users/{id}", h.GetUser)
	r.With(requireID).Patch("/api/users/{id}", h.UpdateUser)

	// Images
	r.With(requireID).Post("/api/upload", h.UploadImage)
	r.Get("/uploads/*", h.ServeImage)
}
