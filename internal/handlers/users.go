package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/bookswap-backend/internal/middleware"
	"github.com/AnshRaj112/bookswap-backend/internal/models"
	"github.com/AnshRaj112/bookswap-backend/pkg/response"
)

type UserResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    *models.User `json:"user"`
}

type UpdateUserRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, UserResponse{Success: true, User: user})
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if ident, ok := middleware.IdentityFromContext(r.Context()); ok && ident.UserID != id {
		response.Error(w, http.StatusUnauthorized, "Not allowed to edit this profile")
		return
	}

	var req UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badBody(w, err)
		return
	}

	user, err := h.Users.Update(r.Context(), id, models.UserUpdate{
		Name:   req.Name,
		Email:  req.Email,
		Mobile: req.Mobile,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, UserResponse{
		Success: true,
		Message: "Profile updated successfully",
		User:    user,
	})
}
