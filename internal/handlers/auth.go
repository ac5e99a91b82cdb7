package handlers

import (
	"net/http"

	"github.com/AnshRaj112/bookswap-backend/internal/models"
	"github.com/AnshRaj112/bookswap-backend/internal/services"
	"github.com/AnshRaj112/bookswap-backend/pkg/response"
)

// credentials accepts "secret" as an alias for "password".
type credentials struct {
	Password string `json:"password"`
	Secret   string `json:"secret"`
}

func (c credentials) password() string {
	if c.Password != "" {
		return c.Password
	}
	return c.Secret
}

type RegisterRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
	Role   string `json:"role"`
	credentials
}

type LoginRequest struct {
	Email string `json:"email"`
	credentials
}

type AuthResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	User    models.AuthUser `json:"user"`
	Token   string          `json:"token,omitempty"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badBody(w, err)
		return
	}

	res, err := h.Auth.Register(r.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.password(),
		Mobile:   req.Mobile,
		Role:     req.Role,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Registration successful",
		User:    res.User,
		Token:   res.Token,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badBody(w, err)
		return
	}

	res, err := h.Auth.Login(r.Context(), req.Email, req.password())
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		User:    res.User,
		Token:   res.Token,
	})
}
