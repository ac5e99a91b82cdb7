package services

import (
	"context"
	"errors"
	"strings"

	"github.com/AnshRaj112/bookswap-backend/internal/models"
	"github.com/AnshRaj112/bookswap-backend/internal/repositories"
)

// UserService serves public profiles.
type UserService struct {
	users repositories.UserStore
}

func NewUserService(users repositories.UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFoundError("User not found")
		}
		return nil, storageError("Internal Server Error", err)
	}
	return u, nil
}

// Update applies the non-empty fields of upd.
func (s *UserService) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	upd.Name = strings.TrimSpace(upd.Name)
	upd.Email = strings.TrimSpace(upd.Email)
	upd.Mobile = strings.TrimSpace(upd.Mobile)
	if upd.Empty() {
		return nil, validationError("No valid fields to update")
	}

	u, err := s.users.Update(ctx, id, upd)
	switch {
	case err == nil:
		return u, nil
	case errors.Is(err, repositories.ErrNotFound):
		return nil, notFoundError("User not found")
	case errors.Is(err, repositories.ErrDuplicateEmail):
		return nil, conflictError("Email already exists")
	}
	return nil, storageError("Internal Server Error", err)
}
