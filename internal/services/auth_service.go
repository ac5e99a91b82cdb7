package services

import (
	"context"
	"errors"
	"strings"

	"github.com/AnshRaj112/bookswap-backend/internal/models"
	"github.com/AnshRaj112/bookswap-backend/internal/repositories"
	"github.com/AnshRaj112/bookswap-backend/pkg/logger"
	"github.com/AnshRaj112/bookswap-backend/pkg/utils"
)

const msgInvalidCredentials = "Invalid email or password"

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Mobile   string
	Role     string
}

// AuthResult is what login and registration hand back to the client.
type AuthResult struct {
	User  models.AuthUser
	Token string
}

type AuthService struct {
	users  repositories.UserStore
	tokens *TokenIssuer
}

func NewAuthService(users repositories.UserStore, tokens *TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := repositories.NormalizeEmail(in.Email)
	mobile := strings.TrimSpace(in.Mobile)
	if name == "" || email == "" || in.Password == "" || mobile == "" {
		return nil, validationError("All fields are required")
	}

	role := models.RoleSeeker
	if r := strings.ToLower(strings.TrimSpace(in.Role)); r != "" {
		role = models.Role(r)
		if !role.Valid() {
			return nil, validationError("Invalid role")
		}
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, conflictError("Email already exists")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, storageError("Server error during registration", err)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, storageError("Server error during registration", err)
	}

	u := &models.User{Name: name, Email: email, PasswordHash: hash, Mobile: mobile, Role: role}
	if err := s.users.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, conflictError("Email already exists")
		}
		return nil, storageError("Server error during registration", err)
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", u.ID, "role", u.Role)
	return s.result(u)
}

// Login fails with the same AuthError whether the email is unknown or the
// password is wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.WithCtx(ctx)

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, authError(msgInvalidCredentials)
		}
		return nil, storageError("Server error during login", err)
	}

	ok, err := utils.VerifyPassword(password, u.PasswordHash)
	if err != nil {
		log.Warn("unreadable password hash", "user_id", u.ID, "error", err)
		return nil, authError(msgInvalidCredentials)
	}
	if !ok {
		log.Info("password mismatch", "user_id", u.ID)
		return nil, authError(msgInvalidCredentials)
	}

	return s.result(u)
}

func (s *AuthService) result(u *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, storageError("Could not issue token", err)
	}
	return &AuthResult{User: u.AuthView(), Token: token}, nil
}
