package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/AnshRaj112/bookswap-backend/internal/config"
	"github.com/AnshRaj112/bookswap-backend/internal/models"
	"github.com/AnshRaj112/bookswap-backend/internal/services"
	"github.com/AnshRaj112/bookswap-backend/pkg/logger"
	"github.com/AnshRaj112/bookswap-backend/pkg/response"
)

// Identity is the caller proven by a bearer token.
type Identity struct {
	UserID string
	Role   models.Role
}

type TokenVerifier interface {
	Enabled() bool
	Verify(raw string) (*services.Claims, error)
}

type identityKey struct{}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// Authenticate verifies an optional bearer token and stores the identity in
// the request context. A missing or unverifiable token leaves the request
// anonymous; RequireIdentity decides whether that is acceptable.
func Authenticate(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok || tokens == nil || !tokens.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				logger.WithCtx(r.Context()).Info("ignoring unverifiable bearer token", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithIdentity(r.Context(), Identity{UserID: claims.Subject, Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireIdentity rejects requests without a verified identity when mode is
// token. In asserted mode it does nothing.
func RequireIdentity(mode string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if mode != config.AuthModeToken {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := IdentityFromContext(r.Context()); !ok {
				response.Error(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
