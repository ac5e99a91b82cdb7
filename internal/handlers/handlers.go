// Package handlers exposes the BookSwap services over HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/AnshRaj112/bookswap-backend/internal/middleware"
	"github.com/AnshRaj112/bookswap-backend/internal/services"
	"github.com/AnshRaj112/bookswap-backend/internal/storage"
	"github.com/AnshRaj112/bookswap-backend/pkg/logger"
	"github.com/AnshRaj112/bookswap-backend/pkg/response"
)

// Handler holds the services every endpoint needs.
type Handler struct {
	Auth   *services.AuthService
	Books  *services.BookService
	Users  *services.UserService
	Images storage.ImageStore
}

// writeError maps a service error to its status and envelope. Storage
// failures are logged and carry the cause text.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var se *services.Error
	if !errors.As(err, &se) {
		se = &services.Error{Kind: services.KindStorage, Message: "Server error", Err: err}
	}

	switch services.KindOf(err) {
	case services.KindValidation, services.KindConflict:
		response.Error(w, http.StatusBadRequest, se.Message)
	case services.KindAuth:
		response.Error(w, http.StatusUnauthorized, se.Message)
	case services.KindNotFound:
		response.Error(w, http.StatusNotFound, se.Message)
	default:
		logger.WithCtx(r.Context()).Error("request failed", "error", err)
		cause := ""
		if se.Err != nil {
			cause = se.Err.Error()
		}
		response.ErrorWithCause(w, http.StatusInternalServerError, se.Message, cause)
	}
}

// maxJSONBody caps every JSON request body.
const maxJSONBody = 1 << 20

// decodeJSON reads an optional JSON body into v. An empty body is not an
// error.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// requester builds the acting identity: a verified token wins, otherwise
// the caller-asserted owner ID is used.
func requester(r *http.Request, assertedOwnerID string) services.Requester {
	if id, ok := middleware.IdentityFromContext(r.Context()); ok {
		return services.Requester{UserID: id.UserID, Verified: true}
	}
	return services.Requester{UserID: assertedOwnerID}
}

func badBody(w http.ResponseWriter, err error) {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		response.Error(w, http.StatusBadRequest, "Request body too large")
		return
	}
	response.Error(w, http.StatusBadRequest, "Invalid request body")
}
