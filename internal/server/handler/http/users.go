// Package http provides HTTP handlers for account management and checkout
// history, and the router that mounts them.
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/atinyakov/dirac/internal/middleware"
	"github.com/atinyakov/dirac/internal/service"
	"go.uber.org/zap"
)

// AccountService defines the account operations required by the HTTP handlers.
type AccountService interface {
	// SignUp registers a user; service.ErrDuplicateEmail when the email is taken.
	SignUp(ctx context.Context, name, email, password string) error
	// SignIn returns the user id for valid credentials.
	SignIn(ctx context.Context, email, password string) (int64, error)
}

// AccountHandler handles HTTP requests for sign-up and sign-in.
type AccountHandler struct {
	// AccountService performs the underlying account operations.
	AccountService AccountService
	// Log receives internal errors; request-scoped loggers take precedence.
	Log *zap.Logger
}

// SignUpRequest represents the JSON payload for user registration.
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInRequest represents the JSON payload for signing in.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse carries the authenticated user's id.
type SignInResponse struct {
	UserID int64 `json:"userID"`
}

// SignUp handles user registration. Email and password are required.
func (h *AccountHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := decodeBody(r, &req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	err := h.AccountService.SignUp(r.Context(), req.Name, req.Email, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, MessageResponse{Msg: msgUserCreated})
	case errors.Is(err, service.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, msgDuplicateEmail)
	default:
		middleware.LoggerFromContext(r.Context(), h.Log).Error("sign-up failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

// SignIn checks credentials taken from the JSON body, or from the query
// string when the request has no body.
func (h *AccountHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := decodeBody(r, &req); err != nil {
		if !errors.Is(err, errEmptyBody) {
			writeError(w, http.StatusBadRequest, msgInvalidRequest)
			return
		}
		q := r.URL.Query()
		req.Email, req.Password = q.Get("email"), q.Get("password")
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	id, err := h.AccountService.SignIn(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, SignInResponse{UserID: id})
	case errors.Is(err, service.ErrInvalidEmail):
		writeError(w, http.StatusUnauthorized, msgInvalidEmail)
	case errors.Is(err, service.ErrInvalidPassword):
		writeError(w, http.StatusUnauthorized, msgInvalidPassword)
	default:
		middleware.LoggerFromContext(r.Context(), h.Log).Error("sign-in failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}
