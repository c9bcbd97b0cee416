package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/atinyakov/dirac/internal/middleware"
	"github.com/atinyakov/dirac/internal/models"
	"github.com/atinyakov/dirac/internal/service"
	"go.uber.org/zap"
)

// HistoryService defines the checkout-history operations required by the HTTP handlers.
type HistoryService interface {
	// Checkout records a purchase; service.ErrUserNotFound for unknown users.
	Checkout(ctx context.Context, in service.CheckoutInput) error
	// GetHistory lists a user's purchases newest first.
	GetHistory(ctx context.Context, userID int64) ([]models.HistoryView, error)
}

// HistoryHandler handles HTTP requests for checkout and purchase history.
type HistoryHandler struct {
	HistoryService HistoryService
	Log            *zap.Logger
}

// CheckoutRequest represents the JSON payload of a checkout.
type CheckoutRequest struct {
	UserID        UserID          `json:"userID"`
	Name          string          `json:"name"`
	PhoneNumber   string          `json:"phoneNumber"`
	Address       string          `json:"address"`
	AccountNumber string          `json:"accountNumber"`
	PinOrCvv      string          `json:"pinOrCvv"`
	ListCart      json.RawMessage `json:"listCart"`
}

// HistoryRequest represents the JSON payload of a history lookup.
type HistoryRequest struct {
	UserID UserID `json:"userID"`
}

// Checkout handles POST /users/checkout. userID, pinOrCvv and listCart are required.
func (h *HistoryHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := decodeBody(r, &req); err != nil || req.UserID == 0 || req.PinOrCvv == "" || isAbsent(req.ListCart) {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	err := h.HistoryService.Checkout(r.Context(), service.CheckoutInput{
		UserID:        int64(req.UserID),
		Name:          req.Name,
		PhoneNumber:   req.PhoneNumber,
		Address:       req.Address,
		AccountNumber: req.AccountNumber,
		PinOrCvv:      req.PinOrCvv,
		Cart:          req.ListCart,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, MessageResponse{Msg: msgCheckoutCreated})
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, msgUserNotFound)
	default:
		middleware.LoggerFromContext(r.Context(), h.Log).Error("checkout failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

// History handles GET /users/history. The user id comes from the JSON body,
// or from the userID query parameter when the request has no body.
func (h *HistoryHandler) History(w http.ResponseWriter, r *http.Request) {
	var req HistoryRequest
	if err := decodeBody(r, &req); err != nil {
		if !errors.Is(err, errEmptyBody) {
			writeError(w, http.StatusBadRequest, msgInvalidRequest)
			return
		}
		id, convErr := strconv.ParseInt(r.URL.Query().Get("userID"), 10, 64)
		if convErr != nil {
			writeError(w, http.StatusBadRequest, msgInvalidRequest)
			return
		}
		req.UserID = UserID(id)
	}
	if req.UserID == 0 {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	views, err := h.HistoryService.GetHistory(r.Context(), int64(req.UserID))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, views)
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, msgUserNotFound)
	default:
		middleware.LoggerFromContext(r.Context(), h.Log).Error("history lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
