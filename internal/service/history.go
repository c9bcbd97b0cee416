package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atinyakov/dirac/internal/models"
	"github.com/atinyakov/dirac/internal/repository"
)

// HistoryRepository defines the persistence operations on checkout records.
type HistoryRepository interface {
	// CreateHistory returns repository.ErrConstraintViolation when the owner does not exist.
	CreateHistory(ctx context.Context, h *models.History) (*models.History, error)
	// ListHistoryForUser returns the user's records, newest first.
	ListHistoryForUser(ctx context.Context, userID int64) ([]models.History, error)
}

// CheckoutInput carries a checkout request as received from the client.
type CheckoutInput struct {
	UserID        int64
	Name          string
	PhoneNumber   string
	Address       string
	AccountNumber string
	PinOrCvv      string
	Cart          json.RawMessage
}

// HistoryService records checkouts and serves a user's purchase history.
type HistoryService struct {
	users   UserRepository
	history HistoryRepository
	hasher  Hasher
}

// NewHistoryService constructs a HistoryService.
func NewHistoryService(users UserRepository, history HistoryRepository, hasher Hasher) *HistoryService {
	return &HistoryService{users: users, history: history, hasher: hasher}
}

func (s *HistoryService) ensureUser(ctx context.Context, id int64) error {
	if _, err := s.users.FindUserByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	return nil
}

// Checkout stores a purchase for an existing user. The PIN/CVV is stored
// only as a digest.
func (s *HistoryService) Checkout(ctx context.Context, in CheckoutInput) error {
	if err := s.ensureUser(ctx, in.UserID); err != nil {
		return err
	}

	pinHash, err := s.hasher.Hash(in.PinOrCvv)
	if err != nil {
		return fmt.Errorf("hash pin: %w", err)
	}

	_, err = s.history.CreateHistory(ctx, &models.History{
		UserID:        in.UserID,
		Name:          in.Name,
		PhoneNumber:   in.PhoneNumber,
		Address:       in.Address,
		AccountNumber: in.AccountNumber,
		PinOrCvvHash:  pinHash,
		Cart:          in.Cart,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConstraintViolation) {
			return ErrUserNotFound
		}
		return fmt.Errorf("create history: %w", err)
	}
	return nil
}

// GetHistory returns the user's purchases newest first, projected to the
// client-facing shape. No purchases yields an empty, non-nil slice.
func (s *HistoryService) GetHistory(ctx context.Context, userID int64) ([]models.HistoryView, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	records, err := s.history.ListHistoryForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	views := make([]models.HistoryView, 0, len(records))
	for _, h := range records {
		views = append(views, models.HistoryView{
			ID:          h.ID,
			Date:        h.CreatedAt,
			Name:        h.Name,
			PhoneNumber: h.PhoneNumber,
			Address:     h.Address,
			Cart:        h.Cart,
		})
	}
	return views, nil
}
