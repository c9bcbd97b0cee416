package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/atinyakov/dirac/internal/models"
)

// PostgresHistoryRepository stores checkout history in PostgreSQL.
type PostgresHistoryRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresHistoryRepository creates a PostgresHistoryRepository using the provided *sql.DB.
func NewPostgresHistoryRepository(db *sql.DB) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{DB: db}
}

// CreateHistory inserts h and fills in its id and creation time.
// An unknown h.UserID fails with ErrConstraintViolation.
func (r *PostgresHistoryRepository) CreateHistory(ctx context.Context, h *models.History) (*models.History, error) {
	var cart any
	if len(h.Cart) > 0 {
		// JSON columns take the text form; []byte would be sent as bytea.
		cart = string(h.Cart)
	}

	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO histories (user_id, name, phone_number, address, account_number, pin_or_cvv, list_cart)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING history_id, created_at
	`, h.UserID, h.Name, h.PhoneNumber, h.Address, h.AccountNumber, h.PinOrCvvHash, cart).
		Scan(&h.ID, &h.CreatedAt)
	if err != nil {
		return nil, classify("CreateHistory", err)
	}
	return h, nil
}

// ListHistoryForUser returns the user's records, newest first. Only the
// columns safe to hand back to clients are read; AccountNumber and
// PinOrCvvHash are left empty.
func (r *PostgresHistoryRepository) ListHistoryForUser(ctx context.Context, userID int64) ([]models.History, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT history_id, user_id, name, phone_number, address, list_cart, created_at
		FROM histories
		WHERE user_id = $1
		ORDER BY created_at DESC, history_id DESC
	`, userID)
	if err != nil {
		return nil, classify("ListHistoryForUser", err)
	}
	defer rows.Close()

	records := make([]models.History, 0)
	for rows.Next() {
		var (
			h    models.History
			cart []byte
		)
		if err := rows.Scan(&h.ID, &h.UserID, &h.Name, &h.PhoneNumber, &h.Address, &cart, &h.CreatedAt); err != nil {
			return nil, classify("ListHistoryForUser scan", err)
		}
		if cart != nil {
			h.Cart = json.RawMessage(cart)
		}
		records = append(records, h)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("ListHistoryForUser rows", err)
	}
	return records, nil
}
