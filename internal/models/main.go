// Package models defines the core data structures for users and their
// purchase history.
package models

import (
	"encoding/json"
	"time"
)

// User represents a registered customer.
type User struct {
	// ID is the auto-assigned identifier of the user.
	ID int64
	// Name is the display name given at sign-up.
	Name string
	// Email is unique across all users.
	Email string
	// PasswordHash is the bcrypt digest of the user's password.
	PasswordHash string
	// CreatedAt is set by the store on insert.
	CreatedAt time.Time
}

// History is a single checkout record as stored.
type History struct {
	// ID is the auto-assigned identifier of the record.
	ID int64
	// UserID references the owning User.
	UserID int64
	// Name of the recipient.
	Name string
	// PhoneNumber of the recipient.
	PhoneNumber string
	// Address to deliver to.
	Address string
	// AccountNumber used for payment. Never returned to clients.
	AccountNumber string
	// PinOrCvvHash is the bcrypt digest of the PIN/CVV. Never returned to clients.
	PinOrCvvHash string
	// Cart is the purchased items payload, kept verbatim.
	Cart json.RawMessage
	// CreatedAt is set by the store on insert.
	CreatedAt time.Time
}

// HistoryView is the client-facing projection of a History record.
// It deliberately has no account number or PIN/CVV field.
type HistoryView struct {
	ID          int64           `json:"historyID"`
	Date        time.Time       `json:"date"`
	Name        string          `json:"name"`
	PhoneNumber string          `json:"phoneNumber"`
	Address     string          `json:"address"`
	Cart        json.RawMessage `json:"listCart"`
}
