// Package repository provides PostgreSQL persistence for users and their
// checkout history.
package repository

import (
	"context"
	"database/sql"

	"github.com/atinyakov/dirac/internal/models"
)

// PostgresUserRepository stores users in PostgreSQL.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a PostgresUserRepository with the given database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// FindUserByEmail returns the user registered with email, or ErrNotFound.
func (r *PostgresUserRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT user_id, name, email, password, created_at FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, classify("FindUserByEmail", err)
	}
	return &u, nil
}

// FindUserByID returns the user with the given id, or ErrNotFound.
func (r *PostgresUserRepository) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT user_id, name, email, password, created_at FROM users WHERE user_id = $1
	`, id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, classify("FindUserByID", err)
	}
	return &u, nil
}

// CreateUser inserts a user and returns it with the store-assigned id.
// A second user with the same email fails with ErrConstraintViolation.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	u := models.User{Name: name, Email: email, PasswordHash: passwordHash}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO users (name, email, password) VALUES ($1, $2, $3)
		RETURNING user_id, created_at
	`, name, email, passwordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return nil, classify("CreateUser", err)
	}
	return &u, nil
}
