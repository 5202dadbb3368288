package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Repository stores accounts in PostgreSQL
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new account repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new account
func (r *Repository) Create(ctx context.Context, req *CreateAccountRequest) (*Account, error) {
	query := `
		INSERT INTO accounts (display_name, email)
		VALUES ($1, $2)
		RETURNING id, display_name, email, created_at
	`

	a := &Account{}
	err := r.db.QueryRowContext(ctx, query, req.DisplayName, req.Email).Scan(
		&a.ID,
		&a.DisplayName,
		&a.Email,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return a, nil
}

// GetByID returns the account or nil when it does not exist
func (r *Repository) GetByID(ctx context.Context, id int64) (*Account, error) {
	return r.getOne(ctx, `SELECT id, display_name, email, created_at FROM accounts WHERE id = $1`, id)
}

// GetByEmail returns the account or nil when it does not exist
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return r.getOne(ctx, `SELECT id, display_name, email, created_at FROM accounts WHERE lower(email) = lower($1)`, email)
}

func (r *Repository) getOne(ctx context.Context, query string, arg any) (*Account, error) {
	a := &Account{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID,
		&a.DisplayName,
		&a.Email,
		&a.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return a, nil
}
