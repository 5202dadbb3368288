package invitation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Repository stores invitations in PostgreSQL
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new invitation repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const columns = `id, suite_id, token, created_by, role, expires_at, revoked_at, redeemed_count, created_at`

func scan(row interface{ Scan(...any) error }) (*Invitation, error) {
	i := &Invitation{}
	err := row.Scan(&i.ID, &i.SuiteID, &i.Token, &i.CreatedBy, &i.Role, &i.ExpiresAt, &i.RevokedAt, &i.RedeemedCount, &i.CreatedAt)
	return i, err
}

// Create inserts an invitation
func (r *Repository) Create(ctx context.Context, inv *Invitation) (*Invitation, error) {
	created, err := scan(r.db.QueryRowContext(ctx, `
		INSERT INTO invitations (suite_id, token, created_by, role, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+columns, inv.SuiteID, inv.Token, inv.CreatedBy, inv.Role, inv.ExpiresAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}
	return created, nil
}

// GetByToken returns the invitation or nil
func (r *Repository) GetByToken(ctx context.Context, token string) (*Invitation, error) {
	inv, err := scan(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM invitations WHERE token = $1`, token))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

// ListBySuiteID returns a suite's invitations, newest first
func (r *Repository) ListBySuiteID(ctx context.Context, suiteID int64) ([]*Invitation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM invitations WHERE suite_id = $1 ORDER BY created_at DESC`, suiteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var out []*Invitation
	for rows.Next() {
		inv, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// Revoke stamps revoked_at unless already revoked
func (r *Repository) Revoke(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE invitations SET revoked_at = $2 WHERE id = $1 AND revoked_at IS NULL`, id, at)
	if err != nil {
		return fmt.Errorf("failed to revoke invitation: %w", err)
	}
	return nil
}

// IncrementRedeemed counts one more redemption
func (r *Repository) IncrementRedeemed(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE invitations SET redeemed_count = redeemed_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to count redemption: %w", err)
	}
	return nil
}
