package suite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Repository stores suites and their members in PostgreSQL
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new suite repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a suite and its owner in one transaction
func (r *Repository) Create(ctx context.Context, ownerID int64, req *CreateSuiteRequest) (*Suite, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	s := &Suite{}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO suites (name, description)
		VALUES ($1, $2)
		RETURNING id, name, description, created_at
	`, req.Name, req.Description).Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create suite: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO suite_members (suite_id, account_id, role)
		VALUES ($1, $2, $3)
	`, s.ID, ownerID, RoleOwner)
	if err != nil {
		return nil, fmt.Errorf("failed to add suite owner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit suite: %w", err)
	}
	return s, nil
}

// GetByID returns the suite or nil when it does not exist
func (r *Repository) GetByID(ctx context.Context, id int64) (*Suite, error) {
	s := &Suite{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, created_at
		FROM suites
		WHERE id = $1
	`, id).Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get suite: %w", err)
	}
	return s, nil
}

// ListByAccountID returns one page of the suites an account belongs to
func (r *Repository) ListByAccountID(ctx context.Context, accountID int64, limit, offset int) ([]*Suite, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM suite_members WHERE account_id = $1
	`, accountID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count suites: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.name, s.description, s.created_at
		FROM suites s
		JOIN suite_members sm ON s.id = sm.suite_id
		WHERE sm.account_id = $1
		ORDER BY s.created_at DESC
		LIMIT $2 OFFSET $3
	`, accountID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list suites: %w", err)
	}
	defer rows.Close()

	var suites []*Suite
	for rows.Next() {
		s := &Suite{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan suite: %w", err)
		}
		suites = append(suites, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list suites: %w", err)
	}
	return suites, total, nil
}

// Update modifies name and description, returning nil when the suite is gone
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateSuiteRequest) (*Suite, error) {
	s := &Suite{}
	err := r.db.QueryRowContext(ctx, `
		UPDATE suites
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description)
		WHERE id = $1
		RETURNING id, name, description, created_at
	`, id, req.Name, req.Description).Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update suite: %w", err)
	}
	return s, nil
}

// Delete removes a suite; members and invitations cascade
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM suites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete suite: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrSuiteNotFound
	}
	return nil
}

// AddMember inserts a membership. An existing membership is left untouched
// and returned as is; created reports whether this call inserted the row.
func (r *Repository) AddMember(ctx context.Context, suiteID, accountID int64, role Role) (*Member, bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO suite_members (suite_id, account_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (suite_id, account_id) DO NOTHING
	`, suiteID, accountID, role)
	if err != nil {
		return nil, false, fmt.Errorf("failed to add member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to add member: %w", err)
	}
	m, err := r.GetMember(ctx, suiteID, accountID)
	if err != nil {
		return nil, false, err
	}
	return m, n == 1, nil
}

const memberColumns = `
	SELECT sm.id, sm.suite_id, sm.account_id, sm.role, sm.joined_at, a.display_name, a.email
	FROM suite_members sm
	JOIN accounts a ON sm.account_id = a.id
`

func scanMember(row interface{ Scan(...any) error }) (*Member, error) {
	m := &Member{}
	err := row.Scan(&m.ID, &m.SuiteID, &m.AccountID, &m.Role, &m.JoinedAt, &m.DisplayName, &m.Email)
	return m, err
}

// GetMember returns the membership or nil
func (r *Repository) GetMember(ctx context.Context, suiteID, accountID int64) (*Member, error) {
	m, err := scanMember(r.db.QueryRowContext(ctx, memberColumns+`
		WHERE sm.suite_id = $1 AND sm.account_id = $2
	`, suiteID, accountID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// GetMembers lists the members of a suite, oldest first
func (r *Repository) GetMembers(ctx context.Context, suiteID int64) ([]*Member, error) {
	rows, err := r.db.QueryContext(ctx, memberColumns+`
		WHERE sm.suite_id = $1
		ORDER BY sm.joined_at
	`, suiteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// RemoveMember deletes a membership
func (r *Repository) RemoveMember(ctx context.Context, suiteID, accountID int64) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM suite_members WHERE suite_id = $1 AND account_id = $2
	`, suiteID, accountID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrMemberNotFound
	}
	return nil
}
