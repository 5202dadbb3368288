package suite

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrSuiteNotFound     = errors.New("suite not found")
	ErrMemberNotFound    = errors.New("member not found")
	ErrNotMember         = errors.New("not a member of this suite")
	ErrNotOwner          = errors.New("only suite owners can do this")
	ErrOwnerCannotLeave  = errors.New("an owner cannot remove themselves")
	ErrInvalidSuiteName  = errors.New("suite name is required")
	ErrInvalidMemberRole = errors.New("invalid member role")
)

// Store is the persistence the suite service needs
type Store interface {
	Create(ctx context.Context, ownerID int64, req *CreateSuiteRequest) (*Suite, error)
	GetByID(ctx context.Context, id int64) (*Suite, error)
	ListByAccountID(ctx context.Context, accountID int64, limit, offset int) ([]*Suite, int, error)
	Update(ctx context.Context, id int64, req *UpdateSuiteRequest) (*Suite, error)
	Delete(ctx context.Context, id int64) error
	AddMember(ctx context.Context, suiteID, accountID int64, role Role) (*Member, bool, error)
	GetMember(ctx context.Context, suiteID, accountID int64) (*Member, error)
	GetMembers(ctx context.Context, suiteID int64) ([]*Member, error)
	RemoveMember(ctx context.Context, suiteID, accountID int64) error
}

// Service handles suite business logic
type Service struct {
	store Store
}

// NewService creates a new suite service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create creates a suite owned by ownerID
func (s *Service) Create(ctx context.Context, ownerID int64, req *CreateSuiteRequest) (*Suite, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, ErrInvalidSuiteName
	}
	return s.store.Create(ctx, ownerID, req)
}

// GetByID retrieves a suite without checking membership
func (s *Service) GetByID(ctx context.Context, id int64) (*Suite, error) {
	suite, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if suite == nil {
		return nil, ErrSuiteNotFound
	}
	return suite, nil
}

// GetForMember returns a suite and its members if accountID belongs to it
func (s *Service) GetForMember(ctx context.Context, id, accountID int64) (*Suite, []*Member, error) {
	suite, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.requireMember(ctx, id, accountID); err != nil {
		return nil, nil, err
	}
	members, err := s.store.GetMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return suite, members, nil
}

// ListByAccountID returns one page of the account's suites
func (s *Service) ListByAccountID(ctx context.Context, accountID int64, page, perPage int) ([]*Suite, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return s.store.ListByAccountID(ctx, accountID, perPage, (page-1)*perPage)
}

// Update renames or re-describes a suite; owners only
func (s *Service) Update(ctx context.Context, id, accountID int64, req *UpdateSuiteRequest) (*Suite, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrInvalidSuiteName
		}
		req.Name = &name
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.RequireOwner(ctx, id, accountID); err != nil {
		return nil, err
	}
	suite, err := s.store.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if suite == nil {
		return nil, ErrSuiteNotFound
	}
	return suite, nil
}

// Delete removes a suite; owners only
func (s *Service) Delete(ctx context.Context, id, accountID int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.RequireOwner(ctx, id, accountID); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// Members lists the members of a suite the caller belongs to
func (s *Service) Members(ctx context.Context, id, accountID int64) ([]*Member, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.requireMember(ctx, id, accountID); err != nil {
		return nil, err
	}
	return s.store.GetMembers(ctx, id)
}

// Owners lists the owners of a suite
func (s *Service) Owners(ctx context.Context, id int64) ([]*Member, error) {
	members, err := s.store.GetMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	owners := members[:0:0]
	for _, m := range members {
		if m.Role == RoleOwner {
			owners = append(owners, m)
		}
	}
	return owners, nil
}

// Join adds accountID to the suite. Joining a suite one already belongs to
// returns the existing membership unchanged with created set to false.
func (s *Service) Join(ctx context.Context, id, accountID int64, role Role) (member *Member, created bool, err error) {
	if !role.Valid() {
		return nil, false, ErrInvalidMemberRole
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, false, err
	}
	return s.store.AddMember(ctx, id, accountID, role)
}

// RemoveMember removes targetID from the suite. Owners may remove anyone but
// themselves; members may only remove themselves.
func (s *Service) RemoveMember(ctx context.Context, id, callerID, targetID int64) error {
	caller, err := s.requireMember(ctx, id, callerID)
	if err != nil {
		return err
	}
	switch {
	case caller.Role == RoleOwner && callerID == targetID:
		return ErrOwnerCannotLeave
	case caller.Role != RoleOwner && callerID != targetID:
		return ErrNotOwner
	}
	return s.store.RemoveMember(ctx, id, targetID)
}

// Membership returns accountID's membership, or ErrNotMember
func (s *Service) Membership(ctx context.Context, id, accountID int64) (*Member, error) {
	return s.requireMember(ctx, id, accountID)
}

// RequireOwner returns ErrNotOwner unless accountID owns the suite
func (s *Service) RequireOwner(ctx context.Context, id, accountID int64) error {
	m, err := s.requireMember(ctx, id, accountID)
	if err != nil {
		return err
	}
	if m.Role != RoleOwner {
		return ErrNotOwner
	}
	return nil
}

func (s *Service) requireMember(ctx context.Context, id, accountID int64) (*Member, error) {
	m, err := s.store.GetMember(ctx, id, accountID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotMember
	}
	return m, nil
}
