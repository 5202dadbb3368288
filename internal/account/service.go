package account

import (
	"context"
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrEmailAlreadyInUse = errors.New("email already in use")
	ErrInvalidAccount    = errors.New("display name and a valid email are required")
)

// Store is the persistence the account service needs
type Store interface {
	Create(ctx context.Context, req *CreateAccountRequest) (*Account, error)
	GetByID(ctx context.Context, id int64) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
}

// Service handles account business logic
type Service struct {
	store Store
}

// NewService creates a new account service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create registers a new account with a unique email
func (s *Service) Create(ctx context.Context, req *CreateAccountRequest) (*Account, error) {
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	req.Email = strings.TrimSpace(req.Email)
	if req.DisplayName == "" {
		return nil, ErrInvalidAccount
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, ErrInvalidAccount
	}

	existing, err := s.store.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyInUse
	}
	return s.store.Create(ctx, req)
}

// GetByID retrieves an account by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Account, error) {
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAccountNotFound
	}
	return a, nil
}
