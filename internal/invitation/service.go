package invitation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fkhayef/suitekeep/internal/account"
	"github.com/fkhayef/suitekeep/internal/suite"
)

var (
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationExpired  = errors.New("invitation has expired")
	ErrInvitationRevoked  = errors.New("invitation has been revoked")
	ErrMalformedToken     = errors.New("malformed invitation token")
	ErrInvalidTTL         = errors.New("invalid invitation lifetime")
)

// MaxTTL bounds the lifetime an owner can request
const MaxTTL = 90 * 24 * time.Hour

// Store is the persistence the invitation service needs
type Store interface {
	Create(ctx context.Context, inv *Invitation) (*Invitation, error)
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	ListBySuiteID(ctx context.Context, suiteID int64) ([]*Invitation, error)
	Revoke(ctx context.Context, id int64, at time.Time) error
	IncrementRedeemed(ctx context.Context, id int64) error
}

// Suites is the part of the suite service invitations rely on
type Suites interface {
	GetByID(ctx context.Context, id int64) (*suite.Suite, error)
	RequireOwner(ctx context.Context, id, accountID int64) error
	Join(ctx context.Context, id, accountID int64, role suite.Role) (*suite.Member, bool, error)
	Owners(ctx context.Context, id int64) ([]*suite.Member, error)
}

// Accounts resolves who is joining
type Accounts interface {
	GetByID(ctx context.Context, id int64) (*account.Account, error)
}

// Notifier tells owners about new members
type Notifier interface {
	NotifyMemberJoined(ctx context.Context, recipientID, suiteID int64, suiteName, memberName string) error
}

// Redemption is the outcome of Redeem
type Redemption struct {
	Suite         *suite.Suite
	Member        *suite.Member
	AlreadyMember bool
}

// Service issues and redeems invitation tokens
type Service struct {
	store    Store
	suites   Suites
	accounts Accounts
	notifier Notifier
	ttl      time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService creates a new invitation service. ttl is the default lifetime
// of new invitations.
func NewService(store Store, suites Suites, accounts Accounts, notifier Notifier, ttl time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		suites:   suites,
		accounts: accounts,
		notifier: notifier,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Now returns the service clock's current time
func (s *Service) Now() time.Time {
	return s.now()
}

// Create issues a new invitation for a suite the caller owns
func (s *Service) Create(ctx context.Context, suiteID, callerID int64, req *CreateInvitationRequest) (*Invitation, error) {
	role := req.Role
	if role == "" {
		role = suite.RoleMember
	}
	if !role.Valid() {
		return nil, suite.ErrInvalidMemberRole
	}
	ttl := s.ttl
	if req.TTL != "" {
		d, err := time.ParseDuration(req.TTL)
		if err != nil || d <= 0 || d > MaxTTL {
			return nil, ErrInvalidTTL
		}
		ttl = d
	}

	if _, err := s.suites.GetByID(ctx, suiteID); err != nil {
		return nil, err
	}
	if err := s.suites.RequireOwner(ctx, suiteID, callerID); err != nil {
		return nil, err
	}

	inv, err := s.store.Create(ctx, &Invitation{
		SuiteID:   suiteID,
		Token:     uuid.NewString(),
		CreatedBy: callerID,
		Role:      role,
		ExpiresAt: s.now().Add(ttl),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("suite_id", suiteID).Int64("created_by", callerID).Time("expires_at", inv.ExpiresAt).Msg("invitation created")
	return inv, nil
}

// ListBySuite lists a suite's invitations; owners only
func (s *Service) ListBySuite(ctx context.Context, suiteID, callerID int64) ([]*Invitation, error) {
	if _, err := s.suites.GetByID(ctx, suiteID); err != nil {
		return nil, err
	}
	if err := s.suites.RequireOwner(ctx, suiteID, callerID); err != nil {
		return nil, err
	}
	return s.store.ListBySuiteID(ctx, suiteID)
}

// Preview returns the invitation and its suite without redeeming it
func (s *Service) Preview(ctx context.Context, token string) (*Invitation, *suite.Suite, error) {
	inv, err := s.lookup(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	st, err := s.suites.GetByID(ctx, inv.SuiteID)
	if err != nil {
		return nil, nil, err
	}
	return inv, st, nil
}

// Revoke disables an invitation; owners of its suite only
func (s *Service) Revoke(ctx context.Context, token string, callerID int64) error {
	inv, err := s.lookup(ctx, token)
	if err != nil {
		return err
	}
	if err := s.suites.RequireOwner(ctx, inv.SuiteID, callerID); err != nil {
		return err
	}
	if err := s.store.Revoke(ctx, inv.ID, s.now()); err != nil {
		return err
	}
	s.logger.Info().Int64("suite_id", inv.SuiteID).Int64("revoked_by", callerID).Msg("invitation revoked")
	return nil
}

// Redeem adds accountID to the invitation's suite. Redeeming again, or
// redeeming into a suite one already belongs to, changes nothing.
func (s *Service) Redeem(ctx context.Context, token string, accountID int64) (*Redemption, error) {
	inv, err := s.lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	switch inv.StatusAt(s.now()) {
	case StatusRevoked:
		return nil, ErrInvitationRevoked
	case StatusExpired:
		return nil, ErrInvitationExpired
	}

	st, err := s.suites.GetByID(ctx, inv.SuiteID)
	if err != nil {
		return nil, err
	}

	member, created, err := s.suites.Join(ctx, inv.SuiteID, accountID, inv.Role)
	if err != nil {
		return nil, fmt.Errorf("join suite %d: %w", inv.SuiteID, err)
	}
	if !created {
		return &Redemption{Suite: st, Member: member, AlreadyMember: true}, nil
	}
	if err := s.store.IncrementRedeemed(ctx, inv.ID); err != nil {
		s.logger.Warn().Err(err).Int64("invitation_id", inv.ID).Msg("redemption not counted")
	}

	s.logger.Info().Int64("suite_id", st.ID).Int64("account_id", accountID).Str("role", string(member.Role)).Msg("invitation redeemed")
	s.notifyOwners(ctx, st, accountID)
	return &Redemption{Suite: st, Member: member}, nil
}

// notifyOwners is best effort: a failed notification does not undo the join.
func (s *Service) notifyOwners(ctx context.Context, st *suite.Suite, accountID int64) {
	name := fmt.Sprintf("Account %d", accountID)
	if a, err := s.accounts.GetByID(ctx, accountID); err == nil {
		name = a.DisplayName
	}

	owners, err := s.suites.Owners(ctx, st.ID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("suite_id", st.ID).Msg("could not load suite owners")
		return
	}
	for _, o := range owners {
		if err := s.notifier.NotifyMemberJoined(ctx, o.AccountID, st.ID, st.Name, name); err != nil {
			s.logger.Warn().Err(err).Int64("recipient_id", o.AccountID).Msg("join notification failed")
		}
	}
}

func (s *Service) lookup(ctx context.Context, token string) (*Invitation, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, ErrMalformedToken
	}
	inv, err := s.store.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvitationNotFound
	}
	return inv, nil
}
