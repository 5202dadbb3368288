package invitation

import (
	"time"

	"github.com/fkhayef/suitekeep/internal/deeplink"
	"github.com/fkhayef/suitekeep/internal/suite"
)

// Status describes whether an invitation can still be redeemed
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusRevoked Status = "revoked"
)

// Invitation grants whoever holds its token membership in a suite
type Invitation struct {
	ID            int64      `json:"id"`
	SuiteID       int64      `json:"suite_id"`
	Token         string     `json:"token"`
	CreatedBy     int64      `json:"created_by"`
	Role          suite.Role `json:"role"`
	ExpiresAt     time.Time  `json:"expires_at"`
	RevokedAt     *time.Time `json:"revoked_at,omitempty"`
	RedeemedCount int        `json:"redeemed_count"`
	CreatedAt     time.Time  `json:"created_at"`
}

// StatusAt reports the invitation status at now
func (i *Invitation) StatusAt(now time.Time) Status {
	switch {
	case i.RevokedAt != nil:
		return StatusRevoked
	case !now.Before(i.ExpiresAt):
		return StatusExpired
	default:
		return StatusActive
	}
}

// CreateInvitationRequest is the body of POST /suites/{id}/invitations
type CreateInvitationRequest struct {
	Role suite.Role `json:"role,omitempty"`
	// TTL overrides the default lifetime, e.g. "72h"
	TTL string `json:"ttl,omitempty"`
}

// InvitationResponse is the API representation of an invitation
type InvitationResponse struct {
	Token         string     `json:"token"`
	SuiteID       int64      `json:"suite_id"`
	Role          suite.Role `json:"role"`
	Status        Status     `json:"status"`
	ExpiresAt     string     `json:"expires_at"`
	RedeemedCount int        `json:"redeemed_count"`
	Link          string     `json:"link"`
	UniversalLink string     `json:"universal_link"`
}

// PreviewResponse is what an invitee sees before accepting
type PreviewResponse struct {
	SuiteName string `json:"suite_name"`
	Status    Status `json:"status"`
	ExpiresAt string `json:"expires_at"`
}

// JoinResponse is returned after a successful redemption
type JoinResponse struct {
	SuiteID       int64      `json:"suite_id"`
	SuiteName     string     `json:"suite_name"`
	Role          suite.Role `json:"role"`
	AlreadyMember bool       `json:"already_member"`
}

// ToResponse converts an Invitation to its API representation
func (i *Invitation) ToResponse(now time.Time) *InvitationResponse {
	token := deeplink.Token(i.Token)
	return &InvitationResponse{
		Token:         i.Token,
		SuiteID:       i.SuiteID,
		Role:          i.Role,
		Status:        i.StatusAt(now),
		ExpiresAt:     i.ExpiresAt.UTC().Format(time.RFC3339),
		RedeemedCount: i.RedeemedCount,
		Link:          deeplink.InviteURL(token).String(),
		UniversalLink: deeplink.UniversalInviteURL(token).String(),
	}
}
