package suite

import "time"

// CreateSuiteRequest is the body of POST /suites
type CreateSuiteRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// UpdateSuiteRequest is the body of PUT /suites/{id}
type UpdateSuiteRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// SuiteResponse is the API representation of a suite
type SuiteResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	CreatedAt   string            `json:"created_at"`
	Members     []*MemberResponse `json:"members,omitempty"`
}

// MemberResponse is the API representation of a member
type MemberResponse struct {
	AccountID   int64  `json:"account_id"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Role        Role   `json:"role"`
	JoinedAt    string `json:"joined_at"`
}

// ToResponse converts a Suite to its API representation
func (s *Suite) ToResponse() *SuiteResponse {
	return &SuiteResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		CreatedAt:   s.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ToResponse converts a Member to its API representation
func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		AccountID:   m.AccountID,
		DisplayName: m.DisplayName,
		Email:       m.Email,
		Role:        m.Role,
		JoinedAt:    m.JoinedAt.UTC().Format(time.RFC3339),
	}
}
