package suite

import "time"

// Role is a member's permission level within a suite
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleMember Role = "MEMBER"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleMember
}

// Suite is a shared concert collection
type Suite struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Member is an account's membership in a suite
type Member struct {
	ID        int64     `json:"id"`
	SuiteID   int64     `json:"suite_id"`
	AccountID int64     `json:"account_id"`
	Role      Role      `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`

	// Populated from JOIN
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
}
