package account

import "time"

// Account is a person who can own or join suites
type Account struct {
	ID          int64     `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateAccountRequest is the body of POST /accounts
type CreateAccountRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// AccountResponse is the API representation of an account
type AccountResponse struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	CreatedAt   string `json:"created_at"`
}

// ToResponse converts an Account to its API representation
func (a *Account) ToResponse() *AccountResponse {
	return &AccountResponse{
		ID:          a.ID,
		DisplayName: a.DisplayName,
		Email:       a.Email,
		CreatedAt:   a.CreatedAt.UTC().Format(time.RFC3339),
	}
}
