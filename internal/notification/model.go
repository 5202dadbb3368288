package notification

import "time"

// Kind is the event a notification reports
type Kind string

const KindMemberJoined Kind = "MEMBER_JOINED"

// Notification is an in-app message for one account
type Notification struct {
	ID          int64     `json:"id"`
	RecipientID int64     `json:"recipient_id"`
	Kind        Kind      `json:"kind"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read"`
	SuiteID     *int64    `json:"suite_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NotificationResponse is the API representation of a notification
type NotificationResponse struct {
	ID        int64  `json:"id"`
	Kind      Kind   `json:"kind"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	SuiteID   *int64 `json:"suite_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ToResponse converts a Notification to its API representation
func (n *Notification) ToResponse() *NotificationResponse {
	return &NotificationResponse{
		ID:        n.ID,
		Kind:      n.Kind,
		Message:   n.Message,
		IsRead:    n.IsRead,
		SuiteID:   n.SuiteID,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
	}
}
