package notification

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotRecipient         = errors.New("not the recipient of this notification")
)

// Store is the persistence the notification service needs
type Store interface {
	Create(ctx context.Context, n *Notification) (*Notification, error)
	GetByID(ctx context.Context, id int64) (*Notification, error)
	ListByRecipientID(ctx context.Context, recipientID int64, limit, offset int, unreadOnly bool) ([]*Notification, int, error)
	MarkAsRead(ctx context.Context, id int64) error
	MarkAllAsRead(ctx context.Context, recipientID int64) error
	GetUnreadCount(ctx context.Context, recipientID int64) (int, error)
}

// Service handles notification business logic
type Service struct {
	store Store
}

// NewService creates a new notification service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ListByRecipientID returns one page of notifications
func (s *Service) ListByRecipientID(ctx context.Context, recipientID int64, page, perPage int, unreadOnly bool) ([]*Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return s.store.ListByRecipientID(ctx, recipientID, perPage, (page-1)*perPage, unreadOnly)
}

// MarkAsRead marks a notification as read on behalf of its recipient
func (s *Service) MarkAsRead(ctx context.Context, id, accountID int64) error {
	n, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n == nil {
		return ErrNotificationNotFound
	}
	if n.RecipientID != accountID {
		return ErrNotRecipient
	}
	return s.store.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all of an account's notifications as read
func (s *Service) MarkAllAsRead(ctx context.Context, accountID int64) error {
	return s.store.MarkAllAsRead(ctx, accountID)
}

// GetUnreadCount counts an account's unread notifications
func (s *Service) GetUnreadCount(ctx context.Context, accountID int64) (int, error) {
	return s.store.GetUnreadCount(ctx, accountID)
}

// NotifyMemberJoined tells a suite owner that someone joined through an invitation
func (s *Service) NotifyMemberJoined(ctx context.Context, recipientID, suiteID int64, suiteName, memberName string) error {
	_, err := s.store.Create(ctx, &Notification{
		RecipientID: recipientID,
		Kind:        KindMemberJoined,
		Message:     fmt.Sprintf("%s joined %s", memberName, suiteName),
		SuiteID:     &suiteID,
	})
	return err
}
