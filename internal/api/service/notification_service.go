package service

import (
	"context"
	"fmt"
	"log/slog"

	"jobboard/internal/api/models"
	"jobboard/internal/api/policy"
	"jobboard/internal/api/repository"
	"jobboard/internal/cache"
)

func unreadCountKey(userID string) string {
	return fmt.Sprintf("notifications:unread:%s", userID)
}

type NotificationService interface {
	Notify(ctx context.Context, userID, notifType, title, message string, relatedID *int64) error
	List(ctx context.Context, session policy.Session, limit int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, session policy.Session) (int64, error)
	MarkAsRead(ctx context.Context, session policy.Session, notificationID int64) error
	MarkAllAsRead(ctx context.Context, session policy.Session) error
}

type notificationService struct {
	repo   repository.NotificationRepository
	cache  *cache.Cache
	logger *slog.Logger
}

func NewNotificationService(repo repository.NotificationRepository, c *cache.Cache, logger *slog.Logger) NotificationService {
	return &notificationService{repo: repo, cache: c, logger: logger}
}

// Notify appends a notification record. The error is returned, never
// swallowed: lifecycle callers fold it into their own transaction.
func (s *notificationService) Notify(ctx context.Context, userID, notifType, title, message string, relatedID *int64) error {
	notification := &models.Notification{
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		s.logger.Error("notification insert failed", "user_id", userID, "error", err)
		return ErrPersistence
	}
	s.cache.Invalidate(ctx, unreadCountKey(userID))
	return nil
}

func (s *notificationService) List(ctx context.Context, session policy.Session, limit int) ([]models.Notification, error) {
	if err := policy.Authorize(session, policy.ReadNotifications, ""); err != nil {
		return nil, ErrForbidden
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	notifications, err := s.repo.ListByUser(ctx, session.UserID, limit)
	if err != nil {
		s.logger.Error("notification listing failed", "error", err)
		return nil, ErrPersistence
	}
	return notifications, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, session policy.Session) (int64, error) {
	if err := policy.Authorize(session, policy.ReadNotifications, ""); err != nil {
		return 0, ErrForbidden
	}

	var count int64
	err := s.cache.Aside(ctx, unreadCountKey(session.UserID), &count, func() error {
		var err error
		count, err = s.repo.UnreadCount(ctx, session.UserID)
		return err
	})
	if err != nil {
		s.logger.Error("unread count failed", "error", err)
		return 0, ErrPersistence
	}
	return count, nil
}

// MarkAsRead is idempotent and scoped to the recipient: marking someone else's
// notification silently does nothing.
func (s *notificationService) MarkAsRead(ctx context.Context, session policy.Session, notificationID int64) error {
	if err := policy.Authorize(session, policy.ReadNotifications, ""); err != nil {
		return ErrForbidden
	}
	if err := s.repo.MarkAsRead(ctx, notificationID, session.UserID); err != nil {
		s.logger.Error("mark as read failed", "error", err)
		return ErrPersistence
	}
	s.cache.Invalidate(ctx, unreadCountKey(session.UserID))
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, session policy.Session) error {
	if err := policy.Authorize(session, policy.ReadNotifications, ""); err != nil {
		return ErrForbidden
	}
	if err := s.repo.MarkAllAsRead(ctx, session.UserID); err != nil {
		s.logger.Error("mark all as read failed", "error", err)
		return ErrPersistence
	}
	s.cache.Invalidate(ctx, unreadCountKey(session.UserID))
	return nil
}
