package notification

import (
	"context"

	"velopark/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
}
