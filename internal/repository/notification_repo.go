package repository

import (
	"context"

	"gorm.io/gorm"

	"velopark/internal/domain"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	return conn(ctx, r.db).WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	var out []domain.Notification
	err := conn(ctx, r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := conn(ctx, r.db).WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, userID int64) error {
	return conn(ctx, r.db).WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true).Error
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID int64) error {
	return conn(ctx, r.db).WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
