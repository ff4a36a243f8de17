package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"velopark/internal/domain"
)

// Service persists in-app notifications. It backs both the sweep notices and
// the lifecycle notices; delivery is a single row insert, so callers treat it
// as fire and forget.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) create(ctx context.Context, userID int64, typ domain.NotificationType, title, message string, data any) error {
	var payload []byte
	if data != nil {
		var err error
		payload, err = json.Marshal(data)
		if err != nil {
			return err
		}
	}
	return s.repo.Create(ctx, &domain.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
		Data:    payload,
	})
}

func (s *Service) SendOverstayNotice(ctx context.Context, userID int64, spaceCode string, infractionStart time.Time) error {
	return s.create(ctx, userID, domain.NotifOverstay,
		"Parking time exceeded",
		fmt.Sprintf("Your bicycle at space %s has overstayed since %s. Please pick it up.", spaceCode, infractionStart.Format(time.RFC3339)),
		map[string]any{"space_code": spaceCode, "infraction_starts_at": infractionStart},
	)
}

func (s *Service) SendExpirationNotice(ctx context.Context, userID int64, reservationCode string) error {
	return s.create(ctx, userID, domain.NotifReservationExpired,
		"Reservation expired",
		fmt.Sprintf("Reservation %s expired because no check-in happened in time. The space has been released.", reservationCode),
		map[string]any{"reservation_code": reservationCode},
	)
}

func (s *Service) NotifyReservationCreated(ctx context.Context, userID int64, reservationCode, spaceCode string, expiresAt time.Time) error {
	return s.create(ctx, userID, domain.NotifReservationCreated,
		"Space reserved",
		fmt.Sprintf("Space %s is held for you under code %s until %s.", spaceCode, reservationCode, expiresAt.Format(time.RFC3339)),
		map[string]any{"reservation_code": reservationCode, "space_code": spaceCode, "expires_at": expiresAt},
	)
}

func (s *Service) NotifyCheckoutCompleted(ctx context.Context, userID int64, spaceCode string, infractionMinutes int) error {
	msg := fmt.Sprintf("Checkout from space %s completed.", spaceCode)
	if infractionMinutes > 0 {
		msg = fmt.Sprintf("Checkout from space %s completed with %d minutes over the limit.", spaceCode, infractionMinutes)
	}
	return s.create(ctx, userID, domain.NotifCheckout,
		"Checkout completed",
		msg,
		map[string]any{"space_code": spaceCode, "infraction_minutes": infractionMinutes},
	)
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit int) ([]domain.Notification, int64, error) {
	list, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, id, userID int64) error {
	return s.repo.MarkAsRead(ctx, id, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
