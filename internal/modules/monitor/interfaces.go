package monitor

import (
	"context"
	"time"

	"velopark/internal/domain"
)

type OccupancyRepository interface {
	ListOverdueOpen(ctx context.Context, now time.Time) ([]domain.OccupancyLogEntry, error)
	LockByID(ctx context.Context, id int64) (*domain.OccupancyLogEntry, error)
	Save(ctx context.Context, entry *domain.OccupancyLogEntry) error
}

type ReservationRepository interface {
	ListExpiredPending(ctx context.Context, now time.Time) ([]domain.Reservation, error)
	LockByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Save(ctx context.Context, res *domain.Reservation) error
}

type SpaceRepository interface {
	LockByID(ctx context.Context, id int64) (*domain.Space, error)
	Save(ctx context.Context, space *domain.Space) error
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type NotificationSender interface {
	SendOverstayNotice(ctx context.Context, userID int64, spaceCode string, infractionStart time.Time) error
	SendExpirationNotice(ctx context.Context, userID int64, reservationCode string) error
}

type SpacePublisher interface {
	PublishSpaceStatus(rackID, spaceID int64, spaceCode string, status domain.SpaceStatus, at time.Time)
}
