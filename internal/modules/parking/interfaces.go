package parking

import (
	"context"
	"time"

	"velopark/internal/domain"
)

// SpaceRepository owns canonical space records.
type SpaceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Space, error)
	LockByID(ctx context.Context, id int64) (*domain.Space, error)
	FirstFreeInRack(ctx context.Context, rackID int64) (*domain.Space, error)
	Save(ctx context.Context, s *domain.Space) error
	ListByRack(ctx context.Context, rackID int64) ([]domain.Space, error)
	StatusCounts(ctx context.Context, rackID int64) (map[domain.SpaceStatus]int64, error)
}

// ReservationRepository owns reservation records.
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByCode(ctx context.Context, code string) (*domain.Reservation, error)
	LockByID(ctx context.Context, id int64) (*domain.Reservation, error)
	LockByCode(ctx context.Context, code string) (*domain.Reservation, error)
	LiveBySpace(ctx context.Context, spaceID int64) (*domain.Reservation, error)
	Save(ctx context.Context, res *domain.Reservation) error
	HasLive(ctx context.Context, userID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Reservation, error)
}

// OccupancyRepository owns the append-only checkin/checkout log.
type OccupancyRepository interface {
	Create(ctx context.Context, e *domain.OccupancyLogEntry) error
	Save(ctx context.Context, e *domain.OccupancyLogEntry) error
	OpenBySpace(ctx context.Context, spaceID int64) (*domain.OccupancyLogEntry, error)
	LockOpenBySpace(ctx context.Context, spaceID int64) (*domain.OccupancyLogEntry, error)
	ListBySpace(ctx context.Context, spaceID int64, limit int) ([]domain.OccupancyLogEntry, error)
}

type RackRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Rack, error)
	List(ctx context.Context) ([]domain.Rack, error)
}

type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	OwnsBicycle(ctx context.Context, userID, bicycleID int64) (bool, error)
}

// TxManager runs fn as one atomic unit of work across every repository call
// made with the context it passes in.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// SpacePublisher fans space status changes out to live dashboards.
// Implementations must never block the calling operation.
type SpacePublisher interface {
	PublishSpaceStatus(rackID, spaceID int64, spaceCode string, status domain.SpaceStatus, at time.Time)
}

// Notifier delivers user-facing notices. Fire and forget: failures are logged
// by the caller, never propagated.
type Notifier interface {
	NotifyReservationCreated(ctx context.Context, userID int64, reservationCode, spaceCode string, expiresAt time.Time) error
	NotifyCheckoutCompleted(ctx context.Context, userID int64, spaceCode string, infractionMinutes int) error
}
