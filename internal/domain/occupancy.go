package domain

import "time"

type OccupancyFinalStatus string

const (
	// OccupancyUnclassified marks an entry the monitor has not flagged yet.
	// Together with a nil CheckedOutAt it means "currently parked".
	OccupancyUnclassified OccupancyFinalStatus = ""
	OccupancyCompleted    OccupancyFinalStatus = "completed"
	OccupancyTimeExceeded OccupancyFinalStatus = "time_exceeded"
)

// OccupancyLogEntry records one physical parking session, checkin to checkout.
// At most one open entry (CheckedOutAt == nil) exists per space; that row is
// the canonical "who is parked here now" pointer.
type OccupancyLogEntry struct {
	ID            int64  `json:"id"`
	SpaceID       int64  `json:"space_id" gorm:"index"`
	UserID        int64  `json:"user_id" gorm:"index"`
	BicycleID     int64  `json:"bicycle_id"`
	ReservationID *int64 `json:"reservation_id,omitempty"`

	CheckedInAt         time.Time  `json:"checked_in_at"`
	EstimatedCheckoutAt time.Time  `json:"estimated_checkout_at"`
	InfractionStartsAt  time.Time  `json:"infraction_starts_at" gorm:"index"`
	CheckedOutAt        *time.Time `json:"checked_out_at,omitempty"`

	InfractionMinutes int                  `json:"infraction_minutes"`
	FinalStatus       OccupancyFinalStatus `json:"final_status,omitempty" gorm:"size:32;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Space       *Space       `json:"space,omitempty" gorm:"foreignKey:SpaceID"`
	User        *User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Reservation *Reservation `json:"reservation,omitempty" gorm:"foreignKey:ReservationID"`
}

// Open reports whether the occupant has not checked out yet.
func (e *OccupancyLogEntry) Open() bool {
	return e.CheckedOutAt == nil
}
