package parking

import (
	"time"

	"velopark/internal/domain"
)

type ReserveRequest struct {
	UserID    int64 `json:"user_id" binding:"required"`
	RackID    int64 `json:"rack_id" binding:"required"`
	BicycleID int64 `json:"bicycle_id" binding:"required"`
	Hours     int   `json:"hours" binding:"required"`
}

type CheckinRequest struct {
	ReservationCode string `json:"reservation_code" binding:"required"`
}

type WalkInRequest struct {
	SpaceID   int64 `json:"space_id" binding:"required"`
	UserID    int64 `json:"user_id" binding:"required"`
	BicycleID int64 `json:"bicycle_id" binding:"required"`
	Hours     int   `json:"hours" binding:"required"`
}

type CheckoutRequest struct {
	RetrievalCode string `json:"retrieval_code" binding:"required"`
}

// OperationResult is the common payload returned by lifecycle operations.
// RetrievalCode is only set by the two checkin operations; it is shown to the
// user once and never again.
type OperationResult struct {
	Space         *domain.Space              `json:"space"`
	Reservation   *domain.Reservation        `json:"reservation,omitempty"`
	User          *domain.User               `json:"user,omitempty"`
	Entry         *domain.OccupancyLogEntry  `json:"entry,omitempty"`
	RetrievalCode string                     `json:"retrieval_code,omitempty"`
}

// SpaceSnapshot is a read-only projection for dashboards.
type SpaceSnapshot struct {
	Space       *domain.Space             `json:"space"`
	Entry       *domain.OccupancyLogEntry `json:"entry,omitempty"`
	Reservation *domain.Reservation       `json:"reservation,omitempty"`
	Occupant    *domain.User              `json:"occupant,omitempty"`
}

type RackSummary struct {
	Rack         *domain.Rack `json:"rack"`
	Total        int64        `json:"total"`
	Free         int64        `json:"free"`
	Reserved     int64        `json:"reserved"`
	Occupied     int64        `json:"occupied"`
	TimeExceeded int64        `json:"time_exceeded"`
	AsOf         time.Time    `json:"as_of"`
}
