package domain

import "time"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationActive    ReservationStatus = "active"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationExpired   ReservationStatus = "expired"
)

// IsLive reports whether the reservation still claims a space.
// A user holds at most one live reservation at any instant.
func (s ReservationStatus) IsLive() bool {
	return s == ReservationPending || s == ReservationActive
}

type Reservation struct {
	ID            int64             `json:"id"`
	Code          string            `json:"code" gorm:"uniqueIndex;size:32"`
	UserID        int64             `json:"user_id" gorm:"index"`
	BicycleID     int64             `json:"bicycle_id"`
	SpaceID       int64             `json:"space_id" gorm:"index"`
	DurationHours int               `json:"duration_hours"`
	Status        ReservationStatus `json:"status" gorm:"size:32;index"`
	ExpiresAt     time.Time         `json:"expires_at"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	// Relations
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Bicycle *Bicycle `json:"bicycle,omitempty" gorm:"foreignKey:BicycleID"`
	Space   *Space   `json:"space,omitempty" gorm:"foreignKey:SpaceID"`
}
