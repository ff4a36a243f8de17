package domain

import "time"

type SpaceStatus string

const (
	SpaceFree         SpaceStatus = "free"
	SpaceReserved     SpaceStatus = "reserved"
	SpaceOccupied     SpaceStatus = "occupied"
	SpaceTimeExceeded SpaceStatus = "time_exceeded"
)

type Rack struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Spaces []Space `json:"spaces,omitempty" gorm:"foreignKey:RackID"`
}

// Space is one parking slot within a rack. Status is a cache derived from the
// live reservation / open occupancy entry; the lifecycle engine and the monitor
// are its only writers.
type Space struct {
	ID       int64       `json:"id"`
	RackID   int64       `json:"rack_id" gorm:"index;uniqueIndex:idx_spaces_rack_code,priority:1"`
	Code     string      `json:"code" gorm:"size:32;uniqueIndex:idx_spaces_rack_code,priority:2"`
	Position int         `json:"position"`
	Status   SpaceStatus `json:"status" gorm:"size:32;index"`

	// Active checkout authorization; one per space, overwritten on each checkin.
	RetrievalCode          *string    `json:"-" gorm:"size:16"`
	RetrievalCodeExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Rack *Rack `json:"rack,omitempty" gorm:"foreignKey:RackID"`
}
