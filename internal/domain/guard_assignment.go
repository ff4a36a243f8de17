package domain

import "time"

type GuardAssignmentStatus string

const (
	AssignmentActive   GuardAssignmentStatus = "active"
	AssignmentInactive GuardAssignmentStatus = "inactive"
)

// GuardAssignment schedules a guard on a rack for one weekday time window
// within an effective date range. Active assignments for the same guard or
// the same rack must not overlap on a shared day.
type GuardAssignment struct {
	ID        int64 `json:"id"`
	GuardID   int64 `json:"guard_id" gorm:"index"`
	RackID    int64 `json:"rack_id" gorm:"index"`
	DayOfWeek int   `json:"day_of_week"` // 0 = Sunday, matching time.Weekday

	// Wall-clock window, "15:04" format.
	StartTime string `json:"start_time" gorm:"size:8"`
	EndTime   string `json:"end_time" gorm:"size:8"`

	EffectiveFrom  time.Time             `json:"effective_from"`
	EffectiveUntil *time.Time            `json:"effective_until,omitempty"`
	Status         GuardAssignmentStatus `json:"status" gorm:"size:32;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Guard *User `json:"guard,omitempty" gorm:"foreignKey:GuardID"`
	Rack  *Rack `json:"rack,omitempty" gorm:"foreignKey:RackID"`
}
