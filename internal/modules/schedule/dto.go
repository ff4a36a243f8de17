package schedule

import "time"

type CreateAssignmentRequest struct {
	GuardID        int64      `json:"guard_id" binding:"required"`
	RackID         int64      `json:"rack_id" binding:"required"`
	DayOfWeek      int        `json:"day_of_week"`
	StartTime      string     `json:"start_time" binding:"required"`
	EndTime        string     `json:"end_time" binding:"required"`
	EffectiveFrom  time.Time  `json:"effective_from" binding:"required"`
	EffectiveUntil *time.Time `json:"effective_until"`
}

type AvailableGuardsRequest struct {
	DayOfWeek int    `form:"day_of_week"`
	StartTime string `form:"start_time" binding:"required"`
	EndTime   string `form:"end_time" binding:"required"`
	Date      string `form:"date"`
}

type GuardSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
