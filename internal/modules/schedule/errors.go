package schedule

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrScheduleOverlap    = errors.New("assignment overlaps an existing active assignment")
	ErrGuardNotFound      = errors.New("guard not found")
	ErrNotAGuard          = errors.New("user is not a guard")
	ErrRackNotFound       = errors.New("rack not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
)
