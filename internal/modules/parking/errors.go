package parking

import "errors"

var (
	ErrValidation = errors.New("validation error")

	// Conflicts
	ErrDuplicateReservation = errors.New("user already holds a live reservation")
	ErrUserBusy             = errors.New("user already holds a live reservation")
	ErrNoAvailableSpace     = errors.New("no free space in rack")
	ErrSpaceNotAvailable    = errors.New("space is not free")
	ErrReservationAlreadyUsed = errors.New("reservation already used")
	ErrReservationExpired     = errors.New("reservation expired")

	// Authorization
	ErrCodeMismatch = errors.New("retrieval code mismatch")
	ErrCodeExpired  = errors.New("retrieval code expired")

	// Not found
	ErrReservationNotFound = errors.New("reservation not found")
	ErrSpaceNotFound       = errors.New("space not found")
	ErrRackNotFound        = errors.New("rack not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidBicycle      = errors.New("bicycle does not belong to user")
	ErrNoActiveOccupant    = errors.New("no active occupant on space")
)
