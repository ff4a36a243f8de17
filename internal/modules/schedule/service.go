package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"velopark/internal/domain"
)

type Service struct {
	assignments AssignmentRepository
	users       UserDirectory
	racks       RackRepository

	now func() time.Time
}

func NewService(assignments AssignmentRepository, users UserDirectory, racks RackRepository) *Service {
	return &Service{
		assignments: assignments,
		users:       users,
		racks:       racks,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// isOverlap reports whether two half-open minute windows intersect. Touching
// boundaries (09:00-10:00 vs 10:00-11:00) do not count as overlap.
func isOverlap(startA, endA, startB, endB int) bool {
	return startA < endB && endA > startB
}

// parseClock converts a "15:04" wall-clock string to minutes since midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: bad time %q", ErrValidation, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// datesIntersect treats a nil until as an open-ended range.
func datesIntersect(aFrom time.Time, aUntil *time.Time, bFrom time.Time, bUntil *time.Time) bool {
	if aUntil != nil && aUntil.Before(bFrom) {
		return false
	}
	if bUntil != nil && bUntil.Before(aFrom) {
		return false
	}
	return true
}

// HasConflict reports whether the candidate clashes with any active assignment
// sharing its guard or its rack on the same weekday.
func (s *Service) HasConflict(ctx context.Context, candidate *domain.GuardAssignment) (bool, error) {
	start, err := parseClock(candidate.StartTime)
	if err != nil {
		return false, err
	}
	end, err := parseClock(candidate.EndTime)
	if err != nil {
		return false, err
	}

	existing, err := s.assignments.ListActiveTouching(ctx, candidate.GuardID, candidate.RackID, candidate.DayOfWeek)
	if err != nil {
		return false, err
	}
	for i := range existing {
		other := &existing[i]
		if other.ID == candidate.ID {
			continue
		}
		if !datesIntersect(candidate.EffectiveFrom, candidate.EffectiveUntil, other.EffectiveFrom, other.EffectiveUntil) {
			continue
		}
		oStart, err := parseClock(other.StartTime)
		if err != nil {
			return false, err
		}
		oEnd, err := parseClock(other.EndTime)
		if err != nil {
			return false, err
		}
		if isOverlap(start, end, oStart, oEnd) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) CreateAssignment(ctx context.Context, req CreateAssignmentRequest) (*domain.GuardAssignment, error) {
	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		return nil, fmt.Errorf("%w: day_of_week must be 0-6", ErrValidation)
	}
	start, err := parseClock(req.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(req.EndTime)
	if err != nil {
		return nil, err
	}
	if start >= end {
		return nil, fmt.Errorf("%w: start_time must precede end_time", ErrValidation)
	}
	if req.EffectiveUntil != nil && req.EffectiveUntil.Before(req.EffectiveFrom) {
		return nil, fmt.Errorf("%w: effective_until precedes effective_from", ErrValidation)
	}

	guard, err := s.users.GetByID(ctx, req.GuardID)
	if err != nil {
		return nil, mapNotFound(err, ErrGuardNotFound)
	}
	if guard.Role != domain.RoleGuard {
		return nil, ErrNotAGuard
	}
	if _, err := s.racks.GetByID(ctx, req.RackID); err != nil {
		return nil, mapNotFound(err, ErrRackNotFound)
	}

	candidate := &domain.GuardAssignment{
		GuardID:        req.GuardID,
		RackID:         req.RackID,
		DayOfWeek:      req.DayOfWeek,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		EffectiveFrom:  req.EffectiveFrom,
		EffectiveUntil: req.EffectiveUntil,
		Status:         domain.AssignmentActive,
	}

	conflict, err := s.HasConflict(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrScheduleOverlap
	}

	if err := s.assignments.Create(ctx, candidate); err != nil {
		return nil, err
	}
	return candidate, nil
}

func (s *Service) DeactivateAssignment(ctx context.Context, id int64) (*domain.GuardAssignment, error) {
	a, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrAssignmentNotFound)
	}
	if a.Status == domain.AssignmentInactive {
		return a, nil
	}
	a.Status = domain.AssignmentInactive
	if err := s.assignments.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// AvailableGuards lists guards with no active assignment clashing with the
// given window on the given weekday. When date is zero, today is assumed for
// the effective range check.
func (s *Service) AvailableGuards(ctx context.Context, dayOfWeek int, startTime, endTime string, date time.Time) ([]GuardSummary, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, fmt.Errorf("%w: day_of_week must be 0-6", ErrValidation)
	}
	start, err := parseClock(startTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(endTime)
	if err != nil {
		return nil, err
	}
	if start >= end {
		return nil, fmt.Errorf("%w: start_time must precede end_time", ErrValidation)
	}
	if date.IsZero() {
		date = s.now()
	}

	guards, err := s.users.ListByRole(ctx, domain.RoleGuard)
	if err != nil {
		return nil, err
	}
	active, err := s.assignments.ListActiveByDay(ctx, dayOfWeek)
	if err != nil {
		return nil, err
	}

	busy := make(map[int64]bool)
	for i := range active {
		a := &active[i]
		if !datesIntersect(date, &date, a.EffectiveFrom, a.EffectiveUntil) {
			continue
		}
		aStart, err := parseClock(a.StartTime)
		if err != nil {
			continue
		}
		aEnd, err := parseClock(a.EndTime)
		if err != nil {
			continue
		}
		if isOverlap(start, end, aStart, aEnd) {
			busy[a.GuardID] = true
		}
	}

	out := make([]GuardSummary, 0, len(guards))
	for _, g := range guards {
		if busy[g.ID] {
			continue
		}
		out = append(out, GuardSummary{ID: g.ID, Name: g.Name, Email: g.Email})
	}
	return out, nil
}

func mapNotFound(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}
