package parking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"velopark/internal/domain"
	"velopark/internal/pkg/retrievalcode"
	"velopark/internal/pkg/timeutil"
	"velopark/internal/repository"
)

// Config carries the tunable windows of the lifecycle engine.
type Config struct {
	GracePeriod      time.Duration // overstay grace after estimated checkout
	PendingWindow    time.Duration // pending reservation must check in within this
	RetrievalCodeTTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		GracePeriod:      15 * time.Minute,
		PendingWindow:    30 * time.Minute,
		RetrievalCodeTTL: 24 * time.Hour,
	}
}

// Service is the space lifecycle engine. Every mutating operation runs as one
// unit of work across the space, reservation and occupancy stores; all
// preconditions are checked before the first write.
type Service struct {
	spaces       SpaceRepository
	reservations ReservationRepository
	occupancy    OccupancyRepository
	racks        RackRepository
	users        UserDirectory
	tx           TxManager
	events       SpacePublisher // optional
	notifs       Notifier       // optional
	cfg          Config

	now func() time.Time
}

func NewService(
	spaces SpaceRepository,
	reservations ReservationRepository,
	occupancy OccupancyRepository,
	racks RackRepository,
	users UserDirectory,
	tx TxManager,
	events SpacePublisher,
	notifs Notifier,
	cfg Config,
) *Service {
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = DefaultConfig().GracePeriod
	}
	if cfg.PendingWindow <= 0 {
		cfg.PendingWindow = DefaultConfig().PendingWindow
	}
	if cfg.RetrievalCodeTTL <= 0 {
		cfg.RetrievalCodeTTL = DefaultConfig().RetrievalCodeTTL
	}
	return &Service{
		spaces:       spaces,
		reservations: reservations,
		occupancy:    occupancy,
		racks:        racks,
		users:        users,
		tx:           tx,
		events:       events,
		notifs:       notifs,
		cfg:          cfg,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Reserve claims the lowest-positioned free space in the rack with a pending
// reservation that expires after the configured window.
func (s *Service) Reserve(ctx context.Context, req ReserveRequest) (*OperationResult, error) {
	now := s.now()

	if _, err := timeutil.EstimatedCheckout(now, req.Hours); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}

	ok, err := s.users.OwnsBicycle(ctx, req.UserID, req.BicycleID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidBicycle
	}

	if _, err := s.racks.GetByID(ctx, req.RackID); err != nil {
		return nil, mapNotFound(err, ErrRackNotFound)
	}

	busy, err := s.reservations.HasLive(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, ErrDuplicateReservation
	}

	code, err := retrievalcode.New(8)
	if err != nil {
		return nil, err
	}

	var (
		space *domain.Space
		res   *domain.Reservation
	)
	err = s.tx.Do(ctx, func(ctx context.Context) error {
		space, err = s.spaces.FirstFreeInRack(ctx, req.RackID)
		if err != nil {
			return mapNotFound(err, ErrNoAvailableSpace)
		}

		res = &domain.Reservation{
			Code:          code,
			UserID:        req.UserID,
			BicycleID:     req.BicycleID,
			SpaceID:       space.ID,
			DurationHours: req.Hours,
			Status:        domain.ReservationPending,
			ExpiresAt:     now.Add(s.cfg.PendingWindow),
		}
		if err := s.reservations.Create(ctx, res); err != nil {
			if repository.IsDuplicateKey(err) {
				// Lost a race against another reservation by the same user.
				return ErrDuplicateReservation
			}
			return err
		}

		space.Status = domain.SpaceReserved
		return s.spaces.Save(ctx, space)
	})
	if err != nil {
		return nil, err
	}

	s.publish(space, now)
	if s.notifs != nil {
		if err := s.notifs.NotifyReservationCreated(ctx, user.ID, res.Code, space.Code, res.ExpiresAt); err != nil {
			log.Printf("parking: reservation notice for user %d: %v", user.ID, err)
		}
	}
	return &OperationResult{Space: space, Reservation: res, User: user}, nil
}

// OccupyWithReservation converts a pending reservation into an open occupancy
// entry and issues the single-use retrieval code for checkout.
func (s *Service) OccupyWithReservation(ctx context.Context, reservationCode string) (*OperationResult, error) {
	now := s.now()

	code, err := retrievalcode.New(retrievalcode.DefaultLength)
	if err != nil {
		return nil, err
	}

	var (
		space   *domain.Space
		res     *domain.Reservation
		entry   *domain.OccupancyLogEntry
		expired bool
	)
	err = s.tx.Do(ctx, func(ctx context.Context) error {
		res, err = s.reservations.LockByCode(ctx, reservationCode)
		if err != nil {
			return mapNotFound(err, ErrReservationNotFound)
		}

		switch res.Status {
		case domain.ReservationPending:
			// proceed
		case domain.ReservationActive, domain.ReservationCompleted:
			return ErrReservationAlreadyUsed
		default:
			return ErrReservationNotFound
		}

		space, err = s.spaces.LockByID(ctx, res.SpaceID)
		if err != nil {
			return mapNotFound(err, ErrSpaceNotFound)
		}

		if now.After(res.ExpiresAt) {
			// The expiry sweep has not caught this one yet; expire it here so
			// the 30-minute window holds regardless of sweep latency. Returning
			// nil lets the cleanup commit; the caller still gets an error.
			expired = true
			res.Status = domain.ReservationExpired
			if err := s.reservations.Save(ctx, res); err != nil {
				return err
			}
			if space.Status == domain.SpaceReserved {
				space.Status = domain.SpaceFree
				return s.spaces.Save(ctx, space)
			}
			return nil
		}

		estimated, err := timeutil.EstimatedCheckout(now, res.DurationHours)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}

		entry = &domain.OccupancyLogEntry{
			SpaceID:             space.ID,
			UserID:              res.UserID,
			BicycleID:           res.BicycleID,
			ReservationID:       &res.ID,
			CheckedInAt:         now,
			EstimatedCheckoutAt: estimated,
			InfractionStartsAt:  timeutil.InfractionStart(estimated, s.cfg.GracePeriod),
		}
		if err := s.occupancy.Create(ctx, entry); err != nil {
			return err
		}

		res.Status = domain.ReservationActive
		if err := s.reservations.Save(ctx, res); err != nil {
			return err
		}

		expiresAt := now.Add(s.cfg.RetrievalCodeTTL)
		space.Status = domain.SpaceOccupied
		space.RetrievalCode = &code
		space.RetrievalCodeExpiresAt = &expiresAt
		return s.spaces.Save(ctx, space)
	})
	if err != nil {
		return nil, err
	}
	if expired {
		s.publish(space, now)
		return nil, ErrReservationExpired
	}

	user, _ := s.users.GetByID(ctx, res.UserID)
	s.publish(space, now)
	return &OperationResult{Space: space, Reservation: res, User: user, Entry: entry, RetrievalCode: code}, nil
}

// OccupyWithoutReservation handles a walk-in: a synthetic active reservation
// and the open occupancy entry are created in the same transaction.
func (s *Service) OccupyWithoutReservation(ctx context.Context, req WalkInRequest) (*OperationResult, error) {
	now := s.now()

	estimated, err := timeutil.EstimatedCheckout(now, req.Hours)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}

	busy, err := s.reservations.HasLive(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, ErrUserBusy
	}

	ok, err := s.users.OwnsBicycle(ctx, req.UserID, req.BicycleID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidBicycle
	}

	resCode, err := retrievalcode.New(8)
	if err != nil {
		return nil, err
	}
	code, err := retrievalcode.New(retrievalcode.DefaultLength)
	if err != nil {
		return nil, err
	}

	var (
		space *domain.Space
		res   *domain.Reservation
		entry *domain.OccupancyLogEntry
	)
	err = s.tx.Do(ctx, func(ctx context.Context) error {
		space, err = s.spaces.LockByID(ctx, req.SpaceID)
		if err != nil {
			return mapNotFound(err, ErrSpaceNotFound)
		}
		if space.Status != domain.SpaceFree {
			return ErrSpaceNotAvailable
		}

		res = &domain.Reservation{
			Code:          resCode,
			UserID:        req.UserID,
			BicycleID:     req.BicycleID,
			SpaceID:       space.ID,
			DurationHours: req.Hours,
			Status:        domain.ReservationActive,
			ExpiresAt:     estimated,
		}
		if err := s.reservations.Create(ctx, res); err != nil {
			if repository.IsDuplicateKey(err) {
				return ErrUserBusy
			}
			return err
		}

		entry = &domain.OccupancyLogEntry{
			SpaceID:             space.ID,
			UserID:              req.UserID,
			BicycleID:           req.BicycleID,
			ReservationID:       &res.ID,
			CheckedInAt:         now,
			EstimatedCheckoutAt: estimated,
			InfractionStartsAt:  timeutil.InfractionStart(estimated, s.cfg.GracePeriod),
		}
		if err := s.occupancy.Create(ctx, entry); err != nil {
			return err
		}

		expiresAt := now.Add(s.cfg.RetrievalCodeTTL)
		space.Status = domain.SpaceOccupied
		space.RetrievalCode = &code
		space.RetrievalCodeExpiresAt = &expiresAt
		return s.spaces.Save(ctx, space)
	})
	if err != nil {
		return nil, err
	}

	s.publish(space, now)
	return &OperationResult{Space: space, Reservation: res, User: user, Entry: entry, RetrievalCode: code}, nil
}

// Liberate closes the open occupancy entry after validating the single-use
// retrieval code, computing infraction minutes when the occupant is late.
func (s *Service) Liberate(ctx context.Context, spaceID int64, submittedCode string) (*OperationResult, error) {
	now := s.now()

	var (
		space *domain.Space
		res   *domain.Reservation
		entry *domain.OccupancyLogEntry
	)
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		space, err = s.spaces.LockByID(ctx, spaceID)
		if err != nil {
			return mapNotFound(err, ErrSpaceNotFound)
		}
		if space.Status != domain.SpaceOccupied && space.Status != domain.SpaceTimeExceeded {
			return ErrNoActiveOccupant
		}

		if space.RetrievalCode == nil || *space.RetrievalCode != submittedCode {
			return ErrCodeMismatch
		}
		if space.RetrievalCodeExpiresAt == nil || now.After(*space.RetrievalCodeExpiresAt) {
			return ErrCodeExpired
		}

		entry, err = s.occupancy.LockOpenBySpace(ctx, space.ID)
		if err != nil {
			return mapNotFound(err, ErrNoActiveOccupant)
		}

		minutes := 0
		final := domain.OccupancyCompleted
		if now.After(entry.InfractionStartsAt) {
			minutes = timeutil.ElapsedMinutes(entry.InfractionStartsAt, now)
			final = domain.OccupancyTimeExceeded
		}

		entry.CheckedOutAt = &now
		entry.InfractionMinutes = minutes
		entry.FinalStatus = final
		if err := s.occupancy.Save(ctx, entry); err != nil {
			return err
		}

		if entry.ReservationID != nil {
			res, err = s.reservations.LockByID(ctx, *entry.ReservationID)
			if err != nil {
				return err
			}
			res.Status = domain.ReservationCompleted
			if err := s.reservations.Save(ctx, res); err != nil {
				return err
			}
		}

		space.Status = domain.SpaceFree
		space.RetrievalCode = nil
		space.RetrievalCodeExpiresAt = nil
		return s.spaces.Save(ctx, space)
	})
	if err != nil {
		return nil, err
	}

	s.publish(space, now)
	if s.notifs != nil {
		if err := s.notifs.NotifyCheckoutCompleted(ctx, entry.UserID, space.Code, entry.InfractionMinutes); err != nil {
			log.Printf("parking: checkout notice for user %d: %v", entry.UserID, err)
		}
	}
	return &OperationResult{Space: space, Reservation: res, Entry: entry}, nil
}

// CancelReservation lets the owner drop a pending reservation; the claimed
// space reverts to free.
func (s *Service) CancelReservation(ctx context.Context, reservationCode string, userID int64) (*OperationResult, error) {
	now := s.now()

	var (
		space *domain.Space
		res   *domain.Reservation
	)
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.reservations.LockByCode(ctx, reservationCode)
		if err != nil {
			return mapNotFound(err, ErrReservationNotFound)
		}
		if res.UserID != userID {
			return ErrReservationNotFound
		}
		if res.Status != domain.ReservationPending {
			return ErrReservationAlreadyUsed
		}

		res.Status = domain.ReservationCancelled
		if err := s.reservations.Save(ctx, res); err != nil {
			return err
		}

		space, err = s.spaces.LockByID(ctx, res.SpaceID)
		if err != nil {
			return mapNotFound(err, ErrSpaceNotFound)
		}
		if space.Status == domain.SpaceReserved {
			space.Status = domain.SpaceFree
			if err := s.spaces.Save(ctx, space); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(space, now)
	return &OperationResult{Space: space, Reservation: res}, nil
}

// SpaceSnapshot returns the current status of a space together with its open
// occupancy entry and live reservation, if any.
func (s *Service) SpaceSnapshot(ctx context.Context, spaceID int64) (*SpaceSnapshot, error) {
	space, err := s.spaces.GetByID(ctx, spaceID)
	if err != nil {
		return nil, mapNotFound(err, ErrSpaceNotFound)
	}

	snap := &SpaceSnapshot{Space: space}

	if entry, err := s.occupancy.OpenBySpace(ctx, spaceID); err == nil {
		snap.Entry = entry
		if user, err := s.users.GetByID(ctx, entry.UserID); err == nil {
			snap.Occupant = user
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if res, err := s.reservations.LiveBySpace(ctx, spaceID); err == nil {
		snap.Reservation = res
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return snap, nil
}

// RackOccupancy aggregates per-status counts for a rack.
func (s *Service) RackOccupancy(ctx context.Context, rackID int64) (*RackSummary, error) {
	rack, err := s.racks.GetByID(ctx, rackID)
	if err != nil {
		return nil, mapNotFound(err, ErrRackNotFound)
	}

	counts, err := s.spaces.StatusCounts(ctx, rackID)
	if err != nil {
		return nil, err
	}

	sum := &RackSummary{
		Rack:         rack,
		Free:         counts[domain.SpaceFree],
		Reserved:     counts[domain.SpaceReserved],
		Occupied:     counts[domain.SpaceOccupied],
		TimeExceeded: counts[domain.SpaceTimeExceeded],
		AsOf:         s.now(),
	}
	sum.Total = sum.Free + sum.Reserved + sum.Occupied + sum.TimeExceeded
	return sum, nil
}

func (s *Service) ListRacks(ctx context.Context) ([]domain.Rack, error) {
	return s.racks.List(ctx)
}

// RackSpaces returns the rack's spaces ordered by position.
func (s *Service) RackSpaces(ctx context.Context, rackID int64) ([]domain.Space, error) {
	if _, err := s.racks.GetByID(ctx, rackID); err != nil {
		return nil, mapNotFound(err, ErrRackNotFound)
	}
	return s.spaces.ListByRack(ctx, rackID)
}

// UserReservations lists the caller's reservations, newest first.
func (s *Service) UserReservations(ctx context.Context, userID int64, limit int) ([]domain.Reservation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.reservations.ListByUser(ctx, userID, limit)
}

// ReservationByCode fetches one reservation. Callers only see their own;
// anything else reads as not found.
func (s *Service) ReservationByCode(ctx context.Context, code string, userID int64) (*domain.Reservation, error) {
	res, err := s.reservations.GetByCode(ctx, code)
	if err != nil {
		return nil, mapNotFound(err, ErrReservationNotFound)
	}
	if res.UserID != userID {
		return nil, ErrReservationNotFound
	}
	return res, nil
}

// SpaceHistory lists the most recent occupancy sessions on a space.
func (s *Service) SpaceHistory(ctx context.Context, spaceID int64, limit int) ([]domain.OccupancyLogEntry, error) {
	if _, err := s.spaces.GetByID(ctx, spaceID); err != nil {
		return nil, mapNotFound(err, ErrSpaceNotFound)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.occupancy.ListBySpace(ctx, spaceID, limit)
}

func (s *Service) publish(space *domain.Space, at time.Time) {
	if s.events == nil || space == nil {
		return
	}
	s.events.PublishSpaceStatus(space.RackID, space.ID, space.Code, space.Status, at)
}

func mapNotFound(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}
