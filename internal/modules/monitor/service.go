package monitor

import (
	"context"
	"log"
	"time"

	"velopark/internal/domain"
)

// Service runs the two periodic sweeps: overstay detection and pending
// reservation expiry. Each matched row is handled in its own transaction, so
// one poisoned row never blocks the rest of a sweep, and a row that loses a
// race against a guard action is simply skipped and re-examined next tick.
type Service struct {
	occupancy    OccupancyRepository
	reservations ReservationRepository
	spaces       SpaceRepository
	tx           TxManager
	notifs       NotificationSender
	events       SpacePublisher // optional

	interval time.Duration
	now      func() time.Time
}

func NewService(
	occupancy OccupancyRepository,
	reservations ReservationRepository,
	spaces SpaceRepository,
	tx TxManager,
	notifs NotificationSender,
	events SpacePublisher,
	interval time.Duration,
) *Service {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Service{
		occupancy:    occupancy,
		reservations: reservations,
		spaces:       spaces,
		tx:           tx,
		notifs:       notifs,
		events:       events,
		interval:     interval,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Run starts both sweeps on independent tickers. The expiry sweep is offset by
// half an interval so the two never fire in the same instant.
func (s *Service) Run(ctx context.Context) {
	log.Printf("monitor: starting sweeps, interval=%s", s.interval)

	go s.loop(ctx, "infraction", 0, func(ctx context.Context) (int, error) {
		return s.RunInfractionSweep(ctx)
	})
	go s.loop(ctx, "expiry", s.interval/2, func(ctx context.Context) (int, error) {
		return s.RunExpirySweep(ctx)
	})
}

func (s *Service) loop(ctx context.Context, name string, offset time.Duration, sweep func(context.Context) (int, error)) {
	if offset > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(offset):
		}
	}

	run := func() {
		n, err := sweep(ctx)
		if err != nil {
			log.Printf("monitor: %s sweep failed: %v", name, err)
			return
		}
		if n > 0 {
			log.Printf("monitor: %s sweep affected %d rows", name, n)
		}
	}

	run()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("monitor: %s sweep shutting down", name)
			return
		case <-ticker.C:
			run()
		}
	}
}

// RunInfractionSweep flags every open occupancy entry whose infraction window
// has started. The entry stays open; only its classification and the space
// status change, so re-running before checkout is a no-op.
func (s *Service) RunInfractionSweep(ctx context.Context) (int, error) {
	now := s.now()

	candidates, err := s.occupancy.ListOverdueOpen(ctx, now)
	if err != nil {
		return 0, err
	}

	flagged := 0
	for i := range candidates {
		id := candidates[i].ID

		var (
			entry *domain.OccupancyLogEntry
			space *domain.Space
			acted bool
		)
		err := s.tx.Do(ctx, func(ctx context.Context) error {
			var err error
			entry, err = s.occupancy.LockByID(ctx, id)
			if err != nil {
				return err
			}
			// Re-check under lock: a checkout or an earlier tick may have won.
			if !entry.Open() || entry.FinalStatus != domain.OccupancyUnclassified {
				return nil
			}
			if !now.After(entry.InfractionStartsAt) {
				return nil
			}

			entry.FinalStatus = domain.OccupancyTimeExceeded
			if err := s.occupancy.Save(ctx, entry); err != nil {
				return err
			}

			space, err = s.spaces.LockByID(ctx, entry.SpaceID)
			if err != nil {
				return err
			}
			if space.Status == domain.SpaceOccupied {
				space.Status = domain.SpaceTimeExceeded
				if err := s.spaces.Save(ctx, space); err != nil {
					return err
				}
			}
			acted = true
			return nil
		})
		if err != nil {
			log.Printf("monitor: infraction entry %d: %v", id, err)
			continue
		}
		if !acted {
			continue
		}

		flagged++
		s.publish(space, now)
		if err := s.notifs.SendOverstayNotice(ctx, entry.UserID, space.Code, entry.InfractionStartsAt); err != nil {
			log.Printf("monitor: overstay notice for entry %d: %v", id, err)
		}
	}
	return flagged, nil
}

// RunExpirySweep expires pending reservations past their window and frees
// their spaces, unless a concurrent checkin already claimed them.
func (s *Service) RunExpirySweep(ctx context.Context) (int, error) {
	now := s.now()

	candidates, err := s.reservations.ListExpiredPending(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range candidates {
		id := candidates[i].ID

		var (
			res   *domain.Reservation
			space *domain.Space
			acted bool
		)
		err := s.tx.Do(ctx, func(ctx context.Context) error {
			var err error
			res, err = s.reservations.LockByID(ctx, id)
			if err != nil {
				return err
			}
			// A checkin racing this sweep flips the status to active first.
			if res.Status != domain.ReservationPending || !now.After(res.ExpiresAt) {
				return nil
			}

			res.Status = domain.ReservationExpired
			if err := s.reservations.Save(ctx, res); err != nil {
				return err
			}

			space, err = s.spaces.LockByID(ctx, res.SpaceID)
			if err != nil {
				return err
			}
			if space.Status == domain.SpaceReserved {
				space.Status = domain.SpaceFree
				if err := s.spaces.Save(ctx, space); err != nil {
					return err
				}
			}
			acted = true
			return nil
		})
		if err != nil {
			log.Printf("monitor: expiry reservation %d: %v", id, err)
			continue
		}
		if !acted {
			continue
		}

		expired++
		s.publish(space, now)
		if err := s.notifs.SendExpirationNotice(ctx, res.UserID, res.Code); err != nil {
			log.Printf("monitor: expiration notice for reservation %d: %v", id, err)
		}
	}
	return expired, nil
}

func (s *Service) publish(space *domain.Space, at time.Time) {
	if s.events == nil || space == nil {
		return
	}
	s.events.PublishSpaceStatus(space.RackID, space.ID, space.Code, space.Status, at)
}
