package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"velopark/internal/database"
	"velopark/internal/domain"
)

func newTestDB(t *testing.T) *TxManager {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return NewTxManager(db)
}

func seedRack(t *testing.T, m *TxManager, spaces int) *domain.Rack {
	t.Helper()

	rack := &domain.Rack{Name: "Central", Location: "Almaty"}
	require.NoError(t, m.db.Create(rack).Error)
	for p := spaces; p >= 1; p-- {
		// Inserted in reverse so ordering tests cannot pass by accident.
		require.NoError(t, m.db.Create(&domain.Space{
			RackID:   rack.ID,
			Code:     codeFor(p),
			Position: p,
			Status:   domain.SpaceFree,
		}).Error)
	}
	return rack
}

func codeFor(p int) string {
	return "A-" + string(rune('0'+p))
}

func seedUser(t *testing.T, m *TxManager, email string) *domain.User {
	t.Helper()

	u := &domain.User{Email: email, Name: "Test", Role: domain.RoleClient}
	require.NoError(t, m.db.Create(u).Error)
	return u
}

func TestReservationRepository_PartialIndexRejectsSecondLive(t *testing.T) {
	m := newTestDB(t)
	ctx := context.Background()

	user := seedUser(t, m, "one@example.com")
	rack := seedRack(t, m, 2)
	repo := NewReservationRepository(m.db)

	spaces := NewSpaceRepository(m.db)
	first, err := spaces.FirstFreeInRack(ctx, rack.ID)
	require.NoError(t, err)

	err = repo.Create(ctx, &domain.Reservation{
		Code: "RSV00001", UserID: user.ID, SpaceID: first.ID,
		DurationHours: 2, Status: domain.ReservationPending,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	})
	require.NoError(t, err)

	err = repo.Create(ctx, &domain.Reservation{
		Code: "RSV00002", UserID: user.ID, SpaceID: first.ID,
		DurationHours: 2, Status: domain.ReservationActive,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	})
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err), "expected duplicate key, got %v", err)

	// A finished reservation does not block a new live one.
	require.NoError(t, m.db.Model(&domain.Reservation{}).
		Where("code = ?", "RSV00001").
		Update("status", domain.ReservationCompleted).Error)

	err = repo.Create(ctx, &domain.Reservation{
		Code: "RSV00003", UserID: user.ID, SpaceID: first.ID,
		DurationHours: 2, Status: domain.ReservationPending,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	})
	assert.NoError(t, err)
}

func TestSpaceRepository_FirstFreeInRackPicksLowestPosition(t *testing.T) {
	m := newTestDB(t)
	ctx := context.Background()

	rack := seedRack(t, m, 3)
	spaces := NewSpaceRepository(m.db)

	first, err := spaces.FirstFreeInRack(ctx, rack.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Position)

	first.Status = domain.SpaceOccupied
	require.NoError(t, spaces.Save(ctx, first))

	next, err := spaces.FirstFreeInRack(ctx, rack.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, next.Position)
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	m := newTestDB(t)
	ctx := context.Background()

	rack := seedRack(t, m, 1)
	spaces := NewSpaceRepository(m.db)

	boom := errors.New("boom")
	err := m.Do(ctx, func(ctx context.Context) error {
		sp, err := spaces.FirstFreeInRack(ctx, rack.ID)
		if err != nil {
			return err
		}
		sp.Status = domain.SpaceReserved
		if err := spaces.Save(ctx, sp); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	sp, err := spaces.FirstFreeInRack(ctx, rack.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SpaceFree, sp.Status)
}

func TestTxManager_NestedDoJoinsOuterTx(t *testing.T) {
	m := newTestDB(t)
	ctx := context.Background()

	rack := seedRack(t, m, 1)
	spaces := NewSpaceRepository(m.db)

	boom := errors.New("boom")
	err := m.Do(ctx, func(ctx context.Context) error {
		return m.Do(ctx, func(ctx context.Context) error {
			sp, err := spaces.FirstFreeInRack(ctx, rack.ID)
			if err != nil {
				return err
			}
			sp.Status = domain.SpaceOccupied
			if err := spaces.Save(ctx, sp); err != nil {
				return err
			}
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	sp, err := spaces.FirstFreeInRack(ctx, rack.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SpaceFree, sp.Status)
}

func TestOccupancyRepository_OpenAndOverdueSelection(t *testing.T) {
	m := newTestDB(t)
	ctx := context.Background()

	user := seedUser(t, m, "occ@example.com")
	rack := seedRack(t, m, 2)
	spaces := NewSpaceRepository(m.db)
	occ := NewOccupancyRepository(m.db)

	first, err := spaces.FirstFreeInRack(ctx, rack.ID)
	require.NoError(t, err)

	now := time.Now().UTC()
	entry := &domain.OccupancyLogEntry{
		SpaceID:             first.ID,
		UserID:              user.ID,
		CheckedInAt:         now.Add(-3 * time.Hour),
		EstimatedCheckoutAt: now.Add(-1 * time.Hour),
		InfractionStartsAt:  now.Add(-45 * time.Minute),
	}
	require.NoError(t, occ.Create(ctx, entry))

	open, err := occ.OpenBySpace(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, open.ID)
	assert.True(t, open.Open())

	overdue, err := occ.ListOverdueOpen(ctx, now)
	require.NoError(t, err)
	require.Len(t, overdue, 1)

	// Classified entries drop out of the overdue selection.
	entry.FinalStatus = domain.OccupancyTimeExceeded
	require.NoError(t, occ.Save(ctx, entry))

	overdue, err = occ.ListOverdueOpen(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, overdue)

	// Closing the entry ends the open pointer.
	checkedOut := now
	entry.CheckedOutAt = &checkedOut
	require.NoError(t, occ.Save(ctx, entry))

	_, err = occ.OpenBySpace(ctx, first.ID)
	assert.Error(t, err)
}

func TestReservationRepository_ListExpiredPending(t *testing.T) {
	m := newTestDB(t)
	ctx := context.Background()

	user := seedUser(t, m, "exp@example.com")
	other := seedUser(t, m, "other@example.com")
	rack := seedRack(t, m, 2)
	repo := NewReservationRepository(m.db)
	spaces := NewSpaceRepository(m.db)

	first, err := spaces.FirstFreeInRack(ctx, rack.ID)
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, &domain.Reservation{
		Code: "RSVOLD01", UserID: user.ID, SpaceID: first.ID,
		DurationHours: 2, Status: domain.ReservationPending,
		ExpiresAt: now.Add(-1 * time.Minute),
	}))
	require.NoError(t, repo.Create(ctx, &domain.Reservation{
		Code: "RSVNEW01", UserID: other.ID, SpaceID: first.ID,
		DurationHours: 2, Status: domain.ReservationPending,
		ExpiresAt: now.Add(10 * time.Minute),
	}))

	expired, err := repo.ListExpiredPending(ctx, now)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "RSVOLD01", expired[0].Code)
}
