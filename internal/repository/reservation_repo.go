package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"velopark/internal/domain"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	return conn(ctx, r.db).WithContext(ctx).Create(res).Error
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var res domain.Reservation
	if err := conn(ctx, r.db).WithContext(ctx).First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ReservationRepository) GetByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	var res domain.Reservation
	err := conn(ctx, r.db).WithContext(ctx).
		Where("code = ?", code).
		First(&res).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// LockByCode fetches the reservation with a row lock inside the current transaction.
func (r *ReservationRepository) LockByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	var res domain.Reservation
	err := forUpdate(conn(ctx, r.db).WithContext(ctx)).
		Where("code = ?", code).
		First(&res).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ReservationRepository) LockByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var res domain.Reservation
	if err := forUpdate(conn(ctx, r.db).WithContext(ctx)).First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ReservationRepository) Save(ctx context.Context, res *domain.Reservation) error {
	return conn(ctx, r.db).WithContext(ctx).Save(res).Error
}

// LiveBySpace returns the pending or active reservation claiming the space.
func (r *ReservationRepository) LiveBySpace(ctx context.Context, spaceID int64) (*domain.Reservation, error) {
	var res domain.Reservation
	err := conn(ctx, r.db).WithContext(ctx).
		Where("space_id = ? AND status IN ?", spaceID,
			[]domain.ReservationStatus{domain.ReservationPending, domain.ReservationActive}).
		First(&res).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// HasLive reports whether the user already holds a pending or active reservation.
func (r *ReservationRepository) HasLive(ctx context.Context, userID int64) (bool, error) {
	var n int64
	err := conn(ctx, r.db).WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("user_id = ? AND status IN ?", userID,
			[]domain.ReservationStatus{domain.ReservationPending, domain.ReservationActive}).
		Count(&n).Error
	return n > 0, err
}

// ListExpiredPending returns pending reservations whose expiry is behind now.
func (r *ReservationRepository) ListExpiredPending(ctx context.Context, now time.Time) ([]domain.Reservation, error) {
	var out []domain.Reservation
	err := conn(ctx, r.db).WithContext(ctx).
		Where("status = ? AND expires_at < ?", domain.ReservationPending, now).
		Order("expires_at ASC").
		Find(&out).Error
	return out, err
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Reservation, error) {
	var out []domain.Reservation
	err := conn(ctx, r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// IsDuplicateKey reports whether err came from a unique-index violation,
// covering both the pgx and the translated gorm paths.
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
