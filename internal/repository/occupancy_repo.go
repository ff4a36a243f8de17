package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"velopark/internal/domain"
)

type OccupancyRepository struct {
	db *gorm.DB
}

func NewOccupancyRepository(db *gorm.DB) *OccupancyRepository {
	return &OccupancyRepository{db: db}
}

func (r *OccupancyRepository) Create(ctx context.Context, e *domain.OccupancyLogEntry) error {
	return conn(ctx, r.db).WithContext(ctx).Create(e).Error
}

func (r *OccupancyRepository) Save(ctx context.Context, e *domain.OccupancyLogEntry) error {
	return conn(ctx, r.db).WithContext(ctx).Save(e).Error
}

// LockOpenBySpace fetches the single open entry for a space, row-locked.
func (r *OccupancyRepository) LockOpenBySpace(ctx context.Context, spaceID int64) (*domain.OccupancyLogEntry, error) {
	var e domain.OccupancyLogEntry
	err := forUpdate(conn(ctx, r.db).WithContext(ctx)).
		Where("space_id = ? AND checked_out_at IS NULL", spaceID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *OccupancyRepository) OpenBySpace(ctx context.Context, spaceID int64) (*domain.OccupancyLogEntry, error) {
	var e domain.OccupancyLogEntry
	err := conn(ctx, r.db).WithContext(ctx).
		Where("space_id = ? AND checked_out_at IS NULL", spaceID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *OccupancyRepository) LockByID(ctx context.Context, id int64) (*domain.OccupancyLogEntry, error) {
	var e domain.OccupancyLogEntry
	if err := forUpdate(conn(ctx, r.db).WithContext(ctx)).First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// ListOverdueOpen returns open, still-unclassified entries whose infraction
// window started before now.
func (r *OccupancyRepository) ListOverdueOpen(ctx context.Context, now time.Time) ([]domain.OccupancyLogEntry, error) {
	var out []domain.OccupancyLogEntry
	err := conn(ctx, r.db).WithContext(ctx).
		Where("checked_out_at IS NULL AND final_status = ? AND infraction_starts_at < ?",
			domain.OccupancyUnclassified, now).
		Order("infraction_starts_at ASC").
		Find(&out).Error
	return out, err
}

func (r *OccupancyRepository) ListBySpace(ctx context.Context, spaceID int64, limit int) ([]domain.OccupancyLogEntry, error) {
	var out []domain.OccupancyLogEntry
	err := conn(ctx, r.db).WithContext(ctx).
		Where("space_id = ?", spaceID).
		Order("checked_in_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
