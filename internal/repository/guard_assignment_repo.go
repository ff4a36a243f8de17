package repository

import (
	"context"

	"gorm.io/gorm"

	"velopark/internal/domain"
)

type GuardAssignmentRepository struct {
	db *gorm.DB
}

func NewGuardAssignmentRepository(db *gorm.DB) *GuardAssignmentRepository {
	return &GuardAssignmentRepository{db: db}
}

func (r *GuardAssignmentRepository) Create(ctx context.Context, a *domain.GuardAssignment) error {
	return conn(ctx, r.db).WithContext(ctx).Create(a).Error
}

func (r *GuardAssignmentRepository) Save(ctx context.Context, a *domain.GuardAssignment) error {
	return conn(ctx, r.db).WithContext(ctx).Save(a).Error
}

func (r *GuardAssignmentRepository) GetByID(ctx context.Context, id int64) (*domain.GuardAssignment, error) {
	var a domain.GuardAssignment
	if err := conn(ctx, r.db).WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// ListActiveTouching returns active assignments on the given weekday for the
// same guard or the same rack, the candidate set for conflict checking.
func (r *GuardAssignmentRepository) ListActiveTouching(ctx context.Context, guardID, rackID int64, dayOfWeek int) ([]domain.GuardAssignment, error) {
	var out []domain.GuardAssignment
	err := conn(ctx, r.db).WithContext(ctx).
		Where("status = ? AND day_of_week = ? AND (guard_id = ? OR rack_id = ?)",
			domain.AssignmentActive, dayOfWeek, guardID, rackID).
		Find(&out).Error
	return out, err
}

func (r *GuardAssignmentRepository) ListActiveByDay(ctx context.Context, dayOfWeek int) ([]domain.GuardAssignment, error) {
	var out []domain.GuardAssignment
	err := conn(ctx, r.db).WithContext(ctx).
		Where("status = ? AND day_of_week = ?", domain.AssignmentActive, dayOfWeek).
		Find(&out).Error
	return out, err
}
