package repository

import (
	"context"

	"gorm.io/gorm"

	"velopark/internal/domain"
)

type SpaceRepository struct {
	db *gorm.DB
}

func NewSpaceRepository(db *gorm.DB) *SpaceRepository {
	return &SpaceRepository{db: db}
}

func (r *SpaceRepository) GetByID(ctx context.Context, id int64) (*domain.Space, error) {
	var s domain.Space
	if err := conn(ctx, r.db).WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// LockByID fetches the space with a row lock inside the current transaction.
func (r *SpaceRepository) LockByID(ctx context.Context, id int64) (*domain.Space, error) {
	var s domain.Space
	if err := forUpdate(conn(ctx, r.db).WithContext(ctx)).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// FirstFreeInRack returns the free space with the lowest position, locked.
// Ties on position resolve by code, so selection is deterministic.
func (r *SpaceRepository) FirstFreeInRack(ctx context.Context, rackID int64) (*domain.Space, error) {
	var s domain.Space
	err := forUpdate(conn(ctx, r.db).WithContext(ctx)).
		Where("rack_id = ? AND status = ?", rackID, domain.SpaceFree).
		Order("position ASC, code ASC").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SpaceRepository) Save(ctx context.Context, s *domain.Space) error {
	return conn(ctx, r.db).WithContext(ctx).Save(s).Error
}

func (r *SpaceRepository) ListByRack(ctx context.Context, rackID int64) ([]domain.Space, error) {
	var spaces []domain.Space
	err := conn(ctx, r.db).WithContext(ctx).
		Where("rack_id = ?", rackID).
		Order("position ASC, code ASC").
		Find(&spaces).Error
	return spaces, err
}

func (r *SpaceRepository) StatusCounts(ctx context.Context, rackID int64) (map[domain.SpaceStatus]int64, error) {
	type row struct {
		Status domain.SpaceStatus
		N      int64
	}
	var rows []row
	err := conn(ctx, r.db).WithContext(ctx).
		Model(&domain.Space{}).
		Select("status, COUNT(*) AS n").
		Where("rack_id = ?", rackID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.SpaceStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.N
	}
	return counts, nil
}
