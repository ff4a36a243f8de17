package repository

import (
	"context"

	"gorm.io/gorm"

	"velopark/internal/domain"
)

type RackRepository struct {
	db *gorm.DB
}

func NewRackRepository(db *gorm.DB) *RackRepository {
	return &RackRepository{db: db}
}

func (r *RackRepository) GetByID(ctx context.Context, id int64) (*domain.Rack, error) {
	var rack domain.Rack
	if err := conn(ctx, r.db).WithContext(ctx).First(&rack, id).Error; err != nil {
		return nil, err
	}
	return &rack, nil
}

func (r *RackRepository) List(ctx context.Context) ([]domain.Rack, error) {
	var racks []domain.Rack
	err := conn(ctx, r.db).WithContext(ctx).Order("id ASC").Find(&racks).Error
	return racks, err
}
