package repository

import (
	"context"

	"gorm.io/gorm"

	"velopark/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return conn(ctx, r.db).WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := conn(ctx, r.db).WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := conn(ctx, r.db).WithContext(ctx).
		Where("email = ?", email).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// OwnsBicycle reports whether the bicycle exists and belongs to the user.
func (r *UserRepository) OwnsBicycle(ctx context.Context, userID, bicycleID int64) (bool, error) {
	var n int64
	err := conn(ctx, r.db).WithContext(ctx).
		Model(&domain.Bicycle{}).
		Where("id = ? AND owner_id = ?", bicycleID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) CreateBicycle(ctx context.Context, b *domain.Bicycle) error {
	return conn(ctx, r.db).WithContext(ctx).Create(b).Error
}

func (r *UserRepository) ListBicycles(ctx context.Context, ownerID int64) ([]domain.Bicycle, error) {
	var out []domain.Bicycle
	err := conn(ctx, r.db).WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *UserRepository) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	var users []domain.User
	err := conn(ctx, r.db).WithContext(ctx).
		Where("role = ?", role).
		Order("name ASC").
		Find(&users).Error
	return users, err
}
