package auth

import (
	"context"

	"velopark/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateBicycle(ctx context.Context, b *domain.Bicycle) error
	ListBicycles(ctx context.Context, ownerID int64) ([]domain.Bicycle, error)
}
