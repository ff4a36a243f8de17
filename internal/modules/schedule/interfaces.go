package schedule

import (
	"context"

	"velopark/internal/domain"
)

type AssignmentRepository interface {
	Create(ctx context.Context, a *domain.GuardAssignment) error
	Save(ctx context.Context, a *domain.GuardAssignment) error
	GetByID(ctx context.Context, id int64) (*domain.GuardAssignment, error)
	ListActiveTouching(ctx context.Context, guardID, rackID int64, dayOfWeek int) ([]domain.GuardAssignment, error)
	ListActiveByDay(ctx context.Context, dayOfWeek int) ([]domain.GuardAssignment, error)
}

type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
}

type RackRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Rack, error)
}
