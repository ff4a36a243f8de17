package auth

import (
	"context"
	"testing"

	"velopark/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if u != nil {
		u.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) CreateBicycle(ctx context.Context, b *domain.Bicycle) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockUserRepository) ListBicycles(ctx context.Context, ownerID int64) ([]domain.Bicycle, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bicycle), args.Error(1)
}

type fakeJWT struct{}

func (fakeJWT) GenerateToken(userID int64, role string) (string, error) {
	return "token", nil
}

func TestService_Register_Success(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUsers.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(mockUsers, fakeJWT{})

	user, err := service.Register(context.Background(), RegisterRequest{
		Name:     "New User",
		Email:    "New@Example.com",
		Password: "secret1",
	})

	assert.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, domain.RoleClient, user.Role)
	assert.Empty(t, user.PasswordHash)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "taken@example.com").Return(&domain.User{ID: 1}, nil)

	service := NewService(mockUsers, fakeJWT{})

	_, err := service.Register(context.Background(), RegisterRequest{
		Name:     "Someone",
		Email:    "taken@example.com",
		Password: "secret1",
	})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	mockUsers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Login_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "user@example.com").Return(&domain.User{
		ID:           1,
		Email:        "user@example.com",
		PasswordHash: string(hash),
	}, nil)

	service := NewService(mockUsers, fakeJWT{})

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_Success(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByEmail", mock.Anything, "user@example.com").Return(&domain.User{
		ID:           1,
		Email:        "user@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleClient,
	}, nil)

	service := NewService(mockUsers, fakeJWT{})

	result, err := service.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "correct",
	})

	assert.NoError(t, err)
	assert.Equal(t, "token", result.AccessToken)
	assert.Empty(t, result.User.PasswordHash)
}
