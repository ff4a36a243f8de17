package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"velopark/internal/domain"
)

type jwtService interface {
	GenerateToken(userID int64, role string) (string, error)
}

type Service struct {
	users UserRepository
	jwt   jwtService
}

type LoginResult struct {
	User        *domain.User
	AccessToken string
}

func NewService(users UserRepository, jwt jwtService) *Service {
	return &Service{users: users, jwt: jwt}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hashed),
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         domain.RoleClient,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &LoginResult{User: user, AccessToken: token}, nil
}

func (s *Service) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	bikes, err := s.users.ListBicycles(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	user.Bicycles = bikes
	return user, nil
}

// RegisterBicycle attaches a bicycle to the calling user so it can be used in
// reservations and walk-ins.
func (s *Service) RegisterBicycle(ctx context.Context, userID int64, req RegisterBicycleRequest) (*domain.Bicycle, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	b := &domain.Bicycle{
		OwnerID:      userID,
		Label:        req.Label,
		SerialNumber: req.SerialNumber,
		Color:        req.Color,
	}
	if err := s.users.CreateBicycle(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}
