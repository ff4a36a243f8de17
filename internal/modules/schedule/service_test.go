package schedule

import (
	"context"
	"testing"
	"time"

	"velopark/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock repositories
type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) Create(ctx context.Context, a *domain.GuardAssignment) error {
	args := m.Called(ctx, a)
	if a != nil {
		a.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockAssignmentRepository) Save(ctx context.Context, a *domain.GuardAssignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssignmentRepository) GetByID(ctx context.Context, id int64) (*domain.GuardAssignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GuardAssignment), args.Error(1)
}

func (m *MockAssignmentRepository) ListActiveTouching(ctx context.Context, guardID, rackID int64, dayOfWeek int) ([]domain.GuardAssignment, error) {
	args := m.Called(ctx, guardID, rackID, dayOfWeek)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GuardAssignment), args.Error(1)
}

func (m *MockAssignmentRepository) ListActiveByDay(ctx context.Context, dayOfWeek int) ([]domain.GuardAssignment, error) {
	args := m.Called(ctx, dayOfWeek)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GuardAssignment), args.Error(1)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserDirectory) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

type MockRackRepository struct {
	mock.Mock
}

func (m *MockRackRepository) GetByID(ctx context.Context, id int64) (*domain.Rack, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rack), args.Error(1)
}

func TestIsOverlap_Symmetric(t *testing.T) {
	// 09:00-11:00 vs 10:00-12:00, in minutes
	assert.True(t, isOverlap(540, 660, 600, 720))
	assert.True(t, isOverlap(600, 720, 540, 660))
}

func TestIsOverlap_TouchingBoundariesDoNotOverlap(t *testing.T) {
	// 09:00-10:00 vs 10:00-11:00
	assert.False(t, isOverlap(540, 600, 600, 660))
	assert.False(t, isOverlap(600, 660, 540, 600))
}

func TestIsOverlap_Containment(t *testing.T) {
	// 08:00-18:00 contains 10:00-11:00
	assert.True(t, isOverlap(480, 1080, 600, 660))
	assert.True(t, isOverlap(600, 660, 480, 1080))
}

func TestService_CreateAssignment_Success(t *testing.T) {
	mockAssignments := new(MockAssignmentRepository)
	mockUsers := new(MockUserDirectory)
	mockRacks := new(MockRackRepository)

	mockUsers.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5, Role: domain.RoleGuard}, nil)
	mockRacks.On("GetByID", mock.Anything, int64(2)).Return(&domain.Rack{ID: 2}, nil)
	mockAssignments.On("ListActiveTouching", mock.Anything, int64(5), int64(2), 1).Return([]domain.GuardAssignment{}, nil)
	mockAssignments.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(mockAssignments, mockUsers, mockRacks)

	a, err := service.CreateAssignment(context.Background(), CreateAssignmentRequest{
		GuardID:       5,
		RackID:        2,
		DayOfWeek:     1,
		StartTime:     "09:00",
		EndTime:       "17:00",
		EffectiveFrom: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.NoError(t, err)
	assert.NotNil(t, a)
	assert.Equal(t, domain.AssignmentActive, a.Status)
	assert.Equal(t, int64(999), a.ID)
}

func TestService_CreateAssignment_SameGuardOverlap(t *testing.T) {
	mockAssignments := new(MockAssignmentRepository)
	mockUsers := new(MockUserDirectory)
	mockRacks := new(MockRackRepository)

	mockUsers.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5, Role: domain.RoleGuard}, nil)
	mockRacks.On("GetByID", mock.Anything, int64(3)).Return(&domain.Rack{ID: 3}, nil)

	existing := []domain.GuardAssignment{{
		ID:            1,
		GuardID:       5,
		RackID:        2, // different rack, same guard
		DayOfWeek:     1,
		StartTime:     "08:00",
		EndTime:       "12:00",
		EffectiveFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:        domain.AssignmentActive,
	}}
	mockAssignments.On("ListActiveTouching", mock.Anything, int64(5), int64(3), 1).Return(existing, nil)

	service := NewService(mockAssignments, mockUsers, mockRacks)

	_, err := service.CreateAssignment(context.Background(), CreateAssignmentRequest{
		GuardID:       5,
		RackID:        3,
		DayOfWeek:     1,
		StartTime:     "11:00",
		EndTime:       "15:00",
		EffectiveFrom: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, ErrScheduleOverlap)
	mockAssignments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_CreateAssignment_TouchingWindowsAllowed(t *testing.T) {
	mockAssignments := new(MockAssignmentRepository)
	mockUsers := new(MockUserDirectory)
	mockRacks := new(MockRackRepository)

	mockUsers.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5, Role: domain.RoleGuard}, nil)
	mockRacks.On("GetByID", mock.Anything, int64(2)).Return(&domain.Rack{ID: 2}, nil)

	existing := []domain.GuardAssignment{{
		ID:            1,
		GuardID:       5,
		RackID:        2,
		DayOfWeek:     1,
		StartTime:     "09:00",
		EndTime:       "10:00",
		EffectiveFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:        domain.AssignmentActive,
	}}
	mockAssignments.On("ListActiveTouching", mock.Anything, int64(5), int64(2), 1).Return(existing, nil)
	mockAssignments.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(mockAssignments, mockUsers, mockRacks)

	a, err := service.CreateAssignment(context.Background(), CreateAssignmentRequest{
		GuardID:       5,
		RackID:        2,
		DayOfWeek:     1,
		StartTime:     "10:00",
		EndTime:       "11:00",
		EffectiveFrom: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.NoError(t, err)
	assert.NotNil(t, a)
}

func TestService_CreateAssignment_DisjointDateRangesAllowed(t *testing.T) {
	mockAssignments := new(MockAssignmentRepository)
	mockUsers := new(MockUserDirectory)
	mockRacks := new(MockRackRepository)

	mockUsers.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5, Role: domain.RoleGuard}, nil)
	mockRacks.On("GetByID", mock.Anything, int64(2)).Return(&domain.Rack{ID: 2}, nil)

	until := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	existing := []domain.GuardAssignment{{
		ID:             1,
		GuardID:        5,
		RackID:         2,
		DayOfWeek:      1,
		StartTime:      "09:00",
		EndTime:        "17:00",
		EffectiveFrom:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EffectiveUntil: &until,
		Status:         domain.AssignmentActive,
	}}
	mockAssignments.On("ListActiveTouching", mock.Anything, int64(5), int64(2), 1).Return(existing, nil)
	mockAssignments.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(mockAssignments, mockUsers, mockRacks)

	a, err := service.CreateAssignment(context.Background(), CreateAssignmentRequest{
		GuardID:       5,
		RackID:        2,
		DayOfWeek:     1,
		StartTime:     "09:00",
		EndTime:       "17:00",
		EffectiveFrom: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.NoError(t, err)
	assert.NotNil(t, a)
}

func TestService_CreateAssignment_RejectsInvertedWindow(t *testing.T) {
	service := NewService(new(MockAssignmentRepository), new(MockUserDirectory), new(MockRackRepository))

	_, err := service.CreateAssignment(context.Background(), CreateAssignmentRequest{
		GuardID:       5,
		RackID:        2,
		DayOfWeek:     1,
		StartTime:     "17:00",
		EndTime:       "09:00",
		EffectiveFrom: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_CreateAssignment_RejectsNonGuard(t *testing.T) {
	mockAssignments := new(MockAssignmentRepository)
	mockUsers := new(MockUserDirectory)
	mockRacks := new(MockRackRepository)

	mockUsers.On("GetByID", mock.Anything, int64(9)).Return(&domain.User{ID: 9, Role: domain.RoleClient}, nil)

	service := NewService(mockAssignments, mockUsers, mockRacks)

	_, err := service.CreateAssignment(context.Background(), CreateAssignmentRequest{
		GuardID:       9,
		RackID:        2,
		DayOfWeek:     1,
		StartTime:     "09:00",
		EndTime:       "17:00",
		EffectiveFrom: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, ErrNotAGuard)
}

func TestService_AvailableGuards_FiltersBusyGuards(t *testing.T) {
	mockAssignments := new(MockAssignmentRepository)
	mockUsers := new(MockUserDirectory)
	mockRacks := new(MockRackRepository)

	guards := []domain.User{
		{ID: 5, Name: "Aidos", Email: "aidos@example.com", Role: domain.RoleGuard},
		{ID: 6, Name: "Marat", Email: "marat@example.com", Role: domain.RoleGuard},
	}
	mockUsers.On("ListByRole", mock.Anything, domain.RoleGuard).Return(guards, nil)

	active := []domain.GuardAssignment{{
		ID:            1,
		GuardID:       5,
		RackID:        2,
		DayOfWeek:     1,
		StartTime:     "09:00",
		EndTime:       "17:00",
		EffectiveFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:        domain.AssignmentActive,
	}}
	mockAssignments.On("ListActiveByDay", mock.Anything, 1).Return(active, nil)

	service := NewService(mockAssignments, mockUsers, mockRacks)

	out, err := service.AvailableGuards(context.Background(), 1, "10:00", "12:00", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))

	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, int64(6), out[0].ID)
}
