package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"talonbot/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStateRepository struct {
	mock.Mock
}

func (m *mockStateRepository) GetState(ctx context.Context, userID int64) (*models.UserState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserState), args.Error(1)
}

func (m *mockStateRepository) SetState(ctx context.Context, state *models.UserState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *mockStateRepository) ClearState(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockStateRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, userID, limit, window)
	return args.Bool(0), args.Error(1)
}

func newStateService(repo *mockStateRepository) *StateService {
	logger := zerolog.Nop()
	return NewStateService(repo, &logger)
}

func TestStateService_SetMenuEnterGroup(t *testing.T) {
	repo := new(mockStateRepository)
	svc := newStateService(repo)
	ctx := context.Background()

	repo.On("GetState", ctx, int64(1)).Return(nil, nil)
	repo.On("SetState", ctx, &models.UserState{
		UserID:    1,
		GroupID:   3,
		GroupName: "Паспортные услуги",
	}).Return(nil)

	group := &models.Group{ID: 3, Name: "Паспортные услуги"}
	require.NoError(t, svc.SetMenu(ctx, 1, group))
	repo.AssertExpectations(t)
}

func TestStateService_SetMenuMainKeepsPendingOperation(t *testing.T) {
	repo := new(mockStateRepository)
	svc := newStateService(repo)
	ctx := context.Background()

	existing := &models.UserState{
		UserID:               1,
		GroupID:              3,
		GroupName:            "Паспортные услуги",
		PendingOperationID:   42,
		PendingOperationName: "Замена паспорта",
	}
	repo.On("GetState", ctx, int64(1)).Return(existing, nil)
	repo.On("SetState", ctx, &models.UserState{
		UserID:               1,
		PendingOperationID:   42,
		PendingOperationName: "Замена паспорта",
	}).Return(nil)

	require.NoError(t, svc.SetMenu(ctx, 1, nil))
	repo.AssertExpectations(t)
}

func TestStateService_SetPendingOperation(t *testing.T) {
	repo := new(mockStateRepository)
	svc := newStateService(repo)
	ctx := context.Background()

	existing := &models.UserState{UserID: 1, GroupID: 3, GroupName: "Паспортные услуги"}
	repo.On("GetState", ctx, int64(1)).Return(existing, nil)
	repo.On("SetState", ctx, &models.UserState{
		UserID:               1,
		GroupID:              3,
		GroupName:            "Паспортные услуги",
		PendingOperationID:   42,
		PendingOperationName: "Замена паспорта",
	}).Return(nil)

	op := models.Operation{ID: 42, Name: "Замена паспорта"}
	require.NoError(t, svc.SetPendingOperation(ctx, 1, op))
	repo.AssertExpectations(t)
}

func TestStateService_ClearPendingOperation(t *testing.T) {
	t.Run("clears existing", func(t *testing.T) {
		repo := new(mockStateRepository)
		svc := newStateService(repo)
		ctx := context.Background()

		existing := &models.UserState{
			UserID:               1,
			GroupID:              3,
			GroupName:            "Паспортные услуги",
			PendingOperationID:   42,
			PendingOperationName: "Замена паспорта",
		}
		repo.On("GetState", ctx, int64(1)).Return(existing, nil)
		repo.On("SetState", ctx, &models.UserState{
			UserID:    1,
			GroupID:   3,
			GroupName: "Паспортные услуги",
		}).Return(nil)

		require.NoError(t, svc.ClearPendingOperation(ctx, 1))
		repo.AssertExpectations(t)
	})

	t.Run("no state is a no-op", func(t *testing.T) {
		repo := new(mockStateRepository)
		svc := newStateService(repo)
		ctx := context.Background()

		repo.On("GetState", ctx, int64(1)).Return(nil, nil)

		require.NoError(t, svc.ClearPendingOperation(ctx, 1))
		repo.AssertNotCalled(t, "SetState", mock.Anything, mock.Anything)
	})
}

func TestStateService_GetUserStateError(t *testing.T) {
	repo := new(mockStateRepository)
	svc := newStateService(repo)
	ctx := context.Background()

	repo.On("GetState", ctx, int64(1)).Return(nil, errors.New("storage down"))

	_, err := svc.GetUserState(ctx, 1)
	assert.Error(t, err)
}

func TestStateService_ClearUserState(t *testing.T) {
	repo := new(mockStateRepository)
	svc := newStateService(repo)
	ctx := context.Background()

	repo.On("ClearState", ctx, int64(1)).Return(nil)

	require.NoError(t, svc.ClearUserState(ctx, 1))
	repo.AssertExpectations(t)
}

func TestStateService_CheckRateLimit(t *testing.T) {
	repo := new(mockStateRepository)
	svc := newStateService(repo)
	ctx := context.Background()

	repo.On("CheckRateLimit", ctx, int64(1), 20, time.Minute).Return(true, nil)

	allowed, err := svc.CheckRateLimit(ctx, 1, 20, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}
