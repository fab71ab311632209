package service

import (
	"context"
	"time"

	"talonbot/internal/domain"
	"talonbot/internal/models"

	"github.com/rs/zerolog"
)

// StateService — единственная точка мутации навигационного состояния.
// Диспетчер не трогает хранилище напрямую.
type StateService struct {
	stateRepo domain.StateRepository
	logger    *zerolog.Logger
}

func NewStateService(stateRepo domain.StateRepository, logger *zerolog.Logger) *StateService {
	return &StateService{
		stateRepo: stateRepo,
		logger:    logger,
	}
}

func (s *StateService) GetUserState(ctx context.Context, userID int64) (*models.UserState, error) {
	state, err := s.stateRepo.GetState(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get user state")
		return nil, err
	}

	return state, nil
}

// SetMenu переводит пользователя в главное меню (group == nil) или в группу.
// Отложенный выбор услуги при этом сохраняется: выбор услуги не меняет
// позицию в меню, а возврат в главное меню сбрасывается отдельно.
func (s *StateService) SetMenu(ctx context.Context, userID int64, group *models.Group) error {
	state, err := s.loadOrNew(ctx, userID)
	if err != nil {
		return err
	}

	if group == nil {
		state.GroupID = 0
		state.GroupName = ""
	} else {
		state.GroupID = group.ID
		state.GroupName = group.Name
	}
	return s.stateRepo.SetState(ctx, state)
}

// SetPendingOperation запоминает выбранную услугу до выбора отделения.
func (s *StateService) SetPendingOperation(ctx context.Context, userID int64, op models.Operation) error {
	state, err := s.loadOrNew(ctx, userID)
	if err != nil {
		return err
	}

	state.PendingOperationID = op.ID
	state.PendingOperationName = op.Name
	return s.stateRepo.SetState(ctx, state)
}

// ClearPendingOperation сбрасывает отложенный выбор услуги.
// Вызывается после успешного бронирования и после окончательного отказа,
// чтобы устаревший выбор не утёк в следующее бронирование.
func (s *StateService) ClearPendingOperation(ctx context.Context, userID int64) error {
	state, err := s.stateRepo.GetState(ctx, userID)
	if err != nil {
		return err
	}
	if state == nil {
		return nil
	}

	state.PendingOperationID = 0
	state.PendingOperationName = ""
	return s.stateRepo.SetState(ctx, state)
}

func (s *StateService) ClearUserState(ctx context.Context, userID int64) error {
	return s.stateRepo.ClearState(ctx, userID)
}

func (s *StateService) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	return s.stateRepo.CheckRateLimit(ctx, userID, limit, window)
}

func (s *StateService) loadOrNew(ctx context.Context, userID int64) (*models.UserState, error) {
	state, err := s.stateRepo.GetState(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = &models.UserState{UserID: userID}
	}
	return state, nil
}
