package models

// UserState — позиция пользователя в меню и отложенный выбор услуги.
// Состояние ключуется по ID группы, а не по её названию: две группы с
// одинаковым названием не должны смешивать навигацию.
type UserState struct {
	UserID int64 `json:"user_id"`

	// GroupID == 0 означает главное меню.
	GroupID   int64  `json:"group_id"`
	GroupName string `json:"group_name"`

	// Выбранная услуга, ожидающая выбора отделения.
	// Сбрасывается после успешного бронирования и после окончательного отказа.
	PendingOperationID   int64  `json:"pending_operation_id"`
	PendingOperationName string `json:"pending_operation_name"`
}

// AtMainMenu сообщает, находится ли пользователь в главном меню.
// Отсутствующее состояние равносильно главному меню.
func (s *UserState) AtMainMenu() bool {
	return s == nil || s.GroupID == 0
}

// HasPendingOperation сообщает, выбрана ли услуга, ожидающая отделения.
func (s *UserState) HasPendingOperation() bool {
	return s != nil && s.PendingOperationID != 0
}
