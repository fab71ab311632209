package models

const (
	// MainMenuButton — кнопка и текстовая команда возврата в главное меню.
	MainMenuButton = "⬅️ Главное меню"
)

const (
	// DefaultStateTTL время жизни состояния пользователя в Redis
	DefaultStateTTL = 24 * 60 * 60 // 24 часа в секундах

	// RateLimitMessages количество сообщений в окне
	RateLimitMessages = 20

	// RateLimitWindow окно ограничения частоты сообщений
	RateLimitWindow = 60 // 1 минута в секундах
)
