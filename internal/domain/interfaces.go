package domain

import (
	"context"
	"time"

	"talonbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// UserDirectory проверяет и заводит пользователей в бэкенде.
type UserDirectory interface {
	IsRegistered(ctx context.Context, telegramID int64) (bool, error)
	Register(ctx context.Context, telegramID int64) error
}

// CatalogSource отдаёт меню услуг и список отделений из бэкенда.
type CatalogSource interface {
	LoadMenu(ctx context.Context) ([]models.Group, error)
	LoadDepartments(ctx context.Context) ([]models.Department, error)
}

// TicketOffice создаёт талоны и возвращает их детали.
type TicketOffice interface {
	CreateTicket(ctx context.Context, req models.TicketRequest) (int64, error)
	GetTicket(ctx context.Context, id int64) (*models.Ticket, error)
}

// Catalog — текущий снимок меню и отделений для диспетчера.
type Catalog interface {
	Reload(ctx context.Context)
	MainEntries() []string
	GroupByName(name string) (models.Group, bool)
	OperationByName(name string) (models.Operation, bool)
	GroupOperations(groupID int64) []string
	DepartmentByAddress(address string) (models.Department, bool)
	DepartmentAddresses() []string
}

type StateRepository interface {
	GetState(ctx context.Context, userID int64) (*models.UserState, error)
	SetState(ctx context.Context, state *models.UserState) error
	ClearState(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type StateManager interface {
	GetUserState(ctx context.Context, userID int64) (*models.UserState, error)
	SetMenu(ctx context.Context, userID int64, group *models.Group) error
	SetPendingOperation(ctx context.Context, userID int64, op models.Operation) error
	ClearPendingOperation(ctx context.Context, userID int64) error
	ClearUserState(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

type TelegramService interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	SendMessage(chatID int64, text string) (tgbotapi.Message, error)
	SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}
