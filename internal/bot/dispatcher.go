package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"talonbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// handleMessage сопоставляет текст сообщения с ветками в фиксированном
// порядке: команда навигации, название группы, название услуги, адрес
// отделения, иначе — «не понимаю». Порядок важен: он определяет, чем
// считается совпавший текст.
func (b *Bot) handleMessage(ctx context.Context, update tgbotapi.Update) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)
	l := zerolog.Ctx(ctx)

	l.Debug().
		Int64("user_id", userID).
		Str("username", update.Message.From.UserName).
		Str("text", text).
		Msg("Handling message")

	lower := strings.ToLower(text)

	switch {
	case text == "/start" || lower == "сброс" || lower == "reset":
		b.handleStart(ctx, userID, chatID)

	case text == models.MainMenuButton:
		b.goToMainMenu(ctx, userID, chatID)

	default:
		if group, ok := b.catalog.GroupByName(text); ok {
			b.enterGroup(ctx, userID, chatID, group)
			return
		}

		if op, ok := b.catalog.OperationByName(text); ok {
			b.chooseOperation(ctx, userID, chatID, op)
			return
		}

		if dept, ok := b.catalog.DepartmentByAddress(text); ok {
			b.chooseDepartment(ctx, userID, chatID, dept)
			return
		}

		b.sendMessage(chatID, msgDontUnderstand)
	}
}

// handleStart — регистрация и показ главного меню.
// Уже зарегистрированный пользователь (ответ 200) повторно не регистрируется.
// Ошибка проверки трактуется как «не зарегистрирован».
func (b *Bot) handleStart(ctx context.Context, userID, chatID int64) {
	l := zerolog.Ctx(ctx)

	registered, err := b.users.IsRegistered(ctx, userID)
	if err != nil {
		l.Warn().Err(err).Int64("user_id", userID).Msg("Registration check failed, treating as unregistered")
		registered = false
	}

	if !registered {
		if err := b.users.Register(ctx, userID); err != nil {
			l.Error().Err(err).Int64("user_id", userID).Msg("Registration failed")
			b.sendMessage(chatID, msgRegistrationFailed)
			return
		}
		l.Info().Int64("user_id", userID).Msg("User registered")
	}

	b.catalog.Reload(ctx)

	if err := b.stateService.ClearUserState(ctx, userID); err != nil {
		l.Error().Err(err).Int64("user_id", userID).Msg("Failed to clear user state")
	}

	b.showMainMenu(ctx, userID, chatID, msgWelcome)
}

// goToMainMenu возвращает пользователя в главное меню из любого состояния.
// Отложенный выбор услуги при этом считается брошенным и сбрасывается.
func (b *Bot) goToMainMenu(ctx context.Context, userID, chatID int64) {
	l := zerolog.Ctx(ctx)

	if err := b.stateService.ClearPendingOperation(ctx, userID); err != nil {
		l.Error().Err(err).Int64("user_id", userID).Msg("Failed to clear pending operation")
	}

	b.showMainMenu(ctx, userID, chatID, msgChooseGroup)
}

func (b *Bot) showMainMenu(ctx context.Context, userID, chatID int64, text string) {
	l := zerolog.Ctx(ctx)

	if err := b.stateService.SetMenu(ctx, userID, nil); err != nil {
		l.Error().Err(err).Int64("user_id", userID).Msg("Failed to set main menu state")
	}

	entries := b.catalog.MainEntries()
	if len(entries) == 0 {
		// каталог пуст (меню не загрузилось) — меню показать нечем
		b.sendMessage(chatID, text)
		return
	}

	// верхний уровень — единственный экран без кнопки возврата
	b.sendChoices(chatID, text, entries, false)
}

// enterGroup переводит пользователя в группу и показывает её услуги.
func (b *Bot) enterGroup(ctx context.Context, userID, chatID int64, group models.Group) {
	l := zerolog.Ctx(ctx)

	if err := b.stateService.SetMenu(ctx, userID, &group); err != nil {
		l.Error().Err(err).Int64("user_id", userID).Msg("Failed to set group state")
	}

	b.sendChoices(chatID, msgChooseOperation, b.catalog.GroupOperations(group.ID), true)
}

// chooseOperation запоминает услугу и предлагает выбрать отделение.
// Позиция в меню не меняется: пользователь остаётся «внутри» группы,
// её название нужно для проверки поддержки отделением.
func (b *Bot) chooseOperation(ctx context.Context, userID, chatID int64, op models.Operation) {
	l := zerolog.Ctx(ctx)

	if err := b.stateService.SetPendingOperation(ctx, userID, op); err != nil {
		l.Error().Err(err).Int64("user_id", userID).Msg("Failed to set pending operation")
	}

	b.sendChoices(chatID, msgChooseDepartment, b.catalog.DepartmentAddresses(), true)
}

// chooseDepartment сверяет отделение с текущей группой пользователя и
// при совпадении бронирует талон.
func (b *Bot) chooseDepartment(ctx context.Context, userID, chatID int64, dept models.Department) {
	l := zerolog.Ctx(ctx)

	state, err := b.stateService.GetUserState(ctx, userID)
	if err != nil {
		l.Error().Err(err).Int64("user_id", userID).Msg("Failed to get user state")
		b.sendMessage(chatID, msgBookingFailed)
		return
	}

	if !state.HasPendingOperation() {
		b.sendMessage(chatID, msgChooseOperationFirst)
		return
	}

	if !dept.Supports(state.GroupID) {
		b.sendMessage(chatID, msgDepartmentNotSupported)
		return
	}

	b.bookTicket(ctx, state, chatID, dept)
}

// bookTicket создаёт талон и показывает его детали.
// Отложенный выбор услуги сбрасывается и при успехе, и при отказе бэкенда.
func (b *Bot) bookTicket(ctx context.Context, state *models.UserState, chatID int64, dept models.Department) {
	l := zerolog.Ctx(ctx)
	userID := state.UserID

	req := models.TicketRequest{
		TelegramID:    userID,
		AppointedTime: b.now().UTC().Format(time.RFC3339),
		OperationID:   state.PendingOperationID,
		DepartmentID:  dept.ID,
	}

	ticketID, err := b.tickets.CreateTicket(ctx, req)

	if clearErr := b.stateService.ClearPendingOperation(ctx, userID); clearErr != nil {
		l.Error().Err(clearErr).Int64("user_id", userID).Msg("Failed to clear pending operation")
	}

	if err != nil {
		l.Error().Err(err).Int64("user_id", userID).Int64("operation_id", req.OperationID).Msg("Ticket creation failed")
		b.sendMessage(chatID, msgBookingFailed)
		return
	}

	l.Info().Int64("user_id", userID).Int64("ticket_id", ticketID).Msg("Ticket created")
	if b.metrics != nil {
		b.metrics.TicketsCreated.Inc()
	}

	ticket, err := b.tickets.GetTicket(ctx, ticketID)
	if err != nil {
		// талон скорее всего создан, но показать нечего — компенсации нет
		l.Error().Err(err).Int64("ticket_id", ticketID).Msg("Ticket details fetch failed")
		b.sendMessage(chatID, msgTicketDetailsUnavailable)
		return
	}

	b.sendMessage(chatID, fmt.Sprintf(msgTicketCreatedFmt,
		ticket.ID,
		ticket.Operation.Name,
		ticket.Department.Address,
		b.formatter.FormatAppointedTime(ticket.AppointedTime),
	))
}

func (b *Bot) sendChoices(chatID int64, text string, labels []string, withMainMenu bool) {
	keyboard := choiceKeyboard(labels, withMainMenu)
	if len(keyboard.Keyboard) == 0 {
		b.sendMessage(chatID, text)
		return
	}
	if _, err := b.tgService.SendWithKeyboard(chatID, text, keyboard); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send keyboard")
	}
}
