package bot

import (
	"context"
	"os"
	"time"

	"talonbot/internal/config"
	"talonbot/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Bot struct {
	tgService    domain.TelegramService
	config       *config.Config
	stateService domain.StateManager
	users        domain.UserDirectory
	catalog      domain.Catalog
	tickets      domain.TicketOffice
	formatter    *DateFormatter
	metrics      *Metrics
	logger       *zerolog.Logger

	// подменяется в тестах
	now func() time.Time
}

func NewBot(
	tgService domain.TelegramService,
	config *config.Config,
	stateService domain.StateManager,
	users domain.UserDirectory,
	catalog domain.Catalog,
	tickets domain.TicketOffice,
	formatter *DateFormatter,
	metrics *Metrics,
	logger *zerolog.Logger,
) (*Bot, error) {
	if formatter == nil {
		formatter = NewDateFormatter("")
	}

	if logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &l
	}

	return &Bot{
		tgService:    tgService,
		config:       config,
		stateService: stateService,
		users:        users,
		catalog:      catalog,
		tickets:      tickets,
		formatter:    formatter,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tgService.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.tgService.GetSelf().UserName).Msg("Authorized on account")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.processUpdate(ctx, update)
		}
	}
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()
	defer func() {
		if b.metrics != nil {
			b.metrics.UpdateProcessingTime.Observe(time.Since(start).Seconds())
		}
	}()

	// Контекст на обработку каждого обновления
	updateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	requestID := uuid.New().String()
	l := b.logger.With().Str("request_id", requestID).Logger()
	updateCtx = l.WithContext(updateCtx)

	b.withRecovery(func() {
		if update.Message == nil || update.Message.From == nil {
			return
		}
		userID := update.Message.From.ID

		if b.isBlacklisted(userID) {
			return
		}

		allowed, err := b.stateService.CheckRateLimit(updateCtx, userID, b.config.Bot.RateLimitMessages, time.Duration(b.config.Bot.RateLimitWindow)*time.Second)
		if err != nil {
			b.logger.Error().Err(err).Int64("user_id", userID).Msg("Rate limit check failed")
		} else if !allowed {
			b.logger.Warn().Int64("user_id", userID).Msg("Rate limit exceeded")
			b.sendMessage(update.Message.Chat.ID, msgRateLimited)
			return
		}

		if b.metrics != nil {
			b.metrics.MessagesProcessed.Inc()
		}

		b.handleMessage(updateCtx, update)
	})
}

func (b *Bot) withRecovery(fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			b.logger.Error().Interface("panic", rec).Msg("Recovered from panic in update handler")
		}
	}()
	fn()
}

func (b *Bot) isBlacklisted(userID int64) bool {
	for _, blacklistedID := range b.config.Blacklist {
		if userID == blacklistedID {
			return true
		}
	}
	return false
}

func (b *Bot) sendMessage(chatID int64, text string) {
	if _, err := b.tgService.SendMessage(chatID, text); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}
