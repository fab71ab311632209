package bot

import (
	"talonbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// choiceKeyboard строит reply-клавиатуру: по одной кнопке на строку,
// внизу — возврат в главное меню (кроме верхнего уровня).
func choiceKeyboard(labels []string, withMainMenu bool) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	for _, label := range labels {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(label),
		))
	}
	if withMainMenu {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(models.MainMenuButton),
		))
	}
	return tgbotapi.NewReplyKeyboard(rows...)
}
