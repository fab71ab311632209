package bot

import (
	"fmt"
	"strings"
	"time"
)

var monthNames = map[string][12]string{
	"ru": {
		"января", "февраля", "марта", "апреля", "мая", "июня",
		"июля", "августа", "сентября", "октября", "ноября", "декабря",
	},
	"en": {
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
}

// DateFormatter превращает время талона из ISO-8601 в человекочитаемую
// строку с названиями месяцев выбранной локали.
type DateFormatter struct {
	months [12]string
}

func NewDateFormatter(locale string) *DateFormatter {
	months, ok := monthNames[strings.ToLower(strings.TrimSpace(locale))]
	if !ok {
		months = monthNames["ru"]
	}
	return &DateFormatter{months: months}
}

// FormatAppointedTime разбирает метку времени бэкенда (ISO-8601 без учёта
// зоны: маркер 'Z' отбрасывается) и отдаёт локализованную строку.
// Неразбираемое значение возвращается как есть.
func (f *DateFormatter) FormatAppointedTime(raw string) string {
	t, err := time.Parse("2006-01-02T15:04:05", strings.TrimSuffix(raw, "Z"))
	if err != nil {
		if t, err = time.Parse(time.RFC3339, raw); err != nil {
			return raw
		}
	}

	return fmt.Sprintf("%d %s %d, %02d:%02d", t.Day(), f.months[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}
