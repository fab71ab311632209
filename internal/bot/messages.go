package bot

// Тексты ответов пользователю. Каждая терминальная ветка диспетчера
// отправляет ровно одно сообщение.
const (
	msgWelcome                  = "Добро пожаловать! Выберите группу услуг:"
	msgChooseGroup              = "Выберите группу услуг:"
	msgChooseOperation          = "Выберите услугу:"
	msgChooseDepartment         = "Выберите отделение:"
	msgDontUnderstand           = "Я вас не понял. Пожалуйста, выберите пункт меню."
	msgRegistrationFailed       = "Не удалось завершить регистрацию. Попробуйте позже."
	msgBookingFailed            = "Не удалось создать талон. Попробуйте позже."
	msgTicketDetailsUnavailable = "Талон, похоже, создан, но его данные сейчас недоступны. Попробуйте позже."
	msgDepartmentNotSupported   = "Выбранное отделение не оказывает эту услугу. Выберите другое отделение."
	msgChooseOperationFirst     = "Сначала выберите услугу из меню."
	msgRateLimited              = "⚠️ Вы отправляете сообщения слишком часто. Пожалуйста, подождите немного."

	msgTicketCreatedFmt = "✅ Талон №%d\nУслуга: %s\nОтделение: %s\nВремя: %s"
)
