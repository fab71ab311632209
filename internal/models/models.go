package models

// Operation — конкретная услуга внутри группы.
type Operation struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Group — группа услуг верхнего уровня меню.
type Group struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Operations []Operation `json:"operations"`
}

// GroupRef — ссылка на группу в списке поддерживаемых отделением.
type GroupRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Department — отделение с адресом и списком групп услуг, которые оно оказывает.
type Department struct {
	ID                       int64      `json:"id"`
	Address                  string     `json:"address"`
	AvailableOperationGroups []GroupRef `json:"availableOperationGroups"`
}

// Supports сообщает, оказывает ли отделение услуги указанной группы.
func (d Department) Supports(groupID int64) bool {
	for _, ref := range d.AvailableOperationGroups {
		if ref.ID == groupID {
			return true
		}
	}
	return false
}

// RegistrationRequest — тело запроса регистрации пользователя в бэкенде.
type RegistrationRequest struct {
	TelegramID int64 `json:"telegramId"`
}

// TicketRequest — тело запроса на создание талона.
type TicketRequest struct {
	TelegramID    int64  `json:"telegramId"`
	AppointedTime string `json:"appointedTime"`
	OperationID   int64  `json:"operationId"`
	DepartmentID  int64  `json:"departmentId"`
}

// Ticket — созданный талон, как его возвращает бэкенд.
// Локально не хранится, читается только для показа пользователю.
type Ticket struct {
	ID            int64            `json:"id"`
	Operation     TicketOperation  `json:"operation"`
	Department    TicketDepartment `json:"department"`
	AppointedTime string           `json:"appointedTime"`
}

type TicketOperation struct {
	Name string `json:"name"`
}

type TicketDepartment struct {
	Address string `json:"address"`
}
