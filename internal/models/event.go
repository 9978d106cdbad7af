package models

import "time"

// Event представляет собой основную модель события,
// используемую в бизнес-логике и хранилище.
// Поле UserUID хранит uid создателя и служит только для атрибуции:
// права доступа определяются ролью, а не владением.
type Event struct {
	ID          int       `json:"id"`          // Системный идентификатор
	Title       string    `json:"title"`       // Название события
	Description string    `json:"description"` // Описание события
	Date        time.Time `json:"date"`        // Календарная дата проведения
	UserUID     *string   `json:"user_uid"`    // UID создателя (может быть nil)
	CreatedAt   time.Time `json:"created_at"`
}

// DummyEvent используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Event.
// Дата приходит строкой, чтобы её можно было валидировать и парсить вручную.
type DummyEvent struct {
	Title       string `json:"title" validate:"required,min=5"`       // Название (не короче 5 символов)
	Description string `json:"description" validate:"required,min=5"` // Описание (не короче 5 символов)
	Date        string `json:"date" validate:"required"`              // Дата в формате 2006-01-02
}

// EventDateLayout формат календарной даты события в запросах.
const EventDateLayout = "2006-01-02"
