// Package models содержит доменные структуры приложения: пользователь,
// событие, токен доступа, а также вспомогательные типы для приёма данных
// из JSON-запросов до их валидации.
package models

import "time"

// Роли пользователей. Других ролей в системе нет.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет зарегистрированного пользователя системы.
// Поле PasswordHash никогда не сериализуется в ответы API.
type User struct {
	UID          string    `json:"uid"`   // Уникальный идентификатор пользователя
	Name         string    `json:"name"`  // Имя пользователя
	Email        string    `json:"email"` // Электронная почта (уникальная)
	PasswordHash string    `json:"-"`     // Bcrypt-хэш пароля
	Role         string    `json:"role"`  // Роль: admin или user
	CreatedAt    time.Time `json:"created_at"`
}
