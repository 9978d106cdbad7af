package models

import "time"

// AccessToken представляет запись о выданном токене доступа.
// Сам JWT в базе не хранится: хранится его jti, по которому
// middleware проверяет, что токен не был отозван. Logout удаляет
// все записи пользователя разом, что гасит все его сессии.
type AccessToken struct {
	ID        int       `json:"id"`
	UserUID   string    `json:"user_uid"`
	Name      string    `json:"name"` // Метка токена: email на момент выдачи
	JTI       string    `json:"jti"`
	CreatedAt time.Time `json:"created_at"`
}
