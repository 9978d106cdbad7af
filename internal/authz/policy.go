// Package authz определяет политику доступа к мутирующим операциям над событиями.
//
// Политика передаётся в сервис событий как функция, поэтому правило можно
// заменить (например, на владельческое) без изменения обработчиков.
// Чтения политика не ограничивает: для них достаточно валидного токена.
package authz

import "github.com/martynshik/event-manager/internal/models"

// Actor описывает аутентифицированного инициатора запроса.
type Actor struct {
	UID   string
	Email string
	Role  string
}

// Policy решает, разрешена ли актору мутация события.
// Event равен nil при создании, когда ресурса ещё нет.
type Policy func(actor Actor, event *models.Event) bool

// RoleAdmin политика по умолчанию: мутации разрешены только роли admin,
// независимо от того, кому принадлежит событие.
func RoleAdmin(actor Actor, _ *models.Event) bool {
	return actor.Role == models.RoleAdmin
}
