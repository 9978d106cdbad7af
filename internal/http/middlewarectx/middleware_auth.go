// Package middlewarectx содержит HTTP middleware для проверки токенов доступа.
//
// AuthMiddleware проверяет наличие и валидность bearer-токена в заголовке
// Authorization: подпись и срок через jwt, отзыв — по реестру jti. В случае
// успеха в контекст кладутся email, роль и uid пользователя.
//
// В случае ошибки проверки возвращается HTTP 401 Unauthorized.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/martynshik/event-manager/internal/authz"
	"github.com/martynshik/event-manager/internal/http/response"
	"github.com/martynshik/event-manager/internal/lib/jwt"
	"github.com/martynshik/event-manager/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User — ключ для email пользователя в контексте
	User Key = "email"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
	// UserUID — ключ для uid пользователя в контексте
	UserUID Key = "user_uid"
)

// Service описывает интерфейс сервиса для валидации токена доступа.
type Service interface {
	ValidateToken(ctx context.Context, token string) (*jwt.CustomClaims, error)
}

// AuthMiddleware возвращает HTTP middleware, который проверяет bearer-токен
// в заголовке Authorization.
//
// Если токен валиден и не отозван, добавляет email, роль и uid пользователя
// в контекст запроса, иначе возвращает 401 Unauthorized.
func AuthMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AuthMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := authService.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid, expired or revoked token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), User, claims.Email)
			ctx = context.WithValue(ctx, Role, claims.Role)
			ctx = context.WithValue(ctx, UserUID, claims.UserUID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext собирает authz.Actor из значений контекста запроса.
// Возвращает false, если запрос не прошёл через AuthMiddleware.
func ActorFromContext(ctx context.Context) (authz.Actor, bool) {
	email, ok := ctx.Value(User).(string)
	if !ok || email == "" {
		return authz.Actor{}, false
	}
	role, ok := ctx.Value(Role).(string)
	if !ok || role == "" {
		return authz.Actor{}, false
	}
	uid, ok := ctx.Value(UserUID).(string)
	if !ok || uid == "" {
		return authz.Actor{}, false
	}
	return authz.Actor{UID: uid, Email: email, Role: role}, true
}
