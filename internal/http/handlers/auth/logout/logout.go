package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/martynshik/event-manager/internal/http/middlewarectx"
	"github.com/martynshik/event-manager/internal/http/response"
	"github.com/martynshik/event-manager/internal/lib/sl"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выхода.
type Service interface {
	// Logout отзывает все токены пользователя и возвращает число отозванных.
	Logout(ctx context.Context, userUID string) (int, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP отзывает все токены текущего пользователя.
// После успешного ответа недействительны и все его параллельные сессии.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.ActorFromContext(r.Context())
	if !ok {
		log.Error("user identification missing in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	count, err := h.service.Logout(r.Context(), actor.UID)
	if err != nil {
		log.Error("failed to logout", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to logout"))
		return
	}

	log.Info("logout success", slog.String("uid", actor.UID), slog.Int("revoked", count))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"revoked_count": count,
		"message":       "logout successful",
	}))
}
