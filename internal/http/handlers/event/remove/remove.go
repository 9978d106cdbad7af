package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/martynshik/event-manager/internal/authz"
	"github.com/martynshik/event-manager/internal/http/middlewarectx"
	"github.com/martynshik/event-manager/internal/http/response"
	"github.com/martynshik/event-manager/internal/lib/sl"
	"github.com/martynshik/event-manager/internal/models"
	services "github.com/martynshik/event-manager/internal/services/event"
	"github.com/martynshik/event-manager/internal/storage"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления события.
type Service interface {
	// Remove безвозвратно удаляет событие и возвращает его последнее состояние.
	Remove(ctx context.Context, actor authz.Actor, id int) (*models.Event, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid event id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid event id"))
		return
	}

	actor, ok := middlewarectx.ActorFromContext(r.Context())
	if !ok {
		log.Error("user identification missing in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	event, err := h.service.Remove(r.Context(), actor, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrEventNotFound):
			log.Info("event not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("event not found"))
		case errors.Is(err, services.ErrPermissionDenied):
			log.Info("mutation denied", slog.String("uid", actor.UID), slog.String("role", actor.Role))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("you don't have permissions"))
		default:
			log.Error("failed to remove event", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to remove event"))
		}
		return
	}

	log.Info("event removed", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"event":   event,
		"message": "event deleted successfully",
	}))
}
