package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/martynshik/event-manager/internal/authz"
	"github.com/martynshik/event-manager/internal/http/middlewarectx"
	"github.com/martynshik/event-manager/internal/http/response"
	"github.com/martynshik/event-manager/internal/lib/sl"
	"github.com/martynshik/event-manager/internal/models"
	services "github.com/martynshik/event-manager/internal/services/event"
	"github.com/martynshik/event-manager/internal/storage"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления события.
type Service interface {
	Update(ctx context.Context, actor authz.Actor, id int, req models.DummyEvent) (*models.Event, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP перезаписывает изменяемые поля события. Тело запроса полное:
// частичных обновлений нет, PUT и PATCH ведут себя одинаково.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.update"

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

	var req models.DummyEvent
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	actor, ok := middlewarectx.ActorFromContext(r.Context())
	if !ok {
		log.Error("user identification missing in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	event, err := h.service.Update(r.Context(), actor, id, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDate):
			log.Error("invalid event date", slog.String("date", req.Date))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("field Date must be a valid calendar date"))
		case errors.Is(err, storage.ErrEventNotFound):
			log.Info("event not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("event not found"))
		case errors.Is(err, services.ErrPermissionDenied):
			log.Info("mutation denied", slog.String("uid", actor.UID), slog.String("role", actor.Role))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("you don't have permissions"))
		default:
			log.Error("failed to update event", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update event"))
		}
		return
	}

	log.Info("event updated", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"event":   event,
		"message": "event updated successfully",
	}))
}
