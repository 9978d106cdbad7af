package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/martynshik/event-manager/internal/http/response"
	"github.com/martynshik/event-manager/internal/lib/sl"
	"github.com/martynshik/event-manager/internal/models"
	"github.com/martynshik/event-manager/internal/storage"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения события.
type Service interface {
	Read(ctx context.Context, id int) (*models.Event, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить событие
// @Description Возвращает событие по его идентификатору.
// @Security BearerAuth
// @Tags Events
// @Produce  json
// @Param id path int true "ID события"
// @Success 200 {object} map[string]any "Событие"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не аутентифицирован"
// @Failure 404 {object} response.ErrorResponse "Событие не найдено"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /events/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.read"

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

	event, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrEventNotFound) {
			log.Info("event not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("event not found"))
			return
		}
		log.Error("failed to read event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read event"))
		return
	}

	log.Info("event read", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"event": event,
	}))
}
