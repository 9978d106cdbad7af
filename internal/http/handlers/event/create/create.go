// Package create реализует HTTP-обработчик для создания события.
//
// Запрос декодируется в models.DummyEvent, проходит валидацию полей и
// передаётся сервису событий. Право на мутацию проверяет сервис: при отказе
// политики обработчик отвечает 403 без каких-либо изменений в хранилище.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/martynshik/event-manager/internal/authz"
	"github.com/martynshik/event-manager/internal/http/middlewarectx"
	"github.com/martynshik/event-manager/internal/http/response"
	"github.com/martynshik/event-manager/internal/lib/sl"
	"github.com/martynshik/event-manager/internal/models"
	services "github.com/martynshik/event-manager/internal/services/event"
)

// Handler обрабатывает запросы на создание события.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания события.
type Service interface {
	Create(ctx context.Context, actor authz.Actor, req models.DummyEvent) (*models.Event, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать событие
// @Description Создает новое событие. Доступно только пользователям с ролью admin.
// @Security BearerAuth
// @Tags Events
// @Accept  json
// @Produce  json
// @Param request body models.DummyEvent true "Данные события"
// @Success 200 {object} map[string]any "Созданное событие"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не аутентифицирован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /events [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	event, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDate):
			log.Error("invalid event date", slog.String("date", req.Date))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("field Date must be a valid calendar date"))
		case errors.Is(err, services.ErrPermissionDenied):
			log.Info("mutation denied", slog.String("uid", actor.UID), slog.String("role", actor.Role))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("you don't have permissions"))
		default:
			log.Error("failed to create event", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create event"))
		}
		return
	}

	log.Info("event created", slog.Int("id", event.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"event": event,
	}))
}
