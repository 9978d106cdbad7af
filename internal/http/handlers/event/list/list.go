package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/martynshik/event-manager/internal/http/response"
	"github.com/martynshik/event-manager/internal/lib/sl"
	"github.com/martynshik/event-manager/internal/models"
)

const defaultLimit = 10

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения списка событий.
type Service interface {
	List(ctx context.Context, limit, offset int) ([]*models.Event, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP возвращает страницу событий. Параметры limit и offset
// необязательны, по умолчанию limit=10 и offset=0.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			log.Error("invalid limit parameter", slog.String("limit", raw))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("parameter limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			log.Error("invalid offset parameter", slog.String("offset", raw))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("parameter offset must be a non-negative integer"))
			return
		}
		offset = parsed
	}

	events, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list events", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list events"))
		return
	}

	log.Info("events listed", slog.Int("count", len(events)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"count":  len(events),
		"events": events,
	}))
}
