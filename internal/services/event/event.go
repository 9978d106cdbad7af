// Package services содержит бизнес-логику для управления событиями и кешированием.
//
// Перед каждой мутирующей операцией (создание, обновление, удаление)
// синхронно вычисляется политика доступа. Чтения политикой не ограничены.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/martynshik/event-manager/internal/authz"
	"github.com/martynshik/event-manager/internal/models"
	"github.com/martynshik/event-manager/internal/storage"
)

// Ошибки бизнес-уровня событий.
var (
	// ErrPermissionDenied возвращается, когда политика запретила мутацию.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidDate возвращается, когда дата не парсится как календарная.
	ErrInvalidDate = errors.New("invalid date")
)

// EventRepository определяет методы для работы с событиями в хранилище.
type EventRepository interface {
	// CreateEvent добавляет новое событие и возвращает его ID.
	CreateEvent(ctx context.Context, event models.Event) (int, error)
	// ReadEvent возвращает событие по ID.
	ReadEvent(ctx context.Context, id int) (*models.Event, error)
	// UpdateEvent обновляет изменяемые поля события по ID.
	UpdateEvent(ctx context.Context, event models.Event, id int) (int, error)
	// RemoveEvent безвозвратно удаляет событие по ID.
	RemoveEvent(ctx context.Context, id int) (int, error)
	// ListEvents возвращает список всех событий с пагинацией.
	ListEvents(ctx context.Context, limit, offset int) ([]*models.Event, error)
}

// Cache описывает методы для кэширования событий.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// EventService реализует бизнес-логику работы с событиями.
type EventService struct {
	repo   EventRepository
	cache  Cache
	policy authz.Policy
	log    *slog.Logger
}

// NewEventService создает новый экземпляр EventService с заданной политикой доступа.
func NewEventService(repo EventRepository, cache Cache, policy authz.Policy, log *slog.Logger) *EventService {
	return &EventService{
		repo:   repo,
		cache:  cache,
		policy: policy,
		log:    log,
	}
}

// Create создает новое событие с атрибуцией к актору и возвращает созданную запись.
// Мутация не выполняется, если политика запретила операцию или дата некорректна.
func (s *EventService) Create(ctx context.Context, actor authz.Actor, req models.DummyEvent) (*models.Event, error) {
	date, err := time.Parse(models.EventDateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, req.Date)
	}

	if !s.policy(actor, nil) {
		return nil, ErrPermissionDenied
	}

	uid := actor.UID
	event := models.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		UserUID:     &uid,
	}
	id, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		return nil, err
	}
	event.ID = id
	s.log.Info("created new event", slog.Int("id", id))

	cacheKey := eventCacheKey(id)
	if err := s.cache.Set(cacheKey, event, time.Hour); err != nil {
		s.log.Warn("failed to cache event", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return &event, nil
}

// Read возвращает событие по ID, используя кеш или хранилище.
func (s *EventService) Read(ctx context.Context, id int) (*models.Event, error) {
	var result *models.Event
	cacheKey := eventCacheKey(id)
	found, err := s.cache.Get(cacheKey, &result)
	if err == nil && found {
		return result, nil
	}

	result, err = s.repo.ReadEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache event", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// Update перезаписывает изменяемые поля события и возвращает обновлённую запись.
// Событие сначала читается: политика получает реальный ресурс,
// а отсутствующий ID даёт ErrEventNotFound ещё до проверки прав.
func (s *EventService) Update(ctx context.Context, actor authz.Actor, id int, req models.DummyEvent) (*models.Event, error) {
	date, err := time.Parse(models.EventDateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, req.Date)
	}

	current, err := s.repo.ReadEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.policy(actor, current) {
		return nil, ErrPermissionDenied
	}

	updated := models.Event{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		UserUID:     current.UserUID,
		CreatedAt:   current.CreatedAt,
	}
	count, err := s.repo.UpdateEvent(ctx, updated, id)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, storage.ErrEventNotFound
	}
	s.log.Info("updated event", slog.Int("id", id))

	cacheKey := eventCacheKey(id)
	if err := s.cache.Set(cacheKey, updated, time.Hour); err != nil {
		s.log.Warn("failed to cache event", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return &updated, nil
}

// Remove безвозвратно удаляет событие и возвращает его последнее состояние.
// Никакого мягкого удаления: запись восстановить нельзя.
func (s *EventService) Remove(ctx context.Context, actor authz.Actor, id int) (*models.Event, error) {
	current, err := s.repo.ReadEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.policy(actor, current) {
		return nil, ErrPermissionDenied
	}

	count, err := s.repo.RemoveEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, storage.ErrEventNotFound
	}
	s.log.Info("removed event", slog.Int("id", id))

	cacheKey := eventCacheKey(id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return current, nil
}

// List возвращает события с пагинацией. Фильтра по владельцу нет:
// любой аутентифицированный пользователь видит все события.
func (s *EventService) List(ctx context.Context, limit, offset int) ([]*models.Event, error) {
	return s.repo.ListEvents(ctx, limit, offset)
}

func eventCacheKey(id int) string {
	return fmt.Sprintf("event:%d", id)
}
