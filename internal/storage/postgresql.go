// Package storage реализует хранилище данных на основе PostgreSQL
// для пользователей, событий и реестра токенов доступа.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/martynshik/event-manager/internal/models"
)

// Ошибки уровня хранилища, на которые опираются сервисы и обработчики.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already taken")
	ErrEventNotFound = errors.New("event not found")
)

const uniqueViolationCode = "23505"

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// Ping проверяет готовность базы данных. Используется health-эндпоинтом.
func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// ===== USER METHODS =====

// RegisterUser сохраняет нового пользователя и возвращает его UID.
// Нарушение уникальности email транслируется в ErrEmailTaken.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (name, email, password_hash, role)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Role).Scan(&newUID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return "", fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, email, password_hash, role, created_at
			  FROM users
			  WHERE email = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, email)
	if err := row.Scan(&u.UID, &u.Name, &u.Email, &u.PasswordHash,
		&u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, email, password_hash, role, created_at
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&u.UID, &u.Name, &u.Email, &u.PasswordHash,
		&u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ===== TOKEN METHODS =====

// SaveToken регистрирует jti выданного токена и возвращает ID записи.
func (s *Storage) SaveToken(ctx context.Context, token models.AccessToken) (int, error) {
	const op = "storage.SaveToken"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO access_tokens (user_uid, name, jti)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		token.UserUID, token.Name, token.JTI).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// TokenExists сообщает, действует ли ещё токен с данным jti.
func (s *Storage) TokenExists(ctx context.Context, jti string) (bool, error) {
	const op = "storage.TokenExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS(SELECT 1 FROM access_tokens WHERE jti = $1)`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, jti).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListTokenJTIs возвращает jti всех действующих токенов пользователя.
// Нужен, чтобы при logout инвалидировать записи в кеше.
func (s *Storage) ListTokenJTIs(ctx context.Context, userUID string) ([]string, error) {
	const op = "storage.ListTokenJTIs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT jti FROM access_tokens WHERE user_uid = $1`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []string
	for rows.Next() {
		var jti string
		if err := rows.Scan(&jti); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, jti)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteUserTokens удаляет все токены пользователя и возвращает число удалённых.
func (s *Storage) DeleteUserTokens(ctx context.Context, userUID string) (int, error) {
	const op = "storage.DeleteUserTokens"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM access_tokens WHERE user_uid = $1`
	result, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ===== EVENT METHODS =====

// CreateEvent вставляет новую запись события и возвращает её ID.
func (s *Storage) CreateEvent(ctx context.Context, event models.Event) (int, error) {
	const op = "storage.CreateEvent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO events (title, description, event_date, user_uid)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		event.Title, event.Description, event.Date, event.UserUID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadEvent возвращает данные события по его ID.
func (s *Storage) ReadEvent(ctx context.Context, id int) (*models.Event, error) {
	const op = "storage.ReadEvent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, event_date, user_uid, created_at
			  FROM events WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Event
	var userUID sql.NullString
	if err := row.Scan(&result.ID, &result.Title, &result.Description,
		&result.Date, &userUID, &result.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrEventNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if userUID.Valid {
		result.UserUID = &userUID.String
	}
	return &result, nil
}

// UpdateEvent перезаписывает изменяемые поля события по его ID
// и возвращает количество изменённых строк.
func (s *Storage) UpdateEvent(ctx context.Context, event models.Event, id int) (int, error) {
	const op = "storage.UpdateEvent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE events
			  SET title = $1, description = $2, event_date = $3
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query,
		event.Title, event.Description, event.Date, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveEvent безвозвратно удаляет событие по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveEvent(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveEvent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM events WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListEvents возвращает список всех событий с пагинацией.
// Фильтра по владельцу нет: события видны любому аутентифицированному пользователю.
func (s *Storage) ListEvents(ctx context.Context, limit, offset int) ([]*models.Event, error) {
	const op = "storage.ListEvents"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, event_date, user_uid, created_at
			  FROM events
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Event
	for rows.Next() {
		var item models.Event
		var userUID sql.NullString
		if err := rows.Scan(&item.ID, &item.Title, &item.Description,
			&item.Date, &userUID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if userUID.Valid {
			item.UserUID = &userUID.String
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
