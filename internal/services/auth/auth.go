// Package services содержит бизнес-логику регистрации, входа и выхода пользователей,
// а также проверку токенов доступа.
//
// Токены выдаются как JWT, но каждый jti регистрируется в хранилище:
// токен действует, только пока его запись существует. Logout удаляет все
// записи пользователя, разом обрывая все его сессии.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/martynshik/event-manager/internal/lib/jwt"
	"github.com/martynshik/event-manager/internal/lib/password"
	"github.com/martynshik/event-manager/internal/models"
	"github.com/martynshik/event-manager/internal/storage"
)

// Ошибки бизнес-уровня аутентификации.
var (
	// ErrInvalidCredentials возвращается и для неизвестного email, и для
	// неверного пароля, чтобы по ответу нельзя было перечислять пользователей.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenRevoked означает, что подпись токена верна, но он был отозван.
	ErrTokenRevoked = errors.New("token revoked")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenRepository описывает контракт реестра выданных токенов.
type TokenRepository interface {
	SaveToken(ctx context.Context, token models.AccessToken) (int, error)
	TokenExists(ctx context.Context, jti string) (bool, error)
	ListTokenJTIs(ctx context.Context, userUID string) ([]string, error)
	DeleteUserTokens(ctx context.Context, userUID string) (int, error)
}

// Cache описывает методы кеширования, используемые для реестра токенов.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// AuthService отвечает за регистрацию, вход, выход и валидацию токенов.
type AuthService struct {
	users    UserRepository
	tokens   TokenRepository
	cache    Cache
	jwtMaker jwt.Maker
	tokenTTL time.Duration
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, tokens TokenRepository, cache Cache,
	jwtMaker jwt.Maker, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		cache:    cache,
		jwtMaker: jwtMaker,
		tokenTTL: tokenTTL,
	}
}

// Register создает пользователя с хэшированным паролем и выдает ему первый токен.
// Возвращает созданного пользователя и подписанный токен.
func (s *AuthService) Register(ctx context.Context, name, email, rawPassword, role string) (*models.User, string, error) {
	const op = "services.auth.Register"

	hashed, err := password.Hash(rawPassword)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return nil, "", err
	}
	user.UID = uid

	token, err := s.issueToken(ctx, &user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return &user, token, nil
}

// Login проверяет пароль пользователя и выдает новый токен.
// Отсутствие пользователя и неверный пароль неразличимы для вызывающего.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.Compare(user.PasswordHash, rawPassword); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

// Logout отзывает ВСЕ токены пользователя и возвращает число отозванных.
// Побочный эффект: гаснут и все остальные активные сессии этого пользователя.
func (s *AuthService) Logout(ctx context.Context, userUID string) (int, error) {
	const op = "services.auth.Logout"

	jtis, err := s.tokens.ListTokenJTIs(ctx, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	// Сначала удаляются строки реестра, потом чистится кеш. В обратном
	// порядке параллельная проверка токена между двумя шагами нашла бы
	// ещё живую строку и заново закешировала отозванный jti на весь TTL.
	count, err := s.tokens.DeleteUserTokens(ctx, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	for _, jti := range jtis {
		_ = s.cache.Invalidate(tokenCacheKey(jti))
	}
	return count, nil
}

// ValidateToken проверяет подпись токена и его присутствие в реестре.
// Возвращает claims, если токен действителен.
func (s *AuthService) ValidateToken(ctx context.Context, tokenStr string) (*jwt.CustomClaims, error) {
	const op = "services.auth.ValidateToken"

	claims, err := s.jwtMaker.ParseToken(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var cached bool
	found, err := s.cache.Get(tokenCacheKey(claims.ID), &cached)
	if err == nil && found && cached {
		return claims, nil
	}

	exists, err := s.tokens.TokenExists(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, ErrTokenRevoked
	}
	_ = s.cache.Set(tokenCacheKey(claims.ID), true, s.tokenTTL)
	return claims, nil
}

func (s *AuthService) issueToken(ctx context.Context, user *models.User) (string, error) {
	token, jti, err := s.jwtMaker.GenerateToken(user.Email, user.Role, user.UID)
	if err != nil {
		return "", err
	}
	if _, err := s.tokens.SaveToken(ctx, models.AccessToken{
		UserUID: user.UID,
		Name:    user.Email, // метка токена совпадает с email владельца
		JTI:     jti,
	}); err != nil {
		return "", err
	}
	_ = s.cache.Set(tokenCacheKey(jti), true, s.tokenTTL)
	return token, nil
}

func tokenCacheKey(jti string) string {
	return "token:" + jti
}
