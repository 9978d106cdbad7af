// Package jwt реализует генерацию и парсинг JWT токенов с пользовательскими claim полями.
//
// Maker определяет интерфейс для создания и проверки токенов с email, ролью и uid
// пользователя. Каждому токену присваивается уникальный jti: по нему хранилище
// ведёт реестр действующих токенов, что позволяет отзывать их при logout.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken возвращает подписанный токен и его jti.
	GenerateToken(email, role, userUID string) (token string, jti string, err error)
	// ParseToken проверяет подпись и срок действия, возвращает claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}

// TokenTTL возвращает время жизни выдаваемых токенов.
// Используется кешем реестра токенов для выставления срока записей.
func (j *MakerImpl) TokenTTL() time.Duration {
	return j.tokenTTL
}
