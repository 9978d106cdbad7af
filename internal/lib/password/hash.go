// Package password реализует хеширование и проверку паролей через bcrypt.
//
// Hash создает bcrypt-хеш пароля для хранения в базе.
// Compare проверяет соответствие введённого пароля сохранённому хешу.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hash принимает пароль пользователя и возвращает его bcrypt-хэш.
func Hash(raw string) (string, error) {
	const op = "password.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Compare сравнивает bcrypt-хэш с введённым паролем.
// Возвращает nil, если пароль соответствует хэшу.
func Compare(hash, raw string) error {
	const op = "password.Compare"
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
