// Package jwt реализует кодек подписанных токенов доступа (HS256) с типизированными claims.
//
// Claims содержит фиксированный набор полей: издатель, время выпуска и истечения,
// идентификатор субъекта, email и роль. Токены с другим набором полей отклоняются.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magabrotheeeer/stadium-auth/internal/models"
)

// TokenTTL — фиксированное время жизни токена. Переопределять его для отдельного токена нельзя.
const TokenTTL = 30 * 24 * time.Hour

// Claims описывает данные, хранящиеся в токене.
type Claims struct {
	UserID               int64       `json:"user_id"` // Идентификатор субъекта
	Email                string      `json:"email"`   // Email субъекта
	Role                 models.Role `json:"role"`    // Роль: user или admin
	jwt.RegisteredClaims             // iss, iat, exp
}

// Validate проверяет форму claims. Вызывается парсером golang-jwt после проверки подписи.
func (c Claims) Validate() error {
	if c.UserID <= 0 {
		return errors.New("user_id must be positive")
	}
	if !c.Role.Valid() {
		return fmt.Errorf("unknown role %q", c.Role)
	}
	if c.IssuedAt == nil || c.ExpiresAt == nil {
		return errors.New("iat and exp are required")
	}
	if !c.ExpiresAt.Equal(c.IssuedAt.Add(TokenTTL)) {
		return errors.New("token lifetime does not match policy")
	}
	return nil
}

// Principal возвращает сводку о принципале без секретных данных.
func (c Claims) Principal() models.Principal {
	return models.Principal{
		ID:    c.UserID,
		Email: c.Email,
		Role:  c.Role,
	}
}
