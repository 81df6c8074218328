// Package models содержит доменные модели сервиса авторизации:
// принципала (участник или администратор), учётные данные из хранилища,
// записи членства и результаты аутентификации.
// Структуры используются в бизнес‑логике, хранилище и транспортных слоях.
package models

import "fmt"

// Role определяет вид принципала, на которого выписывается токен.
type Role string

const (
	// RoleUser — рядовой участник клуба.
	RoleUser Role = "user"
	// RoleAdmin — администратор.
	RoleAdmin Role = "admin"
)

// Valid сообщает, является ли роль одной из известных.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole преобразует строку в Role, возвращая ошибку для неизвестных значений.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Principal представляет аутентифицированную личность.
// Не содержит секретов и может безопасно отдаваться клиенту.
type Principal struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"name"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
}

// UserCredential — учётная запись участника вместе с хэшем PIN-кода.
type UserCredential struct {
	Principal
	PinHash string
}

// AdminCredential — учётная запись администратора: хэш PIN-кода и отдельный хэш пароля.
type AdminCredential struct {
	Principal
	PinHash      string
	PasswordHash string
}

// Registration содержит данные для создания новой учётной записи участника.
type Registration struct {
	Name  string
	Email string
	Phone string
	Pin   string
}
