package authrpc

import (
	"time"

	"github.com/magabrotheeeer/stadium-auth/internal/models"
)

// Причины недействительности токена в ValidateTokenResponse.
const (
	TokenReasonMalformed         = "malformed"
	TokenReasonSignatureMismatch = "signature_mismatch"
	TokenReasonExpired           = "expired"
)

// Principal — сводка о принципале без секретных данных.
type Principal struct {
	ID    int64  `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

type AuthenticateRequest struct {
	Identifier string `json:"identifier"`
	Pin        string `json:"pin"`
	Password   string `json:"password,omitempty"`
}

// AuthenticateResponse сохраняет трёхвариантный исход: success, needs_password или rejected.
type AuthenticateResponse struct {
	Outcome   string     `json:"outcome"`
	Token     string     `json:"token,omitempty"`
	Principal *Principal `json:"principal,omitempty"`
	Reason    string     `json:"reason,omitempty"`
}

type RegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Pin   string `json:"pin"`
}

type RegisterResponse struct {
	UserID int64 `json:"user_id"`
}

type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse: недействительный токен — это ответ с Valid=false, а не ошибка RPC.
type ValidateTokenResponse struct {
	Valid     bool       `json:"valid"`
	Reason    string     `json:"reason,omitempty"`
	Principal *Principal `json:"principal,omitempty"`
}

type EvaluateMembershipRequest struct {
	Status     string     `json:"status"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
}

type EvaluateMembershipResponse struct {
	EffectiveStatus string `json:"effective_status"`
	DaysRemaining   int    `json:"days_remaining"`
}

// FromPrincipal переводит доменного принципала в сообщение.
func FromPrincipal(p *models.Principal) *Principal {
	if p == nil {
		return nil
	}
	return &Principal{ID: p.ID, Name: p.DisplayName, Email: p.Email, Role: string(p.Role)}
}

// ToModel переводит сообщение в доменного принципала, проверяя роль.
func (p *Principal) ToModel() (*models.Principal, error) {
	role, err := models.ParseRole(p.Role)
	if err != nil {
		return nil, err
	}
	return &models.Principal{ID: p.ID, DisplayName: p.Name, Email: p.Email, Role: role}, nil
}
