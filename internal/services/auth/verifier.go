package auth

import (
	"github.com/magabrotheeeer/stadium-auth/internal/models"
)

// AdminState — состояние двухфазной проверки администратора.
type AdminState int

const (
	// AwaitingPin — проверка ещё не начиналась.
	AwaitingPin AdminState = iota
	// PinVerified — PIN верен, клиент должен повторить запрос с паролем.
	PinVerified
	// Authenticated — PIN и пароль верны.
	Authenticated
	// Rejected — терминальный отказ, причина в AdminStep.Reason.
	Rejected
)

func (s AdminState) String() string {
	switch s {
	case AwaitingPin:
		return "awaiting_pin"
	case PinVerified:
		return "pin_verified"
	case Authenticated:
		return "authenticated"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// AdminStep — результат одного шага проверки администратора.
type AdminStep struct {
	State  AdminState
	Reason models.RejectReason
}

// AdminVerifier проводит администратора через проверку PIN, затем пароля.
//
// Между запросами состояние не хранится: каждый запрос с паролем заново проверяет PIN.
type AdminVerifier struct {
	hasher Hasher
}

// NewAdminVerifier создает AdminVerifier.
func NewAdminVerifier(hasher Hasher) *AdminVerifier {
	return &AdminVerifier{hasher: hasher}
}

// Verify выводит состояние из учётной записи и попытки входа.
// cred == nil означает, что администратор с таким идентификатором не найден.
func (v *AdminVerifier) Verify(cred *models.AdminCredential, pin, password string) AdminStep {
	if cred == nil {
		return AdminStep{State: Rejected, Reason: models.ReasonAccountNotFound}
	}
	if !v.hasher.Verify(pin, cred.PinHash) {
		return AdminStep{State: Rejected, Reason: models.ReasonInvalidPin}
	}
	if password == "" {
		return AdminStep{State: PinVerified}
	}
	if !v.hasher.Verify(password, cred.PasswordHash) {
		return AdminStep{State: Rejected, Reason: models.ReasonInvalidPassword}
	}
	return AdminStep{State: Authenticated}
}

// UserVerifier проверяет единственный PIN участника.
type UserVerifier struct {
	hasher Hasher
}

// NewUserVerifier создает UserVerifier.
func NewUserVerifier(hasher Hasher) *UserVerifier {
	return &UserVerifier{hasher: hasher}
}

// Verify возвращает пустую причину, если PIN верен.
func (v *UserVerifier) Verify(cred *models.UserCredential, pin string) models.RejectReason {
	if cred == nil {
		return models.ReasonAccountNotFound
	}
	if !v.hasher.Verify(pin, cred.PinHash) {
		return models.ReasonInvalidPin
	}
	return ""
}
