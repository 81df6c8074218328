package models

import "time"

// LoginAttempt — данные одной попытки входа. Живёт только в рамках запроса и нигде не хранится.
type LoginAttempt struct {
	Identifier string
	Pin        string
	Password   string
}

// AuthOutcome — один из трёх исходов аутентификации.
type AuthOutcome string

const (
	// OutcomeSuccess — учётные данные подтверждены, токен выписан.
	OutcomeSuccess AuthOutcome = "success"
	// OutcomeNeedsPassword — PIN администратора верен, нужно повторить запрос с паролем.
	OutcomeNeedsPassword AuthOutcome = "needs_password"
	// OutcomeRejected — попытка отклонена, причина в Reason.
	OutcomeRejected AuthOutcome = "rejected"
)

// RejectReason — причина отклонения попытки входа.
type RejectReason string

const (
	ReasonAccountNotFound RejectReason = "account_not_found"
	ReasonInvalidPin      RejectReason = "invalid_pin"
	ReasonInvalidPassword RejectReason = "invalid_password"
)

// PublicMessage возвращает сообщение для внешнего клиента.
// Для всех причин оно одинаковое, чтобы по ответу нельзя было перебирать учётные записи.
func (r RejectReason) PublicMessage() string {
	return "invalid credentials"
}

// AuthResult — результат аутентификации.
// Token и Principal заполнены только при OutcomeSuccess, Reason — только при OutcomeRejected.
type AuthResult struct {
	Outcome   AuthOutcome
	Token     string
	Principal *Principal
	Reason    RejectReason
}

// AuthSuccess формирует успешный результат.
func AuthSuccess(token string, p Principal) AuthResult {
	return AuthResult{Outcome: OutcomeSuccess, Token: token, Principal: &p}
}

// AuthNeedsPassword формирует промежуточный результат двухфазного входа администратора.
func AuthNeedsPassword() AuthResult {
	return AuthResult{Outcome: OutcomeNeedsPassword}
}

// AuthRejected формирует результат с отказом.
func AuthRejected(reason RejectReason) AuthResult {
	return AuthResult{Outcome: OutcomeRejected, Reason: reason}
}

// LoginEvent — событие аудита одной попытки входа. Секреты в событие не попадают.
type LoginEvent struct {
	EventID    string       `json:"event_id"`
	Identifier string       `json:"identifier"`
	Outcome    AuthOutcome  `json:"outcome"`
	Reason     RejectReason `json:"reason,omitempty"`
	Role       Role         `json:"role,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// NewLoginEvent формирует событие аудита по результату аутентификации.
func NewLoginEvent(identifier string, res AuthResult, at time.Time) LoginEvent {
	ev := LoginEvent{
		Identifier: identifier,
		Outcome:    res.Outcome,
		Reason:     res.Reason,
		OccurredAt: at,
	}
	if res.Principal != nil {
		ev.Role = res.Principal.Role
	}
	return ev
}
