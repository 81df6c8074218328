package models

import (
	"fmt"
	"time"
)

// MembershipStatus — статус членства, хранимый в базе.
type MembershipStatus string

const (
	// MembershipUnpaid — членство не оплачено.
	MembershipUnpaid MembershipStatus = "unpaid"
	// MembershipPaid — членство оплачено до даты истечения.
	MembershipPaid MembershipStatus = "paid"
	// MembershipExpired — срок оплаченного членства истёк.
	MembershipExpired MembershipStatus = "expired"
)

// ParseMembershipStatus преобразует строку в MembershipStatus.
func ParseMembershipStatus(s string) (MembershipStatus, error) {
	switch st := MembershipStatus(s); st {
	case MembershipUnpaid, MembershipPaid, MembershipExpired:
		return st, nil
	default:
		return "", fmt.Errorf("unknown membership status %q", s)
	}
}

// MembershipRecord — запись о членстве участника в том виде, в котором она хранится.
// ExpiryDate может отсутствовать (nil) для неоплаченного членства.
type MembershipRecord struct {
	UserID     int64            `json:"user_id"`
	Status     MembershipStatus `json:"status"`
	ExpiryDate *time.Time       `json:"expiry_date,omitempty"`
}

// MembershipView — вычисленное представление членства для клиента.
type MembershipView struct {
	EffectiveStatus MembershipStatus `json:"effective_status"`
	DaysRemaining   int              `json:"days_remaining"`
}
