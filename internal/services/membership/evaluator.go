// Package membership вычисляет фактическое состояние членства участника
// по сохранённому статусу и дате истечения.
package membership

import (
	"math"
	"time"

	"github.com/magabrotheeeer/stadium-auth/internal/models"
)

const day = 24 * time.Hour

// Evaluate возвращает фактический статус членства и число оставшихся дней.
//
// Истечение вычисляется лениво: если оплаченное членство уже истекло,
// клиент видит статус expired, но сохранённая запись не изменяется.
func Evaluate(status models.MembershipStatus, expiryDate *time.Time, now time.Time) models.MembershipView {
	if status != models.MembershipPaid || expiryDate == nil {
		return models.MembershipView{EffectiveStatus: status}
	}
	if !expiryDate.After(now) {
		return models.MembershipView{EffectiveStatus: models.MembershipExpired}
	}
	return models.MembershipView{
		EffectiveStatus: models.MembershipPaid,
		DaysRemaining:   daysUntil(now, *expiryDate),
	}
}

// daysUntil округляет оставшееся время вверх до целых суток.
// Для дат дальше ~292 лет Duration насыщается, тогда счёт идёт в секундах.
func daysUntil(now, expiry time.Time) int {
	left := expiry.Sub(now)
	if left == time.Duration(math.MaxInt64) {
		secs := expiry.Unix() - now.Unix()
		const daySecs = int64(day / time.Second)
		d := secs / daySecs
		if secs%daySecs != 0 {
			d++
		}
		return int(d)
	}
	d := left / day
	if left%day != 0 {
		d++
	}
	return int(d)
}
