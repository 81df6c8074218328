// Package metrics содержит счётчики Prometheus для входа и проверки токенов.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magabrotheeeer/stadium-auth/internal/models"
)

// Результаты проверки токена.
const (
	TokenValid             = "valid"
	TokenMissing           = "missing"
	TokenMalformed         = "malformed"
	TokenSignatureMismatch = "signature_mismatch"
	TokenExpired           = "expired"
	TokenError             = "error"
)

// Metrics хранит счётчики сервиса.
type Metrics struct {
	loginAttempts    *prometheus.CounterVec
	tokenValidations *prometheus.CounterVec
}

// New регистрирует счётчики в reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		loginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stadium",
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome and rejection reason.",
		}, []string{"outcome", "reason"}),
		tokenValidations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stadium",
			Name:      "token_validations_total",
			Help:      "Bearer token validations by result.",
		}, []string{"result"}),
	}
}

// ObserveLogin учитывает попытку входа. Для сбоя хранилища outcome = "error".
func (m *Metrics) ObserveLogin(outcome models.AuthOutcome, reason models.RejectReason) {
	m.loginAttempts.WithLabelValues(string(outcome), string(reason)).Inc()
}

// ObserveTokenValidation учитывает проверку токена.
func (m *Metrics) ObserveTokenValidation(result string) {
	m.tokenValidations.WithLabelValues(result).Inc()
}
