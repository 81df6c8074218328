package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/stadium-auth/internal/models"
)

func TestMetrics_ObserveLogin(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveLogin(models.OutcomeSuccess, "")
	m.ObserveLogin(models.OutcomeRejected, models.ReasonInvalidPin)
	m.ObserveLogin(models.OutcomeRejected, models.ReasonInvalidPin)

	assert.InDelta(t, 1, testutil.ToFloat64(m.loginAttempts.WithLabelValues("success", "")), 1e-9)
	assert.InDelta(t, 2, testutil.ToFloat64(m.loginAttempts.WithLabelValues("rejected", "invalid_pin")), 1e-9)

	expected := `
# HELP stadium_login_attempts_total Login attempts by outcome and rejection reason.
# TYPE stadium_login_attempts_total counter
stadium_login_attempts_total{outcome="rejected",reason="invalid_pin"} 2
stadium_login_attempts_total{outcome="success",reason=""} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "stadium_login_attempts_total"))
}

func TestMetrics_ObserveTokenValidation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveTokenValidation(TokenValid)
	m.ObserveTokenValidation(TokenExpired)
	m.ObserveTokenValidation(TokenExpired)

	assert.InDelta(t, 1, testutil.ToFloat64(m.tokenValidations.WithLabelValues(TokenValid)), 1e-9)
	assert.InDelta(t, 2, testutil.ToFloat64(m.tokenValidations.WithLabelValues(TokenExpired)), 1e-9)
	assert.Equal(t, 2, testutil.CollectAndCount(m.tokenValidations))
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
