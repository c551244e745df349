// Package metrics содержит счётчики Prometheus для потоков аутентификации.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginsTotal — количество попыток входа по результату (success, invalid_credentials,
	// not_verified, disabled, error).
	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "identity_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	// CodesIssuedTotal — количество выпущенных одноразовых кодов по назначению
	// (verification, reset).
	CodesIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "identity_codes_issued_total",
		Help: "One-time codes issued by purpose.",
	}, []string{"purpose"})

	// TokenValidationsTotal — проверки сессионных токенов по результату
	// (valid, expired, invalid). Истечение и подделка считаются раздельно.
	TokenValidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "identity_token_validations_total",
		Help: "Session token validations by outcome.",
	}, []string{"outcome"})
)
