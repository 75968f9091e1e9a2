// Package metrics содержит метрики Prometheus сервиса учётных записей.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы операций, используемые как значения метки outcome.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailure  = "failure"
)

var (
	// RegistrationsTotal счетчик попыток регистрации по исходу
	RegistrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "user_accounts_registrations_total",
		Help: "The total number of registration attempts by outcome",
	}, []string{"outcome"})

	// ActivationsTotal счетчик попыток активации по исходу
	ActivationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "user_accounts_activations_total",
		Help: "The total number of activation attempts by outcome",
	}, []string{"outcome"})

	// LoginsTotal счетчик попыток входа по исходу
	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "user_accounts_logins_total",
		Help: "The total number of login attempts by outcome",
	}, []string{"outcome"})

	// ResponsesTotal счетчик ответов по маршруту и статусу
	ResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "user_accounts_http_responses_total",
		Help: "The total number of HTTP responses by route and status code",
	}, []string{"method", "route", "status"})

	// RequestDuration гистограмма времени обработки запросов
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "user_accounts_http_request_duration_seconds",
		Help:    "The request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Middleware собирает метрики запросов по шаблону маршрута chi.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		ResponsesTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
