// Package middlewarectx содержит HTTP middleware, которые кладут данные запроса
// в контекст для обработчиков.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// Locale ключ выбранного языка в контексте.
const Locale Key = "locale"

// Negotiator выбирает поддерживаемый язык по заголовку Accept-Language.
type Negotiator interface {
	Negotiate(acceptLanguage string) string
}

// LocaleMiddleware определяет язык ответа по Accept-Language и сохраняет его в контексте.
func LocaleMiddleware(negotiator Negotiator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.LocaleMiddleware"

			locale := negotiator.Negotiate(r.Header.Get("Accept-Language"))
			log.Debug("locale negotiated",
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("locale", locale),
			)

			ctx := context.WithValue(r.Context(), Locale, locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LocaleFrom возвращает язык из контекста или пустую строку, если он не задан.
func LocaleFrom(ctx context.Context) string {
	locale, _ := ctx.Value(Locale).(string)
	return locale
}
