package middlewarectx

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/middleware"
)

var activationTokenPath = regexp.MustCompile(`(/users/token/)[^/?#]+`)

// RedactTokens заменяет токен активации в пути запроса на [redacted].
func RedactTokens(uri string) string {
	return activationTokenPath.ReplaceAllString(uri, "${1}[redacted]")
}

type redactingFormatter struct {
	next middleware.LogFormatter
}

// NewAccessLogFormatter возвращает форматтер журнала запросов chi, который пишет
// в log на уровне Info и не выводит токены активации.
func NewAccessLogFormatter(log *slog.Logger) middleware.LogFormatter {
	return &redactingFormatter{
		next: &middleware.DefaultLogFormatter{
			Logger:  slog.NewLogLogger(log.Handler(), slog.LevelInfo),
			NoColor: true,
		},
	}
}

func (f *redactingFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	safe := r.WithContext(r.Context())
	safe.RequestURI = RedactTokens(r.RequestURI)
	return f.next.NewLogEntry(safe)
}
