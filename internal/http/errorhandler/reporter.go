// Package errorhandler превращает ошибки сервисов в локализованные HTTP-ответы.
//
// Все обработчики передают ошибки в Reporter.Report; паники обработчиков
// перехватывает Reporter.Recoverer и отвечает так же, статусом 500.
package errorhandler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-accounts/internal/apperr"
	"github.com/magabrotheeeer/user-accounts/internal/http/middlewarectx"
	"github.com/magabrotheeeer/user-accounts/internal/http/response"
	"github.com/magabrotheeeer/user-accounts/internal/lib/sl"
)

// Translator переводит ключ сообщения на язык locale.
type Translator interface {
	T(key, locale string) string
}

// Reporter пишет тело ошибки {path, timestamp, message[, validationErrors]}.
type Reporter struct {
	tr  Translator
	log *slog.Logger
	now func() time.Time
}

// New создает Reporter.
func New(tr Translator, log *slog.Logger) *Reporter {
	return &Reporter{
		tr:  tr,
		log: log,
		now: time.Now,
	}
}

// Report выбирает статус по виду ошибки и пишет локализованное тело ответа.
// Ошибки, не являющиеся *apperr.Error, отдаются как 500 без подробностей.
func (rp *Reporter) Report(w http.ResponseWriter, r *http.Request, err error) {
	const op = "errorhandler.Report"

	appErr := apperr.From(err)
	locale := middlewarectx.LocaleFrom(r.Context())

	log := rp.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("kind", appErr.Kind.String()),
	)
	switch appErr.Kind {
	case apperr.KindInternal, apperr.KindEmailDelivery:
		log.Error("request failed", sl.Err(err))
	default:
		log.Info("request rejected", slog.String("key", appErr.Key))
	}

	body := response.Error{
		Path:      r.URL.Path,
		Timestamp: rp.now().UnixMilli(),
		Message:   rp.tr.T(appErr.Key, locale),
	}
	if appErr.Kind == apperr.KindValidation {
		body.ValidationErrors = make(response.FieldMessages, 0, len(appErr.Fields))
		for _, fe := range appErr.Fields {
			body.ValidationErrors = append(body.ValidationErrors, response.FieldMessage{
				Field:   fe.Field,
				Message: rp.tr.T(fe.Key, locale),
			})
		}
	}

	render.Status(r, appErr.Kind.Status())
	render.JSON(w, r, body)
}

// Recoverer перехватывает панику обработчика и отвечает телом internal_failure.
func (rp *Reporter) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			rp.log.Error("handler panicked",
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.Any("panic", rvr),
				slog.String("stack", string(debug.Stack())),
			)
			err, ok := rvr.(error)
			if !ok {
				err = fmt.Errorf("%v", rvr)
			}
			rp.Report(w, r, errors.Join(errPanic, err))
		}()
		next.ServeHTTP(w, r)
	})
}

var errPanic = errors.New("panic recovered")
