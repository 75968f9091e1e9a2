// Package activate реализует HTTP-обработчик активации учётной записи по токену.
package activate

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-accounts/internal/apperr"
	"github.com/magabrotheeeer/user-accounts/internal/http/middlewarectx"
	"github.com/magabrotheeeer/user-accounts/internal/http/response"
)

// Service описывает бизнес-логику активации.
type Service interface {
	Activate(ctx context.Context, token string) error
}

// ErrorReporter пишет ответ с ошибкой.
type ErrorReporter interface {
	Report(w http.ResponseWriter, r *http.Request, err error)
}

// Translator переводит ключ сообщения.
type Translator interface {
	T(key, locale string) string
}

// Handler обрабатывает запросы активации.
type Handler struct {
	log     *slog.Logger
	service Service
	errs    ErrorReporter
	tr      Translator
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, errs ErrorReporter, tr Translator) *Handler {
	return &Handler{
		log:     log,
		service: service,
		errs:    errs,
		tr:      tr,
	}
}

// ServeHTTP godoc
// @Summary Активация учётной записи
// @Tags Users
// @Produce  json
// @Param Accept-Language header string false "Язык сообщений (en, ru)"
// @Param token path string true "Токен активации"
// @Success 200 {object} response.Message "Учётная запись активирована"
// @Failure 400 {object} response.Error "Токен недействителен"
// @Router /users/token/{token} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.activate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.service.Activate(r.Context(), chi.URLParam(r, "token")); err != nil {
		h.errs.Report(w, r, err)
		return
	}

	log.Info("account activated")
	render.JSON(w, r, response.Message{
		Message: h.tr.T(apperr.KeyAccountActivationSuccess, middlewarectx.LocaleFrom(r.Context())),
	})
}
