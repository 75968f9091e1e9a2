// Package update реализует HTTP-обработчик изменения пользователя.
// Изменение без аутентификации запрещено, обработчик всегда отвечает 403.
package update

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// Service описывает бизнес-логику изменения пользователя.
type Service interface {
	Update(ctx context.Context, id string) error
}

// ErrorReporter пишет ответ с ошибкой.
type ErrorReporter interface {
	Report(w http.ResponseWriter, r *http.Request, err error)
}

// Handler обрабатывает запросы на изменение пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
	errs    ErrorReporter
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, errs ErrorReporter) *Handler {
	return &Handler{
		log:     log,
		service: service,
		errs:    errs,
	}
}

// ServeHTTP godoc
// @Summary Изменение пользователя
// @Description Не реализовано: всегда 403.
// @Tags Users
// @Produce  json
// @Param Accept-Language header string false "Язык сообщений (en, ru)"
// @Param id path int true "ID пользователя"
// @Failure 403 {object} response.Error "Изменение запрещено"
// @Router /users/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	err := h.service.Update(r.Context(), chi.URLParam(r, "id"))
	log.Info("user update rejected")
	h.errs.Report(w, r, err)
}
