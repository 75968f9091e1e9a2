// Package read реализует HTTP-обработчик получения активного пользователя по ID.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-accounts/internal/models"
)

// Service описывает бизнес-логику чтения пользователя.
type Service interface {
	Get(ctx context.Context, id string) (models.UserView, error)
}

// ErrorReporter пишет ответ с ошибкой.
type ErrorReporter interface {
	Report(w http.ResponseWriter, r *http.Request, err error)
}

// Handler обрабатывает запросы на получение пользователя.
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
// @Summary Получение пользователя
// @Description Неактивные и несуществующие пользователи неотличимы: оба дают 404.
// @Tags Users
// @Produce  json
// @Param Accept-Language header string false "Язык сообщений (en, ru)"
// @Param id path int true "ID пользователя"
// @Success 200 {object} models.UserView "Пользователь"
// @Failure 404 {object} response.Error "Пользователь не найден"
// @Router /users/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errs.Report(w, r, err)
		return
	}

	log.Debug("user read", slog.Int64("user_id", user.ID))
	render.JSON(w, r, user)
}
