// Package list реализует HTTP-обработчик постраничного списка активных пользователей.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-accounts/internal/models"
)

// Service описывает бизнес-логику списка пользователей.
type Service interface {
	List(ctx context.Context, page, size string) (models.Page, error)
}

// ErrorReporter пишет ответ с ошибкой.
type ErrorReporter interface {
	Report(w http.ResponseWriter, r *http.Request, err error)
}

// Handler обрабатывает запросы списка пользователей.
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
// @Summary Список активных пользователей
// @Description Некорректные page и size заменяются на 0 и 10, size не больше 10.
// @Tags Users
// @Produce  json
// @Param page query int false "Номер страницы, с 0"
// @Param size query int false "Размер страницы, от 1 до 10"
// @Success 200 {object} models.Page "Страница пользователей"
// @Router /users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query()
	page, err := h.service.List(r.Context(), query.Get("page"), query.Get("size"))
	if err != nil {
		h.errs.Report(w, r, err)
		return
	}

	log.Debug("users listed", slog.Int("page", page.Page), slog.Int("count", len(page.Content)))
	render.JSON(w, r, page)
}
