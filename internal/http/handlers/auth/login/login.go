// Package login реализует HTTP-обработчик аутентификации пользователя по e-mail и паролю.
//
// При успехе возвращается только {id, username}. Неверный пароль и неизвестный
// e-mail дают одинаковый ответ 401; верные данные неактивной учётной записи дают 403.
package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-accounts/internal/lib/sl"
	"github.com/magabrotheeeer/user-accounts/internal/models"
)

// Request учетные данные пользователя.
type Request struct {
	Email    string `json:"email" example:"user1@mail.com"`
	Password string `json:"password" example:"P4ssword"`
}

// Service описывает бизнес-логику аутентификации.
type Service interface {
	Authenticate(ctx context.Context, email, password string) (models.UserSummary, error)
}

// ErrorReporter пишет ответ с ошибкой.
type ErrorReporter interface {
	Report(w http.ResponseWriter, r *http.Request, err error)
}

// Handler обрабатывает HTTP-запросы аутентификации.
type Handler struct {
	log     *slog.Logger  // Логгер для записи операций и ошибок
	service Service       // Сервис учётных записей
	errs    ErrorReporter // Формирует тело ошибки
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, errs ErrorReporter) *Handler {
	return &Handler{
		log:     log,
		service: service,
		errs:    errs,
	}
}

// ServeHTTP godoc
// @Summary Аутентификация пользователя
// @Description Проверяет e-mail и пароль. Возвращает ID и имя пользователя.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param Accept-Language header string false "Язык сообщений (en, ru)"
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} models.UserSummary "Успешная аутентификация"
// @Failure 401 {object} response.Error "Неверные учетные данные"
// @Failure 403 {object} response.Error "Учётная запись не активирована"
// @Router /auth [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode request body, treating credentials as absent", sl.Err(err))
		req = Request{}
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.errs.Report(w, r, err)
		return
	}

	log.Info("login success", slog.Int64("user_id", user.ID))
	render.JSON(w, r, user)
}
