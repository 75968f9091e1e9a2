// Package register реализует HTTP-обработчик регистрации пользователя.
//
// Тело запроса декодируется в Request по полям: поле неверного типа считается
// отсутствующим, остальные поля сохраняются. Отсутствующие поля и нечитаемое тело
// считаются пустыми и отклоняются правилами валидации сервиса. Флаг inactive
// из запроса игнорируется: новый пользователь всегда ожидает активации.
package register

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/user-accounts/internal/apperr"
	"github.com/magabrotheeeer/user-accounts/internal/http/middlewarectx"
	"github.com/magabrotheeeer/user-accounts/internal/http/response"
	"github.com/magabrotheeeer/user-accounts/internal/lib/sl"
	"github.com/magabrotheeeer/user-accounts/internal/services/users"
)

// Request входные данные регистрации.
type Request struct {
	Username *string `json:"username" example:"user1"`
	Email    *string `json:"email" example:"user1@mail.com"`
	Password *string `json:"password" example:"P4ssword"`
}

// Service описывает бизнес-логику регистрации.
type Service interface {
	Register(ctx context.Context, in users.RegisterInput) error
}

// ErrorReporter пишет ответ с ошибкой.
type ErrorReporter interface {
	Report(w http.ResponseWriter, r *http.Request, err error)
}

// Translator переводит ключ сообщения.
type Translator interface {
	T(key, locale string) string
}

// Handler обрабатывает запросы регистрации.
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
// @Summary Регистрация пользователя
// @Description Создает неактивного пользователя и отправляет письмо со ссылкой активации.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param Accept-Language header string false "Язык сообщений (en, ru)"
// @Param request body Request true "Данные пользователя"
// @Success 200 {object} response.Message "Пользователь создан"
// @Failure 400 {object} response.Error "Ошибка валидации"
// @Failure 502 {object} response.Error "Письмо не отправлено"
// @Router /users [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	req := decodeRequest(r.Body, log)

	err := h.service.Register(r.Context(), users.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errs.Report(w, r, err)
		return
	}

	log.Info("user registered")
	render.JSON(w, r, response.Message{
		Message: h.tr.T(apperr.KeyUserCreateSuccess, middlewarectx.LocaleFrom(r.Context())),
	})
}

// decodeRequest читает JSON-объект и разбирает каждое поле отдельно.
func decodeRequest(body io.Reader, log *slog.Logger) Request {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		log.Warn("failed to decode request body, treating fields as absent", sl.Err(err))
		return Request{}
	}
	return Request{
		Username: decodeField(raw, "username", log),
		Email:    decodeField(raw, "email", log),
		Password: decodeField(raw, "password", log),
	}
}

func decodeField(raw map[string]json.RawMessage, name string, log *slog.Logger) *string {
	data, ok := raw[name]
	if !ok {
		return nil
	}
	var value *string
	if err := json.Unmarshal(data, &value); err != nil {
		log.Warn("field has unexpected type, treating it as absent", slog.String("field", name), sl.Err(err))
		return nil
	}
	return value
}
