// Package apperr описывает типизированные ошибки бизнес-логики.
//
// Сервисы возвращают *Error с видом ошибки (Kind) и ключом сообщения;
// HTTP-слой по виду выбирает статус, а по ключу локализованный текст.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind вид ошибки.
type Kind int

const (
	// KindInternal непредвиденная ошибка.
	KindInternal Kind = iota
	// KindValidation ошибка валидации полей запроса.
	KindValidation
	// KindAuthentication неверные учётные данные.
	KindAuthentication
	// KindForbidden действие запрещено (неактивная учётная запись, изменение пользователя).
	KindForbidden
	// KindNotFound пользователь не найден.
	KindNotFound
	// KindInvalidToken токен активации не найден или уже использован.
	KindInvalidToken
	// KindEmailDelivery не удалось отправить письмо.
	KindEmailDelivery
)

// Ключи сообщений для переводчика.
const (
	KeyValidationFailure        = "validation_failure"
	KeyAuthenticationFailure    = "authentification_failure"
	KeyInactiveAuthentication   = "inactive_authentification_failure"
	KeyUnauthorizedUserUpdate   = "unauthorized_user_update"
	KeyUserNotFound             = "user_not_found"
	KeyActivationFailure        = "account_activation_failure"
	KeyEmailFailure             = "email_failure"
	KeyInternalFailure          = "internal_failure"
	KeyUserCreateSuccess        = "user_create_success"
	KeyAccountActivationSuccess = "account_activation_success"
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindInvalidToken:
		return "invalid_token"
	case KindEmailDelivery:
		return "email_delivery"
	default:
		return "internal"
	}
}

// Status возвращает HTTP-статус для вида ошибки.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindInvalidToken:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindEmailDelivery:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// FieldError ошибка одного поля: имя поля и ключ сообщения.
type FieldError struct {
	Field string
	Key   string
}

// Error ошибка бизнес-логики.
type Error struct {
	Kind   Kind
	Key    string       // ключ сообщения
	Fields []FieldError // ошибки полей, только для KindValidation
	Err    error        // исходная ошибка, в ответ не попадает
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Key)
	if len(e.Fields) > 0 {
		msg += fmt.Sprintf(" %v", e.Fields)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation создает ошибку валидации с ошибками полей в заданном порядке.
func Validation(fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Key: KeyValidationFailure, Fields: fields}
}

// Authentication неверный e-mail или пароль.
func Authentication() *Error {
	return &Error{Kind: KindAuthentication, Key: KeyAuthenticationFailure}
}

// InactiveAccount учётные данные верны, но учётная запись не активирована.
func InactiveAccount() *Error {
	return &Error{Kind: KindForbidden, Key: KeyInactiveAuthentication}
}

// UnauthorizedUpdate изменение пользователя запрещено.
func UnauthorizedUpdate() *Error {
	return &Error{Kind: KindForbidden, Key: KeyUnauthorizedUserUpdate}
}

// NotFound пользователь не найден или не активен.
func NotFound() *Error {
	return &Error{Kind: KindNotFound, Key: KeyUserNotFound}
}

// InvalidToken токен активации не подходит.
func InvalidToken() *Error {
	return &Error{Kind: KindInvalidToken, Key: KeyActivationFailure}
}

// EmailDelivery письмо не отправлено, err содержит причину.
func EmailDelivery(err error) *Error {
	return &Error{Kind: KindEmailDelivery, Key: KeyEmailFailure, Err: err}
}

// From извлекает *Error из цепочки ошибок. Прочие ошибки считаются внутренними.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Kind: KindInternal, Key: KeyInternalFailure, Err: err}
}

// Is проверяет, что в цепочке err есть *Error вида kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
