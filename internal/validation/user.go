package validation

import "github.com/magabrotheeeer/user-accounts/internal/apperr"

// Ключи сообщений об ошибках полей пользователя.
const (
	KeyUsernameNull    = "username_null"
	KeyUsernameSize    = "username_size"
	KeyEmailNull       = "email_null"
	KeyEmailInvalid    = "email_invalid"
	KeyEmailInUse      = "email_in_use"
	KeyPasswordNull    = "password_null"
	KeyPasswordSize    = "password_size"
	KeyPasswordPattern = "password_pattern"
)

// Имена полей в ответе.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
)

// Ограничения полей пользователя.
const (
	UsernameMinLength = 4
	UsernameMaxLength = 32
	PasswordMinLength = 6
)

var (
	usernameRules = []Rule{
		Required(KeyUsernameNull),
		Length(UsernameMinLength, UsernameMaxLength, KeyUsernameSize),
	}
	emailRules = []Rule{
		Required(KeyEmailNull),
		Email(KeyEmailInvalid),
	}
	passwordRules = []Rule{
		Required(KeyPasswordNull),
		MinLength(PasswordMinLength, KeyPasswordSize),
		StrongPassword(KeyPasswordPattern),
	}
)

// Registration проверяет поля регистрации в порядке username, email, password.
func Registration(username, email, password *string) []apperr.FieldError {
	return Check(
		Field{Name: FieldUsername, Value: username, Rules: usernameRules},
		Field{Name: FieldEmail, Value: email, Rules: emailRules},
		Field{Name: FieldPassword, Value: password, Rules: passwordRules},
	)
}

var fieldOrder = map[string]int{FieldUsername: 0, FieldEmail: 1, FieldPassword: 2}

// HasField сообщает, есть ли среди ошибок ошибка поля field.
func HasField(errs []apperr.FieldError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Add добавляет ошибку поля, сохраняя порядок username, email, password.
func Add(errs []apperr.FieldError, fe apperr.FieldError) []apperr.FieldError {
	pos := len(errs)
	for i, e := range errs {
		if fieldOrder[e.Field] > fieldOrder[fe.Field] {
			pos = i
			break
		}
	}
	out := make([]apperr.FieldError, 0, len(errs)+1)
	out = append(out, errs[:pos]...)
	out = append(out, fe)
	return append(out, errs[pos:]...)
}
