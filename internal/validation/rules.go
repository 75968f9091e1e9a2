// Package validation содержит упорядоченные правила проверки полей запроса.
//
// Правило это чистая функция, которая возвращает ключ сообщения об ошибке
// или пустую строку. Для каждого поля правила проверяются по порядку до первой
// ошибки, а поля проверяются все, поэтому клиент получает ошибки сразу по всем полям.
package validation

import (
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/user-accounts/internal/apperr"
)

// validator.Validate безопасен для конкурентного использования.
var emailValidator = validator.New()

// Rule проверяет значение поля. nil означает, что поле отсутствует в запросе.
type Rule func(value *string) string

// Field поле запроса с набором правил.
type Field struct {
	Name  string
	Value *string
	Rules []Rule
}

// Check применяет правила к полям и возвращает ошибки в порядке полей.
func Check(fields ...Field) []apperr.FieldError {
	var errs []apperr.FieldError
	for _, f := range fields {
		for _, rule := range f.Rules {
			if key := rule(f.Value); key != "" {
				errs = append(errs, apperr.FieldError{Field: f.Name, Key: key})
				break
			}
		}
	}
	return errs
}

// Required значение должно присутствовать и быть непустым.
func Required(key string) Rule {
	return func(value *string) string {
		if value == nil || *value == "" {
			return key
		}
		return ""
	}
}

// Length длина значения в символах должна быть в пределах [minLen, maxLen].
func Length(minLen, maxLen int, key string) Rule {
	return func(value *string) string {
		if value == nil {
			return key
		}
		n := utf8.RuneCountInString(*value)
		if n < minLen || n > maxLen {
			return key
		}
		return ""
	}
}

// MinLength длина значения в символах должна быть не меньше minLen.
func MinLength(minLen int, key string) Rule {
	return func(value *string) string {
		if value == nil || utf8.RuneCountInString(*value) < minLen {
			return key
		}
		return ""
	}
}

// Email значение должно быть синтаксически корректным адресом.
func Email(key string) Rule {
	return func(value *string) string {
		if value == nil || !IsEmail(*value) {
			return key
		}
		return ""
	}
}

// StrongPassword пароль должен содержать заглавную букву, строчную букву и цифру.
func StrongPassword(key string) Rule {
	return func(value *string) string {
		if value == nil {
			return key
		}
		var upper, lower, digit bool
		for _, r := range *value {
			switch {
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsLower(r):
				lower = true
			case unicode.IsDigit(r):
				digit = true
			}
		}
		if !upper || !lower || !digit {
			return key
		}
		return ""
	}
}

// IsEmail сообщает, является ли s корректным адресом.
func IsEmail(s string) bool {
	return emailValidator.Var(s, "required,email") == nil
}
