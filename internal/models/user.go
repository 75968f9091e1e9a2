// Package models содержит доменную модель пользователя системы и её
// публичные представления, которые отдаются клиентам.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
//
// Для сохранённой записи выполняется одно из двух: Inactive == true и
// ActivationToken != nil (ожидает активации) либо Inactive == false и
// ActivationToken == nil (активен).
type User struct {
	ID              int64     // Идентификатор, назначается хранилищем
	Username        string    // Имя пользователя
	Email           string    // Электронная почта, уникальна среди всех пользователей
	PasswordHash    string    // bcrypt-хэш пароля
	Inactive        bool      // Учётная запись ожидает активации
	ActivationToken *string   // Токен активации, nil после активации
	CreatedAt       time.Time // Дата регистрации
}

// Summary возвращает представление пользователя для ответа на вход.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username}
}

// View возвращает публичное представление пользователя.
func (u *User) View() UserView {
	return UserView{ID: u.ID, Username: u.Username, Email: u.Email}
}

// UserSummary ответ на успешный вход.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// UserView публичное представление пользователя.
type UserView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Page страница списка пользователей.
type Page struct {
	Content    []UserView `json:"content"`
	Page       int        `json:"page"`
	Size       int        `json:"size"`
	TotalPages int        `json:"totalPages"`
}
