package register

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/user-accounts/internal/apperr"
	"github.com/magabrotheeeer/user-accounts/internal/http/errorhandler"
	"github.com/magabrotheeeer/user-accounts/internal/http/middlewarectx"
	"github.com/magabrotheeeer/user-accounts/internal/i18n"
	"github.com/magabrotheeeer/user-accounts/internal/lib/sl"
	"github.com/magabrotheeeer/user-accounts/internal/services/users"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, in users.RegisterInput) error {
	return m.Called(ctx, in).Error(0)
}

func ptr(s string) *string {
	return &s
}

func newHandler(t *testing.T, svc Service) http.Handler {
	t.Helper()
	tr, err := i18n.New("en")
	require.NoError(t, err)
	log := sl.Discard()
	h := New(log, svc, errorhandler.New(tr, log), tr)
	return middlewarectx.LocaleMiddleware(tr, log)(h)
}

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		language   string
		input      users.RegisterInput
		serviceErr error
		wantStatus int
		wantBody   map[string]any
	}{
		{
			name:       "created",
			body:       `{"username":"user1","email":"user1@mail.com","password":"P4ssword"}`,
			input:      users.RegisterInput{Username: ptr("user1"), Email: ptr("user1@mail.com"), Password: ptr("P4ssword")},
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"message": "User created"},
		},
		{
			name:       "created ru",
			body:       `{"username":"user1","email":"user1@mail.com","password":"P4ssword"}`,
			language:   "ru",
			input:      users.RegisterInput{Username: ptr("user1"), Email: ptr("user1@mail.com"), Password: ptr("P4ssword")},
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"message": "Пользователь создан"},
		},
		{
			name:       "inactive flag is ignored",
			body:       `{"username":"user1","email":"user1@mail.com","password":"P4ssword","inactive":false}`,
			input:      users.RegisterInput{Username: ptr("user1"), Email: ptr("user1@mail.com"), Password: ptr("P4ssword")},
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"message": "User created"},
		},
		{
			name:  "validation failure",
			body:  `{"email":"user1@mail.com","password":"P4ssword"}`,
			input: users.RegisterInput{Email: ptr("user1@mail.com"), Password: ptr("P4ssword")},
			serviceErr: apperr.Validation(
				apperr.FieldError{Field: "username", Key: "username_null"},
			),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body is treated as empty",
			body:       `not a json`,
			input:      users.RegisterInput{},
			serviceErr: apperr.Validation(apperr.FieldError{Field: "username", Key: "username_null"}),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "field of wrong type keeps the others",
			body:  `{"username":"user1","email":"a@b.com","password":123}`,
			input: users.RegisterInput{Username: ptr("user1"), Email: ptr("a@b.com")},
			serviceErr: apperr.Validation(
				apperr.FieldError{Field: "password", Key: "password_null"},
			),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "null field is absent",
			body:       `{"username":null,"email":"user1@mail.com","password":"P4ssword"}`,
			input:      users.RegisterInput{Email: ptr("user1@mail.com"), Password: ptr("P4ssword")},
			serviceErr: apperr.Validation(apperr.FieldError{Field: "username", Key: "username_null"}),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "email failure",
			body:       `{"username":"user1","email":"user1@mail.com","password":"P4ssword"}`,
			input:      users.RegisterInput{Username: ptr("user1"), Email: ptr("user1@mail.com"), Password: ptr("P4ssword")},
			serviceErr: apperr.EmailDelivery(errors.New("smtp down")),
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("Register", mock.Anything, tt.input).Return(tt.serviceErr).Once()

			req := httptest.NewRequest(http.MethodPost, "/api/v1/users", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.language != "" {
				req.Header.Set("Accept-Language", tt.language)
			}
			rec := httptest.NewRecorder()
			newHandler(t, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.wantBody != nil {
				assert.Equal(t, tt.wantBody, body)
			} else {
				assert.Equal(t, "/api/v1/users", body["path"])
				assert.Contains(t, body, "timestamp")
				assert.Contains(t, body, "message")
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestRegisterHandler_ValidationBody(t *testing.T) {
	svc := new(MockService)
	svc.On("Register", mock.Anything, mock.Anything).Return(apperr.Validation(
		apperr.FieldError{Field: "username", Key: "username_size"},
		apperr.FieldError{Field: "email", Key: "email_in_use"},
		apperr.FieldError{Field: "password", Key: "password_pattern"},
	)).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users",
		strings.NewReader(`{"username":"usr","email":"user1@mail.com","password":"lowercase"}`))
	req.Header.Set("Accept-Language", "ru")
	rec := httptest.NewRecorder()
	newHandler(t, svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body, 4)
	assert.Equal(t, "Ошибка валидации", body["message"])
	assert.Equal(t, map[string]any{
		"username": "Должно быть от 4 до 32 символов",
		"email":    "E-mail уже используется",
		"password": "Пароль должен содержать хотя бы 1 заглавную букву, 1 строчную букву и 1 цифру",
	}, body["validationErrors"])
}

func TestRegisterHandler_WrongTypeReportsOnlyThatField(t *testing.T) {
	tr, err := i18n.New("en")
	require.NoError(t, err)
	log := sl.Discard()
	svc := users.New(nil, nil, nil, nil, nil, log, 0)
	h := middlewarectx.LocaleMiddleware(tr, log)(New(log, svc, errorhandler.New(tr, log), tr))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users",
		strings.NewReader(`{"username":"user1","email":"user1","password":123}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]any{
		"email":    "E-mail is not valid",
		"password": "Password cannot be null",
	}, body["validationErrors"])
}
