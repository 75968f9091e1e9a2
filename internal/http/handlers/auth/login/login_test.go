package login

import (
	"context"
	"encoding/json"
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
	"github.com/magabrotheeeer/user-accounts/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Authenticate(ctx context.Context, email, password string) (models.UserSummary, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(models.UserSummary), args.Error(1)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	tr, err := i18n.New("en")
	require.NoError(t, err)
	log := sl.Discard()

	tests := []struct {
		name         string
		body         string
		language     string
		wantEmail    string
		wantPassword string
		summary      models.UserSummary
		serviceErr   error
		wantStatus   int
		wantBody     map[string]any
	}{
		{
			name:         "valid credentials",
			body:         `{"email":"user1@mail.com","password":"P4ssword"}`,
			wantEmail:    "user1@mail.com",
			wantPassword: "P4ssword",
			summary:      models.UserSummary{ID: 7, Username: "user1"},
			wantStatus:   http.StatusOK,
			wantBody:     map[string]any{"id": float64(7), "username": "user1"},
		},
		{
			name:         "wrong password",
			body:         `{"email":"user1@mail.com","password":"Wr0ng"}`,
			wantEmail:    "user1@mail.com",
			wantPassword: "Wr0ng",
			serviceErr:   apperr.Authentication(),
			wantStatus:   http.StatusUnauthorized,
			wantBody:     map[string]any{"path": "/api/v1/auth", "message": "Incorrect credentials"},
		},
		{
			name:         "inactive account ru",
			body:         `{"email":"user1@mail.com","password":"P4ssword"}`,
			language:     "ru",
			wantEmail:    "user1@mail.com",
			wantPassword: "P4ssword",
			serviceErr:   apperr.InactiveAccount(),
			wantStatus:   http.StatusForbidden,
			wantBody:     map[string]any{"path": "/api/v1/auth", "message": "Учётная запись не активирована"},
		},
		{
			name:       "malformed body",
			body:       `not a json`,
			serviceErr: apperr.Authentication(),
			wantStatus: http.StatusUnauthorized,
			wantBody:   map[string]any{"path": "/api/v1/auth", "message": "Incorrect credentials"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("Authenticate", mock.Anything, tt.wantEmail, tt.wantPassword).
				Return(tt.summary, tt.serviceErr).Once()

			h := middlewarectx.LocaleMiddleware(tr, log)(New(log, svc, errorhandler.New(tr, log)))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth", strings.NewReader(tt.body))
			if tt.language != "" {
				req.Header.Set("Accept-Language", tt.language)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.serviceErr != nil {
				assert.Contains(t, body, "timestamp")
				delete(body, "timestamp")
			}
			assert.Equal(t, tt.wantBody, body)
			assert.NotContains(t, rec.Body.String(), "password")
			svc.AssertExpectations(t)
		})
	}
}
