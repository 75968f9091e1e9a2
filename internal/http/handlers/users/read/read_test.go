package read

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
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

func (m *MockService) Get(ctx context.Context, id string) (models.UserView, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.UserView), args.Error(1)
}

func newRouter(t *testing.T, svc Service) http.Handler {
	t.Helper()
	tr, err := i18n.New("en")
	require.NoError(t, err)
	log := sl.Discard()

	r := chi.NewRouter()
	r.Use(middlewarectx.LocaleMiddleware(tr, log))
	r.Get("/api/v1/users/{id}", New(log, svc, errorhandler.New(tr, log)).ServeHTTP)
	return r
}

func TestReadHandler(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		language   string
		view       models.UserView
		serviceErr error
		wantStatus int
		wantBody   map[string]any
	}{
		{
			name:       "active user",
			id:         "1",
			view:       models.UserView{ID: 1, Username: "user1", Email: "user1@mail.com"},
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"id": float64(1), "username": "user1", "email": "user1@mail.com"},
		},
		{
			name:       "not found",
			id:         "5",
			serviceErr: apperr.NotFound(),
			wantStatus: http.StatusNotFound,
			wantBody:   map[string]any{"path": "/api/v1/users/5", "message": "User not found"},
		},
		{
			name:       "not found ru",
			id:         "5",
			language:   "ru",
			serviceErr: apperr.NotFound(),
			wantStatus: http.StatusNotFound,
			wantBody:   map[string]any{"path": "/api/v1/users/5", "message": "Пользователь не найден"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("Get", mock.Anything, tt.id).Return(tt.view, tt.serviceErr).Once()

			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+tt.id, nil)
			if tt.language != "" {
				req.Header.Set("Accept-Language", tt.language)
			}
			rec := httptest.NewRecorder()
			newRouter(t, svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.serviceErr != nil {
				assert.Contains(t, body, "timestamp")
				delete(body, "timestamp")
			}
			assert.Equal(t, tt.wantBody, body)
			svc.AssertExpectations(t)
		})
	}
}
