package middlewarectx

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
)

func TestRedactTokens(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{name: "activation path", uri: "/api/v1/users/token/0123456789abcdef", want: "/api/v1/users/token/[redacted]"},
		{name: "with query", uri: "/api/v1/users/token/abc?x=1", want: "/api/v1/users/token/[redacted]?x=1"},
		{name: "other path", uri: "/api/v1/users/15", want: "/api/v1/users/15"},
		{name: "list", uri: "/api/v1/users?page=1", want: "/api/v1/users?page=1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RedactTokens(tt.uri))
		})
	}
}

func TestAccessLogFormatter_HidesToken(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	handler := middleware.RequestLogger(NewAccessLogFormatter(log))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/users/token/0123456789abcdef", r.RequestURI)
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/token/0123456789abcdef", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "/api/v1/users/token/[redacted]")
	assert.NotContains(t, out, "0123456789abcdef")
}
