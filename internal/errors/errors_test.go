package errors

// Тесты маппинга ошибок в HTTP-ответы (errors.go).

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avoronova/footstats-gateway/internal/backend"
	"github.com/avoronova/footstats-gateway/internal/service"
)

// TestToHTTP_Table — таксономия ошибок -> статус и code.
func TestToHTTP_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "nil_is_internal",
			err:        nil,
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal",
		},
		{
			name:       "password_mismatch",
			err:        service.ErrPasswordMismatch,
			wantStatus: http.StatusBadRequest,
			wantCode:   "password_mismatch",
		},
		{
			name:       "missing_fields_wrapped",
			err:        fmt.Errorf("service.auth.Register: %w", service.ErrMissingFields),
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_argument",
		},
		{
			name:       "not_authenticated",
			err:        service.ErrNotAuthenticated,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "unauthenticated",
		},
		{
			name:       "network_wrapped",
			err:        fmt.Errorf("backend: %w", backend.ErrNetwork),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "upstream_unavailable",
		},
		{
			name:       "http_401_passthrough",
			err:        &backend.HTTPError{Status: 401, Message: "invalid credentials"},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "unauthenticated",
		},
		{
			name:       "http_409",
			err:        &backend.HTTPError{Status: 409, Message: "email already registered"},
			wantStatus: http.StatusConflict,
			wantCode:   "already_exists",
		},
		{
			name:       "http_502_upstream",
			err:        &backend.HTTPError{Status: 502, Message: "bad gateway"},
			wantStatus: http.StatusBadGateway,
			wantCode:   "upstream_error",
		},
		{
			name:       "api_error",
			err:        &backend.APIError{Message: "something went wrong"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "request_failed",
		},
		{
			name:       "unknown_is_internal",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			status, resp := ToHTTP(tt.err)
			require.Equal(t, tt.wantStatus, status)
			require.Equal(t, tt.wantCode, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
		})
	}
}

// TestToHTTP_HTTPErrorMessagePreserved — прикладной текст апстрима доходит
// до фронта дословно (нужен формам для отказов вида «verify your email»).
func TestToHTTP_HTTPErrorMessagePreserved(t *testing.T) {
	t.Parallel()

	_, resp := ToHTTP(&backend.HTTPError{Status: 403, Message: "Please verify your email"})
	require.Equal(t, "Please verify your email", resp.Error.Message)
}

// TestWriteError — статус, конверт и request_id из заголовка.
func TestWriteError(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-42")

	rec := httptest.NewRecorder()
	WriteError(rec, req, service.ErrNotAuthenticated)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "unauthenticated", resp.Error.Code)
	require.Equal(t, "req-42", resp.Error.RequestID)
}
