// errors стандартизирует ответы об ошибках HTTP-слоя шлюза.
// На вход он принимает ошибку (таксономия backend/service), а на выход даёт:
//   - корректный HTTP-статус;
//   - короткий машиночитаемый code;
//   - краткое безопасное message без утечки деталей апстрима.
//
// Источник истинности по маппингу: internal/backend (транспортная
// таксономия) и internal/service (доменные ошибки).
package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avoronova/footstats-gateway/internal/backend"
	"github.com/avoronova/footstats-gateway/internal/service"
)

// APIError — единый формат ошибки для фронта.
// Code — короткий стабильный код для машиночитаемой обработки.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil — программная ошибка вызова: 500/internal, чтобы не
//     отдать "200 OK" с телом ошибки и не замаскировать баг;
//   - валидационные ошибки сервиса -> 400;
//   - отсутствие сессии -> 401;
//   - транспортный сбой до бэкенда -> 503/upstream_unavailable;
//   - *backend.HTTPError -> статус апстрима и его message
//     (прикладной текст нужен формам: например, «e-mail не подтверждён»);
//   - *backend.APIError -> 400 c message из конверта (вызывающие
//     обрабатывают его так же, как HTTP-ошибку);
//   - прочее -> 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, response("internal", "internal error")
	}

	switch {
	case errors.Is(err, service.ErrPasswordMismatch):
		return http.StatusBadRequest, response("password_mismatch", "passwords do not match")
	case errors.Is(err, service.ErrMissingFields):
		return http.StatusBadRequest, response("invalid_argument", "required fields are missing")
	case errors.Is(err, service.ErrNotAuthenticated):
		return http.StatusUnauthorized, response("unauthenticated", "not authenticated")
	case errors.Is(err, backend.ErrNetwork):
		return http.StatusServiceUnavailable, response("upstream_unavailable", "backend unavailable")
	}

	var httpErr *backend.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status, response(codeFromStatus(httpErr.Status), httpErr.Message)
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return http.StatusBadRequest, response("request_failed", apiErr.Message)
	}

	return http.StatusInternalServerError, response("internal", "internal error")
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func response(code, msg string) ErrorResponse {
	return ErrorResponse{Error: APIError{Code: code, Message: msg}}
}

// codeFromStatus — стабильный code по статусу апстрима.
func codeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_argument"
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusForbidden:
		return "permission_denied"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "already_exists"
	case http.StatusTooManyRequests:
		return "resource_exhausted"
	default:
		if status >= 500 {
			return "upstream_error"
		}
		return "request_failed"
	}
}
