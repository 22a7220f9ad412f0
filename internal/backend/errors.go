package backend

import (
	"errors"
	"fmt"
)

// Таксономия ошибок клиента бэкенда (различимы через errors.Is/As):
//   - ErrNetwork — транспортный сбой, ответа нет (DNS/offline/оборванный коннект);
//   - HTTPError — ответ с не-2xx статусом;
//   - APIError — 2xx, но в теле success == false.
//
// Ретраев здесь нет: каждый вызов одноразовый, решение о повторе — за вызывающим.
var (
	// ErrNetwork — запрос не дошёл до сервера или ответ не получен.
	ErrNetwork = errors.New("network failure")
)

// HTTPError — ответ бэкенда с не-2xx статусом. Message берётся из поля
// message тела ошибки, если оно есть, иначе — генерик-строка.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("backend: http %d: %s", e.Status, e.Message)
}

// APIError — прикладная ошибка при успешном транспорте
// (2xx и success == false в конверте). Вызывающие обрабатывают её
// так же, как HTTPError.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return "backend: api: " + e.Message
}
