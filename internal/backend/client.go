// backend — единственная точка обращения шлюза к REST-бэкенду статистики.
//
// Клиент прикладывает bearer-токен (когда он есть), сериализует JSON-тела
// и нормализует два формата ответа — конверт {success, data, message} и
// «голое» тело — к полезной нагрузке T. Ошибки поднимаются типизированно
// (см. errors.go). Ретраев и очередей нет.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avoronova/footstats-gateway/internal/config"
)

// Client — HTTP-клиент бэкенда.
type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	httpc     *http.Client
}

// New создаёт клиент по конфигурации. Транспортный таймаут на сам
// http.Client не вешаем: дедлайн управляется контекстом в do, чтобы
// уважать уже существующий дедлайн вызывающего.
func New(cfg config.BackendConfig) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		httpc:     &http.Client{},
	}
}

// envelope — необязательный конверт ответа бэкенда.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// do выполняет один вызов бэкенда.
//
// Контракт:
//   - token != "" — прикладывается Authorization: Bearer <token>;
//   - in != nil — сериализуется в JSON c Content-Type: application/json;
//   - дедлайн: если у ctx его ещё нет и timeout > 0 — навешивается
//     (висящий запрос превращается в транспортную ошибку, а не ждёт вечно);
//   - транспортный сбой -> ошибка, оборачивающая ErrNetwork;
//   - не-2xx -> *HTTPError со статусом и message из тела (если распарсилось);
//   - 2xx и success == false -> *APIError с message из конверта;
//   - успех: data из конверта (если есть) либо всё тело декодируется в out.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	const op = "backend.do"

	status, body, err := c.roundTrip(ctx, method, path, token, in)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if status < 200 || status > 299 {
		return fmt.Errorf("%s: %w", op, httpError(status, body))
	}

	if err := normalize(body, out); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// roundTrip — транспортная часть do: запрос, ответ, чтение тела.
func (c *Client) roundTrip(ctx context.Context, method, path, token string, in any) (int, []byte, error) {
	if c.timeout > 0 {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
	}

	var reqBody io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return 0, nil, err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	return resp.StatusCode, body, nil
}

// httpError собирает *HTTPError: message из тела ошибки, если оно
// распарсилось, иначе генерик-строка со статусом.
func httpError(status int, body []byte) *HTTPError {
	msg := fmt.Sprintf("HTTP error! status: %d", status)

	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		msg = env.Message
	}

	return &HTTPError{Status: status, Message: msg}
}

// normalize приводит 2xx-тело к полезной нагрузке out.
//
// Поведение:
//   - пустое тело — успех без данных;
//   - тело-объект с полем success == false -> *APIError;
//   - конверт с data -> декодируется data;
//   - иначе тело декодируется как есть (голая форма).
func normalize(body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err == nil {
		if env.Success != nil && !*env.Success {
			return &APIError{Message: apiMessage(env.Message)}
		}

		if len(env.Data) > 0 && !bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
			if out == nil {
				return nil
			}
			return json.Unmarshal(env.Data, out)
		}
	}

	// Тело без конверта (или не объект) — отдаём как есть.
	if out == nil {
		return nil
	}

	return json.Unmarshal(trimmed, out)
}

func apiMessage(msg string) string {
	if msg == "" {
		return "request failed"
	}
	return msg
}
