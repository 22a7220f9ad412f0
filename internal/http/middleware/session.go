package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/avoronova/footstats-gateway/internal/config"
)

// SessionCookie выдаёт браузеру opaque-идентификатор сессии и кладёт его
// в контекст запроса по ключу CtxSessionID.
//
// Кука — HttpOnly: токены к клиентскому коду не попадают вовсе, в браузере
// живёт только идентификатор. Если куки нет — генерируется новая
// (криптографически стойкий hex, 32 символа).
func SessionCookie(cfg config.SessionConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := ""
			if c, err := r.Cookie(cfg.CookieName); err == nil && c.Value != "" {
				sid = c.Value
			}

			if sid == "" {
				sid = genID()

				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    sid,
					Path:     "/",
					MaxAge:   int(cfg.TTL.Seconds()),
					HttpOnly: true,
					Secure:   cfg.CookieSecure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), CtxSessionID, sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// genID — криптографически стойкий hex-идентификатор сессии (32 символа).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
