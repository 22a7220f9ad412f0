package middleware

import (
	"context"
	"net/http"

	apierrors "github.com/avoronova/footstats-gateway/internal/errors"
	"github.com/avoronova/footstats-gateway/internal/models"
	"github.com/avoronova/footstats-gateway/internal/service"
)

// RequireAuth защищает страницы от неаутентифицированного доступа.
//
// Поведение:
//   - сохранённого токена нет -> немедленный 302 на loginPath, БЕЗ похода
//     за профилем (тратить round-trip на заведомо отсутствующий токен
//     незачем; счётчик вызовов бэкенда остаётся нулевым);
//   - токен есть, но Session Resolver разрешил сессию в анонимную
//     (мёртвый токен) -> 302 на loginPath;
//   - сессия разрешена -> кладётся в контекст по ключу CtxSession.
func RequireAuth(svc *service.Service, loginPath string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := SessionID(r.Context())

			ok, err := svc.IsAuthenticated(r.Context(), sid)
			if err != nil {
				apierrors.WriteError(w, r, err)
				return
			}

			if !ok {
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}

			svc.EnsureFresh(r.Context(), sid)

			sess, err := svc.ResolveSession(r.Context(), sid)
			if err != nil {
				apierrors.WriteError(w, r, err)
				return
			}

			if !sess.Authenticated {
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), CtxSession, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromCtx достаёт разрешённую сессию, положенную RequireAuth.
func SessionFromCtx(ctx context.Context) (models.Session, bool) {
	if v := ctx.Value(CtxSession); v != nil {
		if s, ok := v.(models.Session); ok {
			return s, true
		}
	}

	return models.Session{}, false
}
