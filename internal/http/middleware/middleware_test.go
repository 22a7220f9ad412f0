package middleware

// Тесты middleware шлюза.
//
//  Проверяем:
//  - выдачу и повторное использование сессионной куки;
//  - гейт защищённых страниц: 302 без токена (и без сети), 302 на мёртвом
//    токене, пропуск с сессией в контексте;
//  - порядок цепочки Chain и пробрасывание request id.

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/avoronova/footstats-gateway/internal/backend"
	"github.com/avoronova/footstats-gateway/internal/config"
	"github.com/avoronova/footstats-gateway/internal/models"
	"github.com/avoronova/footstats-gateway/internal/service"
	"github.com/avoronova/footstats-gateway/internal/store"
	"github.com/avoronova/footstats-gateway/mocks"
)

func sessionCfg() config.SessionConfig {
	return config.SessionConfig{
		CookieName: "fs_sid",
		TTL:        720 * time.Hour,
	}
}

func newGateSvc(t *testing.T) (*service.Service, *mocks.MockBackend, store.Store) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	bk := mocks.NewMockBackend(ctrl)

	st := store.NewMemoryStore(0, time.Hour)
	t.Cleanup(func() { _ = st.Close() })

	return service.New(bk, st, config.AuthConfig{}), bk, st
}

// withSID — запрос с уже разрешённым идентификатором сессии в контексте
// (в бою его кладёт SessionCookie).
func withSID(r *http.Request, sid string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), CtxSessionID, sid))
}

// TestSessionCookie_IssuesCookie — первый визит: кука выдана, id в контексте.
func TestSessionCookie_IssuesCookie(t *testing.T) {
	t.Parallel()

	var gotSID string
	h := SessionCookie(sessionCfg())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSID = SessionID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, gotSID)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "fs_sid", cookies[0].Name)
	require.Equal(t, gotSID, cookies[0].Value)
	require.True(t, cookies[0].HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
}

// TestSessionCookie_ReusesExisting — повторный визит с кукой: id стабилен,
// новая кука не выдаётся.
func TestSessionCookie_ReusesExisting(t *testing.T) {
	t.Parallel()

	var gotSID string
	h := SessionCookie(sessionCfg())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSID = SessionID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "fs_sid", Value: "existing-sid"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "existing-sid", gotSID)
	require.Empty(t, rec.Result().Cookies())
}

// TestRequireAuth_RedirectsAnonymous — защищённая страница без токена:
// 302 на /login и НОЛЬ обращений к бэкенду (мок без EXPECT).
func TestRequireAuth_RedirectsAnonymous(t *testing.T) {
	t.Parallel()

	svc, _, _ := newGateSvc(t)

	h := RequireAuth(svc, "/login")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("protected handler must not be reached")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withSID(httptest.NewRequest(http.MethodGet, "/profile", nil), "anon-sid"))

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

// TestRequireAuth_RedirectsDeadToken — токен есть, но сессия разрешается
// в анонимную (мёртвый токен, кэша нет): 302 и самоочистка хранилища.
func TestRequireAuth_RedirectsDeadToken(t *testing.T) {
	t.Parallel()

	svc, bk, st := newGateSvc(t)

	ctx := context.Background()
	require.NoError(t, st.SetTokens(ctx, "dead-sid", models.TokenPair{AccessToken: "AT1", RefreshToken: "RT1"}))

	bk.EXPECT().Me(gomock.Any(), "AT1").
		Return(nil, &backend.HTTPError{Status: 401, Message: "token expired"})

	h := RequireAuth(svc, "/login")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("protected handler must not be reached")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withSID(httptest.NewRequest(http.MethodGet, "/profile", nil), "dead-sid"))

	require.Equal(t, http.StatusFound, rec.Code)

	pair, err := st.Tokens(ctx, "dead-sid")
	require.NoError(t, err)
	require.True(t, pair.Empty())
}

// TestRequireAuth_PassesWithSession — живая сессия пропускается и доступна
// обработчику через SessionFromCtx.
func TestRequireAuth_PassesWithSession(t *testing.T) {
	t.Parallel()

	svc, bk, st := newGateSvc(t)

	ctx := context.Background()
	require.NoError(t, st.SetTokens(ctx, "live-sid", models.TokenPair{AccessToken: "AT1", RefreshToken: "RT1"}))

	bk.EXPECT().Me(gomock.Any(), "AT1").
		Return(&models.UserProfile{UserID: "u1", Username: "lev"}, nil)

	var sess models.Session
	var found bool

	h := RequireAuth(svc, "/login")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, found = SessionFromCtx(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withSID(httptest.NewRequest(http.MethodGet, "/profile", nil), "live-sid"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, found)
	require.True(t, sess.Authenticated)
	require.Equal(t, "u1", sess.User.UserID)
	require.Equal(t, models.SourceLive, sess.Source)
}

// TestChain_Order — Chain применяет middleware в порядке объявления.
func TestChain_Order(t *testing.T) {
	t.Parallel()

	var order []string

	mk := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mk("first"), mk("second"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"first", "second", "handler"}, order)
}

// TestRequestID_Propagates — id из заголовка сохраняется, без заголовка
// генерируется новый и возвращается в ответе.
func TestRequestID_Propagates(t *testing.T) {
	t.Parallel()

	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "req-42")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "req-42", rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
