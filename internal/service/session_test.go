package service

// Тесты разрешения сессии (session.go).
//
//  Проверяем:
//  - анонимный short-circuit без единого сетевого вызова;
//  - живой профиль при доступном бэкенде (и отсутствие записи в кэш);
//  - откат на кэшированный профиль при сбое сети;
//  - самоочистку: сбой сети без кэша завершает сессию локально.

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/avoronova/footstats-gateway/internal/backend"
	"github.com/avoronova/footstats-gateway/internal/config"
	"github.com/avoronova/footstats-gateway/internal/models"
)

// TestResolveSession_Anonymous — без токенов резолвер не ходит в сеть
// (мок без EXPECT) и сразу отвечает анонимом.
func TestResolveSession_Anonymous(t *testing.T) {
	t.Parallel()

	svc, _, _, ctrl := newSvc(t, config.AuthConfig{})
	defer ctrl.Finish()

	sess, err := svc.ResolveSession(context.Background(), sid)
	require.NoError(t, err)
	require.False(t, sess.Authenticated)
	require.Nil(t, sess.User)
}

// TestResolveSession_Live — бэкенд доступен: профиль живой, источник live,
// кэш при этом НЕ обновляется (он пишется только при login/register).
func TestResolveSession_Live(t *testing.T) {
	t.Parallel()

	svc, bk, st, ctrl := newSvc(t, config.AuthConfig{})
	defer ctrl.Finish()

	ctx := context.Background()
	require.NoError(t, st.SetTokens(ctx, sid, models.TokenPair{AccessToken: "AT1", RefreshToken: "RT1"}))

	user := &models.UserProfile{UserID: "u1", Username: "lev", IsEmailVerified: true}
	bk.EXPECT().Me(gomock.Any(), "AT1").Return(user, nil)

	sess, err := svc.ResolveSession(ctx, sid)
	require.NoError(t, err)
	require.True(t, sess.Authenticated)
	require.Equal(t, models.SourceLive, sess.Source)
	require.Equal(t, user, sess.User)

	cached, err := st.CachedUser(ctx, sid)
	require.NoError(t, err)
	require.Nil(t, cached)
}

// TestResolveSession_CacheFallback — сбой сети при наличии кэша: сессия
// остаётся аутентифицированной на кэшированном профиле, токены целы.
func TestResolveSession_CacheFallback(t *testing.T) {
	t.Parallel()

	svc, bk, st, ctrl := newSvc(t, config.AuthConfig{})
	defer ctrl.Finish()

	ctx := context.Background()
	require.NoError(t, st.SetTokens(ctx, sid, models.TokenPair{AccessToken: "AT1", RefreshToken: "RT1"}))
	require.NoError(t, st.SetCachedUser(ctx, sid, models.UserProfile{UserID: "u1", Username: "lev"}))

	bk.EXPECT().Me(gomock.Any(), "AT1").
		Return(nil, backend.ErrNetwork)

	sess, err := svc.ResolveSession(ctx, sid)
	require.NoError(t, err)
	require.True(t, sess.Authenticated)
	require.Equal(t, models.SourceCache, sess.Source)
	require.NotNil(t, sess.User)
	require.Equal(t, "u1", sess.User.UserID)

	pair, err := st.Tokens(ctx, sid)
	require.NoError(t, err)
	require.Equal(t, "AT1", pair.AccessToken)
}

// TestResolveSession_SelfHeal — сбой при ПУСТОМ кэше: токены считаются
// осиротевшими, сессия завершается локально, повторный резолв анонимен.
func TestResolveSession_SelfHeal(t *testing.T) {
	t.Parallel()

	svc, bk, st, ctrl := newSvc(t, config.AuthConfig{})
	defer ctrl.Finish()

	ctx := context.Background()
	require.NoError(t, st.SetTokens(ctx, sid, models.TokenPair{AccessToken: "AT1", RefreshToken: "RT1"}))

	bk.EXPECT().Me(gomock.Any(), "AT1").
		Return(nil, &backend.HTTPError{Status: 401, Message: "token expired"})

	sess, err := svc.ResolveSession(ctx, sid)
	require.NoError(t, err)
	require.False(t, sess.Authenticated)

	pair, err := st.Tokens(ctx, sid)
	require.NoError(t, err)
	require.True(t, pair.Empty())

	sess, err = svc.ResolveSession(ctx, sid)
	require.NoError(t, err)
	require.False(t, sess.Authenticated)
}
