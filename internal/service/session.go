package service

import (
	"context"
	"fmt"
	"log/slog"

	logctx "github.com/avoronova/footstats-gateway/internal/pkg/log"
	"github.com/avoronova/footstats-gateway/internal/pkg/redact"
	"github.com/avoronova/footstats-gateway/internal/models"
)

// ResolveSession — Session Resolver: UI-готовый ответ «кто сейчас
// залогинен» с постепенной деградацией.
//
// Алгоритм:
//  1. нет сохранённого access-токена -> анонимная сессия, без сети;
//  2. живой запрос профиля к бэкенду; успех -> авторитетный результат
//     (в кэш НЕ записывается: кэш обновляется только при логине);
//  3. при ошибке — кэшированный профиль, если он есть (деградированный,
//     но рабочий режим); если кэша нет — токен считается недействительным:
//     Token Store очищается, сессия анонимная (самовосстановление).
//
// Двухъярусная стратегия переживает временную недоступность бэкенда
// (пользователь остаётся залогиненным на устаревших данных) и при этом
// лечит по-настоящему мёртвые токены: отсутствие кэша означает, что токен
// либо никогда не был валиден, либо кэш уже был очищен.
func (s *Service) ResolveSession(ctx context.Context, sid string) (models.Session, error) {
	const op = "service.session.ResolveSession"

	pair, err := s.store.Tokens(ctx, sid)
	if err != nil {
		return models.Anonymous(), fmt.Errorf("%s: %w", op, err)
	}

	if pair.Empty() {
		return models.Anonymous(), nil
	}

	profile, liveErr := s.backend.Me(ctx, pair.AccessToken)
	if liveErr == nil {
		return models.Session{
			Authenticated: true,
			User:          profile,
			Source:        models.SourceLive,
		}, nil
	}

	cached, err := s.store.CachedUser(ctx, sid)
	if err != nil {
		return models.Anonymous(), fmt.Errorf("%s: %w", op, err)
	}

	if cached != nil {
		logctx.From(ctx).Warn("session_degraded_to_cache",
			slog.String("sid", redact.SID(sid)),
			slog.String("err", liveErr.Error()),
		)

		return models.Session{
			Authenticated: true,
			User:          cached,
			Source:        models.SourceCache,
		}, nil
	}

	// Живой запрос упал и кэша нет: токен недействителен.
	if err := s.store.Clear(ctx, sid); err != nil {
		return models.Anonymous(), fmt.Errorf("%s: %w", op, err)
	}

	logctx.From(ctx).Info("session_invalidated",
		slog.String("sid", redact.SID(sid)),
	)

	return models.Anonymous(), nil
}
