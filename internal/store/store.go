// store — персистентное key-value хранилище сессионных данных шлюза:
// пара токенов и кэшированный профиль для каждой браузерной сессии.
//
// Единственный источник истины по TokenPair и кэшу профиля: остальные
// компоненты читают через Store и не держат собственных копий токенов.
// Сетевых вызовов и валидации здесь нет; каждая мутация долговечна сразу.
package store

import (
	"context"
	"errors"

	"github.com/avoronova/footstats-gateway/internal/models"
)

var (
	// ErrClosed — операция над уже закрытым хранилищем.
	ErrClosed = errors.New("store is closed")
)

// Store — контракт хранилища сессионных данных.
// Реализации обязаны быть безопасны для конкурентного использования.
//
// Отсутствие сессии или отдельных ключей — не ошибка: Tokens возвращает
// нулевую пару, CachedUser — nil.
type Store interface {
	// SetTokens сохраняет пару токенов сессии sid. Оба поля записываются
	// атомарно с точки зрения читателей: наблюдать один обновлённый
	// токен при втором устаревшем нельзя.
	SetTokens(ctx context.Context, sid string, pair models.TokenPair) error

	// Tokens возвращает сохранённую пару (нулевая пара, если её нет).
	Tokens(ctx context.Context, sid string) (models.TokenPair, error)

	// SetCachedUser сохраняет кэшированный профиль сессии.
	// Пишется только в момент login/register (см. Auth Service).
	SetCachedUser(ctx context.Context, sid string, profile models.UserProfile) error

	// CachedUser возвращает кэшированный профиль или nil.
	CachedUser(ctx context.Context, sid string) (*models.UserProfile, error)

	// Clear удаляет токены и кэш профиля сессии. Используется при
	// logout и при обнаружении недействительной сессии. Отсутствие
	// сессии ошибкой не считается.
	Clear(ctx context.Context, sid string) error

	// Close освобождает ресурсы бэкенда.
	Close() error
}
