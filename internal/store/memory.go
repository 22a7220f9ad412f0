package store

import (
	"context"
	"sync"
	"time"

	"github.com/avoronova/footstats-gateway/internal/models"
)

// sessionEntry — данные одной браузерной сессии.
type sessionEntry struct {
	pair      models.TokenPair
	user      *models.UserProfile
	expiresAt time.Time
}

// MemoryStore — хранилище в памяти процесса. Подходит для одного
// экземпляра шлюза; для нескольких — RedisStore.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
	closed   bool
	done     chan struct{}
}

// NewMemoryStore создаёт in-memory хранилище. ttl — время жизни сессии
// (<=0 — без истечения); sweep — период уборки истёкших записей
// (<=0 — 1 минута).
func NewMemoryStore(ttl, sweep time.Duration) *MemoryStore {
	if sweep <= 0 {
		sweep = time.Minute
	}

	s := &MemoryStore{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		done:     make(chan struct{}),
	}

	go s.sweepLoop(sweep)

	return s
}

func (s *MemoryStore) entry(sid string) *sessionEntry {
	e, ok := s.sessions[sid]
	if !ok {
		e = &sessionEntry{}
		s.sessions[sid] = e
	}

	if s.ttl > 0 {
		e.expiresAt = time.Now().Add(s.ttl)
	}

	return e
}

// alive сообщает, жива ли запись (не истёк TTL).
func (s *MemoryStore) alive(e *sessionEntry) bool {
	return e != nil && (e.expiresAt.IsZero() || time.Now().Before(e.expiresAt))
}

func (s *MemoryStore) SetTokens(_ context.Context, sid string, pair models.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	// Пара пишется одним присваиванием под блокировкой — читатель
	// никогда не увидит access без refresh.
	s.entry(sid).pair = pair

	return nil
}

func (s *MemoryStore) Tokens(_ context.Context, sid string) (models.TokenPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return models.TokenPair{}, ErrClosed
	}

	e := s.sessions[sid]
	if !s.alive(e) {
		return models.TokenPair{}, nil
	}

	return e.pair, nil
}

func (s *MemoryStore) SetCachedUser(_ context.Context, sid string, profile models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	p := profile
	s.entry(sid).user = &p

	return nil
}

func (s *MemoryStore) CachedUser(_ context.Context, sid string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	e := s.sessions[sid]
	if !s.alive(e) || e.user == nil {
		return nil, nil
	}

	p := *e.user
	return &p, nil
}

func (s *MemoryStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	delete(s.sessions, sid)

	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	close(s.done)
	s.sessions = nil

	return nil
}

// sweepLoop периодически удаляет истёкшие сессии.
func (s *MemoryStore) sweepLoop(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-t.C:
			now := time.Now()

			s.mu.Lock()
			for sid, e := range s.sessions {
				if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
					delete(s.sessions, sid)
				}
			}
			s.mu.Unlock()
		}
	}
}
