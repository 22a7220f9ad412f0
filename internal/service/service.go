// service содержит бизнес-логику шлюза: оркестрацию register/login/
// logout/refresh поверх REST-клиента бэкенда и синхронизацию Token Store,
// а также разрешение текущей сессии (session.go).
//
// Основные аспекты:
//   - Единственный компонент, которому позволено мутировать Token Store
//     по результату сетевого вызова.
//   - Экземпляр Service безопасен для конкурентного использования при
//     условии, что переданное хранилище потокобезопасно. Порядок
//     конкурирующих auth-операций не фиксируется: побеждает последняя
//     запись в Token Store (операции инициируются жестами пользователя
//     и на практике сериализованы интерфейсом).
//   - Ошибки возвращаются и далее маппятся HTTP-слоем (internal/errors).
package service

import (
	"context"
	"errors"

	"github.com/avoronova/footstats-gateway/internal/config"
	"github.com/avoronova/footstats-gateway/internal/models"
	"github.com/avoronova/footstats-gateway/internal/store"
)

var (
	// ErrPasswordMismatch — пароль и подтверждение не совпадают.
	// Ловится до какого-либо сетевого вызова. HTTP 400.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrMissingFields — не заполнены обязательные поля формы.
	// Ловится до какого-либо сетевого вызова. HTTP 400.
	ErrMissingFields = errors.New("required fields are missing")

	// ErrNotAuthenticated — операция требует сохранённых токенов,
	// а их нет. HTTP 401.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrLogoutNotAcknowledged — локально сессия завершена, но бэкенд
	// не подтвердил logout (например, offline). Не блокирует выход:
	// HTTP-слой отдаёт успех с пометкой о расхождении.
	ErrLogoutNotAcknowledged = errors.New("logout not acknowledged by backend")
)

// Backend — контракт REST-клиента бэкенда, который использует Service.
// Реализуется backend.Client; в тестах подменяется моком.
//
// Мок: mockgen -source=./internal/service/service.go -destination=./mocks/backend.go -package=mocks
type Backend interface {
	Register(ctx context.Context, req models.RegistrationRequest) (*models.AuthResult, error)
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Me(ctx context.Context, accessToken string) (*models.UserProfile, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword, confirm string) error
}

// Service — бизнес-логика шлюза.
type Service struct {
	backend Backend
	store   store.Store
	cfg     config.AuthConfig
}

// New создаёт новый экземпляр Service.
func New(backend Backend, st store.Store, cfg config.AuthConfig) *Service {
	return &Service{
		backend: backend,
		store:   st,
		cfg:     cfg,
	}
}
