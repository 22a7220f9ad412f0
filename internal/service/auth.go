package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avoronova/footstats-gateway/internal/backend"
	logctx "github.com/avoronova/footstats-gateway/internal/pkg/log"
	"github.com/avoronova/footstats-gateway/internal/pkg/redact"
	"github.com/avoronova/footstats-gateway/internal/models"
)

// Register регистрирует пользователя и открывает сессию sid.
// Совпадение паролей и обязательные поля проверяются до сетевого вызова;
// токены сохраняются только при успехе.
func (s *Service) Register(ctx context.Context, sid string, req models.RegistrationRequest) (*models.UserProfile, error) {
	const op = "service.auth.Register"

	if err := validateRegistration(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	res, err := s.backend.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.persistAuth(ctx, sid, res); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return res.User, nil
}

// Login выполняет вход и открывает сессию sid. RememberMe уходит бэкенду
// как подсказка; длительность хранения на шлюзе от него не зависит.
// Повторный логин целиком перезаписывает сохранённую пару.
func (s *Service) Login(ctx context.Context, sid string, creds models.Credentials) (*models.UserProfile, error) {
	const op = "service.auth.Login"

	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingFields)
	}

	res, err := s.backend.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.persistAuth(ctx, sid, res); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logctx.From(ctx).Info("login_ok", slog.String("email", redact.Email(creds.Email)))

	return res.User, nil
}

// Logout завершает сессию sid.
//
// Политика (осознанное решение, не упущение): локальная очистка токенов
// выполняется независимо от исхода сетевого вызова — намерение
// пользователя завершить сессию важнее подтверждения сервера (например,
// offline). Если бэкенд не подтвердил logout, возвращается
// ErrLogoutNotAcknowledged поверх уже очищенного состояния.
func (s *Service) Logout(ctx context.Context, sid string) error {
	const op = "service.auth.Logout"

	pair, err := s.store.Tokens(ctx, sid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var serverErr error
	if pair.RefreshToken != "" {
		serverErr = s.backend.Logout(ctx, pair.RefreshToken)
	}

	if err := s.store.Clear(ctx, sid); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if serverErr != nil {
		logctx.From(ctx).Warn("logout_not_acknowledged",
			slog.String("sid", redact.SID(sid)),
			slog.String("err", serverErr.Error()),
		)

		return fmt.Errorf("%s: %w", op, ErrLogoutNotAcknowledged)
	}

	return nil
}

// Refresh обменивает сохранённый refresh-токен на новую пару.
// При успехе пара перезаписывается; при ошибке токены НЕ очищаются —
// вызывающий решает, «сессия мертва» это или временный сбой сети.
func (s *Service) Refresh(ctx context.Context, sid string) (models.TokenPair, error) {
	const op = "service.auth.Refresh"

	pair, err := s.store.Tokens(ctx, sid)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	if pair.RefreshToken == "" {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	fresh, err := s.backend.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.SetTokens(ctx, sid, *fresh); err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	return *fresh, nil
}

// IsAuthenticated — чисто локальная проверка наличия access-токена.
// Ни срок действия, ни подпись не проверяются: устаревание обнаруживается
// лениво, на ближайшем вызове бэкенда.
func (s *Service) IsAuthenticated(ctx context.Context, sid string) (bool, error) {
	const op = "service.auth.IsAuthenticated"

	pair, err := s.store.Tokens(ctx, sid)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return !pair.Empty(), nil
}

// Tokens — сквозное чтение сохранённой пары из Token Store.
func (s *Service) Tokens(ctx context.Context, sid string) (models.TokenPair, error) {
	return s.store.Tokens(ctx, sid)
}

// EnsureFresh — упреждающее обновление пары (включается конфигом,
// по умолчанию выключено: исходное поведение — refresh только явно).
// Если access-токен разбирается как JWT и его exp наступает раньше, чем
// через RefreshLeeway, выполняется Refresh. Подпись не проверяется —
// шлюзу нужен только exp. Ошибка обновления не фатальна: токены остаются,
// устаревание обнаружится лениво.
func (s *Service) EnsureFresh(ctx context.Context, sid string) {
	if !s.cfg.ProactiveRefresh {
		return
	}

	pair, err := s.store.Tokens(ctx, sid)
	if err != nil || pair.Empty() {
		return
	}

	exp, ok := tokenExpiry(pair.AccessToken)
	if !ok {
		// Непрозрачный (не-JWT) токен: упреждать нечем.
		return
	}

	if time.Until(exp) > s.cfg.RefreshLeeway {
		return
	}

	if _, err := s.Refresh(ctx, sid); err != nil {
		logctx.From(ctx).Warn("proactive_refresh_failed",
			slog.String("sid", redact.SID(sid)),
			slog.String("err", err.Error()),
		)
	}
}

// tokenExpiry достаёт exp из JWT без проверки подписи.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}

// VerifyEmail подтверждает e-mail по токену из письма.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	const op = "service.auth.VerifyEmail"

	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%s: %w", op, ErrMissingFields)
	}

	if err := s.backend.VerifyEmail(ctx, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ResendVerification повторно запрашивает письмо подтверждения.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	const op = "service.auth.ResendVerification"

	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%s: %w", op, ErrMissingFields)
	}

	if err := s.backend.ResendVerification(ctx, email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ForgotPassword инициирует восстановление пароля.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	const op = "service.auth.ForgotPassword"

	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%s: %w", op, ErrMissingFields)
	}

	if err := s.backend.ForgotPassword(ctx, email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ResetPassword завершает восстановление пароля.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword, confirm string) error {
	const op = "service.auth.ResetPassword"

	if strings.TrimSpace(token) == "" || newPassword == "" {
		return fmt.Errorf("%s: %w", op, ErrMissingFields)
	}

	if newPassword != confirm {
		return fmt.Errorf("%s: %w", op, ErrPasswordMismatch)
	}

	if err := s.backend.ResetPassword(ctx, token, newPassword, confirm); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// persistAuth сохраняет результат register/login: пару токенов и,
// если бэкенд прислал профиль, его кэшированную копию. Кэш пишется
// ТОЛЬКО здесь: путь чтения (Session Resolver) никогда не превращается
// в путь записи.
func (s *Service) persistAuth(ctx context.Context, sid string, res *models.AuthResult) error {
	if err := s.store.SetTokens(ctx, sid, res.Pair()); err != nil {
		return err
	}

	if res.User != nil {
		if err := s.store.SetCachedUser(ctx, sid, *res.User); err != nil {
			return err
		}
	}

	return nil
}

// validateRegistration — клиентская валидация формы регистрации.
func validateRegistration(req models.RegistrationRequest) error {
	if strings.TrimSpace(req.Username) == "" ||
		strings.TrimSpace(req.Email) == "" ||
		req.Password == "" ||
		strings.TrimSpace(req.FullName) == "" {
		return ErrMissingFields
	}

	if req.Password != req.ConfirmPassword {
		return ErrPasswordMismatch
	}

	return nil
}

// Ключевые слова, по которым логин-форма распознаёт «e-mail не подтверждён»
// в тексте ошибки бэкенда. Эвристика хрупкая и намеренно изолирована в
// одном предикате: когда контракт бэкенда получит структурный код ошибки,
// заменить нужно будет только это место.
var verificationKeywords = []string{
	"verify",
	"verification",
	"not verified",
	"confirm your email",
}

// IsVerificationPending распознаёт отказ «e-mail не подтверждён» среди
// прочих ошибок аутентификации.
func IsVerificationPending(err error) bool {
	if err == nil {
		return false
	}

	var msg string

	var httpErr *backend.HTTPError
	var apiErr *backend.APIError
	switch {
	case errors.As(err, &httpErr):
		msg = httpErr.Message
	case errors.As(err, &apiErr):
		msg = apiErr.Message
	default:
		return false
	}

	msg = strings.ToLower(msg)
	for _, kw := range verificationKeywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}

	return false
}
