package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/avoronova/footstats-gateway/internal/models"
)

// REST-поверхность бэкенда, которую потребляет шлюз.
const (
	pathRegister           = "/api/auth/register"
	pathLogin              = "/api/auth/login"
	pathLogout             = "/api/auth/logout"
	pathRefresh            = "/api/auth/refresh-token"
	pathMe                 = "/api/auth/me"
	pathVerifyEmail        = "/api/auth/verify-email"
	pathResendVerification = "/api/auth/resend-verification"
	pathForgotPassword     = "/api/auth/forgot-password"
	pathResetPassword      = "/api/auth/reset-password"
)

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token              string `json:"token"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

// Register регистрирует пользователя и возвращает выданную пару токенов
// (и, если бэкенд его прислал, профиль).
func (c *Client) Register(ctx context.Context, req models.RegistrationRequest) (*models.AuthResult, error) {
	var out models.AuthResult
	if err := c.do(ctx, http.MethodPost, pathRegister, "", req, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Login выполняет вход по e-mail и паролю.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	var out models.AuthResult
	if err := c.do(ctx, http.MethodPost, pathLogin, "", creds, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Logout сообщает бэкенду о завершении сессии. Тело ответа игнорируется.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, http.MethodPost, pathLogout, "", refreshRequest{RefreshToken: refreshToken}, nil)
}

// Refresh обменивает refresh-токен на новую пару.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	var out models.TokenPair
	if err := c.do(ctx, http.MethodPost, pathRefresh, "", refreshRequest{RefreshToken: refreshToken}, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Me возвращает живой профиль владельца access-токена.
func (c *Client) Me(ctx context.Context, accessToken string) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := c.do(ctx, http.MethodGet, pathMe, accessToken, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// VerifyEmail подтверждает e-mail по токену из письма.
//
// Особый случай: эндпойнт подтверждения не следует стандартному конверту,
// поэтому HTTP 200 считается успехом независимо от формы тела.
func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	const op = "backend.VerifyEmail"

	path := pathVerifyEmail + "?token=" + url.QueryEscape(token)

	status, body, err := c.roundTrip(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if status == http.StatusOK {
		return nil
	}

	return fmt.Errorf("%s: %w", op, httpError(status, body))
}

// ResendVerification повторно отправляет письмо подтверждения.
func (c *Client) ResendVerification(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, pathResendVerification, "", emailRequest{Email: email}, nil)
}

// ForgotPassword инициирует восстановление пароля.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, pathForgotPassword, "", emailRequest{Email: email}, nil)
}

// ResetPassword завершает восстановление пароля по токену из письма.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword, confirm string) error {
	req := resetPasswordRequest{
		Token:              token,
		NewPassword:        newPassword,
		ConfirmNewPassword: confirm,
	}

	return c.do(ctx, http.MethodPost, pathResetPassword, "", req, nil)
}
