package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/avoronova/footstats-gateway/internal/errors"
	"github.com/avoronova/footstats-gateway/internal/http/middleware"
	"github.com/avoronova/footstats-gateway/internal/models"
	"github.com/avoronova/footstats-gateway/internal/service"
)

// authResponse — ответ register/login. Токены браузеру не отдаются
// (они живут в Token Store шлюза); фронт получает профиль и адрес,
// на который нужно сделать ПОЛНУЮ навигацию — чтобы каждый компонент
// перечитал сессию с чистого листа.
type authResponse struct {
	User     *models.UserProfile `json:"user,omitempty"`
	Redirect string              `json:"redirect"`
}

type logoutResponse struct {
	LoggedOut bool `json:"loggedOut"`
	// ServerNotified=false — бэкенд не подтвердил logout; локально
	// сессия всё равно завершена (ненавязчивое уведомление для фронта).
	ServerNotified bool `json:"serverNotified"`
}

type emailBody struct {
	Email string `json:"email"`
}

type resetPasswordBody struct {
	Token              string `json:"token"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in models.RegistrationRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrMissingFields)
		return
	}

	sid := middleware.SessionID(r.Context())

	user, err := h.Service.Register(r.Context(), sid, in)
	if err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{User: user, Redirect: "/"})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in models.Credentials
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrMissingFields)
		return
	}

	sid := middleware.SessionID(r.Context())

	user, err := h.Service.Login(r.Context(), sid, in)
	if err != nil {
		h.writeAuthError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{User: user, Redirect: "/"})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	sid := middleware.SessionID(r.Context())

	err := h.Service.Logout(r.Context(), sid)
	if err != nil && !errors.Is(err, service.ErrLogoutNotAcknowledged) {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, logoutResponse{
		LoggedOut:      true,
		ServerNotified: err == nil,
	})
}

func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	sid := middleware.SessionID(r.Context())

	if _, err := h.Service.Refresh(r.Context(), sid); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	// Свежая пара остаётся в Token Store; наружу токены не отдаём.
	writeJSON(w, http.StatusOK, map[string]bool{"refreshed": true})
}

func (h *Handlers) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	if err := h.Service.VerifyEmail(r.Context(), token); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"verified": true})
}

func (h *Handlers) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var in emailBody
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrMissingFields)
		return
	}

	if err := h.Service.ResendVerification(r.Context(), in.Email); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"sent": true})
}

func (h *Handlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in emailBody
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrMissingFields)
		return
	}

	if err := h.Service.ForgotPassword(r.Context(), in.Email); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"sent": true})
}

func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var in resetPasswordBody
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrMissingFields)
		return
	}

	if err := h.Service.ResetPassword(r.Context(), in.Token, in.NewPassword, in.ConfirmNewPassword); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"reset": true})
}

// writeAuthError — ошибки логина/регистрации. Отказ «e-mail не
// подтверждён» распознаётся отдельно, чтобы форма могла предложить
// повторную отправку письма.
func (h *Handlers) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	if service.IsVerificationPending(err) {
		resp := apierrors.ErrorResponse{Error: apierrors.APIError{
			Code:      "email_not_verified",
			Message:   "email is not verified",
			RequestID: r.Header.Get("X-Request-Id"),
		}}
		writeJSON(w, http.StatusForbidden, resp)
		return
	}

	apierrors.WriteError(w, r, err)
}
