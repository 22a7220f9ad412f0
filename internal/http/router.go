package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avoronova/footstats-gateway/internal/config"
	"github.com/avoronova/footstats-gateway/internal/http/handlers"
	"github.com/avoronova/footstats-gateway/internal/http/middleware"
	"github.com/avoronova/footstats-gateway/internal/service"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
	Session config.SessionConfig
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),                   // безопасно ловим паники
		middleware.RequestID(),                 // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger),        // кладём request-scoped логгер в контекст и логируем
		middleware.Metrics(),                   // счётчики/гистограммы по шаблону маршрута
		middleware.SessionCookie(opts.Session), // opaque-идентификатор браузерной сессии
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	// Зависимости хендлеров.
	h := handlers.New(svc)

	registerRoutes(root, h, svc)

	return root
}

// registerRoutes — единая точка регистрации всех маршрутов.
func registerRoutes(r chi.Router, h *handlers.Handlers, svc *service.Service) {
	// REST для фронта.
	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", h.Register)
		api.Post("/auth/login", h.Login)
		api.Post("/auth/logout", h.Logout)
		api.Post("/auth/refresh", h.Refresh)
		api.Get("/auth/verify-email", h.VerifyEmail)
		api.Post("/auth/resend-verification", h.ResendVerification)
		api.Post("/auth/forgot-password", h.ForgotPassword)
		api.Post("/auth/reset-password", h.ResetPassword)

		api.Get("/session", h.Session)
	})

	// Публичные страницы.
	r.Get("/", h.Page)
	r.Get("/login", h.Page)
	r.Get("/register", h.Page)
	r.Get("/matches", h.Page)
	r.Get("/players", h.Page)
	r.Get("/table", h.Page)

	// Защищённые страницы: профиль и админка.
	r.Group(func(priv chi.Router) {
		priv.Use(middleware.RequireAuth(svc, "/login"))

		priv.Get("/profile", h.Page)
		priv.Get("/admin", h.Page)
		priv.Get("/admin/*", h.Page)
	})
}
