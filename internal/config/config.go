// config — источник загрузки конфигурации шлюза.
//
// Источники (по убыванию приоритета):
//  1. явный путь --config;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. только ENV (cleanenv).
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	Backend  BackendConfig `yaml:"backend"`
	Session  SessionConfig `yaml:"session"`
	Store    StoreConfig   `yaml:"store"`
	Auth     AuthConfig    `yaml:"auth"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// TimeoutConfig — общий дедлайн обработки входящего запроса.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE" env-default:"15s"`
}

// HTTPConfig — публичный HTTP-сервер шлюза.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"50070"`
}

func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// BackendConfig — апстрим REST-бэкенд статистики.
type BackendConfig struct {
	BaseURL string `yaml:"base_url" env:"BACKEND_BASE_URL" env-default:"http://localhost:8080"`
	// Timeout — дедлайн одного исходящего вызова, если у контекста его ещё нет.
	Timeout   time.Duration `yaml:"timeout" env:"BACKEND_TIMEOUT" env-default:"10s"`
	UserAgent string        `yaml:"user_agent" env:"BACKEND_USER_AGENT" env-default:"footstats-gateway"`
}

// SessionConfig — браузерная сессионная кука.
type SessionConfig struct {
	CookieName   string        `yaml:"cookie_name" env:"SESSION_COOKIE_NAME" env-default:"fs_sid"`
	CookieSecure bool          `yaml:"cookie_secure" env:"SESSION_COOKIE_SECURE" env-default:"false"`
	TTL          time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"720h"`
}

// StoreConfig — бэкенд хранилища токенов.
// kind: memory (по умолчанию) или redis.
type StoreConfig struct {
	Kind     string `yaml:"kind" env:"STORE_KIND" env-default:"memory"`
	RedisURL string `yaml:"redis_url" env:"STORE_REDIS_URL" env-default:"redis://localhost:6379/0"`
	Prefix   string `yaml:"prefix" env:"STORE_PREFIX" env-default:"fs:sess:"`
}

// AuthConfig — поведение auth-сервиса шлюза.
type AuthConfig struct {
	// ProactiveRefresh включает упреждающее обновление пары по exp
	// access-токена. Выключено по умолчанию: исходное поведение —
	// refresh только по явному запросу.
	ProactiveRefresh bool `yaml:"proactive_refresh" env:"AUTH_PROACTIVE_REFRESH" env-default:"false"`
	// RefreshLeeway — за сколько до истечения access-токена считать его
	// «почти истёкшим» (используется только при ProactiveRefresh).
	RefreshLeeway time.Duration `yaml:"refresh_leeway" env:"AUTH_REFRESH_LEEWAY" env-default:"30s"`
}

// MustLoad — паника при ошибке загрузки.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 1) --config
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml
	if _, err := os.Stat("local.yaml"); err == nil {
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 4) только ENV
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}
	return &cfg, nil
}
