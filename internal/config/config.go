package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ストアの保存先
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Configはアプリ全体の設定
type Config struct {
	// リモートAPI
	APIBaseURL string        `env:"API_BASE_URL" envDefault:"https://expressjs-zpto.onrender.com/api"`
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
	// 商品一覧のキャッシュ
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"1m"`

	// sqlite/postgres/memory
	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`
	StorePath   string `env:"STORE_PATH" envDefault:".storefront/state.db"`
	// CLIのプロフィール名
	StoreNamespace string `env:"STORE_NAMESPACE" envDefault:"local"`
	// postgresのDSN
	DatabaseURL string `env:"DATABASE_URL"`

	Port string `env:"PORT" envDefault:"8080"`
	// クライアントcookieの署名
	SessionSecret   string        `env:"SESSION_SECRET"`
	ClientCookieTTL time.Duration `env:"CLIENT_COOKIE_TTL" envDefault:"720h"`
	CookieSecure    bool          `env:"COOKIE_SECURE" envDefault:"true"`
	// メモリ上のクライアントを捨てるまで
	ClientIdleTTL time.Duration `env:"CLIENT_IDLE_TTL" envDefault:"30m"`

	CheckoutIntentTTL time.Duration `env:"CHECKOUT_INTENT_TTL" envDefault:"30m"`

	// dev/prod
	GoEnv    string `env:"GO_ENV" envDefault:"prod"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Loadは .env（あれば）と環境変数
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// 既に設定済みの環境変数は上書きしない
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// CLIとサーバー共通の必須チェック
func (c Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute url")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}

	switch c.StoreDriver {
	case DriverSQLite:
		if strings.TrimSpace(c.StorePath) == "" {
			return fmt.Errorf("STORE_PATH is required")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be one of sqlite, postgres, memory")
	}

	if c.StoreNamespace == "" {
		return fmt.Errorf("STORE_NAMESPACE is required")
	}
	if c.CheckoutIntentTTL < 0 {
		return fmt.Errorf("CHECKOUT_INTENT_TTL must not be negative")
	}
	return nil
}

// serveだけの必須チェック
func (c Config) ValidateServe() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.SessionSecret) < 16 {
		return fmt.Errorf("SESSION_SECRET is required (16+ chars)")
	}
	if c.ClientCookieTTL <= 0 {
		return fmt.Errorf("CLIENT_COOKIE_TTL must be positive")
	}
	if c.ClientIdleTTL <= 0 {
		return fmt.Errorf("CLIENT_IDLE_TTL must be positive")
	}
	return nil
}

func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func (c Config) IsDev() bool {
	return c.GoEnv == "dev"
}
