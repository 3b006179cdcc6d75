package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	GatewayREST     = "rest"
	GatewayPostgres = "postgres"
)

var Empty = new(Config)

type Config struct {
	AppEnv       string `envconfig:"APP_ENV"`
	Port         int    `envconfig:"PORT"`
	SentryDSN    string `envconfig:"SENTRY_DSN"`
	AllowOrigins string `envconfig:"ALLOW_ORIGINS"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`

	// ReturnPath is where the operator lands after an add or remove.
	ReturnPath string `envconfig:"RETURN_PATH" default:"/usuarios"`

	// Gateway selects how the modal reaches users and movies: through the
	// REST API or straight to the database.
	Gateway string `envconfig:"GATEWAY" default:"rest"`

	Session struct {
		Secret  string        `envconfig:"SESSION_SECRET" default:"soulfilmes-local-session-secret"`
		MaxIdle time.Duration `envconfig:"SESSION_MAX_IDLE" default:"30m"`
	}

	API struct {
		BaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:3000"`
		Timeout time.Duration `envconfig:"API_TIMEOUT" default:"10s"`
	}

	DB struct {
		Driver    string `envconfig:"DB_DRIVER"`
		Name      string `envconfig:"DB_NAME"`
		Host      string `envconfig:"DB_HOST"`
		Port      int    `envconfig:"DB_PORT"`
		User      string `envconfig:"DB_USER"`
		Pass      string `envconfig:"DB_PASS"`
		EnableSSL bool   `envconfig:"ENABLE_SSL"`
	}
}

func LoadConfig() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	if cfg.Gateway != GatewayREST && cfg.Gateway != GatewayPostgres {
		return nil, fmt.Errorf("load config error: unknown gateway %q", cfg.Gateway)
	}

	return cfg, nil
}
