package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	Port        int    `env:"PORT" envDefault:"3000"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv      string `env:"APP_ENV" envDefault:"production"`

	ProviderMode        string `env:"PROVIDER_MODE" envDefault:"stub"`
	ProviderURL         string `env:"PROVIDER_URL" envDefault:"http://mock-provider:8081"`
	ProviderTimeoutS    int    `env:"PROVIDER_TIMEOUT_S" envDefault:"5"`
	ProviderTokenSecret string `env:"PROVIDER_TOKEN_SECRET" envDefault:"dev-only-secret"`

	DefaultCurrency     string `env:"DEFAULT_CURRENCY" envDefault:"MXN"`
	InitialDepositCents int64  `env:"INITIAL_DEPOSIT_CENTS" envDefault:"10000"`

	DBMaxOpenConns     int `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeS int `env:"DB_CONN_MAX_LIFETIME_S" envDefault:"300"`
	DBConnMaxIdleTimeS int `env:"DB_CONN_MAX_IDLE_TIME_S" envDefault:"60"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}
