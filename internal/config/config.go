package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is not set")
	ErrMissingJWTSecret   = errors.New("JWT_SECRET is not set")
)

type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string
	DevMode  bool

	DatabaseURL string

	JWT   JWTConfig
	Redis RedisConfig

	BcryptCost    int
	ResetTokenTTL time.Duration

	// API limits
	APIRateLimit   int
	APIRateWindow  time.Duration
	AuthRateLimit  int
	AuthRateWindow time.Duration
	UserRateLimit  int
	UserRateWindow time.Duration

	Gemini GeminiConfig
}

type JWTConfig struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app_port", "8080")
	v.SetDefault("app_env", "local")
	v.SetDefault("log_level", "info")
	v.SetDefault("dev_mode", false)

	v.SetDefault("jwt_issuer", "learnquest")
	v.SetDefault("jwt_access_ttl", time.Hour)
	v.SetDefault("jwt_refresh_ttl", 7*24*time.Hour)

	v.SetDefault("redis_db", 0)

	v.SetDefault("bcrypt_cost", 12)
	v.SetDefault("reset_token_ttl", time.Hour)

	v.SetDefault("api_rate_limit", 120)
	v.SetDefault("api_rate_window", time.Minute)
	v.SetDefault("auth_rate_limit", 10)
	v.SetDefault("auth_rate_window", time.Minute)
	v.SetDefault("user_rate_limit", 60)
	v.SetDefault("user_rate_window", time.Minute)

	v.SetDefault("gemini_model", "gemini-1.5-flash")
	v.SetDefault("plan_timeout", 20*time.Second)

	cfg := &Config{
		AppPort:     v.GetString("app_port"),
		AppEnv:      v.GetString("app_env"),
		LogLevel:    v.GetString("log_level"),
		DevMode:     v.GetBool("dev_mode"),
		DatabaseURL: v.GetString("database_url"),
		JWT: JWTConfig{
			Secret:     v.GetString("jwt_secret"),
			Issuer:     v.GetString("jwt_issuer"),
			AccessTTL:  v.GetDuration("jwt_access_ttl"),
			RefreshTTL: v.GetDuration("jwt_refresh_ttl"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
		},
		BcryptCost:     v.GetInt("bcrypt_cost"),
		ResetTokenTTL:  v.GetDuration("reset_token_ttl"),
		APIRateLimit:   v.GetInt("api_rate_limit"),
		APIRateWindow:  v.GetDuration("api_rate_window"),
		AuthRateLimit:  v.GetInt("auth_rate_limit"),
		AuthRateWindow: v.GetDuration("auth_rate_window"),
		UserRateLimit:  v.GetInt("user_rate_limit"),
		UserRateWindow: v.GetDuration("user_rate_window"),
		Gemini: GeminiConfig{
			APIKey:  v.GetString("gemini_api_key"),
			Model:   v.GetString("gemini_model"),
			Timeout: v.GetDuration("plan_timeout"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.JWT.Secret == "" {
		return ErrMissingJWTSecret
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive (access=%s refresh=%s)", c.JWT.AccessTTL, c.JWT.RefreshTTL)
	}
	if c.JWT.AccessTTL >= c.JWT.RefreshTTL {
		return fmt.Errorf("JWT_ACCESS_TTL (%s) must be shorter than JWT_REFRESH_TTL (%s)", c.JWT.AccessTTL, c.JWT.RefreshTTL)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST out of range: %d", c.BcryptCost)
	}
	return nil
}
