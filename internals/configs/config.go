package configs

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

type Config struct {
	AppEnv   string
	Port     string
	LogLevel string

	DatabaseURL    string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTSecret      string
	CORSOrigins    []string
	RateLimitMax   int
	RequestTimeout time.Duration
	RunSeeds       bool
	// TrustedProxies lists proxy IPs/CIDRs whose X-Forwarded-For is honored.
	TrustedProxies []string
}

// =======================
// ENV LOADER
// =======================
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("configs: load .env: %w", err)
		}
		log.Println(".env file loaded")
	} else {
		log.Println("no .env file found, using system environment")
	}

	v := viper.New()
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("PORT", "3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("RATE_LIMIT_MAX", 100)
	v.SetDefault("REQUEST_TIMEOUT", 5*time.Second)
	v.SetDefault("RUN_SEEDS", false)
	v.SetDefault("TRUSTED_PROXIES", "")
	v.AutomaticEnv()

	cfg := &Config{
		AppEnv:         strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		Port:           v.GetString("PORT"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		DBHost:         v.GetString("DB_HOST"),
		DBPort:         v.GetString("DB_PORT"),
		DBUser:         v.GetString("DB_USER"),
		DBPassword:     v.GetString("DB_PASSWORD"),
		DBName:         v.GetString("DB_NAME"),
		DBSSLMode:      v.GetString("DB_SSLMODE"),
		DBMaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		CORSOrigins:    splitList(v.GetString("CORS_ORIGINS")),
		RateLimitMax:   v.GetInt("RATE_LIMIT_MAX"),
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		RunSeeds:       v.GetBool("RUN_SEEDS"),
		TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),
	}

	switch cfg.AppEnv {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return nil, fmt.Errorf("configs: unknown APP_ENV %q", cfg.AppEnv)
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("configs: JWT_SECRET is not set")
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool { return c.AppEnv == EnvProduction }

// DSN returns DATABASE_URL when set, otherwise builds one from the DB_* parts.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=schoolerp",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
