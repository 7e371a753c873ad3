package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Logger  LoggerConfig
	Backend BackendConfig
	JWT     JWTConfig
}

type ServerConfig struct {
	AppEnv      string
	Port        string
	GinMode     string
	CORSOrigins []string
	SessionTTL  time.Duration

	// SweepInterval is how often expired sessions are dropped
	SweepInterval time.Duration
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

// BackendConfig points at the REST backend that owns all persistent data
type BackendConfig struct {
	BaseURL    string
	AuthScheme string
	Timeout    time.Duration
}

type JWTConfig struct {
	Secret string
}

// IsRelease reports whether the terminal runs in production mode
func (c *Config) IsRelease() bool {
	return c.Server.GinMode == "release" || c.Server.AppEnv == "production"
}

// Load reads configs/.env (or .env) when present, then the process environment.
func Load() *Config {
	_ = godotenv.Load("configs/.env")
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			AppEnv:      getEnv("APP_ENV", "development"),
			Port:        getEnv("PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			CORSOrigins: getEnvSlice("CORS_ORIGINS", []string{"http://localhost:5173", "http://127.0.0.1:5173"}),
			SessionTTL:  time.Duration(getEnvInt("SESSION_TTL_MINUTES", 720)) * time.Minute,

			SweepInterval: time.Duration(getEnvInt("SESSION_SWEEP_MINUTES", 5)) * time.Minute,
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "info"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Backend: BackendConfig{
			BaseURL:    strings.TrimRight(getEnv("BACKEND_URL", "http://127.0.0.1:8000/api"), "/"),
			AuthScheme: getEnv("BACKEND_AUTH_SCHEME", "Token"),
			Timeout:    time.Duration(getEnvInt("BACKEND_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
	}
}

// JWTSecret returns the signing key, falling back to a development key outside release mode
func (c *Config) JWTSecret() []byte {
	if c.JWT.Secret == "" {
		if c.IsRelease() {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		return []byte("default_super_secret_key") // development fallback only
	}
	return []byte(c.JWT.Secret)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return fallback
}
