package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
// 构造后不再修改，通过构造函数传入各组件。
type AppConfig struct {
	Host           string
	Port           string
	ListenAddr     string
	DatabaseURL    string
	DatabasePath   string
	SessionSecret  string
	GinMode        string
	Env            string
	CORSOrigins    []string
	TracingEnabled bool
	ServiceName    string
}

const defaultSessionSecret = "goaltracker-dev-secret"

// ErrDefaultSessionSecret 表示生产环境仍在使用内置的会话密钥
var ErrDefaultSessionSecret = errors.New("SESSION_SECRET must be set when ENV=production")

// UsesPostgres reports whether a postgres DSN was configured.
func (c AppConfig) UsesPostgres() bool {
	return c.DatabaseURL != ""
}

// Validate rejects settings that are only acceptable during development.
func (c AppConfig) Validate() error {
	if c.Env == "production" && c.SessionSecret == defaultSessionSecret {
		return ErrDefaultSessionSecret
	}
	return nil
}

// Load 从 .env 与环境变量读取应用配置，并为缺失项提供默认值。
// 生产环境未配置会话密钥时返回错误，避免使用公开的默认值签发 cookie。
func Load() (AppConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] failed to read .env: %v", err)
	}
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// FromEnv builds the configuration from the current process environment only.
func FromEnv() AppConfig {
	host := getEnv("HOST", "0.0.0.0")
	port := getEnv("PORT", "8000")

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf("%s:%s", host, port)
	}

	return AppConfig{
		Host:           host,
		Port:           port,
		ListenAddr:     listenAddr,
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DatabasePath:   getEnv("DATABASE_PATH", "goaltracker.db"),
		SessionSecret:  getEnv("SESSION_SECRET", defaultSessionSecret),
		GinMode:        getEnv("GIN_MODE", "release"),
		Env:            getEnv("ENV", "development"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
		TracingEnabled: getBool("TRACING_ENABLED", false),
		ServiceName:    getEnv("SERVICE_NAME", "goaltracker"),
	}
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
