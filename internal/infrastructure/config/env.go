package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

func Load() *Config {
	return &Config{
		Service: &ServiceConfig{
			Name: getEnv("SERVICE_NAME", "recruit-sse"),
			Env:  getEnv("APP_ENV", "development"),
		},
		HTTP: &HTTPConfig{
			Addr:         getEnv("HTTP_ADDR", ":8080"),
			ReadTimeout:  getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			IdleTimeout:  getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			AllowOrigin:  getEnv("HTTP_ALLOW_ORIGIN", "*"),
			ShutdownWait: getEnvDuration("HTTP_SHUTDOWN_WAIT", 5*time.Second),
		},
		Logger: &LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Format:   getEnv("LOG_FORMAT", "console"),
			Output:   getEnv("LOG_OUTPUT", "stdout"),
			FilePath: getEnv("LOG_FILE", ""),
		},
		Hub: &HubConfig{
			SweepInterval: getEnvDuration("SSE_SWEEP_INTERVAL", 30*time.Second),
			Timeout:       getEnvDuration("SSE_TIMEOUT", 60*time.Second),
			SinkBuffer:    getEnvInt("SSE_SINK_BUFFER", 64),
		},
		Store: &StoreConfig{
			Path: getEnv("STORE_PATH", "data/recruit.db"),
		},
		Chat: &ChatConfig{
			TurnDelay:             getEnvDuration("CHAT_TURN_DELAY", 1500*time.Millisecond),
			SatisfactionThreshold: getEnvInt("CHAT_SATISFACTION_THRESHOLD", 85),
			MaxTurns:              getEnvInt("CHAT_MAX_TURNS", 12),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
