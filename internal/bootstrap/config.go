package bootstrap

import (
	"os"
	"strconv"

	"github.com/eleven-am/voice-client/internal/realtime"
)

type Config struct {
	ServerAddr string

	OpenAIAPIKey string
	RealtimeURL  string
	Model        string

	GatewayToken string

	SendQueueSize   int
	EventsQueueSize int

	LogLevel string
}

func LoadConfig() *Config {
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		RealtimeURL:  getEnv("REALTIME_URL", realtime.DefaultBaseURL),
		Model:        getEnv("REALTIME_MODEL", realtime.GPT4oRealtimePreview),

		GatewayToken: getEnv("GATEWAY_TOKEN", ""),

		SendQueueSize:   getEnvInt("SEND_QUEUE_SIZE", 256),
		EventsQueueSize: getEnvInt("EVENTS_QUEUE_SIZE", 256),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
