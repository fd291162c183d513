package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	OpenAI     string
	UsageTopic string // usage counter pipeline topic
}

type AIConfig struct {
	ChatModel          string
	VisionModel        string
	TranscriptionModel string
	MaxTokens          int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			OpenAI:     getEnv("OPENAI_API_KEY", ""),
			UsageTopic: getEnv("DIAGNOSIS_USAGE_TOPIC_NAME", "DIAGNOSIS_COMPLETED"),
		},
		Ai: AIConfig{
			ChatModel:          getEnv("AI_CHAT_MODEL", "gpt-4o-mini"),
			VisionModel:        getEnv("AI_VISION_MODEL", "gpt-4.1-mini"),
			TranscriptionModel: getEnv("AI_TRANSCRIPTION_MODEL", "whisper-1"),
			MaxTokens:          getEnvAsInt("AI_MAX_TOKENS", 500),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
