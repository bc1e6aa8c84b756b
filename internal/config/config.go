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
	Topics   TopicConfig
	Ai       AIConfig
	Graph    GraphConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type TopicConfig struct {
	RebuildContextGraph string
}

type AIConfig struct {
	Provider           string // "gemini" or "ollama"
	GeminiApiKey       string
	OllamaBaseURL      string
	EmbeddingModel     string
	ChatModel          string
	RagTruncateContext bool // cut the last context mid-body instead of dropping it
}

type GraphConfig struct {
	EdgeThreshold float64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Topics: TopicConfig{
			RebuildContextGraph: getEnv("REBUILD_CONTEXT_GRAPH_TOPIC_NAME", "REBUILD_CONTEXT_GRAPH"),
		},
		Ai: AIConfig{
			Provider:           getEnv("AI_PROVIDER", "gemini"),
			GeminiApiKey:       getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbeddingModel:     getEnv("EMBEDDING_MODEL", ""),
			ChatModel:          getEnv("CHAT_MODEL", ""),
			RagTruncateContext: getEnvAsBool("RAG_TRUNCATE_CONTEXT", false),
		},
		Graph: GraphConfig{
			EdgeThreshold: getEnvAsFloat("GRAPH_EDGE_THRESHOLD", 0.7),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
