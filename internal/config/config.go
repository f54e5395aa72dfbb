package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Identity IdentityConfig
	SMTP     SMTPConfig
	Ai       AIConfig
	Document DocumentConfig
	WhatsApp WhatsAppConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	FrontendURL        string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	AdminSetupSecret   string
}

type DatabaseConfig struct {
	Connection string
}

// IdentityConfig points at the managed identity provider (GoTrue-compatible API).
// The backend never stores credentials itself; AnonKey authenticates public
// auth calls, ServiceKey authenticates admin user management.
type IdentityConfig struct {
	BaseURL    string
	AnonKey    string
	ServiceKey string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AIConfig struct {
	Provider       string // "gemini" or "ollama"
	GeminiAPIKey   string
	Model          string
	Temperature    float64
	MaxTokens      int
	EmbeddingModel string
	OllamaBaseURL  string
	OllamaModel    string
	ChatTopK       int
}

type DocumentConfig struct {
	ChunkSize         int
	ChunkOverlap      int
	MaxFileSizeMB     int
	AllowedExtensions []string
}

type WhatsAppConfig struct {
	AppID        string
	AppSecret    string
	RedirectURI  string
	WebhookURL   string
	VerifyToken  string
	GraphVersion string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			AdminSetupSecret:   getEnv("ADMIN_SETUP_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Identity: IdentityConfig{
			BaseURL:    getEnv("IDENTITY_URL", ""),
			AnonKey:    getEnv("IDENTITY_ANON_KEY", ""),
			ServiceKey: getEnv("IDENTITY_SERVICE_KEY", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Mindful AI"),
		},
		Ai: AIConfig{
			Provider:       getEnv("LLM_PROVIDER", "gemini"),
			GeminiAPIKey:   getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Model:          getEnv("LLM_MODEL", "gemini-1.5-flash"),
			Temperature:    getEnvAsFloat("LLM_TEMPERATURE", 0.7),
			MaxTokens:      getEnvAsInt("LLM_MAX_TOKENS", 1024),
			EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-004"),
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:    getEnv("OLLAMA_MODEL", "llama3"),
			ChatTopK:       getEnvAsInt("CHAT_TOP_K", 5),
		},
		Document: DocumentConfig{
			ChunkSize:         getEnvAsInt("DOC_CHUNK_SIZE", 1000),
			ChunkOverlap:      getEnvAsInt("DOC_CHUNK_OVERLAP", 200),
			MaxFileSizeMB:     getEnvAsInt("DOC_MAX_FILE_SIZE_MB", 10),
			AllowedExtensions: getEnvAsSlice("DOC_ALLOWED_EXTENSIONS", []string{".pdf", ".docx", ".txt", ".md"}),
		},
		WhatsApp: WhatsAppConfig{
			AppID:        getEnv("WHATSAPP_APP_ID", ""),
			AppSecret:    getEnv("WHATSAPP_APP_SECRET", ""),
			RedirectURI:  getEnv("WHATSAPP_REDIRECT_URI", ""),
			WebhookURL:   getEnv("WHATSAPP_WEBHOOK_URL", ""),
			VerifyToken:  getEnv("WHATSAPP_VERIFY_TOKEN", ""),
			GraphVersion: getEnv("WHATSAPP_GRAPH_VERSION", "v21.0"),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsSlice(key string, fallback []string) []string {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	parts := strings.Split(strValue, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
