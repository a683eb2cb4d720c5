package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	JWT        JWTConfig
	LLM        LLMConfig
	Embedding  EmbeddingConfig
	Retrieval  RetrievalConfig
	Escalation EscalationConfig
	Knowledge  KnowledgeConfig
	Logger     LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type JWTConfig struct {
	// Empty secret leaves the API open; set it to require bearer tokens.
	SecretKey  string
	Expiration time.Duration
}

type LLMConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
}

type EmbeddingConfig struct {
	// Empty model disables the vector retrieval tier entirely. This is a
	// supported deployment mode, not an error.
	Model   string
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type RetrievalConfig struct {
	TopK int
	// Semantic tier window: how many chunk summaries the ranking prompt
	// may contain, and how far each summary is truncated.
	SemanticWindow  int
	SummaryMaxChars int
}

type EscalationConfig struct {
	ConfidenceThreshold float64
}

type KnowledgeConfig struct {
	DataDir        string
	CategoriesFile string
	Sources        []string
	MinChunkLen    int
}

func Load() (*Config, error) {
	// Try to load .env from the current directory or project root.
	// Missing .env is fine, environment variables are used directly
	// (useful for Docker/K8s).
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	llmTimeout, _ := strconv.Atoi(getEnv("LLM_TIMEOUT_SECONDS", "30"))
	embeddingTimeout, _ := strconv.Atoi(getEnv("EMBEDDING_TIMEOUT_SECONDS", "30"))
	temperature, _ := strconv.ParseFloat(getEnv("LLM_TEMPERATURE", "0.7"), 64)
	topK, _ := strconv.Atoi(getEnv("RETRIEVAL_TOP_K", "3"))
	semanticWindow, _ := strconv.Atoi(getEnv("RETRIEVAL_SEMANTIC_WINDOW", "20"))
	summaryMaxChars, _ := strconv.Atoi(getEnv("RETRIEVAL_SUMMARY_MAX_CHARS", "200"))
	confidenceThreshold, _ := strconv.ParseFloat(getEnv("ESCALATION_CONFIDENCE_THRESHOLD", "0.8"), 64)
	minChunkLen, _ := strconv.Atoi(getEnv("KNOWLEDGE_MIN_CHUNK_LEN", "50"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", ""),
			Expiration: time.Duration(jwtExp) * time.Hour,
		},
		LLM: LLMConfig{
			APIKey:      getEnv("LLM_API_KEY", ""),
			Model:       getEnv("LLM_MODEL", "gpt-3.5-turbo"),
			BaseURL:     getEnv("LLM_BASE_URL", ""),
			Temperature: temperature,
			Timeout:     time.Duration(llmTimeout) * time.Second,
		},
		Embedding: EmbeddingConfig{
			Model:   getEnv("EMBEDDING_MODEL", ""),
			APIKey:  getEnv("EMBEDDING_API_KEY", getEnv("LLM_API_KEY", "")),
			BaseURL: getEnv("EMBEDDING_BASE_URL", ""),
			Timeout: time.Duration(embeddingTimeout) * time.Second,
		},
		Retrieval: RetrievalConfig{
			TopK:            topK,
			SemanticWindow:  semanticWindow,
			SummaryMaxChars: summaryMaxChars,
		},
		Escalation: EscalationConfig{
			ConfidenceThreshold: confidenceThreshold,
		},
		Knowledge: KnowledgeConfig{
			DataDir:        getEnv("KNOWLEDGE_DATA_DIR", "data"),
			CategoriesFile: getEnv("CATEGORIES_FILE", "categories.json"),
			Sources: splitList(getEnv("KNOWLEDGE_SOURCES",
				"knowledge_base.md,company_it_policies.md,installation_guides.json,troubleshooting_database.json")),
			MinChunkLen: minChunkLen,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
