package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Watsonx  WatsonxConfig
	Storage  StorageConfig
	Pipeline PipelineConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
	RefreshExp time.Duration
}

// WatsonxConfig covers both the text extraction service and the Granite LLM,
// which share a deployment URL, project and IAM API key.
type WatsonxConfig struct {
	URL       string
	APIKey    string
	ProjectID string
	ModelID   string
}

type StorageConfig struct {
	UploadDir string
	Bucket    string
}

// PipelineConfig bounds the text extraction polling loop. The overall wait
// ceiling is PollInterval * MaxPolls.
type PipelineConfig struct {
	Workers      int
	QueueSize    int
	PollInterval time.Duration
	MaxPolls     int
}

func Load() (*Config, error) {
	// Try to load .env from the current directory or project root; fall back
	// to plain environment variables (Docker/K8s).
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	refreshExp, _ := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168"))
	workers, _ := strconv.Atoi(getEnv("PIPELINE_WORKERS", "4"))
	queueSize, _ := strconv.Atoi(getEnv("PIPELINE_QUEUE_SIZE", "64"))
	pollInterval, _ := strconv.Atoi(getEnv("PIPELINE_POLL_INTERVAL_SECONDS", "5"))
	maxPolls, _ := strconv.Atoi(getEnv("PIPELINE_MAX_POLLS", "60"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "trustbridge"),
			Password: getEnv("DB_PASSWORD", "trustbridge_dev"),
			DBName:   getEnv("DB_NAME", "trustbridge"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "dev-secret-change-in-production"),
			Expiration: time.Duration(jwtExp) * time.Hour,
			RefreshExp: time.Duration(refreshExp) * time.Hour,
		},
		Watsonx: WatsonxConfig{
			URL:       getEnv("WATSONX_URL", "https://us-south.ml.cloud.ibm.com"),
			APIKey:    getEnv("WATSONX_API_KEY", ""),
			ProjectID: getEnv("WATSONX_PROJECT_ID", ""),
			ModelID:   getEnv("WATSONX_MODEL_ID", "ibm/granite-3-8b-instruct"),
		},
		Storage: StorageConfig{
			UploadDir: getEnv("STORAGE_UPLOAD_DIR", "uploads"),
			Bucket:    getEnv("STORAGE_BUCKET", "trustbridge-documents"),
		},
		Pipeline: PipelineConfig{
			Workers:      workers,
			QueueSize:    queueSize,
			PollInterval: time.Duration(pollInterval) * time.Second,
			MaxPolls:     maxPolls,
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
