package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Assembly AssemblyAIConfig
	Groq     GroqConfig
	Redis    RedisConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Port            string        `envconfig:"PORT" default:"8080"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"*"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	ShareBaseURL    string        `envconfig:"SHARE_BASE_URL" default:"http://localhost:5173"`
	UploadsDir      string        `envconfig:"UPLOADS_DIR" default:"uploads"`
	MaxUploadBytes  int64         `envconfig:"MAX_UPLOAD_BYTES" default:"52428800"`
	AskRatePerMin   int           `envconfig:"ASK_RATE_PER_MIN" default:"20"`
}

// StorageConfig holds object storage configuration. An empty endpoint disables it.
type StorageConfig struct {
	Driver          string `envconfig:"DRIVER"` // "minio" (default) or "memory" for a throwaway in-process store
	Endpoint        string `envconfig:"ENDPOINT"`
	AccessKeyID     string `envconfig:"ACCESS_KEY"`
	SecretAccessKey string `envconfig:"SECRET_KEY"`
	BucketName      string `envconfig:"BUCKET"`
	Region          string `envconfig:"REGION"`
	UseSSL          bool   `envconfig:"USE_SSL" default:"false"`
	PublicURL       string `envconfig:"PUBLIC_URL"` // e.g. https://cdn.example.com, bucket and key are appended
	Prefix          string `envconfig:"PREFIX" default:"memos"`
}

// AssemblyAIConfig holds transcription provider configuration. An empty API key disables it.
type AssemblyAIConfig struct {
	APIKey        string        `envconfig:"API_KEY"`
	BaseURL       string        `envconfig:"BASE_URL"`
	LanguageCode  string        `envconfig:"LANGUAGE_CODE"`
	Timeout       time.Duration `envconfig:"TIMEOUT" default:"5m"`
	MaxAttempts   int           `envconfig:"MAX_ATTEMPTS" default:"3"`
	RetryStep     time.Duration `envconfig:"RETRY_STEP" default:"500ms"`
	MaxConcurrent int           `envconfig:"MAX_CONCURRENT" default:"4"`
}

// GroqConfig holds LLM configuration used for chapter titles and questions
type GroqConfig struct {
	APIKey       string        `envconfig:"API_KEY"`
	BaseURL      string        `envconfig:"BASE_URL" default:"https://api.groq.com"`
	Model        string        `envconfig:"MODEL" default:"llama-3.1-8b-instant"`
	Timeout      time.Duration `envconfig:"TIMEOUT" default:"30s"`
	RefineTitles bool          `envconfig:"REFINE_TITLES" default:"true"`
}

// RedisConfig holds Redis configuration. An empty address keeps comment locks in process.
type RedisConfig struct {
	Addr     string        `envconfig:"ADDR"`
	Password string        `envconfig:"PASSWORD"`
	DB       int           `envconfig:"DB" default:"0"`
	LockTTL  time.Duration `envconfig:"LOCK_TTL" default:"10s"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	return FromEnv()
}

// FromEnv decodes the configuration from the current environment without touching .env
func FromEnv() (*Config, error) {
	config := &Config{}

	sections := []struct {
		prefix string
		target interface{}
	}{
		{"SERVER", &config.Server},
		{"STORAGE", &config.Storage},
		{"ASSEMBLYAI", &config.Assembly},
		{"GROQ", &config.Groq},
		{"REDIS", &config.Redis},
	}
	for _, s := range sections {
		if err := envconfig.Process(s.prefix, s.target); err != nil {
			return nil, fmt.Errorf("failed to load %s config: %w", strings.ToLower(s.prefix), err)
		}
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "", StorageDriverMinIO, StorageDriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q", StorageDriverMinIO, StorageDriverMemory)
	}
	if c.Storage.Driver != StorageDriverMemory && c.Storage.Endpoint != "" && c.Storage.BucketName == "" {
		return fmt.Errorf("STORAGE_BUCKET is required when STORAGE_ENDPOINT is set")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("SERVER_MAX_UPLOAD_BYTES must be positive")
	}
	if c.Assembly.MaxAttempts < 1 {
		return fmt.Errorf("ASSEMBLYAI_MAX_ATTEMPTS must be at least 1")
	}
	if c.Assembly.MaxConcurrent < 1 {
		return fmt.Errorf("ASSEMBLYAI_MAX_CONCURRENT must be at least 1")
	}
	return nil
}

// Storage drivers
const (
	StorageDriverMinIO  = "minio"
	StorageDriverMemory = "memory"
)

// Enabled reports whether an object store is configured
func (s StorageConfig) Enabled() bool {
	return s.InMemory() || (s.Endpoint != "" && s.BucketName != "")
}

// InMemory reports whether documents and audio live in process memory only
func (s StorageConfig) InMemory() bool {
	return s.Driver == StorageDriverMemory
}

// Enabled reports whether transcription is configured
func (a AssemblyAIConfig) Enabled() bool {
	return a.APIKey != ""
}

// Enabled reports whether the LLM is configured
func (g GroqConfig) Enabled() bool {
	return g.APIKey != ""
}

// Enabled reports whether Redis backs the comment locks
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// GetServerAddr returns the listen address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
