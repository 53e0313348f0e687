package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	AllowedOrigins []string

	MongoURL      string
	MongoDatabase string
	RedisURL      string

	StorageBackend      string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
	AWSRegion           string
	S3Bucket            string
	S3PublicBaseURL     string
	AWSEndpointURL      string

	AzureEndpoint string
	AzureAPIKey   string
	OpenAIAPIKey  string

	RetellAPIKey     string
	RetellFromNumber string
	RetellToNumber   string

	URLScanAPIKey    string
	LangflowURL      string
	LangflowAPIToken string

	ChromePath string
}

const (
	StorageCloudinary = "cloudinary"
	StorageS3         = "s3"
)

// LoadConfig reads configuration from environment variables
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),

		MongoURL:      getEnv("MONGODB_URL", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "antiscam"),
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379/0"),

		StorageBackend:      strings.ToLower(getEnv("STORAGE_BACKEND", StorageCloudinary)),
		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "AntiScam"),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		S3Bucket:            getEnv("S3_BUCKET", ""),
		S3PublicBaseURL:     getEnv("S3_PUBLIC_BASE_URL", ""),
		AWSEndpointURL:      getEnv("AWS_ENDPOINT_URL", ""),

		AzureEndpoint: strings.TrimRight(getEnv("AZURE_ENDPOINT", ""), "/"),
		AzureAPIKey:   getEnv("AZURE_API_KEY", ""),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),

		RetellAPIKey:     getEnv("RETELL_API_KEY", ""),
		RetellFromNumber: getEnv("RETELL_FROM_NUMBER", ""),
		RetellToNumber:   getEnv("RETELL_TO_NUMBER", ""),

		URLScanAPIKey:    getEnv("URLSCAN_API_KEY", ""),
		LangflowURL:      getEnv("LANGFLOW_URL", ""),
		LangflowAPIToken: getEnv("LANGFLOW_API_TOKEN", ""),

		ChromePath: getEnv("CHROME_PATH", ""),
	}

	if cfg.MongoURL == "" {
		return nil, errors.New("MONGODB_URL must not be empty")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL must not be empty")
	}

	return cfg, nil
}

// Validate reports the credentials the API server cannot run without.
func (c *Config) Validate() error {
	var missing []string

	switch c.StorageBackend {
	case StorageCloudinary:
		if c.CloudinaryCloudName == "" || c.CloudinaryAPIKey == "" || c.CloudinaryAPISecret == "" {
			missing = append(missing, "CLOUDINARY_CLOUD_NAME/CLOUDINARY_API_KEY/CLOUDINARY_API_SECRET")
		}
	case StorageS3:
		if c.S3Bucket == "" {
			missing = append(missing, "S3_BUCKET")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.AzureEndpoint == "" || c.AzureAPIKey == "" {
		missing = append(missing, "AZURE_ENDPOINT/AZURE_API_KEY")
	}
	if c.OpenAIAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.RetellAPIKey == "" {
		missing = append(missing, "RETELL_API_KEY")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

// getEnv is a helper to read an env var or return a default
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
