package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Auth     AuthConfig
	SMTP     SMTPConfig
	Storage  StorageConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	PublicURL   string // base URL used when building file links and mail bodies
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
	Secret         string
	Expiry         time.Duration
	RememberExpiry time.Duration
}

// AuthConfig carries every tunable of the credential lifecycle so the
// auth service receives them at construction instead of reading globals.
type AuthConfig struct {
	ConfirmationTTL time.Duration
	ResetTTL        time.Duration
	ResendThrottle  time.Duration
	AdminSeedFile   string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type StorageConfig struct {
	Driver   string // "local" or "s3"
	LocalDir string

	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BaseURL         string // CloudFront or S3 direct URL
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "5000"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
			PublicURL:   getEnv("PUBLIC_URL", "http://localhost:5000"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "ctoapp"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:         getEnv("JWT_SECRET", "your-secret-key"),
			Expiry:         parseDuration(getEnv("JWT_EXPIRY", "24h"), 24*time.Hour),
			RememberExpiry: parseDuration(getEnv("JWT_REMEMBER_EXPIRY", "168h"), 168*time.Hour),
		},
		Auth: AuthConfig{
			ConfirmationTTL: parseDuration(getEnv("AUTH_CONFIRMATION_TTL", "10m"), 10*time.Minute),
			ResetTTL:        parseDuration(getEnv("AUTH_RESET_TTL", "10m"), 10*time.Minute),
			ResendThrottle:  parseDuration(getEnv("AUTH_RESEND_THROTTLE", "3m"), 3*time.Minute),
			AdminSeedFile:   getEnv("AUTH_ADMIN_SEED_FILE", "data/admins.json"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     parseInt(getEnv("SMTP_PORT", "587"), 587),
			Username: getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASS", ""),
			From:     getEnv("SMTP_FROM", "no-reply@ctoapp.dev"),
		},
		Storage: StorageConfig{
			Driver:            getEnv("STORAGE_DRIVER", "local"),
			LocalDir:          getEnv("STORAGE_LOCAL_DIR", "./public"),
			S3Region:          getEnv("AWS_REGION", "eu-central-1"),
			S3Bucket:          getEnv("AWS_S3_BUCKET", "ctoapp-uploads"),
			S3AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			S3SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid number %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for i := 0; i < len(s); {
		end := i
		for end < len(s) && s[end] != ',' {
			end++
		}
		result = append(result, s[i:end])
		i = end + 1
	}
	return result
}
