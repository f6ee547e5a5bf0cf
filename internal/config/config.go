package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config is the process-wide configuration, loaded once at start-up
type Config struct {
	Port               string   `env:"PORT" envDefault:"8080"`
	GinMode            string   `env:"GIN_MODE" envDefault:"release"`
	LogLevel           string   `env:"LOG_LEVEL" envDefault:"info"`
	BasePath           string   `env:"BASE_PATH" envDefault:"/"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	SentryDSN          string   `env:"SENTRY_DSN"`
	RabbitMQURL        string   `env:"RABBITMQ_URL"`

	Database   Database
	Submission Submission
	Storage    Storage
	Session    Session
	Upload     Upload
}

// Database holds the Postgres connection settings
type Database struct {
	Host        string `env:"DB_HOST" envDefault:"localhost"`
	Port        string `env:"DB_PORT" envDefault:"5432"`
	User        string `env:"DB_USER" envDefault:"postgres"`
	Password    string `env:"DB_PASSWORD"`
	Name        string `env:"DB_NAME" envDefault:"campaign_dashboard"`
	SSLMode     string `env:"DB_SSLMODE" envDefault:"disable"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"false"`
}

// DSN returns the connection string understood by the postgres driver
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// Submission holds the settings the campaign pipeline needs on every request.
// None of them are enforced at load time; see Missing.
type Submission struct {
	DatabaseID   string `env:"DATABASE_ID"`
	CollectionID string `env:"CAMPAIGNS_COLLECTION_ID"`
	BucketID     string `env:"BUCKET_ID"`
	Endpoint     string `env:"PUBLIC_ENDPOINT"`
	ProjectID    string `env:"PROJECT_ID"`
	APIKey       string `env:"API_KEY"`
	SigningKey   string `env:"SESSION_SIGNING_KEY"`
}

// Missing returns the environment names of every unset submission setting
func (s Submission) Missing() []string {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"DATABASE_ID", s.DatabaseID},
		{"CAMPAIGNS_COLLECTION_ID", s.CollectionID},
		{"BUCKET_ID", s.BucketID},
		{"PUBLIC_ENDPOINT", s.Endpoint},
		{"PROJECT_ID", s.ProjectID},
		{"API_KEY", s.APIKey},
		{"SESSION_SIGNING_KEY", s.SigningKey},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

// Storage selects and configures the blob backend
type Storage struct {
	Driver     string `env:"STORAGE_DRIVER" envDefault:"local"`
	LocalDir   string `env:"STORAGE_LOCAL_DIR" envDefault:"./storage"`
	S3Endpoint string `env:"STORAGE_S3_ENDPOINT"`
	S3Region   string `env:"STORAGE_S3_REGION" envDefault:"us-east-1"`
	AccessKey  string `env:"STORAGE_ACCESS_KEY"`
	SecretKey  string `env:"STORAGE_SECRET_KEY"`
	UseSSL     bool   `env:"STORAGE_USE_SSL" envDefault:"false"`
}

// Session configures provider sessions and the local session token
type Session struct {
	TTL             time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	LocalTTL        time.Duration `env:"LOCAL_SESSION_TTL" envDefault:"1h"`
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"1h"`
	CookieSecure    bool          `env:"COOKIE_SECURE" envDefault:"true"`
}

// Upload bounds the attachment fan-out of a single submission
type Upload struct {
	Concurrency int `env:"UPLOAD_CONCURRENCY" envDefault:"4"`
}

// Limit returns the concurrency clamped to 1..8
func (u Upload) Limit() int {
	switch {
	case u.Concurrency < 1:
		return 1
	case u.Concurrency > 8:
		return 8
	default:
		return u.Concurrency
	}
}

// Load reads an optional .env file and parses the environment into a Config
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	origins := cfg.CORSAllowedOrigins[:0]
	for _, origin := range cfg.CORSAllowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return nil, fmt.Errorf("CORS_ALLOWED_ORIGINS must list at least one origin")
	}
	cfg.CORSAllowedOrigins = origins
	return &cfg, nil
}
