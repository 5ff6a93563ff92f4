package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the backend.
type Config struct {
	Addr         string `envconfig:"APP_ADDR" default:":8080"`
	MongoURI     string `envconfig:"MONGODB_URI" required:"true"`
	DatabaseName string `envconfig:"DATABASE_NAME" default:"cbms"`

	JWTSecret      string        `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenTTL time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"24h"`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"`

	AdminEmail    string `envconfig:"ADMIN_EMAIL" default:"admin@cbms.com"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"P@ssword"`
	AdminPin      string `envconfig:"ADMIN_PIN" default:"123"`

	GCSBucket       string `envconfig:"GCS_BUCKET"`
	CredentialsFile string `envconfig:"CREDENTIALS_FILE_LOCATION"`

	MaxUploadSizeMB int `envconfig:"MAX_UPLOAD_SIZE_MB" default:"5"`
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be provided")
	}
	return &cfg, nil
}
