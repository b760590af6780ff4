package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name      string `envconfig:"APP_NAME" default:"Billed"`
		Port      int    `envconfig:"PORT" default:"8080"`
		PublicURL string `envconfig:"PUBLIC_URL" default:"http://localhost:8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"billed"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Session struct {
		Secret string        `envconfig:"SESSION_SECRET" required:"true"`
		TTL    time.Duration `envconfig:"SESSION_TTL" default:"24h"`
		Cookie string        `envconfig:"SESSION_COOKIE" default:"billed_session"`
	}

	Storage struct {
		Path        string `envconfig:"STORAGE_PATH" default:"billed.db"`
		UploadLimit int64  `envconfig:"STORAGE_UPLOAD_LIMIT" default:"10485760"`
	}

	// Remote points the front-ends at another Billed API. Empty means the
	// bills are read straight from the database.
	Remote struct {
		APIURL string `envconfig:"REMOTE_API_URL"`
	}

	TUI struct {
		SessionType string `envconfig:"TUI_SESSION_TYPE" default:"Employee"`
		Email       string `envconfig:"TUI_EMAIL"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
