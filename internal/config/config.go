package config

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// AIConfig configures the chat-completions endpoint used for confirmation copy.
type AIConfig struct {
	APIURL  string        `env:"AI_API_URL" envDefault:"https://api.openai.com/v1/chat/completions"`
	APIKey  string        `env:"AI_API_KEY"`
	Model   string        `env:"AI_MODEL" envDefault:"gpt-4o-mini"`
	Timeout time.Duration `env:"AI_TIMEOUT" envDefault:"15s"`
}

// EmailConfig configures confirmation email delivery.
// Without a Postmark server token emails are written to DevDir instead.
type EmailConfig struct {
	PostmarkServerToken  string        `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string        `env:"POSTMARK_ACCOUNT_TOKEN"`
	Sender               string        `env:"EMAIL_SENDER" envDefault:"hello@example.com"`
	ReplyTo              string        `env:"EMAIL_REPLY_TO"`
	Subject              string        `env:"EMAIL_SUBJECT" envDefault:"Thanks for reaching out"`
	Timeout              time.Duration `env:"EMAIL_TIMEOUT" envDefault:"10s"`
	DevDir               string        `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL    string        `env:"DATABASE_URL,required,notEmpty"`
	Port           string        `env:"PORT" envDefault:"8080"`
	JWTSecret      string        `env:"JWT_SECRET" envDefault:"dev-secret"`
	TokenTTL       time.Duration `env:"JWT_TTL" envDefault:"24h"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"json"`
	MigrateOnStart bool          `env:"MIGRATE_ON_START" envDefault:"true"`

	AI    AIConfig
	Email EmailConfig
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("invalid LOG_FORMAT value: %q", cfg.LogFormat)
	}
	if _, err := mail.ParseAddress(cfg.Email.Sender); err != nil {
		return nil, fmt.Errorf("invalid EMAIL_SENDER value: %w", err)
	}
	if cfg.Email.ReplyTo == "" {
		cfg.Email.ReplyTo = cfg.Email.Sender
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}

	return cfg, nil
}
