package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                string
	MongoURI            string
	MongoDatabase       string
	FeedbackCollection  string
	MongoConnectTimeout time.Duration
	StoreTimeout        time.Duration
	SMTPHost            string
	SMTPPort            int
	MailUser            string
	MailPassword        string
	MailFromName        string
	MailReplyTo         string
	FeedbackMailbox     string
	Development         bool
	LogLevel            string
	Timezone            string
	PublicDir           string
	AllowedOrigins      []string
}

// Load reads environment variables, and an optional file named by
// CONFIG_FILE, and returns a fully populated Config.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if file := strings.TrimSpace(v.GetString("CONFIG_FILE")); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	mailUser := strings.TrimSpace(v.GetString("EMAIL_USER"))
	cfg := Config{
		Addr:                ":" + strings.TrimSpace(v.GetString("PORT")),
		MongoURI:            strings.TrimSpace(v.GetString("MONGO_URI")),
		MongoDatabase:       v.GetString("MONGO_DB"),
		FeedbackCollection:  v.GetString("FEEDBACK_COLLECTION"),
		MongoConnectTimeout: v.GetDuration("MONGO_CONNECT_TIMEOUT"),
		StoreTimeout:        v.GetDuration("STORE_TIMEOUT"),
		SMTPHost:            v.GetString("SMTP_HOST"),
		SMTPPort:            v.GetInt("SMTP_PORT"),
		MailUser:            mailUser,
		MailPassword:        v.GetString("EMAIL_PASS"),
		MailFromName:        v.GetString("EMAIL_FROM_NAME"),
		MailReplyTo:         envOrDefault(v, "EMAIL_REPLY_TO", mailUser),
		FeedbackMailbox:     envOrDefault(v, "FEEDBACK_MAILBOX", mailUser),
		Development:         strings.EqualFold(strings.TrimSpace(v.GetString("APP_ENV")), "development"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		Timezone:            v.GetString("TIMEZONE"),
		PublicDir:           v.GetString("PUBLIC_DIR"),
		AllowedOrigins:      parseList(v.GetString("ALLOWED_ORIGINS"), []string{"*"}),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("MONGO_DB", "workshop")
	v.SetDefault("FEEDBACK_COLLECTION", "feedbacks")
	v.SetDefault("MONGO_CONNECT_TIMEOUT", 10*time.Second)
	v.SetDefault("STORE_TIMEOUT", 5*time.Second)
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("EMAIL_FROM_NAME", "Workshop Feedback")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TIMEZONE", "Asia/Kolkata")
	v.SetDefault("PUBLIC_DIR", "public")
}

func (c Config) validate() error {
	var missing []string
	if c.MongoURI == "" {
		missing = append(missing, "MONGO_URI")
	}
	if c.MailUser == "" {
		missing = append(missing, "EMAIL_USER")
	}
	if c.MailPassword == "" {
		missing = append(missing, "EMAIL_PASS")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.Addr == ":" {
		return errors.New("PORT must not be empty")
	}
	if c.SMTPPort <= 0 {
		return fmt.Errorf("invalid SMTP_PORT %d", c.SMTPPort)
	}
	return nil
}

func envOrDefault(v *viper.Viper, key, fallback string) string {
	if value := strings.TrimSpace(v.GetString(key)); value != "" {
		return value
	}
	return fallback
}

func parseList(raw string, fallback []string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
