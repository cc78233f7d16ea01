package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional config
// file. Environment variables take precedence over values from the file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config file in the working directory; absence is not an error.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables use the TICKDO_ prefix with underscores for
	// nesting, e.g. TICKDO_DATABASE_URL, TICKDO_AUTH_JWT_SECRET.
	v.SetEnvPrefix("TICKDO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults establishes the default values applied when neither the config
// file nor the environment provides a setting. Secrets have no defaults.
func setDefaults(v *viper.Viper) {
	// Secrets default to empty so viper knows the keys exist and binds their
	// environment variables; validation rejects the empty values.
	v.SetDefault("database.url", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.mail_token_secret", "")
	v.SetDefault("auth.mail_token_salt", "")
	v.SetDefault("mail.host", "")
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.base_url", "http://localhost:8080")

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 10080)   // 7 days
	v.SetDefault("auth.remember_me_lifetime_minutes", 43200)     // 30 days
	v.SetDefault("auth.confirm_token_max_age_hours", 72)
	v.SetDefault("auth.reset_token_max_age_minutes", 60)
	v.SetDefault("auth.reset_email_interval_seconds", 3600)
	v.SetDefault("auth.bcrypt_cost", 0) // 0 selects bcrypt.DefaultCost

	v.SetDefault("mail.port", 587)

	v.SetDefault("colors.importance1", "#adff2f")
	v.SetDefault("colors.importance2", "#ffff00")
	v.SetDefault("colors.importance3", "#fd3b3b")
}
