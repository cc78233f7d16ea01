package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Mail     MailConfig     `mapstructure:"mail"     validate:"required"`
	Colors   ColorsConfig   `mapstructure:"colors"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// BaseURL is the externally reachable root used to build the links
	// embedded in confirmation and reset emails.
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	// JWTSecret signs session access and refresh tokens.
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// MailTokenSecret and MailTokenSalt together derive the key that signs
	// email confirmation and password-reset tokens. Rotating the salt
	// invalidates outstanding mail tokens without touching live sessions.
	MailTokenSecret string `mapstructure:"mail_token_secret" validate:"required,min=32"`
	MailTokenSalt   string `mapstructure:"mail_token_salt"   validate:"required"`

	TokenLifetimeMinutes        int `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
	RememberMeLifetimeMinutes   int `mapstructure:"remember_me_lifetime_minutes"   validate:"required,gt=0"`
	ConfirmTokenMaxAgeHours     int `mapstructure:"confirm_token_max_age_hours"    validate:"required,gt=0"`
	ResetTokenMaxAgeMinutes     int `mapstructure:"reset_token_max_age_minutes"    validate:"required,gt=0"`
	ResetEmailIntervalSeconds   int `mapstructure:"reset_email_interval_seconds"   validate:"required,gt=0"`
	BcryptCost                  int `mapstructure:"bcrypt_cost"                    validate:"gte=0,lte=31"`
}

// MailConfig contains the fixed-relay SMTP settings used for outbound mail.
type MailConfig struct {
	Host     string `mapstructure:"host"     validate:"required"`
	Port     int    `mapstructure:"port"     validate:"required,gt=0,lt=65536"`
	Username string `mapstructure:"username" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
	From     string `mapstructure:"from"     validate:"required,email"`
}

// ColorsConfig holds the default per-importance display colors applied when a
// user's settings row is created at account confirmation.
type ColorsConfig struct {
	Importance1 string `mapstructure:"importance1" validate:"required,hexcolor"`
	Importance2 string `mapstructure:"importance2" validate:"required,hexcolor"`
	Importance3 string `mapstructure:"importance3" validate:"required,hexcolor"`
}
