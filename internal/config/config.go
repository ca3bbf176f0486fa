package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Sessions SessionsConfig `mapstructure:"sessions"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// AllowedOrigins is the CORS allow-list for the browser client.
	AllowedOrigins         []string `mapstructure:"allowed_origins" validate:"required,min=1,dive,required"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// DatabaseConfig selects the session store backend.
type DatabaseConfig struct {
	// Driver is either "sqlite" (a file or in-memory database) or "postgres".
	Driver string `mapstructure:"driver" validate:"required,oneof=sqlite postgres"`
	// URL is a SQLite DSN or a PostgreSQL connection string.
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains the session token settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// SessionsConfig controls removal of abandoned sessions.
type SessionsConfig struct {
	// MaxAgeHours is how long a session may go without updates before it is
	// removed. Zero disables the cleanup task.
	MaxAgeHours            int `mapstructure:"max_age_hours" validate:"gte=0"`
	CleanupIntervalMinutes int `mapstructure:"cleanup_interval_minutes" validate:"gt=0"`
}
