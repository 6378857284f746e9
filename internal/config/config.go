package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port           int    `mapstructure:"port"            validate:"required,gt=0,lt=65536"`
	LogLevel       string `mapstructure:"log_level"       validate:"required,oneof=debug info warn error"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
	// MaxBodyBytes caps the size of JSON request bodies.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"               validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    validate:"gt=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
	// AutoMigrate applies pending migrations before the server starts.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"     validate:"required,min=32"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime" validate:"required,gt=0"`

	// SharedUsername and SharedPassword form the single static operator
	// credential accepted over HTTP Basic auth.
	SharedUsername string `mapstructure:"shared_username" validate:"required,max=50"`
	SharedPassword string `mapstructure:"shared_password" validate:"required"`

	BcryptCost int `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// Placeholder values shipped as defaults. They keep a fresh checkout runnable
// and must be overridden in any real deployment.
const (
	DefaultJWTSecret      = "change-this-secret-before-any-real-deployment"
	DefaultSharedUsername = "admin"
	DefaultSharedPassword = "password123"
)

// UsesPlaceholderSecrets reports whether the signing secret or the shared
// credential still carries a shipped default.
func (c AuthConfig) UsesPlaceholderSecrets() bool {
	return c.JWTSecret == DefaultJWTSecret ||
		(c.SharedUsername == DefaultSharedUsername && c.SharedPassword == DefaultSharedPassword)
}
