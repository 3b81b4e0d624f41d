package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Auth    AuthConfig    `mapstructure:"auth"    validate:"required"`
	GitHub  GitHubConfig  `mapstructure:"github"`
	I18n    I18nConfig    `mapstructure:"i18n"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// StorageConfig locates the on-disk roots for task files and work logs.
type StorageConfig struct {
	TasksRoot string `mapstructure:"tasks_root" validate:"required"`
	LogsRoot  string `mapstructure:"logs_root"  validate:"required"`
}

// AuthConfig contains the settings needed to verify the hosted auth
// provider's session tokens. The provider signs sessions with HS256
// using a per-project secret.
type AuthConfig struct {
	SessionSecret string `mapstructure:"session_secret" validate:"required,min=32"`
}

// GitHubConfig contains GitHub API client settings. The access token
// itself arrives per-request from the user's session; only ambient
// client settings live here.
type GitHubConfig struct {
	BaseURL   string `mapstructure:"base_url"  validate:"omitempty,url"`
	UserAgent string `mapstructure:"user_agent"`
}

// I18nConfig contains localization settings.
type I18nConfig struct {
	DefaultLocale string `mapstructure:"default_locale" validate:"omitempty,oneof=ko en"`
}
