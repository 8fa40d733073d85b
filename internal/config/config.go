package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Twinfield TwinfieldConfig `mapstructure:"twinfield"`
	Mail      MailConfig      `mapstructure:"mail"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// TwinfieldConfig holds accounting integration configuration
type TwinfieldConfig struct {
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	Office       string        `mapstructure:"office"`
	RedirectURI  string        `mapstructure:"redirect_uri"`
	AuthBaseURL  string        `mapstructure:"auth_base_url"`
	APITimeout   time.Duration `mapstructure:"api_timeout"`
}

// MailConfig holds transactional mail configuration
type MailConfig struct {
	ServerToken string `mapstructure:"server_token"`
	From        string `mapstructure:"from"`
	BCC         string `mapstructure:"bcc"`
	APIBaseURL  string `mapstructure:"api_base_url"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from a yaml file, a local .env file and
// environment variables. Environment variables win.
func Load(configPath string) (*Config, error) {
	_ = gotenv.Load()

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.cors_origins", []string{"*"})

	viper.SetDefault("database.path", "data/bookaroom.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	viper.SetDefault("twinfield.auth_base_url", "https://login.twinfield.com")
	viper.SetDefault("twinfield.redirect_uri", "http://localhost:3000/settings")
	viper.SetDefault("twinfield.api_timeout", 30*time.Second)

	viper.SetDefault("mail.api_base_url", "https://api.postmarkapp.com")

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

func bindEnvVars() {
	// Sensitive credentials come from the environment
	viper.BindEnv("twinfield.client_id", "TW_CLIENT_ID")
	viper.BindEnv("twinfield.client_secret", "TW_CLIENT_SECRET")
	viper.BindEnv("twinfield.office", "TW_OFFICE")
	viper.BindEnv("mail.server_token", "POSTMARK_SERVER_TOKEN")
	viper.BindEnv("mail.from", "MAIL_FROM")
	viper.BindEnv("mail.bcc", "MAIL_BCC")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Twinfield.ClientID == "" {
		return fmt.Errorf("twinfield.client_id is required")
	}
	if c.Twinfield.ClientSecret == "" {
		return fmt.Errorf("twinfield.client_secret is required")
	}
	if c.Twinfield.Office == "" {
		return fmt.Errorf("twinfield.office is required")
	}
	if c.Mail.From == "" {
		return fmt.Errorf("mail.from is required")
	}
	return nil
}
