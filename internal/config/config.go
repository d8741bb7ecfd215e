package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrInvalidSettings is returned when a loaded setting is out of range.
var ErrInvalidSettings = errors.New("invalid settings")

// Config holds all application configuration
type Config struct {
	VariablesFile     string
	OutputDir         string
	Locale            string
	HoursPerDay       int
	DefaultHourlyRate string
	Numbering         NumberingConfig
	Storage           StorageConfig
	Server            ServerConfig
	Log               LogConfig
}

// NumberingConfig selects where invoice numbers come from
type NumberingConfig struct {
	Backend string // dir, sqlite, postgres
	DSN     string
	Prefix  string
}

// StorageConfig holds the optional S3 copy target
type StorageConfig struct {
	S3 S3Config
}

// S3Config holds bucket settings; an empty bucket disables the upload
type S3Config struct {
	Bucket       string
	Prefix       string
	Region       string
	Endpoint     string
	UsePathStyle bool
}

// ServerConfig holds HTTP front-end settings
type ServerConfig struct {
	Addr string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
	Output string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("variables_file", "invoice_variables.json")
	v.SetDefault("output_dir", "invoices")
	v.SetDefault("locale", "pt")
	v.SetDefault("hours_per_day", 8)
	v.SetDefault("default_hourly_rate", "21.88")
	v.SetDefault("numbering.backend", "dir")
	v.SetDefault("numbering.dsn", "")
	v.SetDefault("numbering.prefix", "DVT")
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.prefix", "invoices/")
	v.SetDefault("storage.s3.region", "")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.use_path_style", false)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")
}

// Load reads configuration.
// Priority (highest to lowest):
// 1. overrides (command line flags)
// 2. Environment variables with INVOICEGEN_ prefix, including a .env file
// 3. path, or invoicegen.yaml in the working directory when path is empty
// 4. Built-in defaults
func Load(path string, overrides map[string]any) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("invoicegen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("INVOICEGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range overrides {
		v.Set(key, value)
	}

	cfg := &Config{
		VariablesFile:     v.GetString("variables_file"),
		OutputDir:         v.GetString("output_dir"),
		Locale:            v.GetString("locale"),
		HoursPerDay:       v.GetInt("hours_per_day"),
		DefaultHourlyRate: v.GetString("default_hourly_rate"),
		Numbering: NumberingConfig{
			Backend: strings.ToLower(v.GetString("numbering.backend")),
			DSN:     v.GetString("numbering.dsn"),
			Prefix:  v.GetString("numbering.prefix"),
		},
		Storage: StorageConfig{
			S3: S3Config{
				Bucket:       v.GetString("storage.s3.bucket"),
				Prefix:       v.GetString("storage.s3.prefix"),
				Region:       v.GetString("storage.s3.region"),
				Endpoint:     v.GetString("storage.s3.endpoint"),
				UsePathStyle: v.GetBool("storage.s3.use_path_style"),
			},
		},
		Server: ServerConfig{
			Addr: v.GetString("server.addr"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HoursPerDay <= 0 || c.HoursPerDay > 24 {
		return fmt.Errorf("%w: hours_per_day must be between 1 and 24, got %d", ErrInvalidSettings, c.HoursPerDay)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output_dir cannot be empty", ErrInvalidSettings)
	}
	switch c.Numbering.Backend {
	case "dir":
	case "sqlite", "postgres":
		if c.Numbering.DSN == "" {
			return fmt.Errorf("%w: numbering.dsn is required for the %s backend", ErrInvalidSettings, c.Numbering.Backend)
		}
	default:
		return fmt.Errorf("%w: unknown numbering.backend %q", ErrInvalidSettings, c.Numbering.Backend)
	}
	return nil
}
