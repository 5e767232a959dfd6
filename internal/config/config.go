// Package config loads runtime settings from configs/config.yml, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MOVIEWATCH_TMDB_API_KEY.
const EnvPrefix = "MOVIEWATCH"

// Directory drivers.
const (
	DriverAppwrite = "appwrite"
	DriverSQLite   = "sqlite"
)

var ErrMissingAppwrite = errors.New("appwrite endpoint, project id and database id are required")

type Config struct {
	Port       string           `mapstructure:"port"`
	LogLevel   string           `mapstructure:"log_level"`
	Directory  DirectoryConfig  `mapstructure:"directory"`
	Appwrite   AppwriteConfig   `mapstructure:"appwrite"`
	TMDB       TMDBConfig       `mapstructure:"tmdb"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Credential CredentialConfig `mapstructure:"credential"`
	Device     DeviceConfig     `mapstructure:"device"`
	Search     SearchConfig     `mapstructure:"search"`
}

type DirectoryConfig struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type AppwriteConfig struct {
	Endpoint   string        `mapstructure:"endpoint"`
	ProjectID  string        `mapstructure:"project_id"`
	DatabaseID string        `mapstructure:"database_id"`
	APIKey     string        `mapstructure:"api_key"`
	UsersTable string        `mapstructure:"users_table"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type TMDBConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type AuthConfig struct {
	SigningKey string `mapstructure:"signing_key"`
	// TokenTTL of zero issues tokens without an expiry.
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type CredentialConfig struct {
	Algorithm   string `mapstructure:"algorithm"`
	Iterations  uint32 `mapstructure:"iterations"`
	MemoryKB    uint32 `mapstructure:"memory_kb"`
	Parallelism uint8  `mapstructure:"parallelism"`
	BcryptCost  int    `mapstructure:"bcrypt_cost"`
}

type DeviceConfig struct {
	Path string `mapstructure:"path"`
}

type SearchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("directory.driver", DriverSQLite)
	v.SetDefault("directory.sqlite_path", "data/moviewatch.db")
	v.SetDefault("appwrite.endpoint", "")
	v.SetDefault("appwrite.project_id", "")
	v.SetDefault("appwrite.database_id", "")
	v.SetDefault("appwrite.api_key", "")
	v.SetDefault("appwrite.users_table", "users")
	v.SetDefault("appwrite.timeout", 10*time.Second)
	v.SetDefault("tmdb.base_url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.timeout", 10*time.Second)
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Duration(0))
	v.SetDefault("credential.algorithm", "argon2id")
	v.SetDefault("credential.iterations", 3)
	v.SetDefault("credential.memory_kb", 64*1024)
	v.SetDefault("credential.parallelism", 2)
	v.SetDefault("credential.bcrypt_cost", 10)
	v.SetDefault("device.path", "")
	v.SetDefault("search.debounce", 500*time.Millisecond)
}

// Load reads .env (when present), then config.yml from the given directories
// (default "configs"), then environment overrides.
func Load(paths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if len(paths) == 0 {
		paths = []string{"configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// the mobile app's variable names, kept so one .env serves both
	_ = v.BindEnv("appwrite.endpoint", "MOVIEWATCH_APPWRITE_ENDPOINT", "APPWRITE_ENDPOINT")
	_ = v.BindEnv("appwrite.project_id", "MOVIEWATCH_APPWRITE_PROJECT_ID", "APPWRITE_PROJECT_ID")
	_ = v.BindEnv("appwrite.database_id", "MOVIEWATCH_APPWRITE_DATABASE_ID", "APPWRITE_DATABASE_ID")
	_ = v.BindEnv("tmdb.api_key", "MOVIEWATCH_TMDB_API_KEY", "TMDB_API_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Directory.Driver = strings.ToLower(strings.TrimSpace(cfg.Directory.Driver))
	return &cfg, nil
}

// Validate reports settings the API server cannot start without.
func (c *Config) Validate() error {
	if err := c.ValidateDirectory(); err != nil {
		return err
	}
	if c.Auth.SigningKey == "" {
		return errors.New("auth.signing_key is required")
	}
	if c.Auth.TokenTTL < 0 {
		return errors.New("auth.token_ttl must not be negative")
	}
	return nil
}

// ValidateDirectory checks the user directory settings only; the CLI needs nothing else.
func (c *Config) ValidateDirectory() error {
	switch c.Directory.Driver {
	case DriverAppwrite:
		if c.Appwrite.Endpoint == "" || c.Appwrite.ProjectID == "" || c.Appwrite.DatabaseID == "" {
			return ErrMissingAppwrite
		}
	case DriverSQLite:
		if c.Directory.SQLitePath == "" {
			return errors.New("directory.sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown directory driver %q", c.Directory.Driver)
	}
	return nil
}
