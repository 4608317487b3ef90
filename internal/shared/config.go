package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override values from the config file.
const (
	EnvClientID     = "YTPM_CLIENT_ID"
	EnvClientSecret = "YTPM_CLIENT_SECRET"
	EnvAPIURL       = "YTPM_API_URL"
	EnvDatabasePath = "YTPM_DATABASE_PATH"
	EnvLogLevel     = "YTPM_LOG_LEVEL"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	API         APIConfig         `toml:"api"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains identity provider credentials.
type CredentialsConfig struct {
	Google GoogleConfig `toml:"google"`
}

// GoogleConfig contains the OAuth2 client used for sign-in.
type GoogleConfig struct {
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	Scopes       []string `toml:"scopes"`
}

// APIConfig describes the remote playlist service.
type APIConfig struct {
	BaseURL           string  `toml:"base_url"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Timeout returns the configured request timeout. Zero means the transport default.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the loopback sign-in server.
type ServerConfig struct {
	Host                 string `toml:"host"`
	Port                 int    `toml:"port"`
	SignInTimeoutSeconds int    `toml:"signin_timeout_seconds"`
}

// Addr returns host:port for the callback listener.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedirectURL is the OAuth2 redirect registered for the loopback flow.
func (c ServerConfig) RedirectURL() string {
	return fmt.Sprintf("http://%s/callback", c.Addr())
}

// SignInTimeout bounds how long sign-in waits for the browser callback.
func (c ServerConfig) SignInTimeout() time.Duration {
	if c.SignInTimeoutSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.SignInTimeoutSeconds) * time.Second
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// LoadDotEnv exports the variables in a dotenv file without overriding ones already set.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: failed to load %s: %w", ErrInvalidConfig, path, err)
	}
	return nil
}

// ResolveConfig loads the config file when present (defaults otherwise), then applies
// the environment overlay. A .env file in the working directory is loaded first.
func ResolveConfig(path string) (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if config, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides config values with any YTPM_* environment variables that are set.
func (c *Config) ApplyEnv() error {
	for env, target := range map[string]*string{
		EnvClientID:     &c.Credentials.Google.ClientID,
		EnvClientSecret: &c.Credentials.Google.ClientSecret,
		EnvAPIURL:       &c.API.BaseURL,
		EnvDatabasePath: &c.Database.Path,
		EnvLogLevel:     &c.Log.Level,
	} {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			*target = v
		}
	}

	if v := os.Getenv("YTPM_REQUESTS_PER_SECOND"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: YTPM_REQUESTS_PER_SECOND: %v", ErrInvalidConfig, err)
		}
		c.API.RequestsPerSecond = rps
	}
	return nil
}

// Validate checks the values the client cannot run without.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url is required", ErrInvalidConfig)
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api.base_url must be an http(s) URL, got %q", ErrInvalidConfig, c.API.BaseURL)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port out of range: %d", ErrInvalidConfig, c.Server.Port)
	}

	if c.API.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: api.requests_per_second must not be negative", ErrInvalidConfig)
	}

	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: api.timeout_seconds must not be negative", ErrInvalidConfig)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
