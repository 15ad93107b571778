package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/gatekeep/internal/auth/store/drivers/postgres"
	"github.com/aussiebroadwan/gatekeep/pkg/httpx"
	"github.com/aussiebroadwan/gatekeep/pkg/jwtx"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	AccessSecret  string        `yaml:"jwt_secret_key"`         // Required outside dev/test
	RefreshSecret string        `yaml:"jwt_refresh_secret_key"` // Required outside dev/test, must differ from AccessSecret
	Algorithm     string        `yaml:"algorithm"`              // HS256, HS384, HS512 (default: HS256)
	AccessTTL     time.Duration `yaml:"access_token_ttl"`       // default: 15m
	RefreshTTL    time.Duration `yaml:"refresh_token_ttl"`      // default: 7 days

	Database DatabaseConfig `yaml:"database"`

	PepperFile          string        `yaml:"pepper_file"`           // Path to the password pepper (default: ./pepper)
	CookieSecure        bool          `yaml:"cookie_secure"`         // Mark the refresh cookie Secure
	Env                 string        `yaml:"env"`                   // dev, test, staging, prod (default: dev)
	LogLevel            string        `yaml:"log_level"`             // debug, info, warn, error (default: info)
	LogFormat           string        `yaml:"log_format"`            // json, text (default: json)
	Port                int           `yaml:"port"`                  // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration `yaml:"shutdown_grace_period"` // default: 10s

	RateLimits httpx.Limits `yaml:"-"` // RATELIMIT_* only
}

type DatabaseConfig struct {
	Driver   string              `yaml:"driver"` // sqlite or postgres (default: sqlite)
	File     string              `yaml:"file"`   // SQLite path (default: ./auth.db)
	URL      string              `yaml:"url"`    // Postgres DSN, wins over Postgres
	Postgres postgres.ConnConfig `yaml:"postgres"`
}

// DSN returns the Postgres connection string.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return d.Postgres.DSN()
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Algorithm:  "HS256",
		AccessTTL:  jwtx.DefaultAccessTokenTTL,
		RefreshTTL: jwtx.DefaultRefreshTokenTTL,
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			File:   "auth.db",
			Postgres: postgres.ConnConfig{
				Host:    "localhost",
				Port:    5432,
				SSLMode: "disable",
			},
		},
		PepperFile:          "pepper",
		Env:                 "dev",
		LogLevel:            "info",
		LogFormat:           "json",
		Port:                8080,
		ShutdownGracePeriod: 10 * time.Second,
		RateLimits:          httpx.DefaultLimits(),
	}
}

// LoadConfig layers, lowest first: defaults, the YAML file at configPath,
// the dotenv file at envFile, then the process environment. Either path
// may be empty; a missing dotenv file is ignored.
func LoadConfig(configPath, envFile string) (Config, error) {
	dotenv := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			dotenv = m
		case !errors.Is(err, fs.ErrNotExist):
			return Config{}, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	return loadConfig(configPath, lookup)
}

func loadConfig(configPath string, lookup func(string) (string, bool)) (Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		raw, err := os.ReadFile(configPath)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", configPath, err)
		}
	}

	env := envReader{lookup: lookup}
	env.string("JWT_SECRET_KEY", &cfg.AccessSecret)
	env.string("JWT_REFRESH_SECRET_KEY", &cfg.RefreshSecret)
	env.string("ALGORITHM", &cfg.Algorithm)
	env.duration("ACCESS_TOKEN_EXPIRE_MINUTES", &cfg.AccessTTL)
	env.duration("REFRESH_TOKEN_EXPIRE_MINUTES", &cfg.RefreshTTL)

	env.string("AUTH_DATABASE_DRIVER", &cfg.Database.Driver)
	env.string("AUTH_DATABASE_FILE", &cfg.Database.File)
	env.string("AUTH_DATABASE_URL", &cfg.Database.URL)
	env.string("POSTGRES_USER", &cfg.Database.Postgres.User)
	env.string("POSTGRES_PASSWORD", &cfg.Database.Postgres.Password)
	env.string("POSTGRES_HOST", &cfg.Database.Postgres.Host)
	env.int("POSTGRES_PORT", &cfg.Database.Postgres.Port)
	env.string("POSTGRES_DB", &cfg.Database.Postgres.Database)
	env.string("POSTGRES_SSLMODE", &cfg.Database.Postgres.SSLMode)

	env.string("AUTH_PEPPER_FILE", &cfg.PepperFile)
	env.bool("AUTH_COOKIE_SECURE", &cfg.CookieSecure)
	env.string("ENV", &cfg.Env)
	env.string("LOG_LEVEL", &cfg.LogLevel)
	env.string("LOG_FORMAT", &cfg.LogFormat)
	env.int("PORT", &cfg.Port)
	env.duration("SHUTDOWN_GRACE_PERIOD", &cfg.ShutdownGracePeriod)

	cfg.RateLimits = httpx.LimitsFromEnv(cfg.RateLimits, lookup)

	if env.err != nil {
		return Config{}, env.err
	}
	return cfg, nil
}

// Validate reports the first setting the service cannot start with.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.File == "" {
			return errors.New("config: sqlite needs a database file")
		}
	case DriverPostgres:
		if c.Database.URL == "" && c.Database.Postgres.Host == "" {
			return errors.New("config: postgres needs AUTH_DATABASE_URL or POSTGRES_HOST")
		}
	default:
		return fmt.Errorf("config: unknown database driver %q", c.Database.Driver)
	}

	switch c.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("config: unsupported algorithm %q", c.Algorithm)
	}

	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return errors.New("config: token lifetimes must be positive")
	}
	if c.RefreshTTL <= c.AccessTTL {
		return errors.New("config: refresh token lifetime must exceed access token lifetime")
	}

	if c.AccessSecret != "" && c.AccessSecret == c.RefreshSecret {
		return errors.New("config: access and refresh secrets must differ")
	}
	if (c.AccessSecret == "" || c.RefreshSecret == "") && !c.AllowsEphemeralSecrets() {
		return errors.New("config: JWT_SECRET_KEY and JWT_REFRESH_SECRET_KEY are required")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	return nil
}

// AllowsEphemeralSecrets reports whether missing secrets may be generated
// at startup.
func (c Config) AllowsEphemeralSecrets() bool {
	return c.Env == "dev" || c.Env == "test"
}

type envReader struct {
	lookup func(string) (string, bool)
	err    error
}

func (e *envReader) get(key string) (string, bool) {
	v, ok := e.lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (e *envReader) fail(key, value string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("config: %s=%q: %w", key, value, err)
	}
}

func (e *envReader) string(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e *envReader) int(key string, dst *int) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = n
}

func (e *envReader) bool(key string, dst *bool) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = b
}

// duration accepts a Go duration ("90s", "1h") or a bare integer, read as
// minutes.
func (e *envReader) duration(key string, dst *time.Duration) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	if minutes, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(minutes) * time.Minute
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = d
}
