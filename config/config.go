// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	validLogLevels    = []string{"debug", "info", "warn", "error", "fatal"}
	validStorageTypes = []string{"s3", "r2"}
	validDrivers      = []string{"sqlite", "postgres"}
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Host     HostConfig     `mapstructure:"host"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Mail     MailConfig     `mapstructure:"mail"`
	Security SecurityConfig `mapstructure:"security"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	LogLevel string `mapstructure:"log_level"`
}

type HostConfig struct {
	Port        int      `mapstructure:"port"`
	PublicURL   string   `mapstructure:"public_url"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	SSL         SSL      `mapstructure:"ssl"`
}

type SSL struct {
	Enabled            bool   `mapstructure:"enabled"`
	CertificatePath    string `mapstructure:"certificate_path"`
	CertificateKeyPath string `mapstructure:"certificate_key_path"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	// Path for sqlite, connection string for postgres
	DSN string `mapstructure:"dsn"`
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type AuthConfig struct {
	ActivateOnSignup bool          `mapstructure:"activate_on_signup"`
	ResetKeyTTL      time.Duration `mapstructure:"reset_key_ttl"`
}

type StorageConfig struct {
	Type            string `mapstructure:"type"`
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	AccountID       string `mapstructure:"account_id"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	// Base URL the bucket is publicly served from, object keys are appended to it
	PublicURL string `mapstructure:"public_url"`
	Folder    string `mapstructure:"folder"`
}

type MailConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	FromName  string `mapstructure:"from_name"`
	FromEmail string `mapstructure:"from_email"`
	SSL       bool   `mapstructure:"ssl"`
}

type SecurityConfig struct {
	RateLimit int             `mapstructure:"rate_limit"`
	Turnstile TurnstileConfig `mapstructure:"turnstile"`
}

type TurnstileConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	SecretToken string `mapstructure:"secret_token"`
}

// Flags returns the command line flags understood by Load
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("qrcode-event-manager", pflag.ContinueOnError)
	fs.String("config", "", "Path to a config.toml file")
	fs.String("log-level", "", "Overrides app.log_level")
	fs.Int("port", 0, "Overrides host.port")

	return fs
}

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Load reads config.toml (if present), environment variables and the
// provided flags and returns a validated configuration. The returned value
// is never mutated afterwards and is shared by every component.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	//
	// Defaults
	//
	v.SetDefault("app.name", "QRcode Event Manager")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.public_url", "http://localhost:8080")
	v.SetDefault("host.cors_origins", []string{"http://localhost:8080"})
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "database.db")

	v.SetDefault("jwt.ttl", 24*time.Hour)

	v.SetDefault("auth.activate_on_signup", true)
	v.SetDefault("auth.reset_key_ttl", 30*time.Minute)

	v.SetDefault("storage.type", "s3")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.folder", "qrcode_event_manager")

	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.from_name", "QRcode Event Manager")

	v.SetDefault("security.rate_limit", 10)
	v.SetDefault("security.turnstile.enabled", false)

	//
	// Keys that are read through Unmarshal have to be known to viper for
	// AutomaticEnv to pick them up
	//
	for _, k := range []string{
		"jwt.secret",
		"storage.bucket", "storage.account_id", "storage.access_key_id",
		"storage.secret_access_key", "storage.public_url",
		"mail.host", "mail.username", "mail.password", "mail.from_email", "mail.ssl",
		"host.ssl.certificate_path", "host.ssl.certificate_key_path",
		"security.turnstile.secret_token",
	} {
		v.BindEnv(k)
	}

	if fs != nil {
		if f := fs.Lookup("log-level"); f != nil && f.Changed {
			v.BindPFlag("app.log_level", f)
		}
		if f := fs.Lookup("port"); f != nil && f.Changed {
			v.BindPFlag("host.port", f)
		}
		if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file, %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config, %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Host.PublicURL = strings.TrimRight(cfg.Host.PublicURL, "/")
	cfg.Storage.PublicURL = strings.TrimRight(cfg.Storage.PublicURL, "/")

	return &cfg, nil
}

// Validate returns an error if something is critically wrong and the
// application can't run because of that
func (c *Config) Validate() error {
	if !slices.Contains(validLogLevels, c.App.LogLevel) {
		return errors.New("invalid log level provided")
	}

	if c.Host.Port <= 0 {
		return errors.New("invalid port provided")
	}

	if _, err := url.ParseRequestURI(c.Host.PublicURL); err != nil {
		return fmt.Errorf("invalid host.public_url, %w", err)
	}

	if c.Host.SSL.Enabled {
		if c.Host.SSL.CertificatePath == "" {
			return errors.New("no ssl certificate path provided")
		}

		if c.Host.SSL.CertificateKeyPath == "" {
			return errors.New("no ssl certificate key path provided")
		}
	}

	if !slices.Contains(validDrivers, c.Database.Driver) {
		return errors.New("invalid database driver provided")
	}

	if c.Database.DSN == "" {
		return errors.New("database dsn can't be empty")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("no JWT secret set. Set JWT_SECRET or jwt.secret in config.toml, for example:\n\n%s", genSecret())
	}

	if c.JWT.TTL <= 0 {
		return errors.New("jwt.ttl must be bigger than 0")
	}

	if c.Auth.ResetKeyTTL <= 0 {
		return errors.New("auth.reset_key_ttl must be bigger than 0")
	}

	if !slices.Contains(validStorageTypes, c.Storage.Type) {
		return errors.New("invalid storage type provided")
	}

	if c.Storage.Type == "r2" && c.Storage.AccountID == "" {
		return errors.New("account id can't be empty")
	}
	if c.Storage.AccessKeyID == "" {
		return errors.New("access key id can't be empty")
	}
	if c.Storage.SecretAccessKey == "" {
		return errors.New("secret access key can't be empty")
	}
	if c.Storage.Bucket == "" {
		return errors.New("bucket can't be empty")
	}
	if c.Storage.PublicURL == "" {
		return errors.New("storage.public_url can't be empty")
	}

	if c.Mail.Host == "" {
		return errors.New("mail.host can't be empty")
	}
	if c.Mail.Port <= 0 {
		return errors.New("invalid mail port provided")
	}
	if c.Mail.FromEmail == "" {
		return errors.New("mail.from_email can't be empty")
	}

	if c.Security.RateLimit <= 0 {
		return errors.New("security.rate_limit must be bigger than 0")
	}

	if c.Security.Turnstile.Enabled && c.Security.Turnstile.SecretToken == "" {
		return errors.New("turnstile secret token is missing")
	}

	return nil
}

// SecureCookies reports whether cookies should carry the Secure attribute
func (c *Config) SecureCookies() bool {
	return c.Host.SSL.Enabled || strings.HasPrefix(c.Host.PublicURL, "https://")
}
