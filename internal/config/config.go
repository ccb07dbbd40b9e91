package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const DefaultMediaURL = "/media/"

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}

type LoggerConfig struct {
	Level  string
	Format string
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type StorageConfig struct {
	Backend   string
	LocalRoot string
	MediaURL  string
	S3        S3Config
}

type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

// DSN is the key/value connection string understood by pgx.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// MigrationURL is the pgx5:// URL used by golang-migrate.
func (d DatabaseConfig) MigrationURL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8000)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("SERVER_MAX_BODY_BYTES", 64<<20)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "postgres")
	v.SetDefault("DATABASE_NAME", "ar_backend")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 2)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("DATABASE_AUTO_MIGRATE", true)
	v.SetDefault("STORAGE_BACKEND", "local")
	v.SetDefault("STORAGE_LOCAL_ROOT", "./media")
	v.SetDefault("STORAGE_MEDIA_URL", DefaultMediaURL)
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_USE_PATH_STYLE", false)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	// Env
	v.AutomaticEnv()

	shutdown, err := time.ParseDuration(v.GetString("SERVER_SHUTDOWN_TIMEOUT"))
	if err != nil {
		shutdown = 10 * time.Second
	}
	lifetime, err := time.ParseDuration(v.GetString("DATABASE_CONN_MAX_LIFETIME"))
	if err != nil {
		lifetime = 30 * time.Minute
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetInt("SERVER_PORT"),
			ShutdownTimeout: shutdown,
			MaxBodyBytes:    v.GetInt64("SERVER_MAX_BODY_BYTES"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("DATABASE_DRIVER")),
			Host:            v.GetString("DATABASE_HOST"),
			Port:            v.GetInt("DATABASE_PORT"),
			User:            v.GetString("DATABASE_USER"),
			Password:        v.GetString("DATABASE_PASSWORD"),
			Name:            v.GetString("DATABASE_NAME"),
			SSLMode:         v.GetString("DATABASE_SSLMODE"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: lifetime,
			AutoMigrate:     v.GetBool("DATABASE_AUTO_MIGRATE"),
		},
		Storage: StorageConfig{
			Backend:   strings.ToLower(v.GetString("STORAGE_BACKEND")),
			LocalRoot: v.GetString("STORAGE_LOCAL_ROOT"),
			MediaURL:  v.GetString("STORAGE_MEDIA_URL"),
			S3: S3Config{
				Endpoint:        v.GetString("S3_ENDPOINT"),
				Region:          v.GetString("S3_REGION"),
				Bucket:          v.GetString("S3_BUCKET"),
				AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
				SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
				UsePathStyle:    v.GetBool("S3_USE_PATH_STYLE"),
			},
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unknown DATABASE_DRIVER %q (want postgres or memory)", c.Database.Driver)
	}
	switch c.Storage.Backend {
	case "local", "s3":
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q (want local or s3)", c.Storage.Backend)
	}
	if c.Storage.Backend == "s3" && c.Storage.S3.Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required when STORAGE_BACKEND=s3")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
