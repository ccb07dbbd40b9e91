package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, int64(64<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, DefaultMediaURL, cfg.Storage.MediaURL)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Database.AutoMigrate)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "Memory")
	t.Setenv("STORAGE_BACKEND", "s3")
	t.Setenv("S3_BUCKET", "assets")
	t.Setenv("S3_USE_PATH_STYLE", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://ar.example.com")
	t.Setenv("DATABASE_CONN_MAX_LIFETIME", "bogus")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "assets", cfg.Storage.S3.Bucket)
	assert.True(t, cfg.Storage.S3.UsePathStyle)
	assert.Equal(t, []string{"http://localhost:3000", "https://ar.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
}

func TestLoad_RejectsUnknownBackends(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "ftp")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_S3RequiresBucket(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "s3")
	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseConfig_URLs(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "ar", Password: "p@ss", Name: "assets", SSLMode: "disable"}

	assert.Equal(t, "host=db port=5432 user=ar password=p@ss dbname=assets sslmode=disable", d.DSN())
	assert.Equal(t, "pgx5://ar:p%40ss@db:5432/assets?sslmode=disable", d.MigrationURL())
}
