package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearSecrets(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_POSTGRES_USER", "APP_POSTGRES_PASSWORD", "APP_POSTGRES_DB",
		"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
		"DB_USER", "DB_PASSWORD", "DB_NAME",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_FromYAMLAndEnv(t *testing.T) {
	path := writeTempConfig(t, `
app:
  name: bookshelf
logger:
  level: info
  format: json
  output_target: stdout
  time_format: rfc3339
postgres:
  host: 127.0.0.1
  port: 5432
  sslmode: disable
  max_conns: 5
  min_conns: 1
storage:
  driver: gorm
pagination:
  strict: true
  max_limit: 50
http:
  addr: ":18080"
  cors_origins: ["http://localhost:3000"]
`)
	clearSecrets(t)
	t.Setenv("APP_POSTGRES_USER", "testuser")
	t.Setenv("APP_POSTGRES_PASSWORD", "testpass")
	t.Setenv("APP_POSTGRES_DB", "testdb")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "bookshelf", cfg.App.Name)
	assert.Equal(t, "testuser", cfg.Postgres.User)
	assert.Equal(t, "testpass", cfg.Postgres.Password)
	assert.Equal(t, "testdb", cfg.Postgres.DBName)
	assert.Equal(t, "127.0.0.1", cfg.Postgres.Host)
	assert.EqualValues(t, 5, cfg.Postgres.MaxConns)
	assert.Equal(t, 30, cfg.Postgres.HealthCheckPeriod)
	assert.Equal(t, "gorm", cfg.Storage.Driver)
	assert.True(t, cfg.Pagination.Strict)
	assert.Equal(t, 50, cfg.Pagination.MaxLimit)
	assert.Equal(t, ":18080", cfg.HTTP.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, "rfc3339", cfg.Logger.TimeFormat)
	assert.Equal(t, "stdout", cfg.Logger.OutputTarget)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeTempConfig(t, "app:\n  name: shelf\n")
	clearSecrets(t)
	t.Setenv("POSTGRES_USER", "u")
	t.Setenv("POSTGRES_PASSWORD", "p")
	t.Setenv("DB_NAME", "d")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pgx", cfg.Storage.Driver)
	assert.Equal(t, 100, cfg.Pagination.MaxLimit)
	assert.False(t, cfg.Pagination.Strict)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "d", cfg.Postgres.DBName)
}

func TestLoad_MissingSecretsFails(t *testing.T) {
	path := writeTempConfig(t, "postgres:\n  host: localhost\n")
	clearSecrets(t)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres.dbname, postgres.password, postgres.user")
}

func TestLoad_InvalidDriver(t *testing.T) {
	path := writeTempConfig(t, "storage:\n  driver: mongo\n")
	clearSecrets(t)
	t.Setenv("APP_POSTGRES_USER", "u")
	t.Setenv("APP_POSTGRES_PASSWORD", "p")
	t.Setenv("APP_POSTGRES_DB", "d")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid storage config")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
