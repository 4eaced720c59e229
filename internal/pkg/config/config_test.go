package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testYAML = `server:
  addr: ":8080"
  readTimeout: 5s
logger:
  level: debug
db:
  path: ./banners.db
  version: 2
auth:
  ttl: 1h
  secret: yaml-secret
`

func writeConfig(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testYAML), 0o600))

	return path
}

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()

	for _, k := range keys {
		t.Setenv(k, "x") // registers cleanup restoring the original value
		os.Unsetenv(k)
	}
}

func TestReadConfig(t *testing.T) {
	unsetEnv(t, "SECRET", "DB_PATH", "ADDR")

	cfg, err := New(writeConfig(t))
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, "debug", cfg.Logger.Level)
	require.Equal(t, "./banners.db", cfg.SQLiteDB.Path)
	require.Equal(t, 2, cfg.SQLiteDB.Version)
	require.Equal(t, "yaml-secret", cfg.Auth.Secret)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("DB_PATH", "/data/other.db")
	t.Setenv("SECRET", "env-secret")

	cfg, err := New(writeConfig(t))
	require.NoError(t, err)

	require.Equal(t, "/data/other.db", cfg.SQLiteDB.Path)
	require.Equal(t, "env-secret", cfg.Auth.Secret)
}

func TestEnvOnly(t *testing.T) {
	unsetEnv(t, "ADDR")
	t.Setenv("DB_PATH", "/data/banners.db")
	t.Setenv("SECRET", "env-secret")

	cfg, err := New("")
	require.NoError(t, err)

	require.Equal(t, "/data/banners.db", cfg.SQLiteDB.Path)
	require.Equal(t, ":80", cfg.Server.Addr)
	require.Equal(t, 2, cfg.SQLiteDB.Version)
}

func TestSecretRequired(t *testing.T) {
	unsetEnv(t, "SECRET")

	_, err := New("")
	require.Error(t, err)
}
