package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DATA_DIR", "STORE_BACKEND", "REDIS_URL", "REDIS_KEY_PREFIX", "DATABASE_URL", "SQLITE_PATH", "MESSAGES_DIR", "TOP_LIMIT"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "data", cfg.DataDir)
	require.Equal(t, BackendCSV, cfg.StoreBackend)
	require.Equal(t, "tourney", cfg.RedisKeyPrefix)
	require.Equal(t, 3, cfg.TopLimit)
	require.Equal(t, filepath.Join("data", "tourney.db"), cfg.SQLitePath)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_DIR", "/tmp/tourney")
	t.Setenv("STORE_BACKEND", "Memory")
	t.Setenv("TOP_LIMIT", "5")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "/tmp/tourney", cfg.DataDir)
	require.Equal(t, BackendMemory, cfg.StoreBackend)
	require.Equal(t, 5, cfg.TopLimit)
	require.Equal(t, filepath.Join("/tmp/tourney", "tourney.db"), cfg.SQLitePath, "sqlite file follows DATA_DIR")
}

func TestLoad_InvalidTopLimitKeepsDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOP_LIMIT", "-2")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 3, cfg.TopLimit)
}

func TestLoad_BackendRequirements(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "redis")
	_, err := Load("")
	require.ErrorContains(t, err, "REDIS_URL")

	t.Setenv("STORE_BACKEND", "postgres")
	_, err = Load("")
	require.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("STORE_BACKEND", "mongo")
	_, err = Load("")
	require.Error(t, err)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("DATA_DIR")
	os.Unsetenv("TOP_LIMIT")
	t.Cleanup(func() {
		os.Unsetenv("DATA_DIR")
		os.Unsetenv("TOP_LIMIT")
	})
	t.Setenv("STORE_BACKEND", "memory")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DATA_DIR=from-file\nTOP_LIMIT=7\nSTORE_BACKEND=csv\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.DataDir)
	require.Equal(t, 7, cfg.TopLimit)
	require.Equal(t, BackendMemory, cfg.StoreBackend, "process env wins over the file")
}

func TestLoad_MissingEnvFileIgnored(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
}
