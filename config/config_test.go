package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "foodshare")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("DB_NAME", "foodshare")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("SECRETS_DIR", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "foodshare", cfg.DBUser)
	assert.Equal(t, "foodshare", cfg.DBName)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)

	// Server defaults apply when unset.
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("DB_USER", "foodshare")
	t.Setenv("DB_NAME", "foodshare")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SECRETS_DIR", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadConfigSecretsDirOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("file-secret\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db_password"), []byte("file-password"), 0o600))

	t.Setenv("DB_USER", "foodshare")
	t.Setenv("DB_NAME", "foodshare")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("SECRETS_DIR", dir)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	// Secret files win over env vars and are trimmed.
	assert.Equal(t, "file-secret", cfg.JWTSecret)
	assert.Equal(t, "file-password", cfg.DBPassword)
}

func TestValidateConfigProductionNeedsPassword(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", string(Production))

	cfg := &Config{DBUser: "foodshare", DBName: "foodshare", JWTSecret: "secret"}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")

	cfg.DBPassword = "postgres"
	assert.NoError(t, ValidateConfig(cfg))
}
