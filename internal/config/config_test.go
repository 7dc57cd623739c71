package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", " Postgres ")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "shopfront.events", cfg.KafkaTopic, "default")
}

func TestConfigFileLayer(t *testing.T) {
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), "shopfront.yaml")
	require.NoError(t, os.WriteFile(path, []byte("PORT: \"7000\"\nREDIS_ADDR: localhost:6379\n"), 0o600))

	cfg := decode(newViper(path))
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "sqlite", cfg.DBDriver)
}

func TestChangedListsKeysOnly(t *testing.T) {
	old := Config{Port: "8080", SMTPPassword: "hunter2"}
	next := old
	assert.Empty(t, Changed(old, next))

	next.SMTPPassword = "s3cret"
	next.Port = "8081"
	keys := Changed(old, next)
	assert.Equal(t, []string{"PORT", "SMTP_PASSWORD"}, keys)
	for _, k := range keys {
		assert.NotContains(t, k, "s3cret")
	}
}
