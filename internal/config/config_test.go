package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POSTGRES_WRITE_DBNAME", "finance")

	require.NoError(t, Load(""))

	c := Get()
	assert.Equal(t, "dev", c.AppEnv)
	assert.Equal(t, ":8080", c.HttpListenAddr)
	assert.Equal(t, 5*time.Second, c.HttpRequestTimeout)
	assert.Equal(t, 30*time.Second, c.SubmissionLockTTL)
	assert.Equal(t, "school", c.PromNamespace)
	assert.Equal(t, "finance", c.PostgresWrite().Database)
	assert.Equal(t, "disable", c.PostgresWrite().SSLMode)
	assert.True(t, c.IsDev())
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_LISTEN_ADDR=:9090\nREDIS_ADDR=localhost:6379\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("HTTP_LISTEN_ADDR")
		os.Unsetenv("REDIS_ADDR")
	})

	require.NoError(t, Load(path))

	assert.Equal(t, ":9090", Get().HttpListenAddr)
	assert.Equal(t, "localhost:6379", Get().RedisAddr)
}

func TestLoad_MissingFile(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.Error(t, err)
}
