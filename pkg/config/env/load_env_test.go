package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("ENTITY_SEARCH_TEST_KEY=loaded\n"), 0o600))
	t.Setenv("ENV_PATH", "")
	t.Setenv("ENTITY_SEARCH_TEST_KEY", "")
	require.NoError(t, os.Unsetenv("ENTITY_SEARCH_TEST_KEY"))

	require.NoError(t, LoadDotEnv("local", path))
	assert.Equal(t, "loaded", os.Getenv("ENTITY_SEARCH_TEST_KEY"))
}

func TestLoadDotEnv_EnvPathWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.env")
	require.NoError(t, os.WriteFile(path, []byte("ENTITY_SEARCH_TEST_PATH=custom\n"), 0o600))
	t.Setenv("ENV_PATH", path)
	t.Setenv("ENTITY_SEARCH_TEST_PATH", "")
	require.NoError(t, os.Unsetenv("ENTITY_SEARCH_TEST_PATH"))

	require.NoError(t, LoadDotEnv("local", filepath.Join(dir, "missing.env")))
	assert.Equal(t, "custom", os.Getenv("ENTITY_SEARCH_TEST_PATH"))
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	t.Setenv("ENV_PATH", "")
	missing := filepath.Join(t.TempDir(), "missing.env")

	assert.Error(t, LoadDotEnv("local", missing))
	assert.NoError(t, LoadDotEnv("production", missing))
}
