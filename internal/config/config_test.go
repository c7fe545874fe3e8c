package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvAppID, EnvAppSecret, EnvBaseURL, EnvPageSize} {
		t.Setenv(key, "")
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadFileAndEnv(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app_id: file-app
app_secret: file-secret
output_dir: docs
page_count: 5
html: true
front_matter: true
`), 0644))

	t.Setenv(EnvAppSecret, "env-secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-app", cfg.AppID)
	assert.Equal(t, "env-secret", cfg.AppSecret, "environment overrides the file")
	assert.Equal(t, "docs", cfg.OutputDir)
	assert.Equal(t, ".", cfg.ImageDir, "unset keys keep their defaults")
	assert.Equal(t, 200, cfg.PageSize)
	assert.Equal(t, 5, cfg.PageCount)
	assert.True(t, cfg.HTML)
	assert.True(t, cfg.FrontMatter)
	assert.False(t, cfg.SkipExisting)
	assert.NoError(t, cfg.Validate())
}

func TestLoadDefaultFileMayBeMissing(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
	assert.Error(t, cfg.Validate())
}

func TestLoadExplicitFileMustExist(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set, even empty ones.
	os.Unsetenv(EnvAppID)
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvAppID+"=dotenv-app\n"), 0644))
	t.Cleanup(func() { os.Unsetenv(EnvAppID) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dotenv-app", cfg.AppID)
}

func TestLoadInvalidPageSize(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv(EnvPageSize, "many")

	_, err := Load("")
	assert.Error(t, err)
}
