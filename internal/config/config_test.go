package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	assert.Equal(t, "Developer", DefaultRole)
	assert.Equal(t, "gemini-2.5-flash", DefaultModel)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta/openai/", DefaultAPIBase)
	assert.Equal(t, ".gemmit", DefaultConfigName)
	assert.Equal(t, "GEMINI_API_KEY", EnvAPIKey)
}

func TestInitConfig_DefaultsWithoutConfigFile(t *testing.T) {
	viper.Reset()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvAPIKey, "")
	os.Unsetenv(EnvAPIKey)

	require.NoError(t, InitConfig(""))

	cfg, err := GetConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultRole, cfg.Role)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultAPIBase, cfg.APIBase)
	assert.Empty(t, cfg.APIKey)
}

func TestInitConfig_ReadsConfigFile(t *testing.T) {
	viper.Reset()

	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "gemmit.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(
		"role: Backend Developer\nmodel: gemini-2.5-pro\napi_base: https://example.test/v1/\n"), 0644))

	require.NoError(t, InitConfig(cfgFile))

	cfg, err := GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "Backend Developer", cfg.Role)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, "https://example.test/v1/", cfg.APIBase)
}

func TestInitConfig_MissingExplicitConfigFileFails(t *testing.T) {
	viper.Reset()

	err := InitConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	assert.Error(t, err)
}

func TestInitConfig_APIKeyFromEnvironment(t *testing.T) {
	viper.Reset()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvAPIKey, "env-secret")

	require.NoError(t, InitConfig(""))

	cfg, err := GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.APIKey)
}

func TestInitConfig_APIKeyFromDotEnvFile(t *testing.T) {
	viper.Reset()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvAPIKey, "")
	os.Unsetenv(EnvAPIKey)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("GEMINI_API_KEY=dotenv-secret\n"), 0644))
	chdir(t, dir)

	require.NoError(t, InitConfig(""))

	cfg, err := GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "dotenv-secret", cfg.APIKey)
}

func TestInitConfig_EnvironmentWinsOverDotEnv(t *testing.T) {
	viper.Reset()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvAPIKey, "env-secret")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("GEMINI_API_KEY=dotenv-secret\n"), 0644))
	chdir(t, dir)

	require.NoError(t, InitConfig(""))

	cfg, err := GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.APIKey)
}

func TestGetConfig_ReportsUnmarshalFailure(t *testing.T) {
	viper.Reset()
	viper.Set("model", map[string]interface{}{"not": "a string"})

	cfg, err := GetConfig()

	assert.Nil(t, cfg)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "failed to parse configuration")
	}
}

// chdir switches the working directory for the duration of the test.
// Equivalent of t.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
