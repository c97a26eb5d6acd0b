package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings().Timeout, settings.Timeout)
	assert.True(t, settings.IsHistoryEnabled())
	assert.Equal(t, 0, settings.Retries)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `api_url: https://sihui.example.com/api
timeout: 3s
retries: 2
retry_delay: 250
history_enabled: false
output: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), FilePermissions))

	settings, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://sihui.example.com/api", settings.APIURL)
	assert.Equal(t, 3*time.Second, settings.Timeout.Std())
	assert.Equal(t, 2, settings.Retries)
	assert.Equal(t, 250*time.Millisecond, settings.RetryDelay.Std())
	assert.False(t, settings.IsHistoryEnabled())
	assert.Equal(t, "json", settings.Output)
}

func TestLoadJSONWithComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
  // staging backend
  "api_url": "http://staging:8080/api",
  "timeout": "5s", /* trailing */
  "rate_limit": 2.5
}`
	require.NoError(t, os.WriteFile(path, []byte(content), FilePermissions))

	settings, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://staging:8080/api", settings.APIURL)
	assert.Equal(t, 5*time.Second, settings.Timeout.Std())
	assert.Equal(t, 2.5, settings.RateLimit)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout: soon\n"), FilePermissions))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestResolveAPIURL(t *testing.T) {
	tests := []struct {
		name     string
		override string
		env      string
		legacy   string
		file     string
		want     string
	}{
		{name: "fallback", want: DefaultAPIURL},
		{name: "settings file", file: "http://file/api", want: "http://file/api"},
		{name: "legacy env", legacy: "http://legacy/api", file: "http://file/api", want: "http://legacy/api"},
		{name: "env beats legacy", env: "http://env/api", legacy: "http://legacy/api", want: "http://env/api"},
		{name: "flag wins", override: "http://flag/api", env: "http://env/api", want: "http://flag/api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvAPIURL, tt.env)
			t.Setenv(EnvLegacyAPIURL, tt.legacy)
			got := ResolveAPIURL(tt.override, Settings{APIURL: tt.file})
			if got != tt.want {
				t.Errorf("ResolveAPIURL() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInitializeAtSeedsConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".sihui")
	require.NoError(t, InitializeAt(dir))

	assert.FileExists(t, ConfigFile)
	settings, err := Load(ConfigFile)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, settings.Timeout.Std())
	assert.Equal(t, filepath.Join(dir, "credentials.json"), CredentialsFile)
}
