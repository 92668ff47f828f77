package am

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "am.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), DefaultFilePermissions))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, "wmsnav.db", cfg.Database.Path)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, 600, cfg.Server.RateLimitPerMinute)
	assert.Equal(t, "comerciante", cfg.WMS.DefaultPersona)
	assert.Equal(t, 800*time.Millisecond, cfg.DataLoadDelay())
	assert.Equal(t, 1500*time.Millisecond, cfg.ConnectionDelay())
	assert.False(t, cfg.Log.JSON)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[server]
port = 9001

[wms]
default_persona = "operador"
data_load_delay_ms = 0
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, "operador", cfg.WMS.DefaultPersona)
	assert.Equal(t, time.Duration(0), cfg.DataLoadDelay())
	// Untouched keys keep their defaults
	assert.Equal(t, DefaultConnectionDelayMS, cfg.WMS.ConnectionDelayMS)
	assert.Equal(t, "wmsnav.db", cfg.Database.Path)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.toml")
}

func TestLoad_ProjectConfigAndEnv(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[database]
path = "project.db"

[server]
port = 9100
`)
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("WMSNAV_SERVER_PORT", "9200")

	Reset()
	t.Cleanup(Reset)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "project.db", cfg.Database.Path)
	assert.Equal(t, 9200, cfg.Server.Port, "environment wins over files")

	settings, err := Introspect()
	require.NoError(t, err)
	byKey := map[string]SettingInfo{}
	for _, s := range settings {
		byKey[s.Key] = s
	}
	assert.Equal(t, SourceProject, byKey["database.path"].Source)
	assert.Equal(t, SourceEnvironment, byKey["server.port"].Source)
	assert.Equal(t, "WMSNAV_SERVER_PORT", byKey["server.port"].SourcePath)
	assert.Equal(t, SourceDefault, byKey["wms.data_load_delay_ms"].Source)
}

func TestLoad_Cached(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	Reset()
	t.Cleanup(Reset)

	first, err := Load()
	require.NoError(t, err)
	second, err := Load()
	require.NoError(t, err)
	assert.Same(t, first, second)

	Reset()
	third, err := Load()
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestGetServerAllowedOrigins(t *testing.T) {
	cfg := &Config{}
	origins := cfg.GetServerAllowedOrigins()
	assert.Contains(t, origins, "http://localhost")

	origins[0] = "mutated"
	assert.Equal(t, "http://localhost", cfg.GetServerAllowedOrigins()[0])

	cfg.Server.AllowedOrigins = []string{"https://wms.example"}
	assert.Equal(t, []string{"https://wms.example"}, cfg.GetServerAllowedOrigins())
}
