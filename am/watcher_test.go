package am

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/wmsnav/errors"
)

func newTestWatcher(t *testing.T, path string) *ConfigWatcher {
	t.Helper()
	cw, err := NewConfigWatcher(path)
	require.NoError(t, err)
	cw.debouncePeriod = 20 * time.Millisecond
	cw.loader = func() (*Config, error) { return LoadFromFile(path) }
	t.Cleanup(func() { cw.Stop() })
	return cw
}

func TestConfigWatcherReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[wms]\ndata_load_delay_ms = 800\n")
	cw := newTestWatcher(t, path)

	reloaded := make(chan *Config, 4)
	cw.OnReload(func(c *Config) error {
		reloaded <- c
		return nil
	})
	cw.Start()

	require.NoError(t, os.WriteFile(path, []byte("[wms]\ndata_load_delay_ms = 50\n"), DefaultFilePermissions))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 50, cfg.WMS.DataLoadDelayMS)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}

func TestConfigWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "[wms]\ndata_load_delay_ms = 800\n")
	cw := newTestWatcher(t, path)

	reloaded := make(chan struct{}, 1)
	cw.OnReload(func(*Config) error {
		reloaded <- struct{}{}
		return nil
	})
	cw.Start()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), DefaultFilePermissions))
	require.NoError(t, os.WriteFile(path+".back1", []byte("x"), DefaultFilePermissions))

	select {
	case <-reloaded:
		t.Fatal("unrelated file triggered reload")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestConfigWatcherReloadKeepsGoingAfterCallbackError(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[wms]\nconnection_delay_ms = 10\n")
	cw := newTestWatcher(t, path)

	var calls []string
	cw.OnReload(func(*Config) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	cw.OnReload(func(*Config) error {
		calls = append(calls, "second")
		return nil
	})

	require.NoError(t, cw.reload())
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestConfigWatcherRejectsInvalidReload(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[wms]\nconnection_delay_ms = -1\n")
	cw := newTestWatcher(t, path)

	called := false
	cw.OnReload(func(*Config) error {
		called = true
		return nil
	})

	err := cw.reload()
	require.Error(t, err)
	assert.False(t, called)
}

func TestConfigWatcherStopIsIdempotent(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "")
	cw := newTestWatcher(t, path)
	cw.Start()

	assert.NoError(t, cw.Stop())
	assert.NoError(t, cw.Stop())
	assert.NoError(t, cw.reload(), "reload after stop is a no-op")
}

func TestIsBackupFile(t *testing.T) {
	assert.True(t, isBackupFile("/x/am.toml.back1"))
	assert.True(t, isBackupFile("/x/am.toml~"))
	assert.True(t, isBackupFile("/x/.am.toml.swp"))
	assert.False(t, isBackupFile("/x/am.toml"))
}
