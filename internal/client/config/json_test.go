package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func Test_parseJSON_SourcesAndPrecedence(t *testing.T) {
	path := writeTempJSON(t, `{"server_url":"http://json/api","request_timeout":"7s"}`)

	t.Run("loads from flag", func(t *testing.T) {
		cfg := &Config{DBPath: "keep.db"}
		require.NoError(t, parseJSON(cfg, []string{"-config", path}))

		assert.Equal(t, "http://json/api", cfg.ServerURL)
		assert.Equal(t, 7*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "keep.db", cfg.DBPath)
	})

	t.Run("no flag, no changes", func(t *testing.T) {
		cfg := &Config{ServerURL: "defaults", RequestTimeout: 42 * time.Second}
		require.NoError(t, parseJSON(cfg, nil))

		assert.Equal(t, "defaults", cfg.ServerURL)
		assert.Equal(t, 42*time.Second, cfg.RequestTimeout)
	})

	t.Run("env beats json", func(t *testing.T) {
		cfg, err := Load([]string{"-c", path}, env(map[string]string{"WEATHERDESK_TIMEOUT": "1s"}))
		require.NoError(t, err)
		assert.Equal(t, "http://json/api", cfg.ServerURL)
		assert.Equal(t, time.Second, cfg.RequestTimeout)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := writeTempJSON(t, `{ this is not valid json`)
		cfg := &Config{}
		assert.Error(t, parseJSON(cfg, []string{"-c", bad}))
	})

	t.Run("missing file", func(t *testing.T) {
		cfg := &Config{}
		assert.Error(t, parseJSON(cfg, []string{"-c", filepath.Join(t.TempDir(), "nope.json")}))
	})
}
