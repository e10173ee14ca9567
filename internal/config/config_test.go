package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "./book_donation.db", cfg.DBPath)
	assert.Equal(t, "public/uploads", cfg.UploadDir)
	assert.EqualValues(t, 10, cfg.UploadMaxMB)
	assert.EqualValues(t, 800, cfg.ImageWidth)
	assert.Equal(t, time.Second, cfg.LoginWindow)
	assert.Len(t, cfg.CSRFKey, 32)
	assert.Len(t, cfg.SessionKey, 32)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	key := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 40)))
	t.Setenv("PORT", "8080")
	t.Setenv("SESSION_KEY", key)
	t.Setenv("LOGIN_RATE_WINDOW", "0s")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []byte(strings.Repeat("k", 40)), cfg.SessionKey)
	assert.Zero(t, cfg.LoginWindow)
}

func TestLoadConfigShortKeyIsReplaced(t *testing.T) {
	t.Setenv("CSRF_KEY", base64.StdEncoding.EncodeToString([]byte("short")))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Len(t, cfg.CSRFKey, 32)
	assert.NotEqual(t, []byte("short"), cfg.CSRFKey)
}

func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "port: \"9090\"\ndb_path: /tmp/books.db\nupload_max_mb: 2\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/tmp/books.db", cfg.DBPath)
	assert.EqualValues(t, 2, cfg.UploadMaxMB)
}

func TestLoadConfigRejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "http")
	_, err := LoadConfig("")
	assert.Error(t, err)
}
