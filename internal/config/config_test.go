package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: \"9090\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 500, cfg.Render.Width)
	assert.Equal(t, 300, cfg.Render.Height)
	assert.Equal(t, 50, cfg.Render.AnchorX)
	assert.Equal(t, 130, cfg.Render.AnchorY)
	assert.Equal(t, "arial.ttf", cfg.Render.FontName)
	assert.Equal(t, 40, cfg.Render.DefaultFontSize)
	assert.Equal(t, "#000000", cfg.Render.DefaultColor)
	assert.Equal(t, 2*time.Second, cfg.Converter.Delay)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, "dop_session", cfg.Session.CookieName)
	assert.Equal(t, "logo.png", cfg.Assets.LogoPath)
	assert.Equal(t, []string{"eng"}, cfg.OCR.Languages)
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
converter:
  delay: 0s
session:
  store: redis
  ttl: 30m
ocr:
  engine: tika
tika:
  server_url: http://tika:9998
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), cfg.Converter.Delay)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "tika", cfg.OCR.Engine)
	assert.Equal(t, "http://tika:9998", cfg.Tika.ServerURL)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "server:\n  port: \"9090\"\n")
	t.Setenv("DOP_SERVER_PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestInit_PanicsOnMissingFile(t *testing.T) {
	assert.Panics(t, func() { Init(filepath.Join(t.TempDir(), "missing.yaml")) })
}
