package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/odvcencio/octyl/pkg/config"
	"github.com/odvcencio/octyl/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, config.DefaultAppTickRate, cfg.AppTickRate)
	assert.Equal(t, config.DefaultRenderTickRate, cfg.RenderTickRate)
	assert.Equal(t, config.DefaultShutdownGrace, cfg.ShutdownGrace)
	assert.Equal(t, config.DefaultErrorBurst, cfg.ErrorBurst)
	assert.True(t, cfg.Mouse)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoPathUsesDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultAppTickRate, cfg.AppTickRate)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "octyl.yaml")
	body := `
app_tick_rate: 100ms
render_tick_rate: 20ms
error_burst: 5
log_level: debug
log_file: /tmp/octyl.log
mouse: false
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 100*time.Millisecond, cfg.AppTickRate)
	assert.Equal(t, 20*time.Millisecond, cfg.RenderTickRate)
	assert.Equal(t, config.DefaultShutdownGrace, cfg.ShutdownGrace)
	assert.Equal(t, 5, cfg.ErrorBurst)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/octyl.log", cfg.LogFile)
	assert.False(t, cfg.Mouse)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "octyl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render_tick_rate: 20ms\n"), 0o644))
	t.Setenv("OCTYL_RENDER_TICK_RATE", "40ms")
	t.Setenv("OCTYL_METRICS_ADDR", "127.0.0.1:9100")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 40*time.Millisecond, cfg.RenderTickRate)
	assert.Equal(t, "127.0.0.1:9100", cfg.MetricsAddr)
}

func TestLoad_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "octyl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("error_burst: 0\nlog_level: shouty\n"), 0o644))

	_, err := config.Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigInvalid))
	assert.Contains(t, err.Error(), "error_burst")
	assert.Contains(t, err.Error(), "shouty")
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "octyl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app_tick_rate: [\n"), 0o644))

	_, err := config.Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigLoad))
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	cfg.AppTickRate = 0
	cfg.ShutdownGrace = -time.Second

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app_tick_rate")
	assert.Contains(t, err.Error(), "shutdown_grace")
}

func TestMarshal_RoundTripsThroughYAML(t *testing.T) {
	cfg := config.Default()
	cfg.LogFile = "octyl.log"

	out, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(out), "render_tick_rate:")

	var back config.Config
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, cfg, back)
}

func TestLoad_ExpandsHomeInLogFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("OCTYL_LOG_FILE", "~/logs/octyl.log")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs", "octyl.log"), cfg.LogFile)
}
