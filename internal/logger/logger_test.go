package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testagent/cli/internal/config"
)

func TestInit_WritesDatedLogFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(func() {
		xdg.Reload()
		Log = zerolog.Nop()
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})

	require.NoError(t, Init("warn", false))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	Warn("disk at %d%%", 91)

	name := "testagent-" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(config.GetLogsDir(), name))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"app":"testagent-cli"`)
	assert.Contains(t, string(data), "disk at 91%")
}

func TestInit_DebugOverridesLevel(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(func() {
		xdg.Reload()
		Log = zerolog.Nop()
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})

	require.NoError(t, Init("error", true))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}
