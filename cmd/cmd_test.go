package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"github.com/testagent/cli/internal/config"
	clierrors "github.com/testagent/cli/internal/errors"
)

// newTestCmd returns a command wired to in-memory streams
func newTestCmd(t *testing.T, input string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetIn(strings.NewReader(input))
	c.SetContext(context.Background())
	return c, &out
}

// useConfig installs cfg as the loaded configuration for one test
func useConfig(t *testing.T, mutate func(c *config.UserConfig)) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.SessionBackend = "memory"
	if mutate != nil {
		mutate(cfg)
	}
	prev := appConfig
	appConfig = cfg
	t.Cleanup(func() { appConfig = prev })
}

// setFlag assigns a package-level flag variable and restores it afterwards
func setFlag[T any](t *testing.T, p *T, v T) {
	t.Helper()
	prev := *p
	*p = v
	t.Cleanup(func() { *p = prev })
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func exitCode(err error) clierrors.ExitCode {
	return clierrors.ExitCodeOf(err)
}

var fixedNow = func() time.Time { return time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC) }
