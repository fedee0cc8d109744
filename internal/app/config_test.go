package app

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/leg100/dispatch/internal/logging"
	"github.com/leg100/dispatch/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	// Unset environment variables set on host computer
	t.Setenv("DISPATCH_CONCURRENCY", "")
	t.Setenv("DISPATCH_OPS", "")
	t.Setenv("DISPATCH_LOG_LEVEL", "")
	t.Setenv("DISPATCH_DELAY", "")
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name string
		file string
		args []string
		envs []string
		want func(t *testing.T, got Config)
	}{
		{
			"defaults",
			"",
			nil,
			nil,
			func(t *testing.T, got Config) {
				want := Config{
					Concurrency: runtime.NumCPU(),
					Ops:         10,
					Delay:       100 * time.Millisecond,
					Logging: logging.Options{
						Level: "info",
					},
				}
				assert.Equal(t, want, got)
			},
		},
		{
			"config file override default",
			"concurrency: 7\n",
			nil,
			nil,
			func(t *testing.T, got Config) {
				assert.Equal(t, 7, got.Concurrency)
			},
		},
		{
			"env var override default",
			"",
			nil,
			[]string{"DISPATCH_OPS=5"},
			func(t *testing.T, got Config) {
				assert.Equal(t, 5, got.Ops)
			},
		},
		{
			"flag override default",
			"",
			[]string{"--delay", "5ms"},
			nil,
			func(t *testing.T, got Config) {
				assert.Equal(t, 5*time.Millisecond, got.Delay)
			},
		},
		{
			"env var overrides config file",
			"ops: 3\n",
			nil,
			[]string{"DISPATCH_OPS=4"},
			func(t *testing.T, got Config) {
				assert.Equal(t, 4, got.Ops)
			},
		},
		{
			"flag overrides both env var and config",
			"ops: 3\n",
			[]string{"--ops", "6"},
			[]string{"DISPATCH_OPS=4"},
			func(t *testing.T, got Config) {
				assert.Equal(t, 6, got.Ops)
			},
		},
		{
			"fail every other operation",
			"",
			[]string{"--fail-every", "2"},
			nil,
			func(t *testing.T, got Config) {
				assert.Equal(t, 2, got.FailEvery)
			},
		},
		{
			"log level",
			"",
			[]string{"-l", "debug"},
			nil,
			func(t *testing.T, got Config) {
				assert.Equal(t, "debug", got.Logging.Level)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// change into a temp dir in case the host computer has a
			// dispatch.yaml file
			testutils.ChTempDir(t, t.TempDir())

			// set env vars
			for _, ev := range tt.envs {
				name, val, _ := strings.Cut(ev, "=")
				t.Setenv(name, val)
			}

			// set config file
			if tt.file != "" {
				path := filepath.Join(os.Getenv("HOME"), ".dispatch.yaml")
				err := os.WriteFile(path, []byte(tt.file), 0o644)
				require.NoError(t, err)
			}

			// and pass in flags
			got, err := Parse(io.Discard, tt.args)
			require.NoError(t, err)

			tt.want(t, got)
		})
	}
}

func TestConfig_invalidDelay(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := Parse(io.Discard, []string{"--delay", "ages"})
	require.Error(t, err)
}
