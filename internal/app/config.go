package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/leg100/dispatch/internal/logging"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/peterbourgon/ff/v4/ffyaml"
)

type Config struct {
	Concurrency int
	Ops         int
	Delay       time.Duration
	FailEvery   int
	JSON        bool
	Debug       bool
	Logging     logging.Options

	Version bool
}

// set config in order of precedence:
// 1. flags > 2. env vars > 3. config file
func Parse(stderr io.Writer, args []string) (Config, error) {
	var cfg Config

	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("retrieving user's home directory: %w", err)
	}
	defaultConfigFile := filepath.Join(home, ".dispatch.yaml")

	fs := ff.NewFlagSet("dispatch")
	fs.IntVar(&cfg.Concurrency, 'c', "concurrency", runtime.NumCPU(), "The maximum number of operations run in parallel.")
	fs.IntVar(&cfg.Ops, 'n', "ops", 10, "The number of synthetic operations to run.")
	delay := fs.String(0, "delay", "100ms", "How long each synthetic operation takes.")
	fs.IntVar(&cfg.FailEvery, 0, "fail-every", 0, "Make every Nth operation fail. Zero disables failures.")
	fs.BoolVar(&cfg.JSON, 'j', "json", "Render the summary as JSON.")
	fs.BoolVar(&cfg.Debug, 'd', "debug", "Dump the parsed configuration before running.")
	fs.BoolVar(&cfg.Version, 'v', "version", "Print version.")
	_ = fs.String(0, "config", defaultConfigFile, "Path to config file.")

	{
		usage := fmt.Sprintf("Logging level (valid: %s).", strings.Join(logging.ValidLevels(), ","))
		fs.StringEnumVar(&cfg.Logging.Level, 'l', "log-level", usage, logging.ValidLevels()...)
	}

	err = ff.Parse(fs, args,
		ff.WithEnvVarPrefix("DISPATCH"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ffyaml.Parse),
		ff.WithConfigAllowMissingFile(),
	)
	if err != nil {
		// ff.Parse returns an error if there is an error or if -h/--help is
		// passed; in either case print flag usage in addition to error message.
		fmt.Fprintln(stderr, ffhelp.Flags(fs))
		return Config{}, err
	}

	// Perform any conversions from the flag parsed primitive types to
	// richer types.
	cfg.Delay, err = time.ParseDuration(*delay)
	if err != nil {
		return Config{}, fmt.Errorf("parsing delay: %w", err)
	}

	return cfg, nil
}
