// package app is the main entrypoint into the application, responsible for
// configuring the queue, pushing a batch of synthetic operations through it,
// and rendering a summary of what happened.
package app

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
	prettyjson "github.com/hokaccha/go-prettyjson"
	"github.com/leg100/dispatch/internal/dispatch"
	"github.com/leg100/dispatch/internal/logging"
	"github.com/leg100/dispatch/internal/version"
)

var (
	doneStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	erroredStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	discardedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func Start(stdout, stderr io.Writer, args []string) error {
	// Parse configuration from flags, env vars and config file
	cfg, err := Parse(stderr, args)
	if err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Version {
		fmt.Fprintln(stdout, "dispatch", version.Version)
		return nil
	}

	if cfg.Debug {
		fmt.Fprint(stderr, spew.Sdump(cfg))
	}

	// Setup logging
	cfg.Logging.AdditionalWriters = append(cfg.Logging.AdditionalWriters, stderr)
	logger := logging.NewLogger(cfg.Logging)

	queue, err := dispatch.NewQueue(dispatch.Options{
		Concurrency: cfg.Concurrency,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer queue.Dispose()

	logger.Info("submitting operations", "ops", cfg.Ops, "concurrency", cfg.Concurrency)

	ops := make([]*dispatch.Op, 0, cfg.Ops)
	for i := 1; i <= cfg.Ops; i++ {
		i := i
		op, err := queue.RunSpec(dispatch.Spec{
			Description: fmt.Sprintf("op-%d", i),
			Fn: func(h *dispatch.Handle) {
				// complete asynchronously, simulating real work
				go func() {
					fmt.Fprintf(h, "working for %s\n", cfg.Delay)
					time.Sleep(cfg.Delay)
					if cfg.FailEvery > 0 && i%cfg.FailEvery == 0 {
						h.Fail(errors.New("synthetic failure"))
						return
					}
					h.Release()
				}()
			},
		})
		if err != nil {
			return fmt.Errorf("submitting operation: %w", err)
		}
		ops = append(ops, op)
	}

	for _, op := range ops {
		// operation failures are reported in the summary, not fatal
		_ = op.Wait()
	}

	return render(stdout, cfg, queue)
}

type summary struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	State       string `json:"state"`
	Elapsed     string `json:"elapsed"`
	Error       string `json:"error,omitempty"`
}

func render(stdout io.Writer, cfg Config, queue *dispatch.Queue) error {
	list := queue.List(dispatch.ListOptions{Oldest: true})

	if cfg.JSON {
		rows := make([]summary, len(list))
		for i, op := range list {
			rows[i] = summary{
				ID:          op.ID.String(),
				Description: op.String(),
				State:       string(op.State),
				Elapsed:     op.Elapsed(dispatch.Running).Round(time.Millisecond).String(),
			}
			if op.Err != nil {
				rows[i].Error = op.Err.Error()
			}
		}
		out, err := prettyjson.Marshal(rows)
		if err != nil {
			return fmt.Errorf("rendering summary: %w", err)
		}
		fmt.Fprintln(stdout, string(out))
		return nil
	}

	for _, op := range list {
		style := doneStyle
		switch op.State {
		case dispatch.Errored:
			style = erroredStyle
		case dispatch.Discarded:
			style = discardedStyle
		}
		fmt.Fprintf(stdout, "%s\t%s\t%s\n",
			op,
			style.Render(string(op.State)),
			op.Elapsed(dispatch.Running).Round(time.Millisecond),
		)
	}
	return nil
}
