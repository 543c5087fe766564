package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/orizon-lang/conceptcheck/internal/cli"
	"github.com/orizon-lang/conceptcheck/internal/fixture"
	"github.com/orizon-lang/conceptcheck/internal/watch"
)

func (a *app) workers(flag int) int {
	if flag > 0 {
		return flag
	}
	return a.cfg.Batch.Workers
}

// checkFixture runs every expectation of the fixture at path and prints
// the report.
func (a *app) checkFixture(ctx context.Context, path string, workers int) (fixture.Report, error) {
	f, err := fixture.Load(path)
	if err != nil {
		return fixture.Report{}, err
	}
	e, err := a.engineFor(f)
	if err != nil {
		return fixture.Report{}, err
	}
	rep, err := f.Check(ctx, e, a.workers(workers))
	if err != nil {
		return fixture.Report{}, err
	}
	if a.jsonOut {
		return rep, cli.PrintJSON(a.out, rep)
	}
	fmt.Fprint(a.out, rep.String())
	return rep, nil
}

func (a *app) checkCmd() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "check FIXTURE...",
		Short: "Run the queries recorded in fixtures and compare their answers",
		Long: `check loads each fixture, answers its queries concurrently and compares
every answer with the recorded expectation. The exit status is 1 when any
expectation fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				rep, err := a.checkFixture(cmd.Context(), path, workers)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				failed += len(rep.Failures())
			}
			if failed > 0 {
				return &cli.ExitError{Code: 1, Err: fmt.Errorf("%d expectation(s) failed", failed)}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "Concurrent queries (default from config)")
	return cmd
}

func (a *app) watchCmd() *cobra.Command {
	var (
		workers  int
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch FIXTURE",
		Short: "Re-run check whenever the fixture changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			err := watch.Run(ctx, args[0], debounce, a.logger, func(watch.Event) error {
				_, err := a.checkFixture(ctx, args[0], workers)
				return err
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "Concurrent queries (default from config)")
	cmd.Flags().DurationVar(&debounce, "debounce", 100*time.Millisecond, "Quiet period before re-running")
	return cmd
}
