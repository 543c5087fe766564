// Command conceptcheck answers structural concept queries against a type
// universe described by a YAML fixture.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orizon-lang/conceptcheck/internal/cli"
	"github.com/orizon-lang/conceptcheck/internal/config"
	"github.com/orizon-lang/conceptcheck/internal/fixture"
	"github.com/orizon-lang/conceptcheck/internal/logging"
	"github.com/orizon-lang/conceptcheck/internal/query"
	"github.com/orizon-lang/conceptcheck/internal/types"
)

const toolName = "conceptcheck"

// app carries the state shared by every subcommand.
type app struct {
	// Global flags
	configPath  string
	fixturePath string
	dataModel   string
	verbose     bool
	jsonOut     bool

	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, logger: zap.NewNop()}
	root := &cobra.Command{
		Use:   toolName,
		Short: "Structural concept checking over a described type universe",
		Long: `conceptcheck answers questions about types: which operator expressions
are well formed and what they yield, which associated types exist, and which
concepts (equality_comparable, regular, random_access_iterator, range, ...)
a type models.

Types are written as C++-style type expressions ("const int*", "Seq&").
User types come from a YAML fixture passed with --fixture.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			logger, err := logging.New(logging.Options{LoggingConfig: cfg.Logging, Verbose: a.verbose})
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", defaultConfigPath(), "Config file")
	root.PersistentFlags().StringVarP(&a.fixturePath, "fixture", "f", "", "Fixture declaring the type universe")
	root.PersistentFlags().StringVarP(&a.dataModel, "data-model", "m", "", "Data model (lp64, llp64, ilp32); overrides fixture and config")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "Print JSON output")

	root.AddCommand(a.queryCommands()...)
	root.AddCommand(a.widenCmd(), a.listCmd())
	root.AddCommand(a.checkCmd(), a.watchCmd())
	root.AddCommand(a.platformCmd(), a.versionCmd())
	return root
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, toolName, "config.yaml")
}

// model resolves the data model: flag, then fixture, then config.
func (a *app) model(f *fixture.Fixture) (types.DataModel, error) {
	if a.dataModel != "" {
		return types.ModelByName(a.dataModel)
	}
	fallback, err := a.cfg.Model()
	if err != nil {
		return types.DataModel{}, err
	}
	if f != nil {
		return f.Model(fallback)
	}
	return fallback, nil
}

// engine builds the query engine over the fixture named by --fixture, or
// over the builtin universe when none is given.
func (a *app) engine() (*query.Engine, error) {
	if a.fixturePath == "" {
		m, err := a.model(nil)
		if err != nil {
			return nil, err
		}
		return query.New(types.NewUniverse(m), a.logger), nil
	}
	f, err := fixture.Load(a.fixturePath)
	if err != nil {
		return nil, err
	}
	return a.engineFor(f)
}

func (a *app) engineFor(f *fixture.Fixture) (*query.Engine, error) {
	m, err := a.model(f)
	if err != nil {
		return nil, err
	}
	u, err := f.Build(m)
	if err != nil {
		return nil, err
	}
	a.logger.Info("fixture loaded",
		zap.String("fixture", f.Path()),
		zap.String("data_model", m.Name),
		zap.Int("types", len(f.Types)))
	return query.New(u, a.logger), nil
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		var exit *cli.ExitError
		if errors.As(err, &exit) {
			if exit.Err != nil {
				fmt.Fprintln(os.Stderr, exit.Err)
			}
			os.Exit(exit.Code)
		}
		cli.ExitWithError("%v", err)
	}
}
