// Package cli implements the brambling command-line interface with Cobra.
//
// Commands:
//   - steps       show the registration workflow state of an order
//   - resolve     show where a request for a step would be routed
//   - clear-carts delete reserved items from expired carts
//   - serve       run the HTTP server
//
// Commands signal failure by returning an [ExitError]; [Execute] turns it
// into the process exit code.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"brambling/internal/checkout"
	"brambling/internal/config"
	"brambling/internal/logger"
	"brambling/internal/manifest"
	"brambling/internal/output"
	"brambling/internal/store"
)

// App holds the dependencies shared by all commands.
type App struct {
	Config   *config.Config
	Reader   *store.Reader
	Writer   *store.Writer
	Manifest *manifest.Manifest
	Printer  *output.Printer
	Log      zerolog.Logger

	// Now is the clock used for cart expiry.
	Now func() time.Time
}

// NewApp wires an [App] from configuration, reading the step manifest if
// one is configured.
func NewApp(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		Reader:  store.NewReader(""),
		Writer:  store.NewWriter(""),
		Printer: output.NewPrinter(),
		Log:     log.Logger,
		Now:     time.Now,
	}

	if cfg.Store.Path != "" {
		app.Reader = store.NewReaderWithPath("", cfg.Store.Path)
		app.Writer = store.NewWriterWithPath("", cfg.Store.Path)
	}

	if cfg.Manifest.Path != "" {
		m, err := manifest.ReadFromFile(cfg.Manifest.Path)
		if err != nil {
			return nil, err
		}
		app.Manifest = m
	}

	return app, nil
}

// workflow loads an order and builds its registration workflow.
func (a *App) workflow(eventSlug, orderCode string) (*checkout.Workflow, error) {
	event, order, err := a.Reader.Order(eventSlug, orderCode)
	if err != nil {
		return nil, err
	}
	return checkout.New(checkout.Context{Event: event, Order: order, Now: a.Now()}, a.Manifest)
}

// NewRootCommand builds the root command with every subcommand attached.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "brambling",
		Short:         "Event registration workflow tool",
		Long:          `Inspect and serve brambling's registration workflows.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newStepsCommand(app),
		newResolveCommand(app),
		newClearCartsCommand(app),
		newServeCommand(app),
	)
	return root
}

// ExecuteResult is the outcome of running the CLI.
type ExecuteResult struct {
	ExitCode int
	Err      error
}

// RunWithConfig runs the CLI with the given configuration and arguments
// without exiting the process.
func RunWithConfig(cfg *config.Config, args []string) ExecuteResult {
	app, err := NewApp(cfg)
	if err != nil {
		return ExecuteResult{ExitCode: 1, Err: err}
	}

	cmd := NewRootCommand(app)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		if code, ok := IsExitError(err); ok {
			return ExecuteResult{ExitCode: code, Err: err}
		}
		app.Printer.Error("Error: %v", err)
		return ExecuteResult{ExitCode: 1, Err: err}
	}
	return ExecuteResult{}
}

// Execute loads configuration, initializes logging, runs the CLI and exits
// with its exit code.
func Execute() {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := logger.Init(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	result := RunWithConfig(cfg, os.Args[1:])
	os.Exit(result.ExitCode)
}
