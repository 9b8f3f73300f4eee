package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	cliflag "k8s.io/component-base/cli/flag"
	"k8s.io/component-base/cli/globalflag"
	"k8s.io/component-base/term"

	"github.com/autopeer-io/fleetcare/pkg/log"
	"github.com/autopeer-io/fleetcare/pkg/version"
)

// RunFunc is the entry point of an application once its options are loaded.
type RunFunc func() error

// Option customizes an App.
type Option func(*App)

// App wires a cobra command to options, configuration sources and a run function.
type App struct {
	name        string
	shortDesc   string
	description string
	options     NamedFlagSetOptions
	runFunc     RunFunc
	args        cobra.PositionalArgs
	extractors  map[string]func(context.Context) string

	configFile   string
	printVersion bool

	cmd *cobra.Command
}

// WithOptions sets the options the command loads flags and config into.
func WithOptions(opts NamedFlagSetOptions) Option {
	return func(a *App) { a.options = opts }
}

// WithRunFunc sets the function executed after options are validated.
func WithRunFunc(run RunFunc) Option {
	return func(a *App) { a.runFunc = run }
}

// WithDescription sets the long description shown in help.
func WithDescription(desc string) Option {
	return func(a *App) { a.description = desc }
}

// WithDefaultValidArgs rejects positional arguments.
func WithDefaultValidArgs() Option {
	return func(a *App) {
		a.args = func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				if len(arg) > 0 {
					return fmt.Errorf("%q does not take any arguments, got %q", cmd.CommandPath(), args)
				}
			}
			return nil
		}
	}
}

// WithLoggerContextExtractor registers functions that turn request context
// values into log fields, see log.FromContext.
func WithLoggerContextExtractor(extractors map[string]func(context.Context) string) Option {
	return func(a *App) { a.extractors = extractors }
}

// NewApp builds an application with the given name and options.
func NewApp(name, shortDesc string, opts ...Option) *App {
	a := &App{
		name:      name,
		shortDesc: shortDesc,
		runFunc:   func() error { return nil },
	}

	for _, o := range opts {
		o(a)
	}

	a.cmd = a.buildCommand()
	return a
}

// Command returns the underlying cobra command.
func (a *App) Command() *cobra.Command {
	return a.cmd
}

// Run executes the command and exits the process on failure.
func (a *App) Run() {
	if err := a.cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *App) buildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          a.name,
		Short:        a.shortDesc,
		Long:         a.description,
		SilenceUsage: true,
		Args:         a.args,
	}
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	cmd.Flags().SortFlags = true

	var fss cliflag.NamedFlagSets
	if a.options != nil {
		fss = a.options.Flags()
	}

	gfs := fss.FlagSet("global")
	gfs.StringVarP(&a.configFile, "config", "c", "", "Path to a YAML configuration file. Flags and environment variables take precedence.")
	gfs.BoolVar(&a.printVersion, "version", false, "Print version information and quit.")
	globalflag.AddGlobalFlags(gfs, cmd.Name())

	for _, f := range fss.FlagSets {
		cmd.Flags().AddFlagSet(f)
	}

	cols, _, _ := term.TerminalSize(cmd.OutOrStdout())
	cliflag.SetUsageAndHelpFunc(cmd, fss, cols)

	cmd.RunE = a.runCommand
	return cmd
}

func (a *App) runCommand(cmd *cobra.Command, _ []string) error {
	if a.printVersion {
		_, err := cmd.OutOrStdout().Write(version.Get().Text())
		return err
	}

	if a.options != nil {
		v, err := a.loadConfig(cmd.Flags())
		if err != nil {
			return err
		}
		if err := v.Unmarshal(a.options); err != nil {
			return fmt.Errorf("failed to decode configuration: %w", err)
		}
		if err := a.options.Complete(); err != nil {
			return err
		}
		if err := a.options.Validate(); err != nil {
			return err
		}
	}

	log.RegisterContextExtractors(a.extractors)

	return a.runFunc()
}
