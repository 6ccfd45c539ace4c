// Package cli implements the routesearch command-line interface.
//
// # Commands
//
//   - run: check the oracle is alive, then search every ordering in
//     sequential mode, concurrent mode, or both and compare them
//   - evaluate: score one ordering given by point labels
//   - points: list the configured point set
//
// Configuration comes from --config (YAML or TOML) with flags layered on top.
// The logger is attached to the command context and set as pkg/logger's default.
package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/routesearch/internal/client"
	"github.com/GoSim-25-26J-441/routesearch/pkg/config"
	"github.com/GoSim-25-26J-441/routesearch/pkg/logger"
)

const appName = "routesearch"

// CLI holds shared state for all commands.
type CLI struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	logLevel   string
	verbose    bool

	cfg  *config.Config
	dial func(config.Oracle) (client.Oracle, error)
}

// New creates a CLI writing reports to out and logs to errOut.
func New(out, errOut io.Writer) *CLI {
	return &CLI{
		out:    out,
		errOut: errOut,
		dial:   client.New,
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               appName,
		Short:             "Exhaustive shortest-route search against a distance oracle",
		Long:              `routesearch evaluates every ordering of a small point set through a remote distance oracle, sequentially and with a bounded worker pool, and reports the shortest open path together with the speedup of the concurrent pass.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "config file (.yaml, .yml or .toml)")
	flags.StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.runCommand())
	root.AddCommand(c.evaluateCommand())
	root.AddCommand(c.pointsCommand())

	return root
}

// setup loads the configuration and installs the logger before any subcommand runs
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if c.configPath != "" {
		loaded, err := config.LoadConfig(c.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if c.verbose {
		cfg.LogLevel = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	l := logger.NewWithFormat(cfg.LogFormat, cfg.LogLevel, c.errOut)
	logger.SetDefault(l)
	cmd.SetContext(withLogger(cmd.Context(), l))

	c.cfg = cfg
	return nil
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext falls back to logger.Default when ctx carries none
func loggerFromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return logger.Default
}
