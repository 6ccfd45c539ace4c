package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/routesearch/internal/metrics"
	"github.com/GoSim-25-26J-441/routesearch/internal/search"
	"github.com/GoSim-25-26J-441/routesearch/pkg/config"
	"github.com/GoSim-25-26J-441/routesearch/pkg/models"
)

const modeCompare = "compare"

type runOptions struct {
	oracle        oracleFlags
	mode          string
	workers       int
	progressEvery int
	jsonOutput    bool
}

func (c *CLI) runCommand() *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Search every ordering of the point set for the shortest route",
		Long: `Run checks that the oracle answers its liveness probe, then evaluates all n!
orderings of the configured points.

With --mode compare (the default) a sequential pass runs first, followed by a
concurrent pass over the same orderings, and the report includes the speedup.`,
		Example: `  # Compare both modes against a local oracle
  routesearch run

  # Concurrent only, 20 workers, over gRPC
  routesearch run --mode concurrent --workers 20 --transport grpc --grpc-addr localhost:50051`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSearch(cmd, opts)
		},
	}

	opts.oracle.register(cmd)
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", modeCompare, "sequential, concurrent or compare")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", config.DefaultConcurrency, "concurrent mode worker count")
	cmd.Flags().IntVar(&opts.progressEvery, "progress-every", config.DefaultProgressEvery, "log progress every N routes (0 disables)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "print the report as JSON")

	return cmd
}

func parseModes(s string) ([]models.Mode, error) {
	if strings.EqualFold(strings.TrimSpace(s), modeCompare) {
		return []models.Mode{models.ModeSequential, models.ModeConcurrent}, nil
	}
	mode, err := models.ParseMode(s)
	if err != nil {
		return nil, fmt.Errorf("%w (or %s)", err, modeCompare)
	}
	return []models.Mode{mode}, nil
}

func (c *CLI) runSearch(cmd *cobra.Command, opts runOptions) error {
	ctx := cmd.Context()
	log := loggerFromContext(ctx)

	modes, err := parseModes(opts.mode)
	if err != nil {
		return err
	}

	opts.oracle.apply(cmd, &c.cfg.Oracle)
	if cmd.Flags().Changed("workers") {
		c.cfg.Dispatch.Concurrency = opts.workers
	}
	if cmd.Flags().Changed("progress-every") {
		c.cfg.Dispatch.ProgressEvery = opts.progressEvery
	}
	if err := config.Validate(c.cfg); err != nil {
		return err
	}
	for _, name := range c.cfg.DuplicatePoints() {
		log.Warn("duplicate point in configuration", "point", name)
	}

	oracle, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer oracle.Close()

	collector := metrics.NewCollector()
	dispatcher := search.NewDispatcher(oracle).
		WithConcurrency(c.cfg.Dispatch.Concurrency).
		WithObserver(collector).
		WithLogger(log).
		WithProgressReporter(c.cfg.Dispatch.ProgressEvery, func(mode models.Mode, done, total int) {
			log.Info("progress", "mode", string(mode), "done", done, "total", total)
		})

	runs := make([]*metrics.RunMetrics, 0, len(modes))
	for _, mode := range modes {
		rm, err := metrics.Measure(mode, collector, func() (*models.SearchOutcome, error) {
			return dispatcher.Run(ctx, mode, c.cfg.Points)
		})
		if err != nil {
			return err
		}
		runs = append(runs, rm)
	}

	rep := newReport(runs)
	if opts.jsonOutput {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	c.renderReport(rep)
	return nil
}

// report is the result of one run command
type report struct {
	Runs        []*metrics.RunMetrics `json:"runs"`
	Speedup     *float64              `json:"speedup,omitempty"`
	Improvement *float64              `json:"improvement_percent,omitempty"`
	Converged   *bool                 `json:"converged,omitempty"`

	comparison *metrics.Comparison
}

func newReport(runs []*metrics.RunMetrics) *report {
	rep := &report{Runs: runs}

	var cmp metrics.Comparison
	for _, rm := range runs {
		switch rm.Mode {
		case models.ModeSequential:
			cmp.Sequential = rm
		case models.ModeConcurrent:
			cmp.Concurrent = rm
		}
	}
	if cmp.Sequential != nil && cmp.Concurrent != nil {
		speedup, improvement, converged := cmp.Speedup(), cmp.Improvement(), cmp.Converged()
		rep.Speedup = &speedup
		rep.Improvement = &improvement
		rep.Converged = &converged
		rep.comparison = &cmp
	}
	return rep
}
