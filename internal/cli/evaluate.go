package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/routesearch/pkg/errors"
	"github.com/GoSim-25-26J-441/routesearch/pkg/models"
)

func (c *CLI) evaluateCommand() *cobra.Command {
	var oracleOpts oracleFlags

	cmd := &cobra.Command{
		Use:   "evaluate <label>...",
		Short: "Score one ordering of configured points",
		Long:  `Evaluate sends the points named by the given labels, in the given order, to the oracle and prints the open path length.`,
		Example: `  routesearch evaluate A B C D E
  routesearch evaluate E A --oracle-url http://oracle:5000`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			oracleOpts.apply(cmd, &c.cfg.Oracle)
			return c.evaluateRoute(cmd, args)
		},
	}
	oracleOpts.register(cmd)
	return cmd
}

func (c *CLI) evaluateRoute(cmd *cobra.Command, labels []string) error {
	route, err := c.routeFromLabels(labels)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	oracle, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer oracle.Close()

	res := oracle.Evaluate(ctx, route)
	if !res.OK() {
		return errors.New(failureCode(res.Failure), "%s", res.Message)
	}

	fmt.Fprintf(c.out, "%s %s %s\n", StyleValue.Render(route.String()), iconArrow, StyleNumber.Render(res.Length.String()))
	return nil
}

// routeFromLabels resolves labels against the configured points, first match wins
func (c *CLI) routeFromLabels(labels []string) (models.Route, error) {
	byName := make(map[string]models.Point, len(c.cfg.Points))
	for _, p := range c.cfg.Points {
		if _, ok := byName[p.Name]; !ok {
			byName[p.Name] = p
		}
	}

	route := make(models.Route, 0, len(labels))
	for _, label := range labels {
		p, ok := byName[label]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown point %q (known: %s)",
				label, strings.Join(models.Route(c.cfg.Points).Labels(), ", "))
		}
		route = append(route, p)
	}
	return route, nil
}

func failureCode(kind models.FailureKind) errors.Code {
	switch kind {
	case models.FailureInvalidInput:
		return errors.ErrCodeInvalidInput
	case models.FailureTransport:
		return errors.ErrCodeTransport
	default:
		return errors.ErrCodeInternal
	}
}

func (c *CLI) pointsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "points",
		Short: "List the configured point set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.renderPoints()
			for _, name := range c.cfg.DuplicatePoints() {
				c.printWarning("point %s duplicates an earlier label or position", name)
			}
			return nil
		},
	}
}
