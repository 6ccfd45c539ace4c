package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/routesearch/internal/client"
	"github.com/GoSim-25-26J-441/routesearch/pkg/config"
	"github.com/GoSim-25-26J-441/routesearch/pkg/utils"
)

// Liveness probe backoff between health_retries attempts
const (
	probeBaseDelay = 250 * time.Millisecond
	probeMaxDelay  = 2 * time.Second
)

type oracleFlags struct {
	transport string
	url       string
	grpcAddr  string
	timeout   string
}

func (f *oracleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.transport, "transport", "", "oracle transport (http or grpc)")
	cmd.Flags().StringVar(&f.url, "oracle-url", "", "oracle base URL for http transport")
	cmd.Flags().StringVar(&f.grpcAddr, "grpc-addr", "", "oracle address for grpc transport")
	cmd.Flags().StringVar(&f.timeout, "timeout", "", "per-call oracle timeout, e.g. 5s")
}

// apply copies the flags the user set onto cfg
func (f *oracleFlags) apply(cmd *cobra.Command, cfg *config.Oracle) {
	if cmd.Flags().Changed("transport") {
		cfg.Transport = f.transport
	}
	if cmd.Flags().Changed("oracle-url") {
		cfg.URL = f.url
	}
	if cmd.Flags().Changed("grpc-addr") {
		cfg.GRPCAddr = f.grpcAddr
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = f.timeout
	}
}

// connect builds the configured oracle client and waits until it answers
// its liveness probe. The caller closes the client.
func (c *CLI) connect(ctx context.Context) (client.Oracle, error) {
	o, err := c.dial(c.cfg.Oracle)
	if err != nil {
		return nil, err
	}

	healthTimeout, err := c.cfg.Oracle.GetHealthTimeout()
	if err != nil {
		_ = o.Close()
		return nil, err
	}
	backoff := utils.NewExponentialBackoff(probeBaseDelay, probeMaxDelay, 2)
	if err := client.WaitReady(ctx, o, healthTimeout, c.cfg.Oracle.HealthRetries, backoff); err != nil {
		_ = o.Close()
		return nil, err
	}

	loggerFromContext(ctx).Info("oracle is alive", "transport", c.cfg.Oracle.Transport, "target", o.Target())
	return o, nil
}
