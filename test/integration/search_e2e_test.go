//go:build integration
// +build integration

package integration_test

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"

	"github.com/GoSim-25-26J-441/routesearch/internal/client"
	"github.com/GoSim-25-26J-441/routesearch/internal/metrics"
	"github.com/GoSim-25-26J-441/routesearch/internal/oracled"
	"github.com/GoSim-25-26J-441/routesearch/internal/search"
	"github.com/GoSim-25-26J-441/routesearch/pkg/config"
	"github.com/GoSim-25-26J-441/routesearch/pkg/models"
	"github.com/GoSim-25-26J-441/routesearch/pkg/utils"
)

// startDaemon serves the oracle on loopback listeners, as cmd/oracled does
func startDaemon(t *testing.T) (httpURL, grpcAddr string) {
	t.Helper()

	reg := prometheus.NewRegistry()
	metrics.Register(reg)

	httpLis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen http: %v", err)
	}
	httpSrv := &http.Server{Handler: oracled.NewHTTPServer(reg).Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		_ = httpSrv.Serve(httpLis)
	}()

	grpcLis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen grpc: %v", err)
	}
	grpcSrv := grpc.NewServer()
	oracled.RegisterServices(grpcSrv)
	go func() {
		_ = grpcSrv.Serve(grpcLis)
	}()

	t.Cleanup(func() {
		grpcSrv.GracefulStop()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(ctx)
	})
	return "http://" + httpLis.Addr().String(), grpcLis.Addr().String()
}

func TestIntegration_SearchOverBothTransports(t *testing.T) {
	httpURL, grpcAddr := startDaemon(t)

	for _, transport := range []string{config.TransportHTTP, config.TransportGRPC} {
		t.Run(transport, func(t *testing.T) {
			cfg := config.Default()
			cfg.Oracle.Transport = transport
			cfg.Oracle.URL = httpURL
			cfg.Oracle.GRPCAddr = grpcAddr

			o, err := client.New(cfg.Oracle)
			if err != nil {
				t.Fatalf("client.New: %v", err)
			}
			defer o.Close()

			ctx := context.Background()
			if err := client.WaitReady(ctx, o, time.Second, 3, utils.NewConstantBackoff(50*time.Millisecond)); err != nil {
				t.Fatalf("oracle not ready: %v", err)
			}

			collector := metrics.NewCollector()
			d := search.NewDispatcher(o).WithConcurrency(cfg.Dispatch.Concurrency).WithObserver(collector)

			var cmp metrics.Comparison
			for _, mode := range []models.Mode{models.ModeSequential, models.ModeConcurrent} {
				rm, err := metrics.Measure(mode, collector, func() (*models.SearchOutcome, error) {
					return d.Run(ctx, mode, cfg.Points)
				})
				if err != nil {
					t.Fatalf("%s run: %v", mode, err)
				}
				if rm.Evaluated != 120 || rm.Failed != 0 {
					t.Fatalf("%s: expected 120 evaluated and 0 failed, got %d and %d", mode, rm.Evaluated, rm.Failed)
				}
				if rm.Latency == nil || rm.Latency.Count != 120 {
					t.Fatalf("%s: expected 120 latency samples, got %+v", mode, rm.Latency)
				}
				if mode == models.ModeSequential {
					cmp.Sequential = rm
				} else {
					cmp.Concurrent = rm
				}
			}

			if !cmp.Converged() {
				t.Fatalf("modes disagree: %s vs %s", cmp.Sequential.Outcome.BestLength, cmp.Concurrent.Outcome.BestLength)
			}
			identity := models.RouteLength(0)
			for i := 0; i < len(cfg.Points)-1; i++ {
				identity += models.RouteLength(cfg.Points[i].Distance(cfg.Points[i+1]))
			}
			if cmp.Sequential.Outcome.BestLength > identity {
				t.Fatalf("best %s is longer than the identity ordering %s", cmp.Sequential.Outcome.BestLength, identity)
			}
		})
	}
}

func TestIntegration_OracleDownAbortsBeforeSearch(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := lis.Addr().String()
	lis.Close()

	o := client.NewHTTPClient("http://"+addr, time.Second)
	err = client.WaitReady(context.Background(), o, 200*time.Millisecond, 1, utils.NewConstantBackoff(10*time.Millisecond))
	if err == nil {
		t.Fatalf("expected liveness check to fail against a closed port")
	}
}
