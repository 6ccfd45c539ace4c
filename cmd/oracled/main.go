package main

import (
	"context"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"

	"github.com/GoSim-25-26J-441/routesearch/internal/metrics"
	"github.com/GoSim-25-26J-441/routesearch/internal/oracled"
	"github.com/GoSim-25-26J-441/routesearch/pkg/logger"
)

func main() {
	var grpcAddr string
	var httpAddr string
	var logLevel string
	var logFormat string
	var rateLimit int

	flag.StringVar(&grpcAddr, "grpc-addr", ":50051", "gRPC listen address (empty disables gRPC)")
	flag.StringVar(&httpAddr, "http-addr", ":5000", "HTTP listen address")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.StringVar(&logFormat, "log-format", "text", "log format (json, text, pretty)")
	flag.IntVar(&rateLimit, "rate-limit", 0, "evaluations per second per client (0 disables)")
	flag.Parse()

	logger.SetDefault(logger.NewWithFormat(logFormat, logLevel, os.Stdout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(reg)

	limiter := oracled.NewRateLimiter(rateLimit)

	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           oracled.NewHTTPServer(reg).WithRateLimit(limiter).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// TODO: add TLS to the gRPC listener before exposing it beyond localhost.
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(oracled.RateLimitInterceptor(limiter)))
	healthServer := oracled.RegisterServices(grpcServer)

	if grpcAddr != "" {
		grpcLis, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			logger.Error("failed to listen for gRPC", "addr", grpcAddr, "error", err)
			stop()
			os.Exit(1)
		}
		go func() {
			logger.Info("gRPC server listening", "addr", grpcAddr)
			if err := grpcServer.Serve(grpcLis); err != nil {
				logger.Error("gRPC server error", "error", err)
				stop()
			}
		}()
	}

	go func() {
		logger.Info("HTTP server listening", "addr", httpAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown requested")
	stop()
	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	grpcServer.GracefulStop()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
}
