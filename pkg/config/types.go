package config

import (
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/routesearch/pkg/models"
)

// Config is the route search configuration shared by the CLI and the daemon
type Config struct {
	LogLevel  string         `yaml:"log_level" toml:"log_level"`
	LogFormat string         `yaml:"log_format" toml:"log_format"` // json, text or pretty
	Points    []models.Point `yaml:"points" toml:"points"`
	Oracle    Oracle         `yaml:"oracle" toml:"oracle"`
	Dispatch  Dispatch       `yaml:"dispatch" toml:"dispatch"`
	Server    Server         `yaml:"server" toml:"server"`
}

// Oracle describes how the driver reaches the distance oracle
type Oracle struct {
	Transport     string `yaml:"transport" toml:"transport"` // http or grpc
	URL           string `yaml:"url" toml:"url"`             // base URL for http
	GRPCAddr      string `yaml:"grpc_addr" toml:"grpc_addr"` // host:port for grpc
	Timeout       string `yaml:"timeout" toml:"timeout"`     // per-call, e.g. "5s"
	HealthTimeout string `yaml:"health_timeout" toml:"health_timeout"`
	HealthRetries int    `yaml:"health_retries" toml:"health_retries"`
}

// Dispatch controls the concurrent scheduling mode
type Dispatch struct {
	Concurrency   int `yaml:"concurrency" toml:"concurrency"`
	ProgressEvery int `yaml:"progress_every" toml:"progress_every"`
}

// Server holds the oracle daemon listen addresses
type Server struct {
	HTTPAddr string `yaml:"http_addr" toml:"http_addr"`
	GRPCAddr string `yaml:"grpc_addr" toml:"grpc_addr"`
}

const (
	TransportHTTP = "http"
	TransportGRPC = "grpc"

	DefaultConcurrency   = 10
	DefaultProgressEvery = 10
	DefaultTimeout       = 5 * time.Second
	DefaultHealthTimeout = 2 * time.Second

	// MaxPoints bounds the search at 12! orderings
	MaxPoints = 12
)

// DefaultPoints is the canonical five-point set
func DefaultPoints() []models.Point {
	return []models.Point{
		models.NewPoint("A", 0, 0),
		models.NewPoint("B", 10, 5),
		models.NewPoint("C", 15, 15),
		models.NewPoint("D", 5, 20),
		models.NewPoint("E", 20, 10),
	}
}

// Default returns a complete, valid configuration
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "pretty",
		Points:    DefaultPoints(),
		Oracle: Oracle{
			Transport:     TransportHTTP,
			URL:           "http://localhost:5000",
			GRPCAddr:      "localhost:50051",
			Timeout:       DefaultTimeout.String(),
			HealthTimeout: DefaultHealthTimeout.String(),
			HealthRetries: 1,
		},
		Dispatch: Dispatch{
			Concurrency:   DefaultConcurrency,
			ProgressEvery: DefaultProgressEvery,
		},
		Server: Server{
			HTTPAddr: ":5000",
			GRPCAddr: ":50051",
		},
	}
}

// GetTimeout returns the per-call oracle timeout
func (o Oracle) GetTimeout() (time.Duration, error) {
	return parsePositiveDuration(o.Timeout, DefaultTimeout)
}

// GetHealthTimeout returns the liveness probe timeout
func (o Oracle) GetHealthTimeout() (time.Duration, error) {
	return parsePositiveDuration(o.HealthTimeout, DefaultHealthTimeout)
}

func parsePositiveDuration(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", s)
	}
	return d, nil
}

// DuplicatePoints returns labels that occur more than once, and labels of points
// sharing coordinates with an earlier point. Duplicates are allowed; callers flag them.
func (c *Config) DuplicatePoints() []string {
	var dups []string
	names := make(map[string]bool)
	coords := make(map[[2]float64]string)
	for _, p := range c.Points {
		if names[p.Name] {
			dups = append(dups, p.Name)
		}
		names[p.Name] = true

		key := [2]float64{p.X, p.Y}
		if first, ok := coords[key]; ok && first != p.Name {
			dups = append(dups, p.Name)
		} else if !ok {
			coords[key] = p.Name
		}
	}
	return dups
}
