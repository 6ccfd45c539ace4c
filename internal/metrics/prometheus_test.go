package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordOracleRequest(t *testing.T) {
	Register(prometheus.NewRegistry())

	before := testutil.ToFloat64(requestCounter.WithLabelValues("http", "ok"))
	RecordOracleRequest("http", "ok", 5, time.Millisecond)
	RecordOracleRequest("http", "ok", 2, 2*time.Millisecond)
	RecordOracleRequest("http", "invalid_input", 1, time.Microsecond)

	if got := testutil.ToFloat64(requestCounter.WithLabelValues("http", "ok")) - before; got != 2 {
		t.Fatalf("expected 2 ok requests, got %f", got)
	}
	if got := testutil.CollectAndCount(requestLatency); got < 1 {
		t.Fatalf("expected latency histogram series, got %d", got)
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	Register(reg)
	Register(reg)
}

func TestRecordOracleRejected(t *testing.T) {
	before := testutil.ToFloat64(requestCounter.WithLabelValues("grpc", "rate_limited"))
	RecordOracleRejected("grpc", "rate_limited")
	if got := testutil.ToFloat64(requestCounter.WithLabelValues("grpc", "rate_limited")) - before; got != 1 {
		t.Fatalf("expected 1 rejected request, got %f", got)
	}
}
