package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/routesearch/internal/oracle"
	"github.com/GoSim-25-26J-441/routesearch/internal/oracled"
	"github.com/GoSim-25-26J-441/routesearch/internal/search"
	"github.com/GoSim-25-26J-441/routesearch/pkg/config"
	"github.com/GoSim-25-26J-441/routesearch/pkg/errors"
	"github.com/GoSim-25-26J-441/routesearch/pkg/models"
)

func startOracle(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(oracled.NewHTTPServer(nil).Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

// execute runs the root command and returns stdout, stderr and the error
func execute(ctx context.Context, args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	root := New(&out, &errOut).RootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func bestLength(points []models.Point) models.RouteLength {
	best := models.Unbounded
	for route := range search.NewEnumerator(points).All() {
		l, err := oracle.Evaluate(route)
		if err == nil && models.RouteLength(l).Less(best) {
			best = models.RouteLength(l)
		}
	}
	return best
}

func TestRunCompare(t *testing.T) {
	url := startOracle(t)
	out, _, err := execute(context.Background(), "run", "--oracle-url", url, "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, out, "Sequential search")
	assert.Contains(t, out, "Concurrent search")
	assert.Contains(t, out, "Routes evaluated")
	assert.Contains(t, out, "120")
	assert.Contains(t, out, "Speedup")
	assert.Contains(t, out, "both modes found best length "+bestLength(config.DefaultPoints()).String())
}

func TestRunJSON(t *testing.T) {
	url := startOracle(t)
	out, _, err := execute(context.Background(), "run", "--oracle-url", url, "--json", "--workers", "4", "--log-level", "error")
	require.NoError(t, err)

	var rep struct {
		Runs []struct {
			Mode      string `json:"mode"`
			Evaluated int    `json:"evaluated"`
			Failed    int    `json:"failed"`
			Outcome   struct {
				BestLength float64 `json:"best_length"`
				BestRoute  []struct {
					Name string `json:"name"`
				} `json:"best_route"`
			} `json:"outcome"`
		} `json:"runs"`
		Speedup   *float64 `json:"speedup"`
		Converged *bool    `json:"converged"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Runs, 2)

	want := float64(bestLength(config.DefaultPoints()))
	for _, r := range rep.Runs {
		assert.Equal(t, 120, r.Evaluated)
		assert.Equal(t, 0, r.Failed)
		assert.Equal(t, want, r.Outcome.BestLength)
		assert.Len(t, r.Outcome.BestRoute, 5)
	}
	require.NotNil(t, rep.Speedup)
	require.NotNil(t, rep.Converged)
	assert.True(t, *rep.Converged)
}

func TestRunSingleMode(t *testing.T) {
	url := startOracle(t)
	out, _, err := execute(context.Background(), "run", "--oracle-url", url, "--mode", "sequential", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Sequential search")
	assert.NotContains(t, out, "Concurrent search")
	assert.NotContains(t, out, "Speedup")
}

func TestRunOracleUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	out, _, err := execute(context.Background(), "run", "--oracle-url", url, "--log-level", "error")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeOracleUnavailable))
	assert.Contains(t, errors.UserMessage(err), url)
	assert.NotContains(t, out, "Best length", "no partial results")
}

func TestRunCancelled(t *testing.T) {
	url := startOracle(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, _, err := execute(ctx, "run", "--oracle-url", url, "--log-level", "error")
	require.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, out, "Best length")
}

func TestRunInvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown mode", []string{"run", "--mode", "random"}},
		{"zero workers", []string{"run", "--workers", "0"}},
		{"bad timeout", []string{"run", "--timeout", "fast"}},
		{"bad transport", []string{"run", "--transport", "smtp"}},
		{"bad log level", []string{"run", "--log-level", "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(context.Background(), tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestParseModes(t *testing.T) {
	modes, err := parseModes("compare")
	require.NoError(t, err)
	assert.Equal(t, []models.Mode{models.ModeSequential, models.ModeConcurrent}, modes)

	modes, err = parseModes("parallel")
	require.NoError(t, err)
	assert.Equal(t, []models.Mode{models.ModeConcurrent}, modes)

	_, err = parseModes("both")
	assert.Error(t, err)
}

func TestEvaluate(t *testing.T) {
	url := startOracle(t)

	out, _, err := execute(context.Background(), "evaluate", "A", "B", "--oracle-url", url, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "A -> B")
	assert.Contains(t, out, "11.1803")

	_, _, err = execute(context.Background(), "evaluate", "A", "--oracle-url", url, "--log-level", "error")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	assert.Contains(t, err.Error(), "at least 2 cities")

	_, _, err = execute(context.Background(), "evaluate", "A", "Z", "--oracle-url", url, "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown point "Z"`)
}

func TestPoints(t *testing.T) {
	out, _, err := execute(context.Background(), "points", "--log-level", "error")
	require.NoError(t, err)
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "120")
}

func TestConfigFile(t *testing.T) {
	url := startOracle(t)
	path := filepath.Join(t.TempDir(), "routesearch.yaml")
	yaml := fmt.Sprintf(`log_level: error
log_format: text
points:
  - {name: P, x: 0, y: 0}
  - {name: Q, x: 3, y: 4}
  - {name: R, x: 3, y: 0}
  - {name: R, x: 6, y: 0}
oracle:
  transport: http
  url: %s
dispatch:
  concurrency: 2
`, url)
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	out, _, err := execute(context.Background(), "points", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "24")
	assert.Contains(t, out, "duplicates")

	out, _, err = execute(context.Background(), "run", "--config", path, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"evaluated": 24`)

	_, _, err = execute(context.Background(), "points", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRunReportsFailureBreakdown(t *testing.T) {
	inner := oracled.NewHTTPServer(nil).Handler()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/calculate_distance" {
			data, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			if bytes.HasPrefix(data, []byte(`{"cities":[{"name":"E"`)) {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(data))
		}
		inner.ServeHTTP(w, r)
	}))
	defer srv.Close()

	out, _, err := execute(context.Background(), "run", "--mode", "sequential", "--oracle-url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Failed")
	assert.Contains(t, out, "transport_failure 24")
}

func TestFailureBreakdown(t *testing.T) {
	assert.Empty(t, failureBreakdown(nil))
	got := failureBreakdown(map[string]int{"transport_failure": 3, "internal_error": 1})
	assert.Contains(t, got, "(internal_error 1, transport_failure 3)")
}
