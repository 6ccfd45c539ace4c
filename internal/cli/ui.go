package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/GoSim-25-26J-441/routesearch/internal/metrics"
	"github.com/GoSim-25-26J-441/routesearch/pkg/models"
	"github.com/GoSim-25-26J-441/routesearch/pkg/utils"
)

var (
	colorCyan   = lipgloss.Color("36")  // primary
	colorGreen  = lipgloss.Color("35")  // success
	colorYellow = lipgloss.Color("220") // warnings
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // labels
	colorDim    = lipgloss.Color("240") // muted
)

var (
	// StyleTitle for section headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(20)
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconArrow   = "→"
)

func (c *CLI) printSuccess(format string, args ...any) {
	fmt.Fprintln(c.out, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func (c *CLI) printWarning(format string, args ...any) {
	fmt.Fprintln(c.out, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (c *CLI) printTitle(title string) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, StyleTitle.Render(title))
}

func (c *CLI) printRow(key, value string) {
	fmt.Fprintln(c.out, "  "+styleKey.Render(key)+value)
}

func (c *CLI) renderReport(rep *report) {
	for _, rm := range rep.Runs {
		c.renderRun(rm)
	}
	if rep.comparison != nil {
		c.renderComparison(rep)
	}
	fmt.Fprintln(c.out)
}

func (c *CLI) renderRun(rm *metrics.RunMetrics) {
	c.printTitle(modeTitle(rm.Mode))

	c.printRow("Routes evaluated", StyleNumber.Render(fmt.Sprintf("%d", rm.Evaluated)))
	if rm.Failed > 0 {
		c.printRow("Failed", StyleWarning.Render(fmt.Sprintf("%d", rm.Failed))+failureBreakdown(rm.Failures))
	}
	c.printRow("Elapsed", StyleValue.Render(rm.Elapsed.Round(time.Microsecond).String()))
	c.printRow("Throughput", StyleValue.Render(fmt.Sprintf("%.2f routes/s", rm.Throughput())))

	if rm.Outcome.HasRoute() {
		c.printRow("Best length", StyleNumber.Render(rm.Outcome.BestLength.String()))
		c.printRow("Best route", StyleValue.Render(rm.Outcome.BestRoute.String()))
	} else {
		c.printRow("Best length", StyleWarning.Render("none, every evaluation failed"))
	}

	if lat := rm.Latency; lat != nil && lat.Count > 0 {
		c.printRow("Latency", StyleDim.Render(fmt.Sprintf("mean %.2fms  p50 %.2fms  p95 %.2fms  p99 %.2fms",
			lat.Mean, lat.P50, lat.P95, lat.P99)))
	}
}

func (c *CLI) renderComparison(rep *report) {
	c.printTitle("Comparison")
	c.printRow("Speedup", StyleNumber.Render(fmt.Sprintf("%.2fx", *rep.Speedup)))
	c.printRow("Time saved", StyleNumber.Render(fmt.Sprintf("%.1f%%", *rep.Improvement)))

	fmt.Fprintln(c.out)
	if *rep.Converged {
		c.printSuccess("both modes found best length %s", rep.comparison.Sequential.Outcome.BestLength)
	} else {
		c.printWarning("modes disagree: sequential %s, concurrent %s",
			rep.comparison.Sequential.Outcome.BestLength, rep.comparison.Concurrent.Outcome.BestLength)
	}
}

func (c *CLI) renderPoints() {
	c.printTitle("Points")
	for _, p := range c.cfg.Points {
		c.printRow(p.Name, StyleValue.Render(fmt.Sprintf("(%g, %g)", p.X, p.Y)))
	}
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "  %s points, %s orderings\n",
		StyleNumber.Render(fmt.Sprintf("%d", len(c.cfg.Points))),
		StyleNumber.Render(fmt.Sprintf("%d", utils.Factorial(len(c.cfg.Points)))))
}

// failureBreakdown renders "  (transport_failure 3, internal_error 1)"
func failureBreakdown(byKind map[string]int) string {
	if len(byKind) == 0 {
		return ""
	}
	kinds := make([]string, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s %d", k, byKind[k]))
	}
	return StyleDim.Render("  (" + strings.Join(parts, ", ") + ")")
}

func modeTitle(mode models.Mode) string {
	s := string(mode)
	if s == "" {
		return "Search"
	}
	return strings.ToUpper(s[:1]) + s[1:] + " search"
}
