// internal/console/charts.go
package console

import (
	"fmt"
	"math"
	"strings"

	"github.com/mwiater/predictdash/internal/dashboard"
	"github.com/mwiater/predictdash/internal/util"
)

const barWidth = 30

type consoleChart struct {
	charts *Charts
	canvas string
	cfg    dashboard.ChartConfig
}

func (c *consoleChart) Destroy() {
	if c.charts.live[c.canvas] == c {
		delete(c.charts.live, c.canvas)
	}
}

// Charts keeps the charts bound to a console Surface so they can be printed.
type Charts struct {
	surface *Surface
	live    map[string]*consoleChart
}

// NewCharts returns the ChartFactory for surface.
func NewCharts(surface *Surface) *Charts {
	c := &Charts{surface: surface, live: make(map[string]*consoleChart)}
	surface.charts = c
	return c
}

func (c *Charts) NewChart(canvasID string, cfg dashboard.ChartConfig) (dashboard.ChartHandle, error) {
	if !c.surface.Has(canvasID) {
		return nil, fmt.Errorf("canvas %q not found", canvasID)
	}
	if len(cfg.Datasets) == 0 {
		return nil, fmt.Errorf("chart %q has no datasets", canvasID)
	}
	chart := &consoleChart{charts: c, canvas: canvasID, cfg: cfg}
	c.live[canvasID] = chart
	return chart, nil
}

// Len returns the number of live charts.
func (c *Charts) Len() int { return len(c.live) }

// renderChart draws one line per label: a bar scaled to the largest value for
// bar charts, and the value with its share for doughnut and pie charts.
func renderChart(cfg dashboard.ChartConfig) string {
	if len(cfg.Datasets) == 0 {
		return "  no data"
	}
	data := cfg.Datasets[0].Data
	labelWidth := 0
	for _, l := range cfg.Labels {
		labelWidth = util.Max(labelWidth, len(l))
	}
	labelWidth = min(labelWidth, 24)

	maxValue, total := 0.0, 0.0
	for _, v := range data {
		maxValue = math.Max(maxValue, v)
		total += v
	}

	var lines []string
	for i, l := range cfg.Labels {
		if i >= len(data) {
			break
		}
		v := data[i]
		name := util.PadRight(util.TruncateRunes(l, labelWidth), labelWidth)
		if cfg.Type == dashboard.ChartBar {
			n := 0
			if maxValue > 0 {
				n = int(math.Round(v / maxValue * barWidth))
			}
			lines = append(lines, fmt.Sprintf("  %s %s %.0f", name, strings.Repeat("#", n), v))
			continue
		}
		share := 0.0
		if total > 0 {
			share = v / total
		}
		lines = append(lines, fmt.Sprintf("  %s %.0f (%s)", name, v, util.Percent(share, 1)))
	}
	return strings.Join(lines, "\n")
}
