// internal/tui/charts.go
package tui

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/predictdash/internal/dashboard"
	"github.com/mwiater/predictdash/internal/util"
)

// Charts is the terminal ChartFactory: it binds chart configs to canvases on
// a Surface, and the view draws them at whatever width is available.
type Charts struct {
	surface *Surface
}

// NewCharts returns a ChartFactory drawing onto surface.
func NewCharts(surface *Surface) *Charts {
	return &Charts{surface: surface}
}

// chartHandle unbinds its chart when destroyed.
type chartHandle struct {
	surface *Surface
	chart   *liveChart
}

func (h *chartHandle) Destroy() {
	h.surface.unbindChart(h.chart)
}

// NewChart implements dashboard.ChartFactory.
func (c *Charts) NewChart(canvasID string, cfg dashboard.ChartConfig) (dashboard.ChartHandle, error) {
	if !c.surface.Has(canvasID) {
		return nil, fmt.Errorf("canvas %q not found", canvasID)
	}
	if len(cfg.Datasets) == 0 {
		return nil, errors.New("chart has no datasets")
	}
	chart := &liveChart{canvas: canvasID, cfg: cfg}
	c.surface.bindChart(chart)
	return &chartHandle{surface: c.surface, chart: chart}, nil
}

func colorAt(colors []string, i int) lipgloss.Color {
	if len(colors) == 0 {
		return lipgloss.Color("62")
	}
	return lipgloss.Color(colors[i%len(colors)])
}

// renderChart draws cfg into a block at most width cells wide.
func renderChart(cfg dashboard.ChartConfig, width int) string {
	if len(cfg.Datasets) == 0 || len(cfg.Labels) == 0 {
		return "no data"
	}
	switch cfg.Type {
	case dashboard.ChartBar:
		return renderBars(cfg, width)
	default:
		return renderShares(cfg, width)
	}
}

// renderBars draws one horizontal bar per label, scaled to the largest value.
func renderBars(cfg dashboard.ChartConfig, width int) string {
	data := cfg.Datasets[0]
	labelWidth := 0
	for _, l := range cfg.Labels {
		labelWidth = util.Max(labelWidth, lipgloss.Width(l))
	}
	labelWidth = min(labelWidth, 16)

	maxValue := 0.0
	for _, v := range data.Data {
		maxValue = math.Max(maxValue, v)
	}
	valueWidth := len(fmt.Sprintf("%.0f", maxValue))
	barWidth := util.Max(width-labelWidth-valueWidth-2, 1)

	var lines []string
	for i, label := range cfg.Labels {
		if i >= len(data.Data) {
			break
		}
		v := data.Data[i]
		n := 0
		if maxValue > 0 {
			n = int(math.Round(v / maxValue * float64(barWidth)))
		}
		bar := lipgloss.NewStyle().Foreground(colorAt(data.Colors, i)).Render(strings.Repeat("█", n))
		lines = append(lines, fmt.Sprintf("%s %s%s %*.0f",
			util.PadRight(label, labelWidth), bar, strings.Repeat(" ", barWidth-n), valueWidth, v))
	}
	return strings.Join(lines, "\n")
}

// renderShares draws a stacked bar of each label's share followed by a legend.
func renderShares(cfg dashboard.ChartConfig, width int) string {
	data := cfg.Datasets[0]
	total := 0.0
	for _, v := range data.Data {
		total += v
	}
	barWidth := util.Max(width, 1)

	var stacked strings.Builder
	used := 0
	for i, v := range data.Data {
		if total <= 0 {
			break
		}
		n := int(math.Round(v / total * float64(barWidth)))
		if i == len(data.Data)-1 {
			n = barWidth - used
		}
		n = util.Max(min(n, barWidth-used), 0)
		used += n
		stacked.WriteString(lipgloss.NewStyle().Foreground(colorAt(data.Colors, i)).Render(strings.Repeat("█", n)))
	}

	lines := []string{stacked.String()}
	if !cfg.ShowLegend {
		return lines[0]
	}
	for i, label := range cfg.Labels {
		if i >= len(data.Data) {
			break
		}
		share := 0.0
		if total > 0 {
			share = data.Data[i] / total
		}
		swatch := lipgloss.NewStyle().Foreground(colorAt(data.Colors, i)).Render("■")
		lines = append(lines, fmt.Sprintf("%s %s %.0f (%s)",
			swatch, util.TruncateRunes(label, util.Max(barWidth-14, 4)), data.Data[i], util.Percent(share, 1)))
	}
	return strings.Join(lines, "\n")
}
