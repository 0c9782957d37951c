// internal/console/surface.go
// Package console binds the dashboard controller to plain terminal output for
// one-shot commands.
package console

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mwiater/predictdash/internal/dashboard"
	"github.com/mwiater/predictdash/internal/util"
)

var (
	heading   = color.New(color.FgCyan, color.Bold).SprintFunc()
	label     = color.New(color.FgHiBlack).SprintFunc()
	value     = color.New(color.FgMagenta, color.Bold).SprintFunc()
	result    = color.New(color.FgGreen).SprintFunc()
	alertText = color.New(color.FgRed, color.Bold).SprintFunc()
)

// Surface records what the controller writes and prints it on demand.
// Alerts are written to the error stream as soon as they are raised.
type Surface struct {
	out     io.Writer
	errOut  io.Writer
	known   map[string]bool
	fields  map[string]string
	text    map[string]string
	visible map[string]bool
	columns []string
	rows    [][]string
	alerts  []string
	charts  *Charts
}

// NewSurface returns a Surface exposing every dashboard element except the
// ids listed in hidden.
func NewSurface(out, errOut io.Writer, hidden ...string) *Surface {
	s := &Surface{
		out:     out,
		errOut:  errOut,
		known:   make(map[string]bool),
		fields:  make(map[string]string),
		text:    make(map[string]string),
		visible: make(map[string]bool),
	}
	for _, id := range []string{
		dashboard.PredictionForm, dashboard.ClearHistoryCtl,
		dashboard.TotalPredictions, dashboard.AvgConfidence, dashboard.ModelsUsed, dashboard.TopPrediction,
		dashboard.PredictionResult, dashboard.RecentPredictions,
		dashboard.SepalLength, dashboard.SepalWidth, dashboard.PetalLength, dashboard.PetalWidth, dashboard.ModelField,
		dashboard.PredictionsByClassCanvas, dashboard.PredictionsByModelCanvas, dashboard.ConfidenceDistributionCanvas,
	} {
		s.known[id] = true
	}
	for _, id := range hidden {
		delete(s.known, id)
	}
	return s
}

func (s *Surface) Has(id string) bool { return s.known[id] }

func (s *Surface) FieldValue(id string) (string, bool) {
	if !s.known[id] {
		return "", false
	}
	v, ok := s.fields[id]
	return v, ok
}

// SetField fills a form input, as if typed by the user.
func (s *Surface) SetField(id, v string) {
	if s.known[id] {
		s.fields[id] = v
	}
}

func (s *Surface) SetText(id, text string) bool {
	if !s.known[id] {
		return false
	}
	s.text[id] = text
	return true
}

func (s *Surface) SetVisible(id string, visible bool) bool {
	if !s.known[id] {
		return false
	}
	s.visible[id] = visible
	return true
}

func (s *Surface) SetRows(id string, columns []string, rows [][]string) bool {
	if !s.known[id] || id != dashboard.RecentPredictions {
		return false
	}
	s.columns = columns
	s.rows = rows
	return true
}

func (s *Surface) Alert(message string) {
	s.alerts = append(s.alerts, message)
	fmt.Fprintln(s.errOut, alertText(message))
}

// Alerts returns every alert raised so far.
func (s *Surface) Alerts() []string { return s.alerts }

// Text returns the text last written to id.
func (s *Surface) Text(id string) string { return s.text[id] }

// Visible reports whether id was last made visible.
func (s *Surface) Visible(id string) bool { return s.visible[id] }

// PrintResult writes the prediction result panel when it is visible.
func (s *Surface) PrintResult() {
	if !s.visible[dashboard.PredictionResult] {
		return
	}
	fmt.Fprintln(s.out, heading("Prediction Result"))
	for _, line := range strings.Split(s.text[dashboard.PredictionResult], "\n") {
		fmt.Fprintln(s.out, "  "+result(line))
	}
	fmt.Fprintln(s.out)
}

// PrintDashboard writes the stat cards, charts and recent predictions.
func (s *Surface) PrintDashboard() {
	fmt.Fprintln(s.out, heading("Prediction Statistics"))
	for _, card := range []struct{ name, id string }{
		{"Total Predictions", dashboard.TotalPredictions},
		{"Avg Confidence", dashboard.AvgConfidence},
		{"Models Used", dashboard.ModelsUsed},
		{"Top Prediction", dashboard.TopPrediction},
	} {
		v := s.text[card.id]
		if v == "" {
			v = "-"
		}
		fmt.Fprintf(s.out, "  %s %s\n", label(util.PadRight(card.name+":", 19)), value(v))
	}
	fmt.Fprintln(s.out)

	if s.charts != nil {
		ids := make([]string, 0, len(s.charts.live))
		for id := range s.charts.live {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			cfg := s.charts.live[id].cfg
			fmt.Fprintln(s.out, heading(cfg.Title))
			fmt.Fprintln(s.out, renderChart(cfg))
			fmt.Fprintln(s.out)
		}
	}

	if len(s.rows) == 0 {
		return
	}
	fmt.Fprintln(s.out, heading("Recent Predictions"))
	widths := make([]int, len(s.columns))
	for i, c := range s.columns {
		widths[i] = len(c)
	}
	for _, row := range s.rows {
		for i := range widths {
			if i < len(row) {
				widths[i] = util.Max(widths[i], len(row[i]))
			}
		}
	}
	s.printRow(s.columns, widths, label)
	for _, row := range s.rows {
		s.printRow(row, widths, fmt.Sprint)
	}
}

func (s *Surface) printRow(cells []string, widths []int, paint func(...any) string) {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = util.PadRight(cell, w)
	}
	fmt.Fprintln(s.out, "  "+paint(strings.TrimRight(strings.Join(parts, "  "), " ")))
}
