// internal/tui/surface_test.go
package tui

import (
	"strings"
	"testing"

	"github.com/mwiater/predictdash/internal/dashboard"
)

func TestSurfaceElements(t *testing.T) {
	s := NewSurface()
	notified := 0
	s.SetNotifier(func() { notified++ })

	if !s.Has(dashboard.PredictionForm) || s.Has("unknown") {
		t.Fatal("unexpected element set")
	}
	if s.SetText("unknown", "x") {
		t.Fatal("SetText on an unknown element should report false")
	}
	if !s.SetText(dashboard.TotalPredictions, "3") || !s.SetVisible(dashboard.PredictionResult, true) {
		t.Fatal("setters on known elements should report true")
	}
	if notified != 2 {
		t.Fatalf("expected 2 notifications, got %d", notified)
	}
	if _, ok := s.FieldValue(dashboard.SepalLength); ok {
		t.Fatal("untouched field should be absent")
	}
	s.SetField(dashboard.SepalLength, "4.9")
	if v, ok := s.FieldValue(dashboard.SepalLength); !ok || v != "4.9" {
		t.Fatalf("unexpected field value %q", v)
	}

	snap := s.snapshot()
	if snap.text[dashboard.TotalPredictions] != "3" || !snap.visible[dashboard.PredictionResult] {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestSurfaceAlertQueue(t *testing.T) {
	s := NewSurface()
	s.Alert("first")
	s.Alert("second")
	if got := s.snapshot().alert; got != "first" {
		t.Fatalf("expected first alert, got %q", got)
	}
	s.DismissAlert()
	if got := s.snapshot().alert; got != "second" {
		t.Fatalf("expected second alert, got %q", got)
	}
	s.DismissAlert()
	s.DismissAlert()
	if got := s.snapshot().alert; got != "" {
		t.Fatalf("expected no alert, got %q", got)
	}
}

func TestChartsBindAndDestroy(t *testing.T) {
	s := NewSurface()
	charts := NewCharts(s)
	cfg := dashboard.ChartConfig{Type: dashboard.ChartBar, Labels: []string{"Setosa"}, Datasets: []dashboard.Dataset{{Data: []float64{3}}}}

	first, err := charts.NewChart(dashboard.PredictionsByClassCanvas, cfg)
	if err != nil {
		t.Fatalf("NewChart: %v", err)
	}
	second, err := charts.NewChart(dashboard.PredictionsByClassCanvas, cfg)
	if err != nil {
		t.Fatalf("NewChart: %v", err)
	}

	first.Destroy()
	if _, ok := s.snapshot().charts[dashboard.PredictionsByClassCanvas]; !ok {
		t.Fatal("destroying a replaced chart must not unbind its successor")
	}
	second.Destroy()
	if _, ok := s.snapshot().charts[dashboard.PredictionsByClassCanvas]; ok {
		t.Fatal("expected canvas to be empty after destroy")
	}

	if _, err := charts.NewChart("nowhere", cfg); err == nil {
		t.Fatal("expected error for unknown canvas")
	}
	if _, err := charts.NewChart(dashboard.PredictionsByClassCanvas, dashboard.ChartConfig{}); err == nil {
		t.Fatal("expected error for chart without datasets")
	}
}

func TestRenderChart(t *testing.T) {
	bars := renderChart(dashboard.ChartConfig{
		Type:     dashboard.ChartBar,
		Labels:   []string{"Setosa", "Versicolor"},
		Datasets: []dashboard.Dataset{{Data: []float64{5, 10}}},
	}, 40)
	lines := strings.Split(bars, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 bar lines, got %d:\n%s", len(lines), bars)
	}
	if !strings.Contains(lines[0], "Setosa") || !strings.HasSuffix(lines[1], "10") {
		t.Fatalf("unexpected bars:\n%s", bars)
	}
	if strings.Count(lines[1], "█") <= strings.Count(lines[0], "█") {
		t.Fatalf("expected the larger value to have the longer bar:\n%s", bars)
	}

	shares := renderChart(dashboard.ChartConfig{
		Type:       dashboard.ChartDoughnut,
		Labels:     []string{"Logistic Regression", "Naive Bayes"},
		Datasets:   []dashboard.Dataset{{Data: []float64{3, 1}}},
		ShowLegend: true,
	}, 40)
	if strings.Count(shares, "█") != 40 {
		t.Fatalf("expected the stacked bar to fill the width:\n%s", shares)
	}
	for _, want := range []string{"Logistic Regression 3 (75.0%)", "Naive Bayes 1 (25.0%)"} {
		if !strings.Contains(shares, want) {
			t.Fatalf("expected %q in:\n%s", want, shares)
		}
	}

	if got := renderChart(dashboard.ChartConfig{}, 10); got != "no data" {
		t.Fatalf("expected placeholder, got %q", got)
	}
}
