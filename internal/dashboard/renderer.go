package dashboard

import (
	"strconv"

	"github.com/mwiater/predictdash/internal/logging"
	"github.com/mwiater/predictdash/internal/stats"
	"github.com/mwiater/predictdash/internal/util"
)

var (
	classPalette      = []string{"#667EEA", "#764BA2", "#ED64A6"}
	modelPalette      = []string{"#667EEA", "#764BA2"}
	confidencePalette = []string{"#48BB78", "#ECC94B", "#F56565"}
)

// recentColumns are the headers of the recent predictions table.
var recentColumns = []string{"Time", "Model", "Prediction", "Confidence"}

const recentTimeLayout = "2006-01-02 15:04:05"

// Renderer projects a stats payload onto a Surface. It owns the charts it
// creates: at most one live handle per canvas, replaced on every render.
type Renderer struct {
	surface Surface
	charts  ChartFactory
	live    map[string]ChartHandle
}

// NewRenderer returns a Renderer drawing onto surface. charts may be nil.
func NewRenderer(surface Surface, charts ChartFactory) *Renderer {
	return &Renderer{
		surface: surface,
		charts:  charts,
		live:    make(map[string]ChartHandle),
	}
}

// Render applies a full payload: stat cards, then charts, then recent predictions.
func (r *Renderer) Render(p *stats.Payload) {
	if p == nil {
		logging.LogEvent("[RENDER] nothing to render: empty payload")
		return
	}
	r.updateStatCards(p)
	r.updateCharts(p)
	r.updateRecentPredictions(p.RecentPredictions)
}

func (r *Renderer) setText(id, text string) {
	if !r.surface.SetText(id, text) {
		logging.LogEvent("[RENDER] element %q not found", id)
	}
}

func (r *Renderer) updateStatCards(p *stats.Payload) {
	r.setText(TotalPredictions, strconv.Itoa(p.TotalPredictions))

	if avg, ok := meanConfidence(p.AvgConfidenceByModel); ok {
		r.setText(AvgConfidence, util.Percent(avg, 1))
	}

	r.setText(ModelsUsed, strconv.Itoa(len(p.PredictionsByModel)))

	if top, ok := topClass(p.PredictionsByClass); ok {
		r.setText(TopPrediction, util.Capitalize(top.ClassID))
	}
}

// meanConfidence is the unweighted mean across models.
func meanConfidence(items []stats.ModelConfidence) (float64, bool) {
	if len(items) == 0 {
		return 0, false
	}
	var sum float64
	for _, item := range items {
		sum += item.AvgConfidence
	}
	return sum / float64(len(items)), true
}

// topClass returns the class with the highest count; the first one wins ties.
func topClass(items []stats.ClassCount) (stats.ClassCount, bool) {
	if len(items) == 0 {
		return stats.ClassCount{}, false
	}
	top := items[0]
	for _, item := range items[1:] {
		if item.Count > top.Count {
			top = item
		}
	}
	return top, true
}

func (r *Renderer) updateCharts(p *stats.Payload) {
	if r.charts == nil {
		logging.LogEvent("[RENDER] charting is unavailable; skipping chart updates")
		return
	}

	if len(p.PredictionsByClass) > 0 {
		labels := make([]string, len(p.PredictionsByClass))
		counts := make([]float64, len(p.PredictionsByClass))
		for i, item := range p.PredictionsByClass {
			labels[i] = util.Capitalize(item.ClassID)
			counts[i] = float64(item.Count)
		}
		r.createOrUpdateChart(PredictionsByClassCanvas, ChartConfig{
			Type:     ChartBar,
			Title:    "Predictions by Class",
			Labels:   labels,
			Datasets: []Dataset{{Label: "Predictions", Data: counts, Colors: classPalette}},
		})
	}

	if len(p.PredictionsByModel) > 0 {
		labels := make([]string, len(p.PredictionsByModel))
		counts := make([]float64, len(p.PredictionsByModel))
		for i, item := range p.PredictionsByModel {
			labels[i] = util.Humanize(item.ModelID)
			counts[i] = float64(item.Count)
		}
		r.createOrUpdateChart(PredictionsByModelCanvas, ChartConfig{
			Type:       ChartDoughnut,
			Title:      "Predictions by Model",
			Labels:     labels,
			Datasets:   []Dataset{{Data: counts, Colors: modelPalette}},
			ShowLegend: true,
		})
	}

	if len(p.ConfidenceDistribution) > 0 {
		labels := make([]string, len(p.ConfidenceDistribution))
		counts := make([]float64, len(p.ConfidenceDistribution))
		for i, item := range p.ConfidenceDistribution {
			labels[i] = item.Bucket
			counts[i] = float64(item.Count)
		}
		r.createOrUpdateChart(ConfidenceDistributionCanvas, ChartConfig{
			Type:       ChartPie,
			Title:      "Confidence Distribution",
			Labels:     labels,
			Datasets:   []Dataset{{Data: counts, Colors: confidencePalette}},
			ShowLegend: true,
		})
	}
}

// createOrUpdateChart destroys whatever is bound to canvasID and draws cfg in its place.
// If creation fails the canvas is left without a chart rather than with a destroyed one.
func (r *Renderer) createOrUpdateChart(canvasID string, cfg ChartConfig) {
	if !r.surface.Has(canvasID) {
		logging.LogEvent("[RENDER] canvas %q not found", canvasID)
		return
	}

	if old, ok := r.live[canvasID]; ok {
		delete(r.live, canvasID)
		old.Destroy()
	}

	handle, err := r.charts.NewChart(canvasID, cfg)
	if err != nil {
		logging.LogEvent("[RENDER] chart %q could not be created: %v", canvasID, err)
		return
	}
	r.live[canvasID] = handle
	logging.LogEvent("[RENDER] chart %q updated", canvasID)
}

func (r *Renderer) updateRecentPredictions(records []stats.PredictionRecord) {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		when := "-"
		if !rec.Timestamp.IsZero() {
			when = rec.Timestamp.Local().Format(recentTimeLayout)
		}
		rows = append(rows, []string{
			when,
			util.Humanize(rec.Model),
			util.Capitalize(rec.Prediction),
			util.Percent(rec.Confidence, 2),
		})
	}
	if !r.surface.SetRows(RecentPredictions, recentColumns, rows) {
		logging.LogEvent("[RENDER] element %q not found", RecentPredictions)
	}
}

// Chart returns the live chart bound to canvasID, if any.
func (r *Renderer) Chart(canvasID string) (ChartHandle, bool) {
	h, ok := r.live[canvasID]
	return h, ok
}

// Close destroys every live chart.
func (r *Renderer) Close() {
	for id, h := range r.live {
		delete(r.live, id)
		h.Destroy()
	}
}
