package dashboard

import (
	"testing"
	"time"

	"github.com/mwiater/predictdash/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayload() *stats.Payload {
	return &stats.Payload{
		TotalPredictions: 12,
		AvgConfidenceByModel: []stats.ModelConfidence{
			{ModelID: "logistic_regression", AvgConfidence: 0.9},
			{ModelID: "naive_bayes", AvgConfidence: 0.8},
		},
		PredictionsByModel: []stats.ModelCount{
			{ModelID: "logistic_regression", Count: 9},
			{ModelID: "naive_bayes", Count: 3},
		},
		PredictionsByClass: []stats.ClassCount{
			{ClassID: "setosa", Count: 3},
			{ClassID: "versicolor", Count: 7},
			{ClassID: "virginica", Count: 2},
		},
		ConfidenceDistribution: []stats.BucketCount{
			{Bucket: "High (>90%)", Count: 8},
			{Bucket: "Medium (70-90%)", Count: 4},
		},
		RecentPredictions: []stats.PredictionRecord{
			{
				Timestamp:  stats.Time{Time: time.Date(2024, 1, 12, 10, 30, 0, 0, time.UTC)},
				Model:      "naive_bayes",
				Prediction: "virginica",
				Confidence: 0.8765,
			},
		},
	}
}

func TestRenderStatCards(t *testing.T) {
	surface := newFakeSurface()
	r := NewRenderer(surface, newFakeCharts())

	r.Render(samplePayload())

	assert.Equal(t, "12", surface.text[TotalPredictions])
	assert.Equal(t, "85.0%", surface.text[AvgConfidence])
	assert.Equal(t, "2", surface.text[ModelsUsed])
	assert.Equal(t, "Versicolor", surface.text[TopPrediction])
}

func TestRenderDefaultsAndSkips(t *testing.T) {
	surface := newFakeSurface()
	surface.text[AvgConfidence] = "77.7%"
	surface.text[TopPrediction] = "Setosa"
	r := NewRenderer(surface, newFakeCharts())

	r.Render(&stats.Payload{})

	assert.Equal(t, "0", surface.text[TotalPredictions])
	assert.Equal(t, "0", surface.text[ModelsUsed])
	assert.Equal(t, "77.7%", surface.text[AvgConfidence], "empty confidence list must leave the field untouched")
	assert.Equal(t, "Setosa", surface.text[TopPrediction], "empty class list must leave the field untouched")
	assert.Empty(t, surface.rows[RecentPredictions])
}

func TestTopClassFirstOccurrenceWinsTies(t *testing.T) {
	top, ok := topClass([]stats.ClassCount{{ClassID: "a", Count: 4}, {ClassID: "b", Count: 9}, {ClassID: "c", Count: 9}})
	require.True(t, ok)
	assert.Equal(t, "b", top.ClassID)

	_, ok = topClass(nil)
	assert.False(t, ok)
}

func TestRenderCharts(t *testing.T) {
	surface := newFakeSurface()
	charts := newFakeCharts()
	r := NewRenderer(surface, charts)

	r.Render(samplePayload())

	bar := charts.last(PredictionsByClassCanvas)
	require.NotNil(t, bar)
	assert.Equal(t, ChartBar, bar.cfg.Type)
	assert.Equal(t, []string{"Setosa", "Versicolor", "Virginica"}, bar.cfg.Labels)
	require.Len(t, bar.cfg.Datasets, 1)
	assert.Equal(t, "Predictions", bar.cfg.Datasets[0].Label)
	assert.Equal(t, []float64{3, 7, 2}, bar.cfg.Datasets[0].Data)
	assert.False(t, bar.cfg.ShowLegend)

	donut := charts.last(PredictionsByModelCanvas)
	require.NotNil(t, donut)
	assert.Equal(t, ChartDoughnut, donut.cfg.Type)
	assert.Equal(t, []string{"Logistic Regression", "Naive Bayes"}, donut.cfg.Labels)

	pie := charts.last(ConfidenceDistributionCanvas)
	require.NotNil(t, pie)
	assert.Equal(t, []float64{8, 4}, pie.cfg.Datasets[0].Data)
}

func TestRenderDonutSingleModel(t *testing.T) {
	charts := newFakeCharts()
	r := NewRenderer(newFakeSurface(), charts)

	r.Render(&stats.Payload{PredictionsByModel: []stats.ModelCount{{ModelID: "logistic_regression", Count: 5}}})

	donut := charts.last(PredictionsByModelCanvas)
	require.NotNil(t, donut)
	assert.Equal(t, []string{"Logistic Regression"}, donut.cfg.Labels)
	require.Len(t, donut.cfg.Datasets, 1)
	assert.Equal(t, []float64{5}, donut.cfg.Datasets[0].Data)
	assert.Nil(t, charts.last(PredictionsByClassCanvas), "empty class list draws no bar chart")
}

func TestChartReplacementKeepsOneLiveInstance(t *testing.T) {
	charts := newFakeCharts()
	r := NewRenderer(newFakeSurface(), charts)

	r.Render(samplePayload())
	first := charts.last(PredictionsByClassCanvas)
	r.Render(samplePayload())
	second := charts.last(PredictionsByClassCanvas)

	require.NotSame(t, first, second)
	assert.True(t, first.destroyed)
	assert.False(t, second.destroyed)
	assert.Equal(t, 1, charts.live[PredictionsByClassCanvas])
	assert.Equal(t, 1, charts.live[PredictionsByModelCanvas])

	handle, ok := r.Chart(PredictionsByClassCanvas)
	require.True(t, ok)
	assert.Same(t, second, handle)

	r.Close()
	assert.Equal(t, 0, charts.live[PredictionsByClassCanvas])
	_, ok = r.Chart(PredictionsByClassCanvas)
	assert.False(t, ok)
}

func TestChartCreationFailureLeavesNoStaleHandle(t *testing.T) {
	charts := newFakeCharts()
	r := NewRenderer(newFakeSurface(), charts)
	r.Render(samplePayload())
	first := charts.last(PredictionsByClassCanvas)

	charts.failOn[PredictionsByClassCanvas] = true
	r.Render(samplePayload())

	assert.True(t, first.destroyed)
	_, ok := r.Chart(PredictionsByClassCanvas)
	assert.False(t, ok)
	assert.Equal(t, 0, charts.live[PredictionsByClassCanvas])
}

func TestMissingCanvasSkipsOnlyThatChart(t *testing.T) {
	surface := newFakeSurface(PredictionsByClassCanvas)
	charts := newFakeCharts()
	r := NewRenderer(surface, charts)

	r.Render(samplePayload())

	assert.Nil(t, charts.last(PredictionsByClassCanvas))
	assert.NotNil(t, charts.last(PredictionsByModelCanvas))
	assert.Equal(t, "12", surface.text[TotalPredictions])
	assert.Len(t, surface.rows[RecentPredictions], 1)
}

func TestMissingChartingCapabilitySkipsCharts(t *testing.T) {
	surface := newFakeSurface()
	r := NewRenderer(surface, nil)

	r.Render(samplePayload())

	assert.Equal(t, "Versicolor", surface.text[TopPrediction])
	require.Len(t, surface.rows[RecentPredictions], 1)
	_, ok := r.Chart(PredictionsByClassCanvas)
	assert.False(t, ok)
}

func TestMissingElementsAreSkipped(t *testing.T) {
	surface := newFakeSurface(TotalPredictions, RecentPredictions)
	r := NewRenderer(surface, newFakeCharts())

	r.Render(samplePayload())

	_, ok := surface.text[TotalPredictions]
	assert.False(t, ok)
	assert.Equal(t, "85.0%", surface.text[AvgConfidence])
}

func TestRecentPredictionRows(t *testing.T) {
	surface := newFakeSurface()
	r := NewRenderer(surface, nil)

	p := samplePayload()
	p.RecentPredictions = append(p.RecentPredictions, stats.PredictionRecord{Model: "logistic_regression", Prediction: "setosa", Confidence: 1})
	r.Render(p)

	rows := surface.rows[RecentPredictions]
	require.Len(t, rows, 2)
	want := time.Date(2024, 1, 12, 10, 30, 0, 0, time.UTC).Local().Format(recentTimeLayout)
	assert.Equal(t, []string{want, "Naive Bayes", "Virginica", "87.65%"}, rows[0])
	assert.Equal(t, []string{"-", "Logistic Regression", "Setosa", "100.00%"}, rows[1])
}

func TestRenderNilPayload(t *testing.T) {
	surface := newFakeSurface()
	NewRenderer(surface, nil).Render(nil)
	assert.Empty(t, surface.text)
}
