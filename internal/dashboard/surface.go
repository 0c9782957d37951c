// Package dashboard holds the prediction dashboard controller: it bootstraps
// the view, polls the backend for statistics, renders them through a
// Surface, and submits feature vectors for prediction.
package dashboard

// Element identifiers the controller reads from and writes to.
const (
	PredictionForm    = "predictionForm"
	ClearHistoryCtl   = "clearHistory"
	TotalPredictions  = "totalPredictions"
	AvgConfidence     = "avgConfidence"
	ModelsUsed        = "modelsUsed"
	TopPrediction     = "topPrediction"
	PredictionResult  = "predictionResult"
	RecentPredictions = "recentPredictions"

	SepalLength = "sepal_length"
	SepalWidth  = "sepal_width"
	PetalLength = "petal_length"
	PetalWidth  = "petal_width"
	ModelField  = "model"

	PredictionsByClassCanvas     = "predictionsByClass"
	PredictionsByModelCanvas     = "predictionsByModel"
	ConfidenceDistributionCanvas = "confidenceDistribution"
)

// FeatureFields lists the form inputs in the order the backend expects them.
var FeatureFields = [4]string{SepalLength, SepalWidth, PetalLength, PetalWidth}

// Surface is the view the controller drives. Setters report false when the
// element does not exist so the caller can log and move on.
type Surface interface {
	Has(id string) bool
	FieldValue(id string) (string, bool)
	SetText(id, text string) bool
	SetVisible(id string, visible bool) bool
	SetRows(id string, columns []string, rows [][]string) bool
	// Alert notifies the user and blocks further interaction until acknowledged.
	Alert(message string)
}

// ChartType selects how a chart is drawn.
type ChartType string

const (
	ChartBar      ChartType = "bar"
	ChartDoughnut ChartType = "doughnut"
	ChartPie      ChartType = "pie"
)

// Dataset is one series of values; Colors cycle across the values.
type Dataset struct {
	Label  string
	Data   []float64
	Colors []string
}

// ChartConfig is everything a ChartFactory needs to draw a chart.
type ChartConfig struct {
	Type       ChartType
	Title      string
	Labels     []string
	Datasets   []Dataset
	ShowLegend bool
}

// ChartHandle is a live chart bound to one canvas.
type ChartHandle interface {
	Destroy()
}

// ChartFactory creates charts on a canvas. A nil ChartFactory means no
// charting capability is available.
type ChartFactory interface {
	NewChart(canvasID string, cfg ChartConfig) (ChartHandle, error)
}
