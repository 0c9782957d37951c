// Package stats defines the documents exchanged with the prediction backend.
package stats

// ModelConfidence is the mean confidence of all predictions made by one model.
type ModelConfidence struct {
	ModelID       string  `json:"_id"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// ModelCount is the number of predictions made by one model.
type ModelCount struct {
	ModelID string `json:"_id"`
	Count   int    `json:"count"`
}

// ClassCount is the number of predictions that resolved to one class.
type ClassCount struct {
	ClassID string `json:"_id"`
	Count   int    `json:"count"`
}

// BucketCount is the number of predictions that fell into one confidence band.
type BucketCount struct {
	Bucket string `json:"_id"`
	Count  int    `json:"count"`
}

// PredictionRecord is one stored prediction as returned in recent_predictions.
type PredictionRecord struct {
	ID              ObjectID           `json:"_id"`
	Timestamp       Time               `json:"timestamp"`
	Model           string             `json:"model"`
	Features        map[string]float64 `json:"features,omitempty"`
	Prediction      string             `json:"prediction"`
	PredictionIndex int                `json:"prediction_index"`
	Probabilities   map[string]float64 `json:"probabilities,omitempty"`
	Confidence      float64            `json:"confidence"`
}

// Payload is the aggregate statistics document served by GET /api/stats.
// Absent fields decode to their zero values.
type Payload struct {
	TotalPredictions       int                `json:"total_predictions"`
	AvgConfidenceByModel   []ModelConfidence  `json:"avg_confidence_by_model"`
	PredictionsByModel     []ModelCount       `json:"predictions_by_model"`
	PredictionsByClass     []ClassCount       `json:"predictions_by_class"`
	RecentPredictions      []PredictionRecord `json:"recent_predictions"`
	ConfidenceDistribution []BucketCount      `json:"confidence_distribution"`
}

// PredictionRequest is the body of POST /api/predict.
type PredictionRequest struct {
	Features [4]float64 `json:"features"`
	Model    string     `json:"model"`
}

// PredictionResponse is the success body of POST /api/predict.
type PredictionResponse struct {
	Prediction      string             `json:"prediction"`
	Confidence      float64            `json:"confidence"`
	ModelUsed       string             `json:"model_used"`
	PredictionIndex int                `json:"prediction_index,omitempty"`
	Probabilities   map[string]float64 `json:"probabilities,omitempty"`
}

// ClearResult is the success body of POST /api/clear-history.
type ClearResult struct {
	Success      bool `json:"success"`
	DeletedCount int  `json:"deleted_count"`
}

// ErrorBody is what the backend returns alongside a non-2xx status.
type ErrorBody struct {
	Error string `json:"error"`
}
