package predictdash

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statsBody = `{
	"total_predictions": 2,
	"avg_confidence_by_model": [{"_id": "logistic_regression", "avg_confidence": 0.95}],
	"predictions_by_model": [{"_id": "logistic_regression", "count": 2}],
	"predictions_by_class": [{"_id": "setosa", "count": 2}],
	"recent_predictions": [{
		"_id": {"$oid": "65f1c0ffee0000000000abcd"},
		"timestamp": {"$date": "2024-03-13T10:00:00Z"},
		"model": "logistic_regression",
		"prediction": "setosa",
		"confidence": 0.95
	}]
}`

type fakeBackend struct {
	server      *httptest.Server
	predictions []map[string]any
	statsCalls  int
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		b.statsCalls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, statsBody)
	})
	mux.HandleFunc("/api/predict", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.predictions = append(b.predictions, req)
		if req["model"] == "missing_model" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error": "Model missing_model not found"}`)
			return
		}
		_, _ = io.WriteString(w, `{"prediction": "setosa", "confidence": 0.9423, "model_used": "`+req["model"].(string)+`"}`)
	})
	mux.HandleFunc("/api/clear-history", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success": true, "deleted_count": 7}`)
	})
	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

// run executes the root command against backend and returns stdout and stderr.
func run(t *testing.T, backend *fakeBackend, args ...string) (string, string, error) {
	t.Helper()
	useConfig(t, `{"baseURL": "`+backend.server.URL+`", "predictionRefreshDelay": 1}`)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs([]string{})
		rawStats = false
		predictFeatures = nil
		predictModel = ""
	})
	_, err := rootCmd.ExecuteC()
	return out.String(), errOut.String(), err
}

func TestStatsCommand(t *testing.T) {
	backend := newFakeBackend(t)
	out, _, err := run(t, backend, "stats")
	require.NoError(t, err)

	for _, want := range []string{"Total Predictions:", "95.0%", "Setosa", "Predictions by Class", "Logistic Regression", "95.00%", "2024-03-1"} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 1, backend.statsCalls)
}

func TestStatsCommandRaw(t *testing.T) {
	backend := newFakeBackend(t)
	out, _, err := run(t, backend, "stats", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "TotalPredictions")
	assert.Contains(t, out, "65f1c0ffee0000000000abcd")
}

func TestPredictCommand(t *testing.T) {
	backend := newFakeBackend(t)
	out, _, err := run(t, backend, "predict", "--features", "5.1,3.5,1.4,0.2")
	require.NoError(t, err)

	require.Len(t, backend.predictions, 1)
	assert.Equal(t, []any{5.1, 3.5, 1.4, 0.2}, backend.predictions[0]["features"])
	assert.Equal(t, "logistic_regression", backend.predictions[0]["model"])
	assert.Contains(t, out, "Prediction: SETOSA")
	assert.Contains(t, out, "Confidence: 94.23%")
	assert.Contains(t, out, "Model: logistic regression")
	assert.Equal(t, 1, backend.statsCalls, "statistics are reloaded after the prediction")
	assert.True(t, strings.Index(out, "Prediction Result") < strings.Index(out, "Prediction Statistics"))
}

func TestPredictCommandFailure(t *testing.T) {
	backend := newFakeBackend(t)
	_, errOut, err := run(t, backend, "predict", "--features", "1,2,3,4", "--model", "missing_model")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Prediction failed")
	assert.Contains(t, errOut, "Model missing_model not found")
	assert.Zero(t, backend.statsCalls)
}

func TestPredictCommandFeatureCount(t *testing.T) {
	backend := newFakeBackend(t)
	_, _, err := run(t, backend, "predict", "--features", "1,2,3")
	require.Error(t, err)
	assert.Empty(t, backend.predictions)
}

func TestClearCommand(t *testing.T) {
	backend := newFakeBackend(t)
	out, _, err := run(t, backend, "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 7 predictions")
}

func TestRefreshIntervalWatcher(t *testing.T) {
	seconds := 30
	out := make(chan time.Duration, 1)
	handle := refreshIntervalWatcher(30*time.Second, out, func() int { return seconds })
	write := fsnotify.Event{Name: "config.json", Op: fsnotify.Write}

	handle(write)
	assert.Empty(t, out, "an unchanged interval is not published")

	seconds = 10
	handle(fsnotify.Event{Name: "config.json", Op: fsnotify.Chmod})
	assert.Empty(t, out, "only writes are considered")

	handle(write)
	seconds = 5
	handle(write)
	require.Len(t, out, 1)
	assert.Equal(t, 5*time.Second, <-out, "the newest interval replaces an unconsumed one")

	seconds = 0
	handle(write)
	assert.Empty(t, out)
}

func TestRefreshSecondsFromFile(t *testing.T) {
	path := writeTempConfig(t, `{"refreshInterval": 12}`)
	seconds := refreshSecondsFromFile(path)
	assert.Equal(t, 12, seconds())

	require.NoError(t, os.WriteFile(path, []byte(`{"baseURL": "http://localhost:5000"}`), 0o644))
	assert.Equal(t, 30, seconds(), "a removed key falls back to the default interval")

	require.NoError(t, os.WriteFile(path, []byte(`{"refreshInterval": `), 0o644))
	assert.Zero(t, seconds(), "a file that does not parse keeps the running interval")

	require.NoError(t, os.WriteFile(path, []byte(`{"baseURL": "ftp://backend", "refreshInterval": 5}`), 0o644))
	assert.Zero(t, seconds(), "a file that does not validate keeps the running interval")
}
