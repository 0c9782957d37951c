package dashboard

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mwiater/predictdash/internal/appconfig"
	"github.com/mwiater/predictdash/internal/logging"
	"github.com/mwiater/predictdash/internal/stats"
	"github.com/mwiater/predictdash/internal/util"
)

// Backend is the remote side of the dashboard.
type Backend interface {
	Stats(ctx context.Context) (*stats.Payload, error)
	Predict(ctx context.Context, req stats.PredictionRequest) (*stats.PredictionResponse, error)
	ClearHistory(ctx context.Context) (*stats.ClearResult, error)
}

// Options tunes the controller's timing and form defaults.
type Options struct {
	RefreshInterval        time.Duration
	PredictionRefreshDelay time.Duration
	DefaultModel           string
}

// OptionsFromConfig derives Options from the application configuration.
func OptionsFromConfig(cfg *appconfig.Config) Options {
	return Options{
		RefreshInterval:        cfg.RefreshInterval(),
		PredictionRefreshDelay: cfg.PredictionRefreshDelay(),
		DefaultModel:           cfg.ModelOrDefault(),
	}
}

// Controller wires the Surface to the Backend. Its methods are meant to be
// called from a single goroutine (a Loop); scheduled callbacks arrive there too
// when the Scheduler is a LoopScheduler.
type Controller struct {
	backend   Backend
	surface   Surface
	renderer  *Renderer
	scheduler Scheduler
	opts      Options

	ctx      context.Context
	periodic Task
	stopped  bool
}

// New builds a Controller. charts may be nil when no charting is available.
func New(backend Backend, surface Surface, charts ChartFactory, scheduler Scheduler, opts Options) *Controller {
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 30 * time.Second
	}
	if opts.PredictionRefreshDelay <= 0 {
		opts.PredictionRefreshDelay = 300 * time.Millisecond
	}
	if strings.TrimSpace(opts.DefaultModel) == "" {
		opts.DefaultModel = appconfig.DefaultModel
	}
	return &Controller{
		backend:   backend,
		surface:   surface,
		renderer:  NewRenderer(surface, charts),
		scheduler: scheduler,
		opts:      opts,
		ctx:       context.Background(),
	}
}

// Renderer exposes the controller's renderer.
func (c *Controller) Renderer() *Renderer { return c.renderer }

// Start checks the required anchors, loads once, and schedules the periodic refresh.
func (c *Controller) Start(ctx context.Context) Task {
	logging.LogEvent("[BOOT] initializing dashboard")
	c.ctx = ctx
	c.stopped = false

	for _, id := range []string{PredictionForm, ClearHistoryCtl} {
		if !c.surface.Has(id) {
			logging.LogEvent("[BOOT] required element %q not found", id)
		}
	}

	c.LoadDashboardData(ctx)
	c.periodic = c.scheduler.Every(c.opts.RefreshInterval, c.scheduledLoad)
	return c.periodic
}

// Reschedule replaces the periodic refresh with one running every interval.
func (c *Controller) Reschedule(interval time.Duration) {
	if interval <= 0 || c.stopped {
		return
	}
	if c.periodic != nil {
		c.periodic.Cancel()
	}
	c.opts.RefreshInterval = interval
	c.periodic = c.scheduler.Every(interval, c.scheduledLoad)
	logging.LogEvent("[BOOT] refresh interval set to %s", interval)
}

// Stop cancels the periodic refresh, suppresses pending delayed refreshes and destroys all charts.
func (c *Controller) Stop() {
	c.stopped = true
	if c.periodic != nil {
		c.periodic.Cancel()
		c.periodic = nil
	}
	c.renderer.Close()
}

func (c *Controller) scheduledLoad() {
	if c.stopped {
		return
	}
	c.LoadDashboardData(c.ctx)
}

// LoadDashboardData fetches statistics and renders them. Failures are logged
// and the previously rendered view is left as it was.
func (c *Controller) LoadDashboardData(ctx context.Context) {
	logging.LogEvent("[FETCH] fetching dashboard data")
	payload, err := c.backend.Stats(ctx)
	if err != nil {
		logging.LogEvent("[FETCH] error loading dashboard data: %v", err)
		return
	}
	c.renderer.Render(payload)
}

// HandlePrediction submits the form's feature vector and shows the result.
func (c *Controller) HandlePrediction(ctx context.Context) {
	req := c.readForm()
	logging.LogEvent("[PREDICT] making prediction with model %s", req.Model)

	resp, err := c.backend.Predict(ctx, req)
	if err != nil {
		logging.LogEvent("[PREDICT] prediction failed: %v", err)
		c.surface.Alert("Prediction failed: " + err.Error())
		return
	}

	logging.LogEvent("[PREDICT] prediction successful: %s (%.4f)", resp.Prediction, resp.Confidence)
	if c.surface.SetText(PredictionResult, FormatResult(resp)) {
		c.surface.SetVisible(PredictionResult, true)
	} else {
		logging.LogEvent("[PREDICT] element %q not found", PredictionResult)
	}

	c.scheduler.After(c.opts.PredictionRefreshDelay, func() {
		if c.stopped {
			return
		}
		logging.LogEvent("[PREDICT] refreshing dashboard after prediction")
		c.LoadDashboardData(c.ctx)
	})
}

// ClearHistory asks the backend to forget all predictions and reloads the view.
func (c *Controller) ClearHistory(ctx context.Context) {
	result, err := c.backend.ClearHistory(ctx)
	if err != nil {
		logging.LogEvent("[CLEAR] clear history failed: %v", err)
		c.surface.Alert("Clear history failed: " + err.Error())
		return
	}
	logging.LogEvent("[CLEAR] deleted %d predictions", result.DeletedCount)
	c.surface.SetVisible(PredictionResult, false)
	c.surface.Alert(fmt.Sprintf("Cleared %d predictions", result.DeletedCount))
	c.LoadDashboardData(ctx)
}

func (c *Controller) readForm() stats.PredictionRequest {
	var req stats.PredictionRequest
	for i, id := range FeatureFields {
		raw, _ := c.surface.FieldValue(id)
		req.Features[i] = parseFeature(raw)
	}
	req.Model = c.opts.DefaultModel
	if m, ok := c.surface.FieldValue(ModelField); ok && strings.TrimSpace(m) != "" {
		req.Model = strings.TrimSpace(m)
	}
	return req
}

// parseFeature reads a numeric field; empty, unparseable or non-finite input counts as 0.
func parseFeature(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// FormatResult renders a prediction for the result panel.
func FormatResult(resp *stats.PredictionResponse) string {
	return fmt.Sprintf("Prediction: %s\nConfidence: %s\nModel: %s",
		strings.ToUpper(resp.Prediction),
		util.Percent(resp.Confidence, 2),
		util.Despace(resp.ModelUsed),
	)
}
