package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/mwiater/predictdash/internal/stats"
)

// fakeSurface is an in-memory Surface. Elements listed in missing do not exist.
type fakeSurface struct {
	fields  map[string]string
	text    map[string]string
	visible map[string]bool
	rows    map[string][][]string
	missing map[string]bool
	alerts  []string
}

func newFakeSurface(missing ...string) *fakeSurface {
	s := &fakeSurface{
		fields:  make(map[string]string),
		text:    make(map[string]string),
		visible: make(map[string]bool),
		rows:    make(map[string][][]string),
		missing: make(map[string]bool),
	}
	for _, id := range missing {
		s.missing[id] = true
	}
	return s
}

func (s *fakeSurface) Has(id string) bool { return !s.missing[id] }

func (s *fakeSurface) FieldValue(id string) (string, bool) {
	if s.missing[id] {
		return "", false
	}
	v, ok := s.fields[id]
	return v, ok
}

func (s *fakeSurface) SetText(id, text string) bool {
	if s.missing[id] {
		return false
	}
	s.text[id] = text
	return true
}

func (s *fakeSurface) SetVisible(id string, visible bool) bool {
	if s.missing[id] {
		return false
	}
	s.visible[id] = visible
	return true
}

func (s *fakeSurface) SetRows(id string, columns []string, rows [][]string) bool {
	if s.missing[id] {
		return false
	}
	s.rows[id] = rows
	return true
}

func (s *fakeSurface) Alert(message string) { s.alerts = append(s.alerts, message) }

// fakeChart records whether it has been destroyed.
type fakeChart struct {
	canvas    string
	cfg       ChartConfig
	destroyed bool
	factory   *fakeCharts
}

func (c *fakeChart) Destroy() {
	if !c.destroyed {
		c.destroyed = true
		c.factory.live[c.canvas]--
	}
}

// fakeCharts counts live charts per canvas and remembers every chart it made.
type fakeCharts struct {
	live    map[string]int
	created []*fakeChart
	failOn  map[string]bool
}

func newFakeCharts() *fakeCharts {
	return &fakeCharts{live: make(map[string]int), failOn: make(map[string]bool)}
}

func (f *fakeCharts) NewChart(canvasID string, cfg ChartConfig) (ChartHandle, error) {
	if f.failOn[canvasID] {
		return nil, errors.New("no drawing context")
	}
	c := &fakeChart{canvas: canvasID, cfg: cfg, factory: f}
	f.live[canvasID]++
	f.created = append(f.created, c)
	return c, nil
}

func (f *fakeCharts) last(canvasID string) *fakeChart {
	for i := len(f.created) - 1; i >= 0; i-- {
		if f.created[i].canvas == canvasID {
			return f.created[i]
		}
	}
	return nil
}

// manualTask is a scheduled callback fired by the test.
type manualTask struct {
	delay     time.Duration
	repeat    bool
	fn        func()
	cancelled bool
}

func (t *manualTask) Cancel() { t.cancelled = true }

type manualScheduler struct {
	tasks []*manualTask
}

func (s *manualScheduler) After(d time.Duration, fn func()) Task {
	t := &manualTask{delay: d, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

func (s *manualScheduler) Every(d time.Duration, fn func()) Task {
	t := &manualTask{delay: d, fn: fn, repeat: true}
	s.tasks = append(s.tasks, t)
	return t
}

// fire runs every active task once; one-shot tasks are consumed.
func (s *manualScheduler) fire() {
	pending := s.tasks
	s.tasks = nil
	for _, t := range pending {
		if t.cancelled {
			continue
		}
		t.fn()
		if t.repeat {
			s.tasks = append(s.tasks, t)
		}
	}
}

func (s *manualScheduler) active(repeat bool) []*manualTask {
	var out []*manualTask
	for _, t := range s.tasks {
		if !t.cancelled && t.repeat == repeat {
			out = append(out, t)
		}
	}
	return out
}

type fakeBackend struct {
	payload    *stats.Payload
	statsErr   error
	statsCalls int

	predictResp *stats.PredictionResponse
	predictErr  error
	requests    []stats.PredictionRequest

	clearResult *stats.ClearResult
	clearErr    error
}

func (b *fakeBackend) Stats(ctx context.Context) (*stats.Payload, error) {
	b.statsCalls++
	if b.statsErr != nil {
		return nil, b.statsErr
	}
	return b.payload, nil
}

func (b *fakeBackend) Predict(ctx context.Context, req stats.PredictionRequest) (*stats.PredictionResponse, error) {
	b.requests = append(b.requests, req)
	if b.predictErr != nil {
		return nil, b.predictErr
	}
	return b.predictResp, nil
}

func (b *fakeBackend) ClearHistory(ctx context.Context) (*stats.ClearResult, error) {
	if b.clearErr != nil {
		return nil, b.clearErr
	}
	return b.clearResult, nil
}
