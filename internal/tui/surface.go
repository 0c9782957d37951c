// internal/tui/surface.go
package tui

import (
	"sync"

	"github.com/mwiater/predictdash/internal/dashboard"
)

// elements lists every id the terminal view can show.
var elements = []string{
	dashboard.PredictionForm,
	dashboard.ClearHistoryCtl,
	dashboard.TotalPredictions,
	dashboard.AvgConfidence,
	dashboard.ModelsUsed,
	dashboard.TopPrediction,
	dashboard.PredictionResult,
	dashboard.RecentPredictions,
	dashboard.SepalLength,
	dashboard.SepalWidth,
	dashboard.PetalLength,
	dashboard.PetalWidth,
	dashboard.ModelField,
	dashboard.PredictionsByClassCanvas,
	dashboard.PredictionsByModelCanvas,
	dashboard.ConfidenceDistributionCanvas,
}

// liveChart is a chart currently bound to a canvas.
type liveChart struct {
	canvas string
	cfg    dashboard.ChartConfig
}

// snapshot is a consistent copy of the surface taken for one View call.
type snapshot struct {
	text     map[string]string
	visible  map[string]bool
	columns  []string
	rows     [][]string
	charts   map[string]dashboard.ChartConfig
	alert    string
	pending  int
	revision int
}

// Surface is the dashboard.Surface of the terminal UI. The controller loop
// writes to it and the Bubble Tea goroutine reads it, so every access is locked.
type Surface struct {
	mu       sync.Mutex
	known    map[string]bool
	fields   map[string]string
	text     map[string]string
	visible  map[string]bool
	columns  []string
	rows     [][]string
	charts   map[string]*liveChart
	alerts   []string
	pending  int
	revision int
	notify   func()
}

// NewSurface returns a Surface exposing every dashboard element.
func NewSurface() *Surface {
	s := &Surface{
		known:   make(map[string]bool, len(elements)),
		fields:  make(map[string]string),
		text:    make(map[string]string),
		visible: make(map[string]bool),
		charts:  make(map[string]*liveChart),
	}
	for _, id := range elements {
		s.known[id] = true
	}
	return s
}

// SetNotifier registers fn to be called after every change.
func (s *Surface) SetNotifier(fn func()) {
	s.mu.Lock()
	s.notify = fn
	s.mu.Unlock()
}

// update runs fn under the lock and then notifies outside of it.
func (s *Surface) update(fn func() bool) bool {
	s.mu.Lock()
	changed := fn()
	if changed {
		s.revision++
	}
	notify := s.notify
	s.mu.Unlock()
	if changed && notify != nil {
		notify()
	}
	return changed
}

func (s *Surface) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.known[id]
}

func (s *Surface) FieldValue(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.known[id] {
		return "", false
	}
	v, ok := s.fields[id]
	return v, ok
}

// SetField records the form value typed into the terminal form.
func (s *Surface) SetField(id, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.known[id] {
		s.fields[id] = value
	}
}

func (s *Surface) SetText(id, text string) bool {
	return s.update(func() bool {
		if !s.known[id] {
			return false
		}
		s.text[id] = text
		return true
	})
}

func (s *Surface) SetVisible(id string, visible bool) bool {
	return s.update(func() bool {
		if !s.known[id] {
			return false
		}
		s.visible[id] = visible
		return true
	})
}

func (s *Surface) SetRows(id string, columns []string, rows [][]string) bool {
	return s.update(func() bool {
		if id != dashboard.RecentPredictions || !s.known[id] {
			return false
		}
		s.columns = append([]string(nil), columns...)
		s.rows = make([][]string, len(rows))
		for i, row := range rows {
			s.rows[i] = append([]string(nil), row...)
		}
		return true
	})
}

// Alert queues a modal message; the view blocks input until it is dismissed.
func (s *Surface) Alert(message string) {
	s.update(func() bool {
		s.alerts = append(s.alerts, message)
		return true
	})
}

// DismissAlert removes the oldest queued alert.
func (s *Surface) DismissAlert() {
	s.update(func() bool {
		if len(s.alerts) == 0 {
			return false
		}
		s.alerts = s.alerts[1:]
		return true
	})
}

func (s *Surface) beginWork() {
	s.update(func() bool {
		s.pending++
		return true
	})
}

func (s *Surface) endWork() {
	s.update(func() bool {
		if s.pending > 0 {
			s.pending--
		}
		return true
	})
}

func (s *Surface) bindChart(c *liveChart) {
	s.update(func() bool {
		s.charts[c.canvas] = c
		return true
	})
}

func (s *Surface) unbindChart(c *liveChart) {
	s.update(func() bool {
		if s.charts[c.canvas] != c {
			return false
		}
		delete(s.charts, c.canvas)
		return true
	})
}

func (s *Surface) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		text:     make(map[string]string, len(s.text)),
		visible:  make(map[string]bool, len(s.visible)),
		columns:  s.columns,
		rows:     s.rows,
		charts:   make(map[string]dashboard.ChartConfig, len(s.charts)),
		pending:  s.pending,
		revision: s.revision,
	}
	for k, v := range s.text {
		snap.text[k] = v
	}
	for k, v := range s.visible {
		snap.visible[k] = v
	}
	for k, c := range s.charts {
		snap.charts[k] = c.cfg
	}
	if len(s.alerts) > 0 {
		snap.alert = s.alerts[0]
	}
	return snap
}
