// internal/tui/run.go
package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mwiater/predictdash/internal/appconfig"
	"github.com/mwiater/predictdash/internal/dashboard"
	"github.com/mwiater/predictdash/internal/logging"
	"github.com/mwiater/predictdash/internal/metrics"
)

// stopTimeout bounds how long shutdown waits for the controller loop.
const stopTimeout = 2 * time.Second

// StartDashboard runs the interactive dashboard until the user quits or ctx
// is cancelled. Values received on intervals replace the refresh interval.
// agg may be nil; when set, the header shows the statistics request latency.
func StartDashboard(ctx context.Context, cfg *appconfig.Config, backend dashboard.Backend, intervals <-chan time.Duration, agg *metrics.Aggregator) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := dashboard.NewLoop(64)
	surface := NewSurface()
	ctrl := dashboard.New(backend, surface, NewCharts(surface), dashboard.NewLoopScheduler(loop), dashboard.OptionsFromConfig(cfg))

	go func() {
		if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
			logging.LogEvent("[TUI] controller loop stopped: %v", err)
		}
	}()

	dispatch := func(fn func()) func() {
		return func() {
			surface.beginWork()
			if !loop.Post(func() {
				defer surface.endWork()
				fn()
			}) {
				surface.endWork()
			}
		}
	}
	actions := Actions{
		Submit: dispatch(func() { ctrl.HandlePrediction(ctx) }),
		Reload: dispatch(func() { ctrl.LoadDashboardData(ctx) }),
		Clear:  dispatch(func() { ctrl.ClearHistory(ctx) }),
	}

	m := initialModel(cfg, surface, actions)
	m.metrics = agg
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	// Repaints are coalesced so the controller loop never blocks on the UI.
	dirty := make(chan struct{}, 1)
	surface.SetNotifier(func() {
		select {
		case dirty <- struct{}{}:
		default:
		}
	})
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-dirty:
				p.Send(repaintMsg{})
			}
		}
	}()

	dispatch(func() { ctrl.Start(ctx) })()

	if intervals != nil {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case d, ok := <-intervals:
					if !ok {
						return
					}
					loop.Post(func() { ctrl.Reschedule(d) })
				}
			}
		}()
	}

	_, err := p.Run()

	surface.SetNotifier(nil)
	stopped := make(chan struct{})
	if loop.Post(func() {
		ctrl.Stop()
		close(stopped)
	}) {
		select {
		case <-stopped:
		case <-time.After(stopTimeout):
			logging.LogEvent("[TUI] controller did not stop within %s", stopTimeout)
		}
	}
	logging.LogEvent("[TUI] dashboard closed")

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
