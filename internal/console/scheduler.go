// internal/console/scheduler.go
package console

import (
	"context"
	"time"

	"github.com/mwiater/predictdash/internal/dashboard"
)

type noopTask struct{}

func (noopTask) Cancel() {}

// BlockingScheduler runs one-shot callbacks inline after sleeping, which
// suits commands that exit once their work is done. Recurring work is never
// started.
type BlockingScheduler struct {
	Ctx context.Context
}

// After sleeps for d and then runs fn, unless the context ends first.
func (s BlockingScheduler) After(d time.Duration, fn func()) dashboard.Task {
	ctx := s.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
		fn()
	}
	return noopTask{}
}

// Every returns a task that never fires.
func (s BlockingScheduler) Every(time.Duration, func()) dashboard.Task {
	return noopTask{}
}
