package dashboard

import (
	"context"
	"sync"
	"time"
)

// Task is a scheduled callback that can be cancelled.
type Task interface {
	Cancel()
}

// Scheduler runs callbacks later, once or repeatedly.
type Scheduler interface {
	After(d time.Duration, fn func()) Task
	Every(d time.Duration, fn func()) Task
}

// Loop executes posted funcs one at a time on a single goroutine. Every
// controller operation and every render runs on it, so the Surface and the
// chart registry are never touched concurrently by the controller.
type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

// NewLoop returns a Loop whose queue holds up to size pending funcs.
func NewLoop(size int) *Loop {
	if size <= 0 {
		size = 64
	}
	return &Loop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Post queues fn. It reports false once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run executes queued funcs until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

// Done is closed after Run returns.
func (l *Loop) Done() <-chan struct{} { return l.done }

// LoopScheduler fires timers and hands the callbacks to a Loop.
type LoopScheduler struct {
	loop *Loop
}

// NewLoopScheduler returns a Scheduler whose callbacks run on loop.
func NewLoopScheduler(loop *Loop) *LoopScheduler {
	return &LoopScheduler{loop: loop}
}

// After posts fn to the loop once d has elapsed.
func (s *LoopScheduler) After(d time.Duration, fn func()) Task {
	t := &timerTask{}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timer = time.AfterFunc(d, func() {
		if !t.cancelled() {
			s.loop.Post(fn)
		}
	})
	return t
}

// Every posts fn to the loop each time d elapses until the task is cancelled.
func (s *LoopScheduler) Every(d time.Duration, fn func()) Task {
	t := &tickerTask{stop: make(chan struct{})}
	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-s.loop.Done():
				return
			case <-ticker.C:
				select {
				case <-t.stop:
					return
				default:
				}
				s.loop.Post(fn)
			}
		}
	}()
	return t
}

type timerTask struct {
	mu    sync.Mutex
	timer *time.Timer
	stop  bool
}

func (t *timerTask) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stop = true
	if t.timer != nil {
		t.timer.Stop()
	}
}

func (t *timerTask) cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop
}

type tickerTask struct {
	stop chan struct{}
	once sync.Once
}

func (t *tickerTask) Cancel() {
	t.once.Do(func() { close(t.stop) })
}
