package scheduler

import (
	"context"
	"sync"
	"time"
)

// Handler is called once per tick.
type Handler func(ctx context.Context)

// Logger is the logging interface used by the scheduler.
type Logger interface {
	Info(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any) {}

// Scheduler runs a Handler periodically.
//
// Thread Safety: all methods are safe for concurrent use.
type Scheduler struct {
	mu       sync.Mutex
	handler  Handler
	logger   Logger
	ctx      context.Context //nolint:containedctx // base context for tick loops, set by Start
	interval time.Duration
	stop     chan struct{} // closes the running loop; nil when idle
	started  bool
	stopped  bool

	wg sync.WaitGroup
}

// New creates an idle scheduler. Call SetHandler and Start before use.
func New() *Scheduler {
	return &Scheduler{handler: func(context.Context) {}, logger: noopLogger{}}
}

// SetHandler sets the tick callback. Must be called before Start.
func (s *Scheduler) SetHandler(h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h != nil {
		s.handler = h
	}
}

// SetLogger sets the logger.
func (s *Scheduler) SetLogger(l Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l != nil {
		s.logger = l
	}
}

// Start enables ticking. A period requested before Start begins now.
// Ticks stop when ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true
	s.ctx = ctx
	if s.interval > 0 {
		s.launchLocked()
	}
}

// RequestPeriodic ticks every interval from now on. Requesting the interval
// already running is a no-op; a different interval restarts the loop.
func (s *Scheduler) RequestPeriodic(interval time.Duration) {
	if interval <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if s.stop != nil && s.interval == interval {
		return
	}

	s.haltLocked()
	s.interval = interval
	if s.started {
		s.launchLocked()
	}
}

// CancelPeriodic stops ticking. A tick already running finishes.
func (s *Scheduler) CancelPeriodic() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.interval > 0 {
		s.logger.Info("periodic invocation cancelled")
	}
	s.haltLocked()
	s.interval = 0
}

// Active reports whether periodic ticking is requested.
func (s *Scheduler) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval > 0
}

// Interval returns the requested interval, or zero when idle.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Stop cancels ticking for good and waits for a running tick to finish.
// Safe to call more than once. Must not be called from a Handler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.haltLocked()
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Scheduler) haltLocked() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

func (s *Scheduler) launchLocked() {
	stop := make(chan struct{})
	s.stop = stop
	s.logger.Info("periodic invocation requested", "interval", s.interval)

	s.wg.Add(1)
	go s.loop(s.ctx, stop, s.interval, s.handler)
}

func (s *Scheduler) loop(ctx context.Context, stop <-chan struct{}, interval time.Duration, h Handler) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			// A cancel can race with the ticker; honour it first.
			select {
			case <-stop:
				return
			default:
			}
			h(ctx)
		}
	}
}
