package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nerrad567/gray-logic-dock/internal/dock"
	"github.com/nerrad567/gray-logic-dock/internal/grid"
)

// Collector bundles the controller and API metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	Invocations     *prometheus.CounterVec
	Transitions     *prometheus.CounterVec
	SyncChanges     *prometheus.CounterVec
	Diagnostics     *prometheus.CounterVec
	Rebuilds        prometheus.Counter
	AutomaticMode   prometheus.Gauge
	APIRequests     *prometheus.CounterVec
	APIRequestTimes *prometheus.HistogramVec
}

// NewCollector registers the metrics against reg, or the default registerer
// when reg is nil. Registering twice on the same registry returns the
// existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{gatherer: gatherer}
	var err error

	if c.Invocations, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dock_invocations_total",
		Help: "Controller invocations by source.",
	}, []string{"source"}), "dock_invocations_total"); err != nil {
		return nil, err
	}

	if c.Transitions, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dock_transitions_total",
		Help: "Detected connector transitions by event.",
	}, []string{"event"}), "dock_transitions_total"); err != nil {
		return nil, err
	}

	if c.SyncChanges, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dock_sync_changes_total",
		Help: "Devices written by the synchronizer, by category.",
	}, []string{"category"}), "dock_sync_changes_total"); err != nil {
		return nil, err
	}

	if c.Diagnostics, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dock_diagnostics_total",
		Help: "Diagnostics emitted by kind.",
	}, []string{"kind"}), "dock_diagnostics_total"); err != nil {
		return nil, err
	}

	if c.Rebuilds, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dock_subsystem_set_rebuilds_total",
		Help: "Times the subsystem set was (re)built.",
	}), "dock_subsystem_set_rebuilds_total"); err != nil {
		return nil, err
	}

	if c.AutomaticMode, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dock_automatic_mode",
		Help: "1 while periodic automatic mode is on.",
	}), "dock_automatic_mode"); err != nil {
		return nil, err
	}

	if c.APIRequests, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dock_api_requests_total",
		Help: "Operator API requests by route and status code.",
	}, []string{"method", "route", "code"}), "dock_api_requests_total"); err != nil {
		return nil, err
	}

	if c.APIRequestTimes, err = registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dock_api_request_duration_seconds",
		Help:    "Operator API request latency.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"method", "route"}), "dock_api_request_duration_seconds"); err != nil {
		return nil, err
	}

	return c, nil
}

// ObserveInvocation counts one controller invocation.
func (c *Collector) ObserveInvocation(source string) {
	if c == nil {
		return
	}
	c.Invocations.WithLabelValues(source).Inc()
}

// ObserveTransition counts a detected transition.
func (c *Collector) ObserveTransition(event dock.Event) {
	if c == nil {
		return
	}
	c.Transitions.WithLabelValues(event.String()).Inc()
}

// ObserveSync adds the per-category write counts of one synchronization.
func (c *Collector) ObserveSync(report dock.SyncReport) {
	if c == nil {
		return
	}
	for _, cat := range grid.SubsystemCategories() {
		if n := report.Changed.Get(cat); n > 0 {
			c.SyncChanges.WithLabelValues(string(cat)).Add(float64(n))
		}
	}
}

// ObserveDiagnostic counts one diagnostic.
func (c *Collector) ObserveDiagnostic(kind dock.DiagnosticKind) {
	if c == nil {
		return
	}
	c.Diagnostics.WithLabelValues(string(kind)).Inc()
}

// ObserveRebuild counts a subsystem set build.
func (c *Collector) ObserveRebuild() {
	if c == nil {
		return
	}
	c.Rebuilds.Inc()
}

// SetAutomaticMode mirrors the automatic-mode flag.
func (c *Collector) SetAutomaticMode(on bool) {
	if c == nil {
		return
	}
	if on {
		c.AutomaticMode.Set(1)
		return
	}
	c.AutomaticMode.Set(0)
}

// Middleware records API request counts and latency keyed by the chi route
// pattern, so path parameters do not explode label cardinality.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	if c == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.APIRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.APIRequestTimes.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Gatherer returns the registry the collector registered against.
func (c *Collector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// Handler serves the collector's registry.
func (c *Collector) Handler() http.Handler {
	gatherer := c.Gatherer()
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
