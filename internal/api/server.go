package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/gray-logic-dock/internal/dock"
	"github.com/nerrad567/gray-logic-dock/internal/grid"
	"github.com/nerrad567/gray-logic-dock/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-dock/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-dock/internal/inventory"
	"github.com/nerrad567/gray-logic-dock/internal/observability"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// ControllerService is the part of the dock controller the API drives.
type ControllerService interface {
	Invoke(ctx context.Context, inv dock.Invocation)
	Snapshot() dock.Snapshot
}

// TransitionStore reads transition history.
type TransitionStore interface {
	ListTransitions(ctx context.Context, limit int) ([]dock.Transition, error)
	GetTransition(ctx context.Context, id string) (*dock.Transition, error)
}

// BlockViewer lists inventory grids and blocks.
type BlockViewer interface {
	Grids() []grid.Info
	Snapshot(gridID grid.ID) []inventory.BlockView
}

// SchedulerStatus reports the periodic invoker's state.
type SchedulerStatus interface {
	Active() bool
	Interval() time.Duration
}

// HealthChecker is implemented by infrastructure components that can report
// their own health (database, MQTT, InfluxDB).
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// ConnectionStatus reports whether a client is currently connected.
type ConnectionStatus interface {
	IsConnected() bool
}

// PoolStats reports database connection pool statistics.
type PoolStats interface {
	Stats() sql.DBStats
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config     config.APIConfig
	WS         config.WebSocketConfig
	Metrics    config.MetricsConfig
	Logger     *logging.Logger
	Controller ControllerService
	History    TransitionStore
	Blocks     BlockViewer

	// Collector serves /metrics and instruments requests. Optional.
	Collector *observability.Collector

	// Hub is shared with the controller's publishers. When nil the server
	// creates its own.
	Hub *Hub

	// Checks are run by GET /health, keyed by component name.
	Checks map[string]HealthChecker

	// MQTT, Database and Scheduler feed GET /system. Optional.
	MQTT      ConnectionStatus
	Database  PoolStats
	Scheduler SchedulerStatus

	Version string
}

// Server is the operator HTTP API.
//
// It manages the HTTP listener, routes, middleware and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg        config.APIConfig
	wsCfg      config.WebSocketConfig
	metricsCfg config.MetricsConfig
	logger     *logging.Logger
	controller ControllerService
	history    TransitionStore
	blocks     BlockViewer
	collector  *observability.Collector
	checks     map[string]HealthChecker
	mqtt       ConnectionStatus
	db         PoolStats
	scheduler  SchedulerStatus
	version    string
	startTime  time.Time
	server     *http.Server
	hub        *Hub
	cancel     context.CancelFunc
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Logger and Controller are required, everything else is optional
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Controller == nil {
		return nil, fmt.Errorf("controller is required")
	}

	hub := deps.Hub
	if hub == nil {
		hub = NewHub(deps.WS, deps.Logger)
	}
	hub.SetStatusSource(deps.Controller.Snapshot)

	return &Server{
		cfg:        deps.Config,
		wsCfg:      deps.WS,
		metricsCfg: deps.Metrics,
		logger:     deps.Logger,
		controller: deps.Controller,
		history:    deps.History,
		blocks:     deps.Blocks,
		collector:  deps.Collector,
		checks:     deps.Checks,
		mqtt:       deps.MQTT,
		db:         deps.Database,
		scheduler:  deps.Scheduler,
		version:    deps.Version,
		startTime:  time.Now(),
		hub:        hub,
	}, nil
}

// Hub returns the server's WebSocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the fully wired router. Tests use it with httptest.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start begins listening for HTTP connections in a background goroutine.
//
// Parameters:
//   - ctx: Parent context; cancelling it disconnects WebSocket clients
//
// Returns:
//   - error: Always nil; listener errors are logged
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	go s.hub.Run(srvCtx)

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	return nil
}
