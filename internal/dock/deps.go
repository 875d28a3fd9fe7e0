package dock

import (
	"context"
	"time"

	"github.com/nerrad567/gray-logic-dock/internal/grid"
)

// BlockSource is the live block inventory the controller queries.
type BlockSource interface {
	grid.Source

	// GridInfo reports what the inventory knows about a grid.
	GridInfo(id grid.ID) (grid.Info, bool)
}

// FlagStore persists the automatic-mode flag across restarts.
type FlagStore interface {
	PersistFlag(ctx context.Context, automatic bool) error

	// RestoreFlag returns found == false when nothing was ever persisted.
	RestoreFlag(ctx context.Context) (automatic bool, found bool, err error)
}

// Scheduler re-invokes the controller periodically while automatic mode is on.
type Scheduler interface {
	RequestPeriodic(interval time.Duration)
	CancelPeriodic()
}

// TransitionRecorder stores transition history.
type TransitionRecorder interface {
	RecordTransition(ctx context.Context, t *Transition) error
}

// Metrics receives controller counters.
type Metrics interface {
	ObserveInvocation(source string)
	ObserveTransition(event Event)
	ObserveSync(report SyncReport)
	ObserveDiagnostic(kind DiagnosticKind)
	ObserveRebuild()
	SetAutomaticMode(on bool)
}

// Publisher fans controller events out to MQTT, WebSocket clients or
// telemetry. Implementations must not call back into the Controller.
type Publisher interface {
	PublishTransition(t Transition)
	PublishDiagnostic(d Diagnostic)
	PublishStatus(s Snapshot)
}

// Logger defines the logging interface used by the controller.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Deps bundles the controller's collaborators. Only Source is required.
type Deps struct {
	Source     BlockSource
	Flags      FlagStore
	Scheduler  Scheduler
	Recorder   TransitionRecorder
	Metrics    Metrics
	Publishers []Publisher
	Logger     Logger
}
