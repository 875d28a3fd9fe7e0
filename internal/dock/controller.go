package dock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-dock/internal/grid"
)

// DefaultTickInterval is the automatic-mode polling interval, roughly 100
// simulation ticks.
const DefaultTickInterval = 1600 * time.Millisecond

// Config holds the controller settings.
type Config struct {
	// ID names the controller in history records and topics.
	ID string

	// OwnGrid is the grid the controller is mounted on.
	OwnGrid grid.ID

	// Topology selects mobile or stationary targeting.
	Topology Topology

	// ConnectorName is used when a manual run carries no argument and when
	// automatic mode initializes on its own.
	ConnectorName string

	// TickInterval is requested from the Scheduler in automatic mode.
	TickInterval time.Duration

	// DiagnosticHistory is how many diagnostics Snapshot returns.
	DiagnosticHistory int
}

// Controller is the dock automation controller.
//
// It owns the session State and is driven through Invoke. Manual runs dock
// or undock the main connector and apply the matching posture; "Update"
// switches to automatic mode, where periodic ticks watch the connector and
// apply the posture when its status crosses Connected.
//
// Thread Safety: Invoke, Start and Snapshot are safe for concurrent use and
// are serialized internally.
type Controller struct {
	mu sync.Mutex

	cfg         Config
	deps        Deps
	locator     *Locator
	resolver    *Resolver
	diagnostics *DiagnosticLog
	logger      Logger
	now         func() time.Time

	state          State
	lastTransition *Transition
}

// NewController creates a controller.
//
// Parameters:
//   - cfg: Controller settings; ID and OwnGrid are required
//   - deps: Collaborators; Source is required, the rest may be nil
//
// Returns:
//   - *Controller: Ready to Start
//   - error: ErrInvalidConfig if a required setting or Source is missing
func NewController(cfg Config, deps Deps) (*Controller, error) {
	if cfg.ID == "" {
		return nil, fmt.Errorf("%w: controller id is required", ErrInvalidConfig)
	}
	if cfg.OwnGrid == "" {
		return nil, fmt.Errorf("%w: own grid is required", ErrInvalidConfig)
	}
	if deps.Source == nil {
		return nil, fmt.Errorf("%w: block source is required", ErrInvalidConfig)
	}
	if cfg.Topology == "" {
		cfg.Topology = TopologyAuto
	}
	if _, err := ParseTopology(string(cfg.Topology)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}

	logger := deps.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &Controller{
		cfg:         cfg,
		deps:        deps,
		locator:     NewLocator(deps.Source, cfg.OwnGrid),
		resolver:    NewResolver(deps.Source, cfg.OwnGrid, cfg.Topology),
		diagnostics: NewDiagnosticLog(cfg.DiagnosticHistory),
		logger:      logger,
		now:         time.Now,
	}, nil
}

// Start begins a session.
//
// It restores the automatic-mode flag, locates the main connector and
// builds the subsystem set. When the restored flag is true periodic
// scheduling is requested at once, so the next call the scheduler makes is
// a periodic tick rather than a manual run.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	automatic := false
	if c.deps.Flags != nil {
		value, found, err := c.deps.Flags.RestoreFlag(ctx)
		switch {
		case err != nil:
			c.logger.Error("failed to restore automatic mode", "error", err)
			c.emit(DiagnosticWarning, "automatic mode could not be restored, staying manual")
		case found:
			automatic = value
		}
	}

	c.initialize(c.cfg.ConnectorName)

	c.state.AutomaticMode = automatic
	if c.deps.Metrics != nil {
		c.deps.Metrics.SetAutomaticMode(automatic)
	}
	if automatic {
		c.requestPeriodic()
		c.emit(DiagnosticInfo, fmt.Sprintf("automatic mode restored, polling every %s", c.cfg.TickInterval))
	}

	c.logger.Info("dock controller started",
		"controller_id", c.cfg.ID,
		"own_grid", c.cfg.OwnGrid,
		"topology", c.resolver.Topology(),
		"automatic_mode", automatic,
	)
	c.publishStatus()
}

// Invoke runs one controller invocation.
//
// Periodic ticks run the state machine against the cached connector and set.
// A manual "Update" enters automatic mode. Any other manual argument is an
// optional connector name and runs one dock or undock cycle, then leaves
// automatic mode.
//
// Invoke never fails: lookup and resolution errors become diagnostics.
func (c *Controller) Invoke(ctx context.Context, inv Invocation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	source := inv.Source
	if source == "" {
		source = "unknown"
	}
	if c.deps.Metrics != nil {
		c.deps.Metrics.ObserveInvocation(source)
	}

	before := c.statusKey()
	switch {
	case inv.Periodic:
		c.tick(ctx, source)
	case inv.Argument == UpdateArgument:
		c.enterAutomatic(ctx)
	default:
		c.manual(ctx, inv.Argument, source)
	}
	if c.statusKey() != before {
		c.publishStatus()
	}
}

// Snapshot returns a read-only view of the controller.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// State returns a copy of the session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// tick is one automatic-mode observation.
func (c *Controller) tick(ctx context.Context, source string) {
	if !c.state.AutomaticMode {
		// A tick can still arrive after CancelPeriodic.
		c.logger.Debug("dropping periodic tick, automatic mode is off")
		return
	}
	if c.state.MainConnector == nil && !c.initialize(c.cfg.ConnectorName) {
		return
	}

	main := c.state.MainConnector
	previous := c.state.LastObservedStatus
	live := main.Status()
	c.state.LastObservedStatus = live

	event := DetectTransition(previous, live)
	if event == EventNone {
		return
	}
	if report, ok := c.synchronize(event); ok {
		c.record(ctx, event, previous, live, report, TriggerPeriodic, source)
	}
}

// manual runs one forced dock or undock cycle.
func (c *Controller) manual(ctx context.Context, argument, source string) {
	name := argument
	if name == "" {
		name = c.cfg.ConnectorName
	}

	sel, err := c.locator.FindMainConnector(name)
	if err != nil {
		c.reportError(err)
		return
	}
	if sel.Ambiguous() {
		c.emit(DiagnosticWarning, fmt.Sprintf("%d connectors match, using %q", sel.Candidates, sel.Connector.Name()))
	}
	c.adoptConnector(sel.Connector)

	main := c.state.MainConnector
	live := main.Status()

	switch event := ForceTransition(live); event {
	case EventJustConnected:
		// The partner grid is only known once the connectors are mated.
		main.Connect()
		if report, ok := c.synchronize(event); ok {
			c.record(ctx, event, live, main.Status(), report, TriggerManual, source)
		}
	case EventJustDisconnected:
		report, ok := c.synchronize(event)
		main.Disconnect()
		if ok {
			c.record(ctx, event, live, main.Status(), report, TriggerManual, source)
		}
	default:
		c.emit(DiagnosticWarning, fmt.Sprintf("connector %q has nothing in range", main.Name()))
	}

	c.state.LastObservedStatus = main.Status()
	c.leaveAutomatic(ctx)
}

// initialize finds the main connector and builds the subsystem set.
// It reports false when no main connector could be found.
func (c *Controller) initialize(name string) bool {
	sel, err := c.locator.FindMainConnector(name)
	if err != nil {
		c.reportError(err)
		return false
	}
	if sel.Ambiguous() {
		c.emit(DiagnosticWarning, fmt.Sprintf("%d connectors match, using %q", sel.Candidates, sel.Connector.Name()))
	}
	c.adoptConnector(sel.Connector)
	c.refreshSet()
	return true
}

// adoptConnector makes conn the main connector. Switching to a different
// connector forgets the last observed status.
func (c *Controller) adoptConnector(conn grid.Connector) {
	current := c.state.MainConnector
	if current != nil && current.ID() == conn.ID() {
		c.state.MainConnector = conn
		return
	}
	if current != nil {
		c.logger.Info("main connector changed", "from", current.Name(), "to", conn.Name())
		// The set was resolved through the old connector.
		c.invalidateSet()
	}
	c.state.MainConnector = conn
	c.state.LastObservedStatus = grid.Unconnected
}

// refreshSet resolves the target grid and rebuilds the set if it is stale.
func (c *Controller) refreshSet() bool {
	filter, err := c.resolver.Resolve(c.state.MainConnector)
	if err != nil {
		c.invalidateSet()
		c.reportError(err)
		return false
	}
	if NeedsRebuild(c.state.SubsystemSet, c.state.SubsystemSetValid, filter) {
		c.rebuildSet(filter)
	}
	return true
}

// synchronize prepares the set for event and applies the policy.
func (c *Controller) synchronize(event Event) (SyncReport, bool) {
	switch {
	case c.resolver.Stationary():
		// The docked visitor may have changed since the set was built.
		filter, err := c.resolver.Resolve(c.state.MainConnector)
		switch {
		case err == nil:
			if NeedsRebuild(c.state.SubsystemSet, c.state.SubsystemSetValid, filter) {
				if c.state.SubsystemSet != nil && c.state.SubsystemSetValid {
					c.emit(DiagnosticInfo, fmt.Sprintf("visitor changed from grid %s to %s", c.state.SubsystemSet.Grid, filter.Target()))
				}
				c.rebuildSet(filter)
			}
		case event == EventJustDisconnected && c.state.SubsystemSet != nil && c.state.SubsystemSetValid:
			// The partner has already left; the set still targets it.
		default:
			c.invalidateSet()
			c.reportError(err)
			return SyncReport{}, false
		}
	case c.state.SubsystemSet != nil && c.state.SubsystemSetValid:
	default:
		if !c.refreshSet() {
			return SyncReport{}, false
		}
	}

	report := Apply(event, c.state.SubsystemSet)
	if c.deps.Metrics != nil {
		c.deps.Metrics.ObserveTransition(event)
		c.deps.Metrics.ObserveSync(report)
	}
	ch := report.Changed
	c.emit(DiagnosticInfo, fmt.Sprintf(
		"%s on grid %s: %d batteries, %d thrusters, %d tanks, %d vents, %d lights, %d cockpits",
		event, report.Grid, ch.Batteries, ch.Thrusters, ch.GasTanks, ch.AirVents, ch.Lights, ch.Cockpits,
	))
	return report, true
}

func (c *Controller) rebuildSet(filter grid.Filter) {
	c.state.SubsystemSet = c.locator.BuildSubsystemSet(filter)
	c.state.SubsystemSetValid = true
	if c.deps.Metrics != nil {
		c.deps.Metrics.ObserveRebuild()
	}
	c.logger.Debug("subsystem set rebuilt",
		"grid", filter.Target(),
		"devices", c.state.SubsystemSet.Counts().Total(),
	)
}

func (c *Controller) invalidateSet() {
	c.state.SubsystemSet = nil
	c.state.SubsystemSetValid = false
}

// record stores and publishes a transition. Storage failures are logged
// and never undo the synchronization.
func (c *Controller) record(ctx context.Context, event Event, previous, status grid.ConnectorStatus, report SyncReport, trigger Trigger, source string) {
	main := c.state.MainConnector
	t := &Transition{
		ID:             uuid.NewString(),
		ControllerID:   c.cfg.ID,
		ConnectorID:    main.ID(),
		ConnectorName:  main.Name(),
		Event:          event,
		PreviousStatus: previous,
		Status:         status,
		Grid:           report.Grid,
		Changed:        report.Changed,
		Trigger:        trigger,
		Source:         source,
		CreatedAt:      c.now().UTC(),
	}
	c.lastTransition = t

	c.logger.Info("docking transition applied",
		"transition_id", t.ID,
		"event", event,
		"connector", t.ConnectorName,
		"grid", t.Grid,
		"trigger", trigger,
		"devices", report.Changed.Total(),
	)

	if c.deps.Recorder != nil {
		if err := c.deps.Recorder.RecordTransition(ctx, t); err != nil {
			c.logger.Error("failed to record transition", "transition_id", t.ID, "error", err)
		}
	}
	for _, p := range c.deps.Publishers {
		p.PublishTransition(*t)
	}
}

func (c *Controller) enterAutomatic(ctx context.Context) {
	c.state.AutomaticMode = true
	if c.deps.Metrics != nil {
		c.deps.Metrics.SetAutomaticMode(true)
	}
	c.persistFlag(ctx, true)
	c.requestPeriodic()
	c.emit(DiagnosticInfo, fmt.Sprintf("automatic mode on, polling every %s", c.cfg.TickInterval))
}

func (c *Controller) leaveAutomatic(ctx context.Context) {
	if c.deps.Scheduler != nil {
		c.deps.Scheduler.CancelPeriodic()
	}
	c.state.AutomaticMode = false
	if c.deps.Metrics != nil {
		c.deps.Metrics.SetAutomaticMode(false)
	}
	c.persistFlag(ctx, false)
}

func (c *Controller) requestPeriodic() {
	if c.deps.Scheduler != nil {
		c.deps.Scheduler.RequestPeriodic(c.cfg.TickInterval)
	}
}

func (c *Controller) persistFlag(ctx context.Context, automatic bool) {
	if c.deps.Flags == nil {
		return
	}
	if err := c.deps.Flags.PersistFlag(ctx, automatic); err != nil {
		c.logger.Error("failed to persist automatic mode", "automatic", automatic, "error", err)
		c.emit(DiagnosticWarning, "automatic mode will not survive a restart")
	}
}

// reportError turns a lookup or resolution error into a diagnostic.
func (c *Controller) reportError(err error) {
	kind := DiagnosticError
	if errors.Is(err, ErrPartnerGridUnresolved) {
		kind = DiagnosticWarning
	}
	c.emit(kind, err.Error())
}

// emit records a diagnostic and fans it out. It never affects control flow.
func (c *Controller) emit(kind DiagnosticKind, message string) {
	d := Diagnostic{Kind: kind, Message: message, At: c.now().UTC()}
	c.diagnostics.Add(d)

	switch kind {
	case DiagnosticError:
		c.logger.Error("dock diagnostic", "message", message)
	case DiagnosticWarning:
		c.logger.Warn("dock diagnostic", "message", message)
	default:
		c.logger.Info("dock diagnostic", "message", message)
	}

	if c.deps.Metrics != nil {
		c.deps.Metrics.ObserveDiagnostic(kind)
	}
	for _, p := range c.deps.Publishers {
		p.PublishDiagnostic(d)
	}
}

// statusKey captures the fields whose change triggers a status publication.
type statusKey struct {
	automatic bool
	observed  grid.ConnectorStatus
	connector string
	target    grid.ID
	valid     bool
}

func (c *Controller) statusKey() statusKey {
	k := statusKey{
		automatic: c.state.AutomaticMode,
		observed:  c.state.LastObservedStatus,
		valid:     c.state.SubsystemSetValid,
	}
	if c.state.MainConnector != nil {
		k.connector = c.state.MainConnector.ID()
	}
	if c.state.SubsystemSet != nil {
		k.target = c.state.SubsystemSet.Grid
	}
	return k
}

func (c *Controller) publishStatus() {
	if len(c.deps.Publishers) == 0 {
		return
	}
	snap := c.snapshotLocked()
	for _, p := range c.deps.Publishers {
		p.PublishStatus(snap)
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		ControllerID:       c.cfg.ID,
		OwnGrid:            c.cfg.OwnGrid,
		Topology:           c.resolver.Topology(),
		AutomaticMode:      c.state.AutomaticMode,
		LastObservedStatus: c.state.LastObservedStatus,
		SubsystemSetValid:  c.state.SubsystemSetValid,
		Diagnostics:        c.diagnostics.Recent(),
	}
	if main := c.state.MainConnector; main != nil {
		snap.MainConnector = &ConnectorRef{ID: main.ID(), Name: main.Name(), Grid: main.Grid()}
	}
	if set := c.state.SubsystemSet; set != nil {
		snap.TargetGrid = set.Grid
		snap.Subsystems = set.Counts()
	}
	if c.lastTransition != nil {
		t := *c.lastTransition
		snap.LastTransition = &t
	}
	return snap
}
