package dock

import (
	"context"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-dock/internal/grid"
)

// fakeDevice is the shared part of every test block.
type fakeDevice struct {
	id       string
	name     string
	gridID   grid.ID
	category grid.Category
	writes   int
}

func (d *fakeDevice) ID() string              { return d.id }
func (d *fakeDevice) Name() string            { return d.name }
func (d *fakeDevice) Grid() grid.ID           { return d.gridID }
func (d *fakeDevice) Category() grid.Category { return d.category }

func dev(id, name string, g grid.ID, c grid.Category) fakeDevice {
	return fakeDevice{id: id, name: name, gridID: g, category: c}
}

type fakeBattery struct {
	fakeDevice
	mode grid.ChargeMode
}

func (b *fakeBattery) ChargeMode() grid.ChargeMode { return b.mode }
func (b *fakeBattery) SetChargeMode(m grid.ChargeMode) {
	b.mode = m
	b.writes++
}

type fakeToggle struct {
	fakeDevice
	enabled bool
}

func (t *fakeToggle) Enabled() bool { return t.enabled }
func (t *fakeToggle) SetEnabled(on bool) {
	t.enabled = on
	t.writes++
}

type fakeTank struct {
	fakeDevice
	stockpile bool
}

func (t *fakeTank) Stockpile() bool { return t.stockpile }
func (t *fakeTank) SetStockpile(on bool) {
	t.stockpile = on
	t.writes++
}

type fakeVent struct {
	fakeDevice
	enabled      bool
	depressurize bool
}

func (v *fakeVent) Enabled() bool      { return v.enabled }
func (v *fakeVent) Depressurize() bool { return v.depressurize }
func (v *fakeVent) SetEnabled(on bool) {
	v.enabled = on
	v.writes++
}
func (v *fakeVent) SetDepressurize(on bool) {
	v.depressurize = on
	v.writes++
}

type fakeCockpit struct {
	fakeDevice
	handbrake bool
}

func (c *fakeCockpit) Handbrake() bool { return c.handbrake }
func (c *fakeCockpit) SetHandbrake(on bool) {
	c.handbrake = on
	c.writes++
}

// fakeConnector mates with inRange on Connect.
type fakeConnector struct {
	fakeDevice
	status      grid.ConnectorStatus
	partner     *fakeConnector
	inRange     *fakeConnector
	connects    int
	disconnects int
}

func (c *fakeConnector) Status() grid.ConnectorStatus { return c.status }

func (c *fakeConnector) Partner() grid.Connector {
	if c.status != grid.Connected || c.partner == nil {
		return nil
	}
	return c.partner
}

func (c *fakeConnector) Connect() {
	c.connects++
	if c.status == grid.Connectable && c.inRange != nil {
		mate(c, c.inRange)
	}
}

func (c *fakeConnector) Disconnect() {
	c.disconnects++
	if c.status == grid.Connected && c.partner != nil {
		p := c.partner
		c.status, p.status = grid.Connectable, grid.Connectable
		c.partner, p.partner = nil, nil
	}
}

// mate locks two connectors together, as the game would.
func mate(a, b *fakeConnector) {
	a.status, b.status = grid.Connected, grid.Connected
	a.partner, b.partner = b, a
	a.inRange, b.inRange = b, a
}

// separate unlocks and moves two connectors out of range.
func separate(a, b *fakeConnector) {
	a.status, b.status = grid.Unconnected, grid.Unconnected
	a.partner, b.partner = nil, nil
	a.inRange, b.inRange = nil, nil
}

// approach brings two connectors in range without locking them.
func approach(a, b *fakeConnector) {
	a.status, b.status = grid.Connectable, grid.Connectable
	a.inRange, b.inRange = b, a
}

func newConnector(id, name string, g grid.ID) *fakeConnector {
	return &fakeConnector{fakeDevice: dev(id, name, g, grid.CategoryConnector)}
}

// fakeSource is an in-memory BlockSource.
type fakeSource struct {
	grids   map[grid.ID]grid.Info
	devices []grid.Device
}

func newFakeSource(devices ...grid.Device) *fakeSource {
	return &fakeSource{grids: make(map[grid.ID]grid.Info), devices: devices}
}

func (s *fakeSource) add(devices ...grid.Device) {
	s.devices = append(s.devices, devices...)
}

func (s *fakeSource) Blocks(category grid.Category, filter grid.Filter) []grid.Device {
	var out []grid.Device
	for _, d := range s.devices {
		if d.Category() == category && filter.Match(d) {
			out = append(out, d)
		}
	}
	return out
}

func (s *fakeSource) GridInfo(id grid.ID) (grid.Info, bool) {
	info, ok := s.grids[id]
	return info, ok
}

// vehicle is a small ship with one of each subsystem.
type vehicle struct {
	connector *fakeConnector
	battery   *fakeBattery
	thruster  *fakeToggle
	tank      *fakeTank
	intVent   *fakeVent
	extVent   *fakeVent
	plainVent *fakeVent
	light     *fakeToggle
	cockpit   *fakeCockpit
}

// newVehicle builds a vehicle in its travel posture.
func newVehicle(g grid.ID, connectorName string) *vehicle {
	p := string(g) + "-"
	return &vehicle{
		connector: newConnector(p+"conn", connectorName, g),
		battery:   &fakeBattery{fakeDevice: dev(p+"bat", "Battery", g, grid.CategoryBattery), mode: grid.ChargeAuto},
		thruster:  &fakeToggle{fakeDevice: dev(p+"thr", "Thruster", g, grid.CategoryThruster), enabled: true},
		tank:      &fakeTank{fakeDevice: dev(p+"tank", "Hydrogen Tank", g, grid.CategoryGasTank)},
		intVent:   &fakeVent{fakeDevice: dev(p+"vent-int", "Air Vent int.", g, grid.CategoryAirVent), enabled: true},
		extVent:   &fakeVent{fakeDevice: dev(p+"vent-ext", "Air Vent ext.", g, grid.CategoryAirVent), enabled: true},
		plainVent: &fakeVent{fakeDevice: dev(p+"vent", "Air Vent", g, grid.CategoryAirVent), enabled: true},
		light:     &fakeToggle{fakeDevice: dev(p+"light", "Interior Light", g, grid.CategoryLight), enabled: true},
		cockpit:   &fakeCockpit{fakeDevice: dev(p+"cockpit", "Cockpit", g, grid.CategoryCockpit)},
	}
}

func (v *vehicle) devices() []grid.Device {
	return []grid.Device{
		v.connector, v.battery, v.thruster, v.tank,
		v.intVent, v.extVent, v.plainVent, v.light, v.cockpit,
	}
}

// subsystemWrites counts every property write on the vehicle's subsystems.
func (v *vehicle) subsystemWrites() int {
	return v.battery.writes + v.thruster.writes + v.tank.writes +
		v.intVent.writes + v.extVent.writes + v.plainVent.writes +
		v.light.writes + v.cockpit.writes
}

// mockFlags is an in-memory FlagStore.
type mockFlags struct {
	mu         sync.Mutex
	value      bool
	found      bool
	restoreErr error
	persistErr error
	persisted  []bool
}

func (m *mockFlags) PersistFlag(_ context.Context, automatic bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.persistErr != nil {
		return m.persistErr
	}
	m.persisted = append(m.persisted, automatic)
	m.value, m.found = automatic, true
	return nil
}

func (m *mockFlags) RestoreFlag(_ context.Context) (bool, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, m.found, m.restoreErr
}

// mockScheduler records scheduling requests.
type mockScheduler struct {
	mu        sync.Mutex
	requested []time.Duration
	cancels   int
}

func (m *mockScheduler) RequestPeriodic(interval time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requested = append(m.requested, interval)
}

func (m *mockScheduler) CancelPeriodic() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancels++
}

// mockRecorder keeps recorded transitions.
type mockRecorder struct {
	mu          sync.Mutex
	transitions []Transition
	err         error
}

func (m *mockRecorder) RecordTransition(_ context.Context, t *Transition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.transitions = append(m.transitions, *t)
	return nil
}

// mockPublisher records published events.
type mockPublisher struct {
	mu          sync.Mutex
	transitions []Transition
	diagnostics []Diagnostic
	statuses    []Snapshot
}

func (m *mockPublisher) PublishTransition(t Transition) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = append(m.transitions, t)
}

func (m *mockPublisher) PublishDiagnostic(d Diagnostic) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.diagnostics = append(m.diagnostics, d)
}

func (m *mockPublisher) PublishStatus(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, s)
}

// mockMetrics counts observations.
type mockMetrics struct {
	mu          sync.Mutex
	invocations map[string]int
	events      map[Event]int
	diagnostics map[DiagnosticKind]int
	rebuilds    int
	automatic   bool
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{
		invocations: make(map[string]int),
		events:      make(map[Event]int),
		diagnostics: make(map[DiagnosticKind]int),
	}
}

func (m *mockMetrics) ObserveInvocation(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invocations[source]++
}

func (m *mockMetrics) ObserveTransition(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event]++
}

func (m *mockMetrics) ObserveSync(SyncReport) {}

func (m *mockMetrics) ObserveDiagnostic(kind DiagnosticKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.diagnostics[kind]++
}

func (m *mockMetrics) ObserveRebuild() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rebuilds++
}

func (m *mockMetrics) SetAutomaticMode(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.automatic = on
}
