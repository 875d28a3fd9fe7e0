package inventory

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-dock/internal/grid"
)

// Device command names.
const (
	CommandSetChargeMode   = "set_charge_mode"
	CommandSetEnabled      = "set_enabled"
	CommandSetStockpile    = "set_stockpile"
	CommandSetDepressurize = "set_depressurize"
	CommandSetHandbrake    = "set_handbrake"
	CommandConnect         = "connect"
	CommandDisconnect      = "disconnect"
)

// CommandSource tags every command issued by the inventory.
const CommandSource = "dockctl"

// Command is a device write forwarded to the physical side.
type Command struct {
	ID         string         `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	BlockID    string         `json:"block_id"`
	Grid       grid.ID        `json:"grid"`
	Command    string         `json:"command"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Source     string         `json:"source"`
}

// CommandSink receives device commands. Implementations must not call back
// into the Inventory synchronously.
type CommandSink interface {
	SendCommand(cmd Command)
}

// StateReport is a connector state update from the physical side.
type StateReport struct {
	Status  grid.ConnectorStatus `json:"status"`
	Partner string               `json:"partner,omitempty"`
}

// Logger defines the logging interface used by the inventory.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}

// block is the mutable state of one block. Guarded by Inventory.mu.
type block struct {
	id       string
	name     string
	category grid.Category
	grid     grid.ID

	chargeMode   grid.ChargeMode
	enabled      bool
	stockpile    bool
	depressurize bool
	handbrake    bool

	inRange string // partner connector id
	locked  bool
}

func (b *block) status() grid.ConnectorStatus {
	switch {
	case b.locked:
		return grid.Connected
	case b.inRange != "":
		return grid.Connectable
	default:
		return grid.Unconnected
	}
}

// Inventory is the live block inventory.
//
// Thread Safety: all methods and all handles are safe for concurrent use.
type Inventory struct {
	mu     sync.RWMutex
	grids  map[grid.ID]grid.Info
	gridIx []grid.ID
	blocks map[string]*block
	order  []string

	sinkMu sync.RWMutex
	sink   CommandSink
	logger Logger
	now    func() time.Time
}

// New builds an inventory from a validated site.
//
// Parameters:
//   - site: site description, see LoadSite
//
// Returns:
//   - *Inventory: inventory with no command sink attached
//   - error: if the site fails validation
func New(site *Site) (*Inventory, error) {
	if err := site.Validate(); err != nil {
		return nil, err
	}

	inv := &Inventory{
		grids:  make(map[grid.ID]grid.Info, len(site.Grids)),
		blocks: make(map[string]*block, len(site.Blocks)),
		logger: noopLogger{},
		now:    time.Now,
	}
	for _, g := range site.Grids {
		inv.grids[g.ID] = g
		inv.gridIx = append(inv.gridIx, g.ID)
	}

	for _, def := range site.Blocks {
		mode, _ := grid.ParseChargeMode(def.ChargeMode) //nolint:errcheck // validated above
		b := &block{
			id:           def.ID,
			name:         def.Name,
			category:     def.Category,
			grid:         def.Grid,
			chargeMode:   mode,
			enabled:      def.Enabled == nil || *def.Enabled,
			stockpile:    def.Stockpile,
			depressurize: def.Depressurize,
			handbrake:    def.Handbrake,
		}
		inv.blocks[b.id] = b
		inv.order = append(inv.order, b.id)
	}

	// Pair connectors symmetrically; either side may declare the partner.
	for _, def := range site.Blocks {
		if def.Category != grid.CategoryConnector || def.Partner == "" {
			continue
		}
		status, _ := grid.ParseConnectorStatus(def.Status) //nolint:errcheck // validated above
		a, b := inv.blocks[def.ID], inv.blocks[def.Partner]
		a.inRange, b.inRange = b.id, a.id
		if status == grid.Connected {
			a.locked, b.locked = true, true
		}
	}

	return inv, nil
}

// SetCommandSink attaches the destination for device commands.
func (inv *Inventory) SetCommandSink(sink CommandSink) {
	inv.sinkMu.Lock()
	defer inv.sinkMu.Unlock()
	inv.sink = sink
}

// SetLogger sets the logger.
func (inv *Inventory) SetLogger(logger Logger) {
	if logger != nil {
		inv.logger = logger
	}
}

// Blocks returns handles for every block of category accepted by filter, in
// site file order.
func (inv *Inventory) Blocks(category grid.Category, filter grid.Filter) []grid.Device {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	var out []grid.Device
	for _, id := range inv.order {
		b := inv.blocks[id]
		if b.category != category || b.grid != filter.Target() || !filter.Valid() {
			continue
		}
		out = append(out, inv.handleLocked(b))
	}
	return out
}

// GridInfo reports a grid from the site file.
func (inv *Inventory) GridInfo(id grid.ID) (grid.Info, bool) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	info, ok := inv.grids[id]
	return info, ok
}

// Grids lists the grids in site file order.
func (inv *Inventory) Grids() []grid.Info {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	out := make([]grid.Info, 0, len(inv.gridIx))
	for _, id := range inv.gridIx {
		out = append(out, inv.grids[id])
	}
	return out
}

// ApplyState records a connector state report and mirrors it onto the
// partner so both ends agree.
//
// Parameters:
//   - blockID: reporting connector
//   - report: new status; Partner may be empty for Unconnected, or to keep
//     the current partner
//
// Returns:
//   - error: ErrUnknownBlock, ErrNotConnector, or a pairing error
func (inv *Inventory) ApplyState(blockID string, report StateReport) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	b, err := inv.connectorLocked(blockID)
	if err != nil {
		return err
	}

	if report.Status == grid.Unconnected {
		inv.unpairLocked(b)
		return nil
	}

	partnerID := report.Partner
	if partnerID == "" {
		partnerID = b.inRange
	}
	if partnerID == "" {
		return fmt.Errorf("inventory: %s report for %q names no partner", report.Status, blockID)
	}
	p, err := inv.connectorLocked(partnerID)
	if err != nil {
		return err
	}
	if p.id == b.id {
		return fmt.Errorf("inventory: connector %q cannot partner itself", blockID)
	}

	if b.inRange != p.id {
		inv.unpairLocked(b)
	}
	if p.inRange != b.id {
		inv.unpairLocked(p)
	}
	locked := report.Status == grid.Connected
	b.inRange, p.inRange = p.id, b.id
	b.locked, p.locked = locked, locked

	inv.logger.Debug("connector state applied", "block", b.id, "status", b.status().String(), "partner", p.id)
	return nil
}

// BlockView is a read-only block description for the API.
type BlockView struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Category grid.Category  `json:"category"`
	Grid     grid.ID        `json:"grid"`
	State    map[string]any `json:"state"`
}

// Snapshot lists every block, optionally restricted to one grid.
func (inv *Inventory) Snapshot(gridID grid.ID) []BlockView {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	out := make([]BlockView, 0, len(inv.order))
	for _, id := range inv.order {
		b := inv.blocks[id]
		if gridID != "" && b.grid != gridID {
			continue
		}
		out = append(out, BlockView{
			ID:       b.id,
			Name:     b.name,
			Category: b.category,
			Grid:     b.grid,
			State:    stateOf(b),
		})
	}
	return out
}

func stateOf(b *block) map[string]any {
	switch b.category {
	case grid.CategoryBattery:
		return map[string]any{"charge_mode": b.chargeMode}
	case grid.CategoryThruster, grid.CategoryLight:
		return map[string]any{"enabled": b.enabled}
	case grid.CategoryGasTank:
		return map[string]any{"stockpile": b.stockpile}
	case grid.CategoryAirVent:
		return map[string]any{"enabled": b.enabled, "depressurize": b.depressurize}
	case grid.CategoryCockpit:
		return map[string]any{"handbrake": b.handbrake}
	case grid.CategoryConnector:
		s := map[string]any{"status": b.status()}
		if b.inRange != "" {
			s["partner"] = b.inRange
		}
		return s
	default:
		return map[string]any{}
	}
}

func (inv *Inventory) connectorLocked(id string) (*block, error) {
	b, ok := inv.blocks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlock, id)
	}
	if b.category != grid.CategoryConnector {
		return nil, fmt.Errorf("%w: %q", ErrNotConnector, id)
	}
	return b, nil
}

// unpairLocked clears b and the back-reference of its old partner.
func (inv *Inventory) unpairLocked(b *block) {
	if old, ok := inv.blocks[b.inRange]; ok && old.inRange == b.id {
		old.inRange, old.locked = "", false
	}
	b.inRange, b.locked = "", false
}

func (inv *Inventory) handleLocked(b *block) grid.Device {
	h := handle{inv: inv, b: b}
	switch b.category {
	case grid.CategoryBattery:
		return batteryHandle{h}
	case grid.CategoryThruster, grid.CategoryLight:
		return toggleHandle{h}
	case grid.CategoryGasTank:
		return tankHandle{h}
	case grid.CategoryAirVent:
		return ventHandle{h}
	case grid.CategoryCockpit:
		return cockpitHandle{h}
	case grid.CategoryConnector:
		return connectorHandle{h}
	default:
		return h
	}
}

// write mutates a block under the lock and forwards the command.
func (inv *Inventory) write(b *block, command string, params map[string]any, apply func(*block)) {
	inv.mu.Lock()
	apply(b)
	inv.mu.Unlock()

	inv.send(b, command, params)
}

func (inv *Inventory) send(b *block, command string, params map[string]any) {
	inv.sinkMu.RLock()
	sink := inv.sink
	inv.sinkMu.RUnlock()
	if sink == nil {
		return
	}
	sink.SendCommand(Command{
		ID:         uuid.NewString(),
		Timestamp:  inv.now().UTC(),
		BlockID:    b.id,
		Grid:       b.grid,
		Command:    command,
		Parameters: params,
		Source:     CommandSource,
	})
}
