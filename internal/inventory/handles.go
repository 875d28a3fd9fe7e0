package inventory

import "github.com/nerrad567/gray-logic-dock/internal/grid"

// handle is the common part of every device handle. Immutable fields of b
// (id, name, category, grid) are read without the lock.
type handle struct {
	inv *Inventory
	b   *block
}

func (h handle) ID() string              { return h.b.id }
func (h handle) Name() string            { return h.b.name }
func (h handle) Grid() grid.ID           { return h.b.grid }
func (h handle) Category() grid.Category { return h.b.category }

type batteryHandle struct{ handle }

func (h batteryHandle) ChargeMode() grid.ChargeMode {
	h.inv.mu.RLock()
	defer h.inv.mu.RUnlock()
	return h.b.chargeMode
}

func (h batteryHandle) SetChargeMode(mode grid.ChargeMode) {
	h.inv.write(h.b, CommandSetChargeMode, map[string]any{"charge_mode": mode},
		func(b *block) { b.chargeMode = mode })
}

// toggleHandle serves thrusters and lights.
type toggleHandle struct{ handle }

func (h toggleHandle) Enabled() bool {
	h.inv.mu.RLock()
	defer h.inv.mu.RUnlock()
	return h.b.enabled
}

func (h toggleHandle) SetEnabled(on bool) {
	h.inv.write(h.b, CommandSetEnabled, map[string]any{"enabled": on},
		func(b *block) { b.enabled = on })
}

type tankHandle struct{ handle }

func (h tankHandle) Stockpile() bool {
	h.inv.mu.RLock()
	defer h.inv.mu.RUnlock()
	return h.b.stockpile
}

func (h tankHandle) SetStockpile(on bool) {
	h.inv.write(h.b, CommandSetStockpile, map[string]any{"stockpile": on},
		func(b *block) { b.stockpile = on })
}

type ventHandle struct{ handle }

func (h ventHandle) Enabled() bool {
	h.inv.mu.RLock()
	defer h.inv.mu.RUnlock()
	return h.b.enabled
}

func (h ventHandle) SetEnabled(on bool) {
	h.inv.write(h.b, CommandSetEnabled, map[string]any{"enabled": on},
		func(b *block) { b.enabled = on })
}

func (h ventHandle) Depressurize() bool {
	h.inv.mu.RLock()
	defer h.inv.mu.RUnlock()
	return h.b.depressurize
}

func (h ventHandle) SetDepressurize(on bool) {
	h.inv.write(h.b, CommandSetDepressurize, map[string]any{"depressurize": on},
		func(b *block) { b.depressurize = on })
}

type cockpitHandle struct{ handle }

func (h cockpitHandle) Handbrake() bool {
	h.inv.mu.RLock()
	defer h.inv.mu.RUnlock()
	return h.b.handbrake
}

func (h cockpitHandle) SetHandbrake(on bool) {
	h.inv.write(h.b, CommandSetHandbrake, map[string]any{"handbrake": on},
		func(b *block) { b.handbrake = on })
}

type connectorHandle struct{ handle }

func (h connectorHandle) Status() grid.ConnectorStatus {
	h.inv.mu.RLock()
	defer h.inv.mu.RUnlock()
	return h.b.status()
}

// Partner returns the locked peer, or nil unless Connected.
func (h connectorHandle) Partner() grid.Connector {
	h.inv.mu.RLock()
	defer h.inv.mu.RUnlock()
	if !h.b.locked {
		return nil
	}
	p, ok := h.inv.blocks[h.b.inRange]
	if !ok {
		return nil
	}
	return connectorHandle{handle{inv: h.inv, b: p}}
}

// Connect locks a Connectable pair. Other states are left alone.
func (h connectorHandle) Connect() {
	h.inv.mu.Lock()
	p, ok := h.inv.blocks[h.b.inRange]
	if h.b.locked || !ok {
		status := h.b.status()
		h.inv.mu.Unlock()
		h.inv.logger.Debug("connect ignored", "block", h.b.id, "status", status.String())
		return
	}
	h.b.locked, p.locked = true, true
	h.inv.mu.Unlock()

	h.inv.send(h.b, CommandConnect, map[string]any{"partner": p.id})
}

// Disconnect unlocks a Connected pair; the partner stays in range.
func (h connectorHandle) Disconnect() {
	h.inv.mu.Lock()
	if !h.b.locked {
		h.inv.mu.Unlock()
		h.inv.logger.Debug("disconnect ignored", "block", h.b.id)
		return
	}
	partner := h.b.inRange
	h.b.locked = false
	if p, ok := h.inv.blocks[partner]; ok {
		p.locked = false
	}
	h.inv.mu.Unlock()

	h.inv.send(h.b, CommandDisconnect, map[string]any{"partner": partner})
}
