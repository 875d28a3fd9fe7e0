package dock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-dock/internal/grid"
)

// automaticModeKey is the controller_flags key of the automatic-mode flag.
const automaticModeKey = "automatic_mode"

// timestampLayout keeps created_at lexically sortable.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

// Transition history page sizes shared by the repository and the API.
const (
	DefaultTransitionLimit = 50
	MaxTransitionLimit     = 500
)

// transitionColumns is the SELECT column list for transition queries.
const transitionColumns = `id, controller_id, connector_id, connector_name, event,
			previous_status, status, grid, trigger_type, source,
			batteries, thrusters, gas_tanks, air_vents, lights, cockpits, created_at`

// SQLiteRepository stores the automatic-mode flag and transition history.
// It implements FlagStore and TransitionRecorder for one controller ID.
type SQLiteRepository struct {
	db           *sql.DB
	controllerID string
}

// NewSQLiteRepository creates a repository scoped to controllerID.
func NewSQLiteRepository(db *sql.DB, controllerID string) *SQLiteRepository {
	return &SQLiteRepository{db: db, controllerID: controllerID}
}

// PersistFlag stores the automatic-mode flag.
func (r *SQLiteRepository) PersistFlag(ctx context.Context, automatic bool) error {
	query := `
		INSERT INTO controller_flags (controller_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (controller_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`

	value := 0
	if automatic {
		value = 1
	}
	_, err := r.db.ExecContext(ctx, query,
		r.controllerID,
		automaticModeKey,
		value,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("persisting automatic mode: %w", err)
	}
	return nil
}

// RestoreFlag reads the automatic-mode flag. found is false when the flag
// was never persisted.
func (r *SQLiteRepository) RestoreFlag(ctx context.Context) (automatic bool, found bool, err error) {
	query := `SELECT value FROM controller_flags WHERE controller_id = ? AND key = ?`

	var value int
	err = r.db.QueryRowContext(ctx, query, r.controllerID, automaticModeKey).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, false, nil
		}
		return false, false, fmt.Errorf("restoring automatic mode: %w", err)
	}
	return value != 0, true, nil
}

// RecordTransition inserts a transition record.
func (r *SQLiteRepository) RecordTransition(ctx context.Context, t *Transition) error {
	query := `
		INSERT INTO dock_transitions (
			id, controller_id, connector_id, connector_name, event,
			previous_status, status, grid, trigger_type, source,
			batteries, thrusters, gas_tanks, air_vents, lights, cockpits, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ControllerID,
		t.ConnectorID,
		t.ConnectorName,
		t.Event.String(),
		t.PreviousStatus.String(),
		t.Status.String(),
		string(t.Grid),
		string(t.Trigger),
		t.Source,
		t.Changed.Batteries,
		t.Changed.Thrusters,
		t.Changed.GasTanks,
		t.Changed.AirVents,
		t.Changed.Lights,
		t.Changed.Cockpits,
		t.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting transition: %w", err)
	}
	return nil
}

// GetTransition retrieves one transition by ID.
func (r *SQLiteRepository) GetTransition(ctx context.Context, id string) (*Transition, error) {
	query := `SELECT ` + transitionColumns + ` FROM dock_transitions WHERE id = ?`

	t, err := scanTransition(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransitionNotFound
		}
		return nil, fmt.Errorf("querying transition: %w", err)
	}
	return t, nil
}

// ListTransitions returns the most recent transitions of this controller,
// newest first. A non-positive limit means DefaultTransitionLimit and
// larger values are capped at MaxTransitionLimit.
func (r *SQLiteRepository) ListTransitions(ctx context.Context, limit int) ([]Transition, error) {
	if limit <= 0 {
		limit = DefaultTransitionLimit
	}
	limit = min(limit, MaxTransitionLimit)

	query := `SELECT ` + transitionColumns + `
		FROM dock_transitions
		WHERE controller_id = ?
		ORDER BY created_at DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, r.controllerID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying transitions: %w", err)
	}
	defer rows.Close()

	transitions := make([]Transition, 0, limit)
	for rows.Next() {
		t, scanErr := scanTransition(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scanning transition: %w", scanErr)
		}
		transitions = append(transitions, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transitions: %w", err)
	}
	return transitions, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransition(scanner rowScanner) (*Transition, error) {
	var t Transition
	var event, previous, status, gridID, trigger, createdAt string

	err := scanner.Scan(
		&t.ID,
		&t.ControllerID,
		&t.ConnectorID,
		&t.ConnectorName,
		&event,
		&previous,
		&status,
		&gridID,
		&trigger,
		&t.Source,
		&t.Changed.Batteries,
		&t.Changed.Thrusters,
		&t.Changed.GasTanks,
		&t.Changed.AirVents,
		&t.Changed.Lights,
		&t.Changed.Cockpits,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if err := t.Event.UnmarshalText([]byte(event)); err != nil {
		return nil, err
	}
	if t.PreviousStatus, err = grid.ParseConnectorStatus(previous); err != nil {
		return nil, err
	}
	if t.Status, err = grid.ParseConnectorStatus(status); err != nil {
		return nil, err
	}
	t.Grid = grid.ID(gridID)
	t.Trigger = Trigger(trigger)
	if t.CreatedAt, err = time.Parse(timestampLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &t, nil
}
