// Package ledger implements an optional Observer that persists a run's
// events to a local SQLite database, for audit/history queries across
// runs. It mirrors the way boxer.go opens sand.db (WAL mode, schema
// applied on open) but drives schema evolution through golang-migrate
// instead of re-executing a single schema.sql on every boot.
package ledger

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/sysu-dev/sysu/engine"
	"github.com/sysu-dev/sysu/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Ledger records engine events to a SQLite database. It satisfies
// engine.Observer, so it plugs into an Engine run alongside (or instead
// of) the terminal reporter.
type Ledger struct {
	db    *sql.DB
	runID string
}

// Open opens (creating if necessary) the SQLite database at path,
// applies any pending migrations, and records the start of a new run
// under runID.
func Open(path, runID string, operation model.Operation, unitName string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ledger: open %s: %w", path, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: enable WAL mode: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	l := &Ledger{db: db, runID: runID}
	if _, err := db.Exec(
		`INSERT INTO runs (run_id, operation, unit_name, started_at) VALUES (?, ?, ?, ?)`,
		runID, operation.String(), unitName, time.Now().UTC(),
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: record run start: %w", err)
	}

	return l, nil
}

func runMigrations(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("ledger: load migrations: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("ledger: migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("ledger: migration setup: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("ledger: apply migrations: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (l *Ledger) Close() error { return l.db.Close() }

// Notify implements engine.Observer, recording one row per event.
func (l *Ledger) Notify(ev engine.Event) error {
	now := time.Now().UTC()

	switch e := ev.(type) {
	case engine.ResolvingEvent:
		return l.insert(now, "resolving", "", "", "")
	case engine.ResolvedEvent:
		return l.insert(now, "resolved", "", "", fmt.Sprintf("%d units", len(e.Units)))
	case engine.DebugEvent:
		return l.insert(now, "debug", "", "", e.Message)
	case engine.MetaResultEvent:
		return l.insert(now, "meta_result", "", "", fmt.Sprintf("author=%q version=%q params=%d", e.Meta.Author, e.Meta.Version, len(e.Meta.Params)))
	case engine.EngineSuccessEvent:
		return l.insert(now, "engine_success", "", "", "")
	case engine.ErrorEvent:
		return l.insert(now, "error", "", "", e.Message)
	case engine.OpNotification:
		return l.notifyOp(now, e)
	default:
		return l.insert(now, fmt.Sprintf("%T", ev), "", "", "")
	}
}

func (l *Ledger) notifyOp(now time.Time, notif engine.OpNotification) error {
	unitName := ""
	if notif.Unit != nil {
		unitName = notif.Unit.Name
	}
	op := notif.Operation.String()

	switch oe := notif.Event.(type) {
	case engine.StartedEvent:
		return l.insert(now, "op_started", unitName, op, "")
	case engine.OutputEvent:
		return l.insert(now, "op_output", unitName, op, stdoutDataText(oe.Data))
	case engine.CompleteEvent:
		return l.insert(now, "op_complete", unitName, op, fmt.Sprintf("%T", oe.Completion))
	case engine.OpErrorEvent:
		return l.insert(now, "op_error", unitName, op, oe.Message)
	default:
		return l.insert(now, fmt.Sprintf("%T", oe), unitName, op, "")
	}
}

func (l *Ledger) insert(at time.Time, kind, unitName, operation, message string) error {
	_, err := l.db.Exec(
		`INSERT INTO events (run_id, occurred_at, kind, unit_name, operation, message) VALUES (?, ?, ?, ?, ?, ?)`,
		l.runID, at, kind, nullIfEmpty(unitName), nullIfEmpty(operation), nullIfEmpty(message),
	)
	if err != nil {
		return fmt.Errorf("ledger: insert event: %w", err)
	}
	return nil
}

func stdoutDataText(data model.StdoutData) string {
	switch d := data.(type) {
	case model.TextLine:
		return string(d)
	case model.MessageData:
		return d.Message.Text
	default:
		return fmt.Sprintf("%T", data)
	}
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
