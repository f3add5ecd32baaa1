package ledger

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/sysu-dev/sysu/engine"
	"github.com/sysu-dev/sysu/model"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.db")
	l, err := Open(path, "brave-otter", model.OpApply, "a.sh")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestOpenRecordsRunStart(t *testing.T) {
	l := openTestLedger(t)
	if got := countRows(t, l.db, "runs"); got != 1 {
		t.Fatalf("runs rows = %d, want 1", got)
	}
}

func TestOpenAppliesMigrationsIdempotently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	l1, err := Open(path, "run-1", model.OpApply, "a.sh")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	l1.Close()

	l2, err := Open(path, "run-2", model.OpApply, "a.sh")
	if err != nil {
		t.Fatalf("reopen Open: %v", err)
	}
	defer l2.Close()

	if got := countRows(t, l2.db, "runs"); got != 2 {
		t.Fatalf("runs rows = %d, want 2", got)
	}
}

func TestNotifyRecordsTopLevelEvents(t *testing.T) {
	l := openTestLedger(t)

	unit := model.NewUnit("a.sh", nil, nil)
	events := []engine.Event{
		engine.ResolvingEvent{},
		engine.ResolvedEvent{Units: []*model.Unit{unit}},
		engine.DebugEvent{Message: "hello"},
		engine.ErrorEvent{Message: "boom"},
		engine.EngineSuccessEvent{},
		engine.OpNotification{Unit: unit, Operation: model.OpApply, Event: engine.StartedEvent{}},
		engine.OpNotification{Unit: unit, Operation: model.OpApply, Event: engine.OpErrorEvent{Message: "op boom"}},
	}

	for _, ev := range events {
		if err := l.Notify(ev); err != nil {
			t.Fatalf("Notify(%T): %v", ev, err)
		}
	}

	if got := countRows(t, l.db, "events"); got != len(events) {
		t.Fatalf("events rows = %d, want %d", got, len(events))
	}

	var kind, message string
	if err := l.db.QueryRow(
		`SELECT kind, message FROM events WHERE kind = 'op_error'`,
	).Scan(&kind, &message); err != nil {
		t.Fatalf("query op_error row: %v", err)
	}
	if message != "op boom" {
		t.Fatalf("message = %q", message)
	}
}
