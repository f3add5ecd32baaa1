package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sysu-dev/sysu/engine"
	"github.com/sysu-dev/sysu/model"
)

func TestReporterNoColorOnBuffer(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)
	if r.color {
		t.Fatal("color should be false for a non-terminal io.Writer")
	}
}

func TestReporterPrintsTopLevelEvents(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)

	unit := model.NewUnit("a.sh", nil, nil)
	_ = r.Notify(engine.ResolvingEvent{})
	_ = r.Notify(engine.ResolvedEvent{Units: []*model.Unit{unit}})
	_ = r.Notify(engine.EngineSuccessEvent{})

	out := buf.String()
	for _, want := range []string{"resolving", "resolved", "a.sh", "OK"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q, got: %s", want, out)
		}
	}
}

func TestReporterPrintsOpEvents(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf).WithLevel(Verbose)
	unit := model.NewUnit("a.sh", nil, nil)

	_ = r.Notify(engine.OpNotification{Unit: unit, Operation: model.OpApply, Event: engine.StartedEvent{}})
	_ = r.Notify(engine.OpNotification{Unit: unit, Operation: model.OpApply, Event: engine.OpErrorEvent{Message: "boom"}})

	out := buf.String()
	if !strings.Contains(out, "a.sh") || !strings.Contains(out, "started") || !strings.Contains(out, "boom") {
		t.Fatalf("output = %s", out)
	}
}

func TestReporterNormalLevelSuppressesStarted(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)
	unit := model.NewUnit("a.sh", nil, nil)

	_ = r.Notify(engine.OpNotification{Unit: unit, Operation: model.OpApply, Event: engine.StartedEvent{}})
	_ = r.Notify(engine.OpNotification{Unit: unit, Operation: model.OpApply, Event: engine.CompleteEvent{}})

	out := buf.String()
	if strings.Contains(out, "started") {
		t.Fatalf("Normal level should suppress started events, got: %s", out)
	}
	if !strings.Contains(out, "complete") {
		t.Fatalf("Normal level should still print complete events, got: %s", out)
	}
}

func TestReporterErrorEvent(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)
	_ = r.Notify(engine.ErrorEvent{Message: "nope"})
	if !strings.Contains(buf.String(), "nope") {
		t.Fatalf("output = %s", buf.String())
	}
}
