package engine

import (
	"errors"
	"testing"

	"github.com/sysu-dev/sysu/model"
)

type recordingObserver struct {
	events []Event
	failOn func(Event) error
}

func (o *recordingObserver) Notify(ev Event) error {
	o.events = append(o.events, ev)
	if o.failOn != nil {
		return o.failOn(ev)
	}
	return nil
}

func TestEventHandlerFanOut(t *testing.T) {
	a := &recordingObserver{}
	b := &recordingObserver{}
	h := NewEventHandler(a, b)

	if err := h.Handle(EngineSuccessEvent{}); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(a.events) != 1 || len(b.events) != 1 {
		t.Fatalf("a=%v b=%v", a.events, b.events)
	}
}

func TestEventHandlerStopsOnFirstObserverError(t *testing.T) {
	boom := errors.New("boom")
	a := &recordingObserver{failOn: func(Event) error { return boom }}
	b := &recordingObserver{}
	h := NewEventHandler(a, b)

	err := h.Handle(EngineSuccessEvent{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(b.events) != 0 {
		t.Fatalf("second observer should not have been notified, got %v", b.events)
	}
}

func TestOpEventHandlerWrapsContext(t *testing.T) {
	rec := &recordingObserver{}
	h := NewEventHandler(rec)
	unit := model.NewUnit("a.sh", nil, nil)
	opEvh := NewOpEventHandler(h, unit, model.OpApply)

	if err := opEvh.Handle(StartedEvent{}); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(rec.events) != 1 {
		t.Fatalf("events = %v", rec.events)
	}
	notif, ok := rec.events[0].(OpNotification)
	if !ok {
		t.Fatalf("event type = %T", rec.events[0])
	}
	if notif.Unit != unit || notif.Operation != model.OpApply {
		t.Fatalf("notif = %+v", notif)
	}
	if _, ok := notif.Event.(StartedEvent); !ok {
		t.Fatalf("notif.Event type = %T", notif.Event)
	}
}
