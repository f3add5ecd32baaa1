package engine

import (
	"fmt"
	"sync"

	"github.com/sysu-dev/sysu/model"
)

// Event is a top-level engine notification.
type Event interface {
	isEvent()
}

type ResolvingEvent struct{}

func (ResolvingEvent) isEvent() {}

type ResolvedEvent struct {
	Units []*model.Unit
}

func (ResolvedEvent) isEvent() {}

// OpNotification is the top-level Event carrying a per-operation OpEvent,
// i.e. spec's Op(Unit, Operation, OpEvent) variant.
type OpNotification struct {
	Unit      *model.Unit
	Operation model.Operation
	Event     OpEvent
}

func (OpNotification) isEvent() {}

type DebugEvent struct {
	Message string
}

func (DebugEvent) isEvent() {}

type EngineSuccessEvent struct{}

func (EngineSuccessEvent) isEvent() {}

// MetaResultEvent carries a root unit's Meta, posted when the CLI's
// standalone "meta" operation runs (it never goes through Check/Apply/
// Remove, so it has no OpCompletion to ride along on).
type MetaResultEvent struct {
	Unit *model.Unit
	Meta model.Meta
}

func (MetaResultEvent) isEvent() {}

type ErrorEvent struct {
	Message string
}

func (ErrorEvent) isEvent() {}

// OpEvent is a notification scoped to a single unit operation.
type OpEvent interface {
	isOpEvent()
}

type StartedEvent struct{}

func (StartedEvent) isOpEvent() {}

type OutputEvent struct {
	Data model.StdoutData
}

func (OutputEvent) isOpEvent() {}

type CompleteEvent struct {
	Completion model.OpCompletion
}

func (CompleteEvent) isOpEvent() {}

type OpErrorEvent struct {
	Message string
}

func (OpErrorEvent) isOpEvent() {}

// Observer is a one-way sink for engine events. Observers must not call
// back into the engine; fan-out delivers events in emission order per
// observer and surfaces the first observer error immediately.
type Observer interface {
	Notify(Event) error
}

// EventHandler fans an Event out to every registered Observer.
type EventHandler struct {
	mu        sync.Mutex
	observers []Observer
}

func NewEventHandler(observers ...Observer) *EventHandler {
	return &EventHandler{observers: observers}
}

// AddObserver registers an additional observer after construction, e.g.
// once a caller has learned the run id an observer needs (the audit
// ledger keys its rows on it).
func (h *EventHandler) AddObserver(o Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observers = append(h.observers, o)
}

func (h *EventHandler) Handle(ev Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, o := range h.observers {
		if err := o.Notify(ev); err != nil {
			return fmt.Errorf("engine: observer error: %w", err)
		}
	}
	return nil
}

// OpEventHandler binds an EventHandler to a specific (unit, operation) so
// call sites can post OpEvents without repeating that context.
type OpEventHandler struct {
	handler   *EventHandler
	unit      *model.Unit
	operation model.Operation
}

func NewOpEventHandler(handler *EventHandler, unit *model.Unit, op model.Operation) OpEventHandler {
	return OpEventHandler{handler: handler, unit: unit, operation: op}
}

func (h OpEventHandler) Handle(ev OpEvent) error {
	return h.handler.Handle(OpNotification{Unit: h.unit, Operation: h.operation, Event: ev})
}
