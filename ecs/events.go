package ecs

// EventKind identifies gameplay event types.
type EventKind string

const (
	EventJump    EventKind = "jump"
	EventLand    EventKind = "land"
	EventJumpCut EventKind = "jump_cut"
	EventRespawn EventKind = "respawn"
	EventReload  EventKind = "reload"
)

// Event is a generic ECS event payload.
type Event struct {
	Kind   EventKind
	Entity Entity
	Data   any
}

// EventQueue is a FIFO queue cleared at the start of every scheduler pass.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Pending returns queued events without clearing them.
func (q *EventQueue) Pending() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
