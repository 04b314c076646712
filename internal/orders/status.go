// Package orders implements the order lifecycle. Status only ever moves
// forward, so replaying history cannot regress an order.
package orders

// Status is the lifecycle state of an order.
type Status string

const (
	// StatusPaid is the initial state. Funds are escrowed at creation,
	// so an indexed order is always at least paid.
	StatusPaid Status = "Paid"
	// StatusFulfilled means the shop marked the order shipped or served.
	StatusFulfilled Status = "Fulfilled"
	// StatusCompleted is terminal: delivery confirmed, escrow released.
	StatusCompleted Status = "Completed"
	// StatusCancelled is terminal: order voided before fulfilment.
	StatusCancelled Status = "Cancelled"
	// StatusRefunded is terminal: escrow returned to the customer.
	StatusRefunded Status = "Refunded"
)

// Event is a lifecycle event applied against an order.
type Event string

const (
	EventFulfilled Event = "fulfilled"
	EventCompleted Event = "completed"
	EventCancelled Event = "cancelled"
	EventRefunded  Event = "refunded"
)

// transitions lists every legal (current, event) pair. Cancellation and
// refund are only reachable while the order is still just paid; delivery
// completes from either Paid or Fulfilled.
var transitions = map[Status]map[Event]Status{
	StatusPaid: {
		EventFulfilled: StatusFulfilled,
		EventCompleted: StatusCompleted,
		EventCancelled: StatusCancelled,
		EventRefunded:  StatusRefunded,
	},
	StatusFulfilled: {
		EventCompleted: StatusCompleted,
	},
}

// IsTerminal reports whether no further transition can change the status.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRefunded
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPaid, StatusFulfilled, StatusCompleted, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// Transition applies a lifecycle event to the current status and returns
// the resulting status. An event with no legal transition from the
// current state leaves the status unchanged, never errors. This makes
// replays and out-of-order redeliveries of the same events harmless.
func Transition(current Status, event Event) Status {
	if next, ok := transitions[current][event]; ok {
		return next
	}
	return current
}
