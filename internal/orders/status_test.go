package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	cases := []struct {
		name    string
		current Status
		event   Event
		want    Status
	}{
		{"paid to fulfilled", StatusPaid, EventFulfilled, StatusFulfilled},
		{"paid to completed", StatusPaid, EventCompleted, StatusCompleted},
		{"paid to cancelled", StatusPaid, EventCancelled, StatusCancelled},
		{"paid to refunded", StatusPaid, EventRefunded, StatusRefunded},
		{"fulfilled to completed", StatusFulfilled, EventCompleted, StatusCompleted},

		// Cancellation and refund only apply while the order is just paid.
		{"fulfilled ignores cancel", StatusFulfilled, EventCancelled, StatusFulfilled},
		{"fulfilled ignores refund", StatusFulfilled, EventRefunded, StatusFulfilled},

		// Terminal states absorb everything.
		{"completed absorbs fulfil", StatusCompleted, EventFulfilled, StatusCompleted},
		{"completed absorbs cancel", StatusCompleted, EventCancelled, StatusCompleted},
		{"cancelled absorbs complete", StatusCancelled, EventCompleted, StatusCancelled},
		{"refunded absorbs fulfil", StatusRefunded, EventFulfilled, StatusRefunded},

		// Replays of the event that produced the current state are no-ops.
		{"fulfilled replay", StatusFulfilled, EventFulfilled, StatusFulfilled},
		{"completed replay", StatusCompleted, EventCompleted, StatusCompleted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Transition(tc.current, tc.event))
		})
	}
}

func TestStatusPredicates(t *testing.T) {
	require.True(t, StatusCompleted.IsTerminal())
	require.True(t, StatusCancelled.IsTerminal())
	require.True(t, StatusRefunded.IsTerminal())
	require.False(t, StatusPaid.IsTerminal())
	require.False(t, StatusFulfilled.IsTerminal())

	require.True(t, StatusPaid.Valid())
	require.False(t, Status("Shipped").Valid())
}
