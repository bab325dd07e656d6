package eventloop_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/argon/internal/eventloop"
)

func TestSetTimeoutOrdersByDeadline(t *testing.T) {
	t.Parallel()
	loop := eventloop.New()
	var order []string
	loop.SetTimeout(30, func() { order = append(order, "c") })
	loop.SetTimeout(10, func() { order = append(order, "a") })
	loop.SetTimeout(20, func() { order = append(order, "b") })

	loop.Run()

	require.Equal(t, []string{"a", "b", "c"}, order)
}

func TestSetTimeoutSameDeadlineIsFIFO(t *testing.T) {
	t.Parallel()
	loop := eventloop.New()
	var order []string
	loop.SetTimeout(10, func() { order = append(order, "first") })
	loop.SetTimeout(10, func() { order = append(order, "second") })

	loop.Run()

	require.Equal(t, []string{"first", "second"}, order)
}

func TestClearTimeoutCancelsBeforeItFires(t *testing.T) {
	t.Parallel()
	loop := eventloop.New()
	ran := false
	id := loop.SetTimeout(10, func() { ran = true })
	loop.ClearTimeout(id)

	loop.Run()

	require.False(t, ran)
	require.False(t, loop.HasPendingWork())
}

func TestSetIntervalRearmsUntilCleared(t *testing.T) {
	t.Parallel()
	loop := eventloop.New()
	count := 0
	var id int64
	id = loop.SetInterval(10, func() {
		count++
		if count == 3 {
			loop.ClearInterval(id)
		}
	})

	loop.Run()

	require.Equal(t, 3, count)
}

func TestQueueMicrotaskRunsBeforeTimers(t *testing.T) {
	t.Parallel()
	loop := eventloop.New()
	var order []string
	loop.SetTimeout(0, func() { order = append(order, "timer") })
	loop.QueueMicrotask(func() { order = append(order, "microtask") })

	loop.Run()

	require.Equal(t, []string{"microtask", "timer"}, order)
}

func TestMicrotaskQueuedDuringDrainStillRunsBeforeNextTimer(t *testing.T) {
	t.Parallel()
	loop := eventloop.New()
	var order []string
	loop.SetTimeout(10, func() { order = append(order, "timer") })
	loop.QueueMicrotask(func() {
		order = append(order, "microtask-1")
		loop.QueueMicrotask(func() { order = append(order, "microtask-2") })
	})

	loop.Run()

	require.Equal(t, []string{"microtask-1", "microtask-2", "timer"}, order)
}

func TestHasPendingWork(t *testing.T) {
	t.Parallel()
	loop := eventloop.New()
	require.False(t, loop.HasPendingWork())

	loop.SetTimeout(10, func() {})
	require.True(t, loop.HasPendingWork())

	loop.Run()
	require.False(t, loop.HasPendingWork())
}

func TestTimerCancelsAnotherTimerMidDrain(t *testing.T) {
	t.Parallel()
	loop := eventloop.New()
	var order []string
	var laterID int64
	laterID = loop.SetTimeout(20, func() { order = append(order, "later") })
	loop.SetTimeout(10, func() {
		order = append(order, "earlier")
		loop.ClearTimeout(laterID)
	})

	loop.Run()

	require.Equal(t, []string{"earlier"}, order, "a timer cancelled by another callback during the same Run() must never fire")
	require.False(t, loop.HasPendingWork())
}

func TestIntervalCancelsItselfMidDrain(t *testing.T) {
	t.Parallel()
	loop := eventloop.New()
	count := 0
	var id int64
	id = loop.SetInterval(10, func() {
		count++
		loop.ClearInterval(id)
	})

	loop.Run()

	require.Equal(t, 1, count, "clearInterval called from inside its own callback must stop further rearming")
}

func TestDrainDueDoesNotAdvanceClockPastFutureTimers(t *testing.T) {
	t.Parallel()
	loop := eventloop.New()
	ran := false
	loop.SetTimeout(1000, func() { ran = true })

	loop.DrainDue()

	require.False(t, ran, "DrainDue must not fire timers scheduled in the future")
	require.True(t, loop.HasPendingWork())
}
