package undo

// EventLoop is the host scheduler's end-of-event signal. The Manager calls
// AfterEvent when it auto-opens a top-level group and expects fn to run once
// the current input event has been handled.
type EventLoop interface {
	AfterEvent(fn func())
}

// EventQueue is an EventLoop for hosts that run their own loop and call
// Flush once per event.
type EventQueue struct {
	pending []func()
}

// AfterEvent schedules fn for the next Flush.
func (q *EventQueue) AfterEvent(fn func()) {
	if fn != nil {
		q.pending = append(q.pending, fn)
	}
}

// Pending returns the number of scheduled callbacks.
func (q *EventQueue) Pending() int {
	return len(q.pending)
}

// Flush runs the callbacks scheduled during the event that just ended.
// Callbacks scheduled while flushing wait for the next Flush.
func (q *EventQueue) Flush() {
	fns := q.pending
	q.pending = nil
	for _, fn := range fns {
		fn()
	}
}
