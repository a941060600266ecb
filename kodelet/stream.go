package kodelet

// Stream delivers the events of one query. Receive from Events until
// it closes, then check Err for the session outcome. Abandoning a
// stream without cancelling the query's context leaves the CLI
// process running; cancel the context to stop consuming early.
type Stream struct {
	events chan Event

	// err is written by the session goroutine before events is closed,
	// so readers that observe the close see the final value.
	err error
}

func newStream(buffer int) *Stream {
	return &Stream{events: make(chan Event, buffer)}
}

// Events returns the event channel. It is closed when the session
// ends, after the CLI process has been reaped and all per-query
// artifacts removed.
func (s *Stream) Events() <-chan Event {
	return s.events
}

// Err reports why the session ended. It is meaningful only after
// Events has closed. A nil result means the CLI exited zero.
func (s *Stream) Err() error {
	return s.err
}
