package trace

// Sink is the append-only telemetry event log a simulation run writes to.
// Stations hold a Sink handle — injected at construction rather than a
// back-reference to the orchestrator — purely to call Emit, avoiding a
// station-to-orchestrator cyclic reference.
type Sink struct {
	events []Event
}

// NewSink creates an empty Sink.
func NewSink() *Sink {
	return &Sink{events: make([]Event, 0)}
}

// Emit appends an event to the log. Sinks are append-only during a run:
// nothing ever removes or mutates a previously emitted Event.
func (s *Sink) Emit(simTime int64, entityID string, meta Meta) {
	s.events = append(s.events, Event{
		SimTime:  simTime,
		EntityID: entityID,
		Type:     meta.eventType(),
		Meta:     meta,
	})
}

// Events returns the full event log in emission order. The returned slice
// shares the Sink's backing array and must be treated as read-only.
func (s *Sink) Events() []Event {
	return s.events
}

// ByType returns the subset of events matching the given type, in emission
// order.
func (s *Sink) ByType(t EventType) []Event {
	var out []Event
	for _, e := range s.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// CountByType returns the number of emitted events of each type.
func (s *Sink) CountByType() map[EventType]int {
	counts := make(map[EventType]int)
	for _, e := range s.events {
		counts[e.Type]++
	}
	return counts
}

// Len returns the total number of emitted events.
func (s *Sink) Len() int { return len(s.events) }
