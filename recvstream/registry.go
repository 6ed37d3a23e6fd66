package recvstream

// Registry maps stream identifiers to Stream instances. It is owned by the
// connection: peer-initiated frames look a stream up or create it, the
// application looks an existing stream up by identifier, and once a stream
// reaches a terminal state the connection removes it (directly, or via
// Sweep).
type Registry struct {
	streams map[StreamID]*Stream
	config  Config
}

// NewRegistry returns an empty Registry using cfg for every stream it
// creates. It panics if cfg is invalid; construct it once, at connection
// start, with a Config a caller controls.
func NewRegistry(cfg Config) *Registry {
	if err := cfg.validate(); err != nil {
		panic(err)
	}
	return &Registry{
		streams: make(map[StreamID]*Stream),
		config:  cfg,
	}
}

// GetOrCreate returns the stream for id, creating it in the Recv state with
// the registry's configured initial window if it doesn't already exist.
// Used when the peer mentions a stream identifier for the first time.
func (r *Registry) GetOrCreate(id StreamID, fc FlowController, ce ConnectionEvents) *Stream {
	if s, ok := r.streams[id]; ok {
		return s
	}
	s := NewStreamWithConfig(id, r.config, fc, ce)
	r.streams[id] = s
	return s
}

// Get returns the stream for id, for use by application-initiated
// operations (Read, StopSending) that must not create a stream that doesn't
// already exist.
func (r *Registry) Get(id StreamID) (*Stream, bool) {
	s, ok := r.streams[id]
	return s, ok
}

// Remove deletes the stream for id from the registry, regardless of its
// state.
func (r *Registry) Remove(id StreamID) {
	delete(r.streams, id)
}

// Len returns the number of streams currently tracked.
func (r *Registry) Len() int {
	return len(r.streams)
}

// Sweep removes every stream that has reached a terminal state and returns
// their identifiers. Garbage collection of terminal streams is the
// connection's responsibility; Sweep is the loop it would otherwise have to
// write itself.
func (r *Registry) Sweep() []StreamID {
	var removed []StreamID
	for id, s := range r.streams {
		if s.IsTerminal() {
			removed = append(removed, id)
			delete(r.streams, id)
		}
	}
	return removed
}
