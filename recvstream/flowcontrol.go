package recvstream

// StreamID identifies a QUIC stream. Its internal structure (initiator,
// directionality) is owned by the connection layer; this package only uses
// it as an opaque map key.
type StreamID uint64

// FlowController is the connection's outbound control-frame queue. A Stream
// enqueues credit updates and STOP_SENDING requests through it; the
// connection dequeues them via Peek/Next when it has room in an outgoing
// packet.
type FlowController interface {
	// MaxStreamData enqueues a MAX_STREAM_DATA update for id. It is
	// idempotent on (id, offset): a newer offset supersedes an older
	// pending one rather than queuing a second frame.
	MaxStreamData(id StreamID, offset int64)

	// ClearMaxStreamData drops any pending MAX_STREAM_DATA update for id.
	// Called when a stream leaves the Recv state, since no further credit
	// updates will ever be needed.
	ClearMaxStreamData(id StreamID)

	// StopSending enqueues a STOP_SENDING frame for id.
	StopSending(id StreamID, errorCode uint64)

	// Peek returns the next queued control frame without removing it.
	Peek() (ControlFrame, bool)

	// Next removes and returns the next queued control frame.
	Next() (ControlFrame, bool)
}

// ControlFrameKind identifies the kind of an outbound control frame.
type ControlFrameKind int

const (
	// FrameMaxStreamData carries a MAX_STREAM_DATA update; Offset is set.
	FrameMaxStreamData ControlFrameKind = iota
	// FrameStopSending carries a STOP_SENDING request; ErrorCode is set.
	FrameStopSending
)

// ControlFrame is a queued outbound control frame.
type ControlFrame struct {
	Kind      ControlFrameKind
	StreamID  StreamID
	Offset    int64  // valid for FrameMaxStreamData
	ErrorCode uint64 // valid for FrameStopSending
}

// ConnectionEvents delivers stream lifecycle notifications to the
// application.
type ConnectionEvents interface {
	// RecvStreamReadable reports that id has data (or a FIN) available to
	// read that the application hasn't been told about yet.
	RecvStreamReadable(id StreamID)

	// RecvStreamReset reports that the peer reset id with errorCode.
	RecvStreamReset(id StreamID, errorCode uint64)

	// RecvStreamComplete reports that id reached its terminal state via the
	// data path (all bytes read, including FIN).
	RecvStreamComplete(id StreamID)
}
