package recvstream

import "fmt"

// stateTag is the receive stream's variant tag.
type stateTag int

const (
	stateRecv stateTag = iota
	stateSizeKnown
	stateDataReceived
	stateDataRead
	stateResetReceived
)

func (s stateTag) String() string {
	switch s {
	case stateRecv:
		return "Recv"
	case stateSizeKnown:
		return "SizeKnown"
	case stateDataReceived:
		return "DataReceived"
	case stateDataRead:
		return "DataRead"
	case stateResetReceived:
		return "ResetReceived"
	default:
		return "Unknown"
	}
}

// Stream is a QUIC receive stream: the five-state machine (Recv,
// SizeKnown, DataReceived, DataRead, ResetReceived) built on top of an
// Orderer, enforcing final-size and flow-control invariants and routing
// credit updates and application notifications through its FlowController
// and ConnectionEvents collaborators.
//
// A Stream is not safe for concurrent use; the owning connection must
// serialize all calls into it.
type Stream struct {
	id  StreamID
	tag stateTag

	// orderer is present exactly in Recv, SizeKnown, and DataReceived; it is
	// dropped (set to nil) when the stream reaches a terminal state.
	orderer *Orderer

	// Recv-only fields.
	maxBuffered     int64   // window size used by the credit-update heuristic
	creditOffset    int64   // largest offset the peer may send
	creditThreshold float64 // fraction of maxBuffered that must be retired past creditOffset before a new update is queued

	// finalSize is valid only while tag == stateSizeKnown.
	finalSize int64

	flowController FlowController
	connEvents     ConnectionEvents
}

// NewStream returns a new receive stream in the Recv state, with an initial
// flow control window of size window and the standard half-window
// credit-update threshold. Use NewStreamWithConfig to override the
// threshold.
func NewStream(id StreamID, window int64, fc FlowController, ce ConnectionEvents) *Stream {
	return NewStreamWithConfig(id, Config{InitialStreamWindow: window}, fc, ce)
}

// NewStreamWithConfig returns a new receive stream in the Recv state, using
// cfg's initial window and credit-update threshold (each defaulted if
// unset). The Registry uses this to apply its configured tunables
// uniformly to every stream it creates.
func NewStreamWithConfig(id StreamID, cfg Config, fc FlowController, ce ConnectionEvents) *Stream {
	window := cfg.InitialStreamWindow
	if window <= 0 {
		window = defaultStreamWindow
	}
	return &Stream{
		id:              id,
		tag:             stateRecv,
		orderer:         NewOrderer(),
		maxBuffered:     window,
		creditOffset:    window,
		creditThreshold: cfg.threshold(),
		flowController:  fc,
		connEvents:      ce,
	}
}

// ID returns the stream's identifier.
func (s *Stream) ID() StreamID { return s.id }

// State returns the stream's current state name, for logging and tests.
func (s *Stream) State() string { return s.tag.String() }

// DebugName returns a human-readable identifier combining the stream's ID
// and current state, for logging and tests only — never for branching
// application logic.
func (s *Stream) DebugName() string {
	return fmt.Sprintf("stream[%d]:%s", s.id, s.tag.String())
}

// IsTerminal reports whether the stream has reached DataRead or
// ResetReceived.
func (s *Stream) IsTerminal() bool {
	return s.tag == stateDataRead || s.tag == stateResetReceived
}

// CreditOffset returns the largest offset the peer is currently permitted to
// send, valid only while the stream is in Recv.
func (s *Stream) CreditOffset() int64 { return s.creditOffset }

// Ranges returns a diagnostic snapshot of the orderer's held byte ranges, or
// nil once the stream has left Recv/SizeKnown/DataReceived and dropped its
// orderer.
func (s *Stream) Ranges() []Range {
	if s.orderer == nil {
		return nil
	}
	return s.orderer.Ranges()
}

// setState performs the bookkeeping common to every transition: clearing any
// pending credit update on exit from Recv, dropping the orderer when the
// successor state is terminal, and notifying the application when the data
// path reaches its terminal state.
func (s *Stream) setState(next stateTag) {
	if s.tag == stateRecv && next != stateRecv {
		s.flowController.ClearMaxStreamData(s.id)
	}
	log.WithFields(map[string]interface{}{
		"stream_id": s.id,
		"from":      s.tag.String(),
		"to":        next.String(),
	}).Debug("recvstream: state transition")
	s.tag = next
	if next == stateDataRead || next == stateResetReceived {
		s.orderer = nil
		if next == stateDataRead {
			s.connEvents.RecvStreamComplete(s.id)
		}
	}
}

// logFrameAccepted logs an inbound STREAM frame that passed the final-size
// and flow-control checks and was forwarded to the orderer.
func (s *Stream) logFrameAccepted(offset, end int64, fin bool) {
	log.WithFields(map[string]interface{}{
		"stream_id": s.id,
		"offset":    offset,
		"end":       end,
		"fin":       fin,
	}).Debug("recvstream: accepted frame")
}

// logFrameRejected logs an inbound STREAM frame that failed the final-size
// or flow-control check, at Error level per spec.md §7 (both are fatal
// connection errors).
func (s *Stream) logFrameRejected(offset, end int64, fin bool, err error) {
	log.WithFields(map[string]interface{}{
		"stream_id": s.id,
		"offset":    offset,
		"end":       end,
		"fin":       fin,
		"error":     err,
	}).Error("recvstream: rejected frame")
}

// InboundFrame processes an inbound STREAM frame: offset and bytes, with fin
// set if this frame carries the FIN bit.
//
// It returns FinalSizeError or FlowControlError if the frame violates the
// stream's invariants; the connection must treat either as a fatal
// connection error. Any other anomaly (a late frame below retired, a frame
// entirely inside an already-held range, and so on) is absorbed silently.
func (s *Stream) InboundFrame(fin bool, offset int64, data []byte) error {
	end := offset + int64(len(data))

	if s.tag == stateSizeKnown {
		if end > s.finalSize || (fin && end != s.finalSize) {
			err := &FinalSizeError{StreamID: s.id, Reason: "frame is inconsistent with known final size"}
			s.logFrameRejected(offset, end, fin, err)
			return err
		}
	}

	justEnteredDataReceived := false

	switch s.tag {
	case stateRecv:
		if fin && end < s.orderer.HighestSeenOffset() {
			err := &FinalSizeError{StreamID: s.id, Reason: "final size precedes data already seen"}
			s.logFrameRejected(offset, end, fin, err)
			return err
		}
		if end > s.creditOffset {
			err := &FlowControlError{StreamID: s.id, Offset: end, Credit: s.creditOffset}
			s.logFrameRejected(offset, end, fin, err)
			return err
		}
		s.orderer.Inbound(offset, data)
		s.logFrameAccepted(offset, end, fin)
		if fin {
			finalSize := end
			if finalSize == s.orderer.Retired()+s.orderer.BytesReady() {
				s.setState(stateDataReceived)
				justEnteredDataReceived = true
			} else {
				s.finalSize = finalSize
				s.setState(stateSizeKnown)
			}
		}

	case stateSizeKnown:
		s.orderer.Inbound(offset, data)
		s.logFrameAccepted(offset, end, fin)
		if s.finalSize == s.orderer.Retired()+s.orderer.BytesReady() {
			s.setState(stateDataReceived)
			justEnteredDataReceived = true
		}

	default:
		// DataReceived, DataRead, ResetReceived: silently ignored.
	}

	if justEnteredDataReceived || (s.orderer != nil && s.orderer.DataReady()) {
		s.connEvents.RecvStreamReadable(s.id)
	}
	return nil
}

// Read copies contiguous available bytes into buf. finReached is true only
// on the call that drains the last buffered byte of a stream whose FIN has
// been received. Once the stream is terminal, Read returns NoMoreDataError.
func (s *Stream) Read(buf []byte) (n int, finReached bool, err error) {
	switch s.tag {
	case stateRecv, stateSizeKnown:
		n = s.orderer.Read(buf)
	case stateDataReceived:
		n = s.orderer.Read(buf)
		if s.orderer.Buffered() == 0 {
			s.setState(stateDataRead)
			finReached = true
		}
	default:
		return 0, false, &NoMoreDataError{StreamID: s.id}
	}
	s.maybeSendCreditUpdate()
	return n, finReached, nil
}

// maybeSendCreditUpdate implements the credit heuristic: once the
// application has consumed more than creditThreshold (by default one half)
// of the current window beyond the last advertised offset, advertise a new
// credit_offset and enqueue a MAX_STREAM_DATA update. This batches updates
// to avoid Silly Window Syndrome.
func (s *Stream) maybeSendCreditUpdate() {
	if s.tag != stateRecv {
		return
	}
	candidate := s.orderer.Retired() + s.maxBuffered
	threshold := int64(float64(s.maxBuffered) * s.creditThreshold)
	if candidate > threshold+s.creditOffset {
		s.creditOffset = candidate
		log.WithFields(map[string]interface{}{
			"stream_id": s.id,
			"offset":    candidate,
		}).Debug("recvstream: queuing MAX_STREAM_DATA update")
		s.flowController.MaxStreamData(s.id, candidate)
	}
}

// ResendCredit re-emits the current credit_offset to the FlowController.
// Call this when the FlowController reports that a previously sent
// MAX_STREAM_DATA frame was lost.
func (s *Stream) ResendCredit() {
	if s.tag != stateRecv {
		return
	}
	s.flowController.MaxStreamData(s.id, s.creditOffset)
}

// Reset handles a peer-originated RESET_STREAM. It is a no-op once the
// stream has left Recv/SizeKnown (including if already terminal).
func (s *Stream) Reset(errorCode uint64) {
	switch s.tag {
	case stateRecv, stateSizeKnown:
		s.connEvents.RecvStreamReset(s.id, errorCode)
		s.setState(stateResetReceived)
	default:
		// Ignored.
	}
}

// StopSending handles an application-initiated STOP_SENDING. From Recv or
// SizeKnown this resets the stream and asks the peer to stop sending; from
// DataReceived the application has every byte already, so it simply
// transitions straight to DataRead without a RESET_STREAM. Terminal states
// are a no-op.
func (s *Stream) StopSending(errorCode uint64) {
	switch s.tag {
	case stateRecv, stateSizeKnown:
		s.setState(stateResetReceived)
		s.flowController.StopSending(s.id, errorCode)
	case stateDataReceived:
		s.setState(stateDataRead)
	default:
		// Ignored.
	}
}
