package recvstream

import "fmt"

// transportCode mirrors the small slice of RFC 9000 Section 20.1 transport
// error codes this package can raise, for a caller that wants to map a
// FinalSizeError or FlowControlError onto an on-wire CONNECTION_CLOSE frame.
type transportCode uint64

const (
	codeFlowControl transportCode = 0x03
	codeFinalSize   transportCode = 0x06
)

// FinalSizeError reports that an inbound STREAM frame is inconsistent with
// the stream's known or implied final size. It is always a fatal connection
// error per RFC 9000.
type FinalSizeError struct {
	StreamID StreamID
	Reason   string
}

func (e *FinalSizeError) Error() string {
	return fmt.Sprintf("stream %d: final size error: %s", e.StreamID, e.Reason)
}

// TransportCode returns the RFC 9000 FINAL_SIZE_ERROR code.
func (e *FinalSizeError) TransportCode() uint64 { return uint64(codeFinalSize) }

// FlowControlError reports that an inbound STREAM frame extends past the
// credit offset advertised to the peer. It is always a fatal connection
// error per RFC 9000.
type FlowControlError struct {
	StreamID StreamID
	Offset   int64
	Credit   int64
}

func (e *FlowControlError) Error() string {
	return fmt.Sprintf("stream %d: flow control error: frame end %d exceeds credit %d", e.StreamID, e.Offset, e.Credit)
}

// TransportCode returns the RFC 9000 FLOW_CONTROL_ERROR code.
func (e *FlowControlError) TransportCode() uint64 { return uint64(codeFlowControl) }

// NoMoreDataError reports a Read call against a stream that has already
// delivered everything it ever will (DataRead or ResetReceived).
type NoMoreDataError struct {
	StreamID StreamID
}

func (e *NoMoreDataError) Error() string {
	return fmt.Sprintf("stream %d: no more data: stream is closed", e.StreamID)
}
