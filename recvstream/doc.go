// Package recvstream implements the receive side of a QUIC stream: an
// ordered byte-range buffer (Orderer), the five-state receive stream state
// machine built on top of it (Stream), and a small registry mapping stream
// identifiers to streams (Registry).
//
// The package is intentionally I/O free. It has no notion of packets, wire
// encoding, or network sockets; callers hand it already-decoded STREAM frame
// contents (offset, bytes, fin) and read bytes back out in order. Outbound
// control frames (MAX_STREAM_DATA, STOP_SENDING) and application
// notifications (readable, reset, complete) are delivered through the
// FlowController and ConnectionEvents collaborator interfaces, which a
// connection implementation supplies.
//
// Callers must serialize access to a single Stream; nothing here is safe for
// concurrent use by multiple goroutines.
package recvstream
