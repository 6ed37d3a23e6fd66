// Command streamreplay drives a recvstream.Stream through a YAML fixture of
// inbound STREAM frames, reads, and reset/stop-sending directives, printing
// the resulting state transitions, emitted control frames, and reassembled
// bytes. It is a debugging aid for the recvstream package, not a production
// QUIC endpoint: it reads its whole fixture into memory and runs single-shot.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/distribution/quicrecv/recvstream"
)

var (
	logLevel   string
	dumpRanges bool
)

var rootCmd = &cobra.Command{
	Use:   "streamreplay <fixture.yaml>",
	Short: "Replay a recvstream fixture and print the resulting transitions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

func init() {
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: trace, debug, info, warn, error")
	rootCmd.Flags().BoolVar(&dumpRanges, "dump-ranges", false, "print the orderer's held ranges after every step")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "streamreplay: %v\n", err)
		os.Exit(1)
	}
}

func run(fixturePath string) error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logger := logrus.StandardLogger()
	logger.SetLevel(level)
	recvstream.SetLogger(logger)

	fixture, err := LoadFixture(fixturePath)
	if err != nil {
		return err
	}

	fc := recvstream.NewMemFlowController()
	ce := recvstream.NewMemConnectionEvents()
	id := recvstream.StreamID(fixture.StreamID)
	stream := recvstream.NewStream(id, fixture.Window, fc, ce)

	var reassembled []byte
	for i, step := range fixture.Steps {
		if err := runStep(stream, fc, ce, step, &reassembled); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		fmt.Printf("step %-3d state=%-13s\n", i, stream.State())
		if dumpRanges {
			fmt.Printf("         ranges=%v\n", stream.Ranges())
		}
	}

	for {
		frame, ok := fc.Next()
		if !ok {
			break
		}
		switch frame.Kind {
		case recvstream.FrameMaxStreamData:
			fmt.Printf("control: MAX_STREAM_DATA(stream=%d, offset=%d)\n", frame.StreamID, frame.Offset)
		case recvstream.FrameStopSending:
			fmt.Printf("control: STOP_SENDING(stream=%d, code=%d)\n", frame.StreamID, frame.ErrorCode)
		}
	}

	for _, e := range ce.Events() {
		switch e.Kind {
		case recvstream.EventReadable:
			fmt.Printf("event: readable(stream=%d)\n", e.StreamID)
		case recvstream.EventReset:
			fmt.Printf("event: reset(stream=%d, code=%d)\n", e.StreamID, e.ErrorCode)
		case recvstream.EventComplete:
			fmt.Printf("event: complete(stream=%d)\n", e.StreamID)
		}
	}

	fmt.Printf("reassembled %d bytes\n", len(reassembled))
	return nil
}

func runStep(s *recvstream.Stream, fc *recvstream.MemFlowController, ce *recvstream.MemConnectionEvents, step Step, reassembled *[]byte) error {
	switch {
	case step.Inbound != nil:
		in := step.Inbound
		data := make([]byte, in.Length)
		for i := range data {
			data[i] = in.Byte
		}
		return s.InboundFrame(in.Fin, in.Offset, data)

	case step.Read != nil:
		buf := make([]byte, step.Read.Max)
		n, _, err := s.Read(buf)
		if err != nil {
			return err
		}
		*reassembled = append(*reassembled, buf[:n]...)
		return nil

	case step.Reset != nil:
		s.Reset(step.Reset.ErrorCode)
		return nil

	case step.StopSending != nil:
		s.StopSending(step.StopSending.ErrorCode)
		return nil
	}
	return fmt.Errorf("step has no directive set")
}
