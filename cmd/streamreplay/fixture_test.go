package main

import (
	"testing"

	"github.com/distribution/quicrecv/recvstream"
)

func TestLoadFixtureParsesFields(t *testing.T) {
	f, err := LoadFixture("testdata/gap_fill_fin.yaml")
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if f.StreamID != 7 {
		t.Fatalf("StreamID = %d, want 7", f.StreamID)
	}
	if len(f.Steps) != 5 {
		t.Fatalf("len(Steps) = %d, want 5", len(f.Steps))
	}
	if f.Window != 1<<20 {
		t.Fatalf("Window = %d, want 1MiB", f.Window)
	}
}

func TestRunStepDrivesStream(t *testing.T) {
	fc := recvstream.NewMemFlowController()
	ce := recvstream.NewMemConnectionEvents()
	s := recvstream.NewStream(1, 1<<20, fc, ce)

	var reassembled []byte
	steps := []Step{
		{Inbound: &InboundStep{Offset: 0, Length: 10, Byte: 9, Fin: true}},
		{Read: &ReadStep{Max: 1024}},
	}
	for i, step := range steps {
		if err := runStep(s, fc, ce, step, &reassembled); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if len(reassembled) != 10 {
		t.Fatalf("reassembled = %d bytes, want 10", len(reassembled))
	}
	if s.State() != "DataRead" {
		t.Fatalf("state = %s, want DataRead", s.State())
	}
}

func TestRunStepResetAndStopSending(t *testing.T) {
	fc := recvstream.NewMemFlowController()
	ce := recvstream.NewMemConnectionEvents()
	s := recvstream.NewStream(2, 1024, fc, ce)
	var reassembled []byte

	if err := runStep(s, fc, ce, Step{Reset: &ResetStep{ErrorCode: 42}}, &reassembled); err != nil {
		t.Fatalf("reset step: %v", err)
	}
	if s.State() != "ResetReceived" {
		t.Fatalf("state = %s, want ResetReceived", s.State())
	}

	s2 := recvstream.NewStream(3, 1024, fc, ce)
	if err := runStep(s2, fc, ce, Step{StopSending: &StopSendingStep{ErrorCode: 3}}, &reassembled); err != nil {
		t.Fatalf("stop_sending step: %v", err)
	}
	if s2.State() != "ResetReceived" {
		t.Fatalf("state = %s, want ResetReceived", s2.State())
	}
}
