package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/distribution/quicrecv/recvstream"
)

// Fixture describes a sequence of directives to drive through a single
// recvstream.Stream: inbound STREAM frames, application reads, and
// reset/stop-sending requests. It is the YAML input format for the replay
// command.
type Fixture struct {
	StreamID uint64 `yaml:"stream_id"`
	Window   int64  `yaml:"window"`
	Steps    []Step `yaml:"steps"`
}

// Step is a single directive in a Fixture. Exactly one of its fields should
// be set; the replay loop dispatches on whichever is non-nil.
type Step struct {
	Inbound     *InboundStep     `yaml:"inbound,omitempty"`
	Read        *ReadStep        `yaml:"read,omitempty"`
	Reset       *ResetStep       `yaml:"reset,omitempty"`
	StopSending *StopSendingStep `yaml:"stop_sending,omitempty"`
}

// InboundStep drives Stream.InboundFrame. Length bytes of value Byte are
// synthesized as the frame payload; a fixture need not spell out literal
// byte content to exercise a scenario.
type InboundStep struct {
	Offset int64 `yaml:"offset"`
	Length int   `yaml:"length"`
	Byte   byte  `yaml:"byte"`
	Fin    bool  `yaml:"fin"`
}

// ReadStep drives Stream.Read with a buffer sized Max bytes.
type ReadStep struct {
	Max int `yaml:"max"`
}

// ResetStep drives Stream.Reset (peer-originated RESET_STREAM).
type ResetStep struct {
	ErrorCode uint64 `yaml:"error_code"`
}

// StopSendingStep drives Stream.StopSending (application-initiated).
type StopSendingStep struct {
	ErrorCode uint64 `yaml:"error_code"`
}

// LoadFixture reads and parses a Fixture from path, defaulting Window to the
// package's default initial stream window when unset.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}

	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	if f.Window <= 0 {
		f.Window = recvstream.DefaultConfig().InitialStreamWindow
	}
	return &f, nil
}
