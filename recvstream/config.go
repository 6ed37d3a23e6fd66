package recvstream

import "errors"

// defaultStreamWindow is the typical default initial per-stream flow
// control window: 1 MiB.
const defaultStreamWindow int64 = 1 << 20

// defaultCreditUpdateThreshold is the fraction of the window that must be
// consumed past the last advertised credit offset before a new
// MAX_STREAM_DATA update is queued. 0.5 reproduces spec's literal
// "candidate > (max_buffered / 2) + credit_offset" formula.
const defaultCreditUpdateThreshold = 0.5

// Config holds the tunables for a Registry and the streams it creates.
type Config struct {
	// InitialStreamWindow is the initial per-stream flow control window
	// (both the credit_offset handed to the peer at stream creation and the
	// max_buffered window size used by the credit-update heuristic).
	InitialStreamWindow int64

	// CreditUpdateThreshold is the fraction (0, 1] of the window that must
	// be consumed beyond the last advertised credit offset before a new
	// MAX_STREAM_DATA update is queued. Leave at zero to use the default
	// half-window threshold.
	CreditUpdateThreshold float64
}

// DefaultConfig returns a Config with the standard 1 MiB initial window and
// the standard half-window credit-update threshold.
func DefaultConfig() Config {
	return Config{
		InitialStreamWindow:   defaultStreamWindow,
		CreditUpdateThreshold: defaultCreditUpdateThreshold,
	}
}

func (c Config) validate() error {
	if c.InitialStreamWindow <= 0 {
		return errors.New("recvstream: InitialStreamWindow must be positive")
	}
	if c.CreditUpdateThreshold < 0 || c.CreditUpdateThreshold > 1 {
		return errors.New("recvstream: CreditUpdateThreshold must be in (0, 1]")
	}
	return nil
}

// threshold returns c's credit-update threshold, defaulting to
// defaultCreditUpdateThreshold when unset.
func (c Config) threshold() float64 {
	if c.CreditUpdateThreshold == 0 {
		return defaultCreditUpdateThreshold
	}
	return c.CreditUpdateThreshold
}
