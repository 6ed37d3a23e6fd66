package recvstream

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestRegistryGetOrCreateReturnsExistingStream(t *testing.T) {
	r := NewRegistry(DefaultConfig())
	fc := NewMemFlowController()
	ce := NewMemConnectionEvents()

	first := r.GetOrCreate(1, fc, ce)
	second := r.GetOrCreate(1, fc, ce)
	assert.Same(t, first, second, "GetOrCreate must return the same *Stream for a repeated ID")
	assert.Equal(t, 1, r.Len())
}

func TestRegistryGetDoesNotCreate(t *testing.T) {
	r := NewRegistry(DefaultConfig())
	_, ok := r.Get(42)
	assert.False(t, ok, "Get must not create a stream for an unknown ID")
	assert.Equal(t, 0, r.Len())
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry(DefaultConfig())
	fc := NewMemFlowController()
	ce := NewMemConnectionEvents()
	r.GetOrCreate(1, fc, ce)

	r.Remove(1)
	_, ok := r.Get(1)
	assert.False(t, ok, "stream should be gone after Remove")
	assert.Equal(t, 0, r.Len())
}

func TestRegistrySweepRemovesOnlyTerminalStreams(t *testing.T) {
	r := NewRegistry(DefaultConfig())
	fc := NewMemFlowController()
	ce := NewMemConnectionEvents()

	live := r.GetOrCreate(1, fc, ce)
	_ = live

	done := r.GetOrCreate(2, fc, ce)
	done.InboundFrame(true, 0, fill(5, 1)) // -> DataReceived
	done.Read(make([]byte, 5))             // -> DataRead (terminal)

	reset := r.GetOrCreate(3, fc, ce)
	reset.Reset(7) // -> ResetReceived (terminal)

	removed := r.Sweep()
	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })

	want := []StreamID{2, 3}
	if diff := cmp.Diff(want, removed); diff != "" {
		t.Fatalf("Sweep() removed ids mismatch (-want +got):\n%s", diff)
	}

	if _, ok := r.Get(1); !ok {
		t.Fatalf("Sweep must not remove a non-terminal stream")
	}
	assert.Equal(t, 1, r.Len())
}

func TestNewRegistryPanicsOnInvalidConfig(t *testing.T) {
	assert.Panics(t, func() {
		NewRegistry(Config{InitialStreamWindow: 0})
	}, "NewRegistry must reject a non-positive initial window")
}
