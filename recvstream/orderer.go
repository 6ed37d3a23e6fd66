package recvstream

import "sort"

// orderedRange is a single contiguous run of bytes the peer has sent and the
// application has not yet consumed.
type orderedRange struct {
	start int64
	data  []byte
}

func (r orderedRange) end() int64 {
	return r.start + int64(len(r.data))
}

// Range describes a held byte range, for diagnostics only.
type Range struct {
	Start, End int64
}

// Orderer buffers unordered, possibly overlapping byte ranges received from
// a peer and delivers them to the application strictly in order starting at
// offset zero.
//
// An Orderer holds an ordered list of disjoint, non-empty ranges plus a
// retired counter: the number of bytes already delivered. The list is kept
// sorted by start offset and no two ranges ever overlap; inbound trims or
// drops data that overlaps what is already held.
type Orderer struct {
	ranges  []orderedRange
	retired int64
}

// NewOrderer returns an empty Orderer.
func NewOrderer() *Orderer {
	return &Orderer{}
}

// Retired returns the number of bytes already delivered to the application.
func (o *Orderer) Retired() int64 {
	return o.retired
}

// Inbound accepts a byte range received from the peer, deduplicating and
// trimming it against ranges already held.
//
// The overlap classification below follows (newStart > prevStart, newEnd >
// prevEnd) against the greatest held range starting at or before newStart:
//
//	(true,  true)  - new range extends past prev: trim the overlap and retry
//	                 past prev's end, or insert outright if there is no
//	                 overlap (new range merely touches or follows prev).
//	(true,  false) - new range falls entirely inside prev: drop.
//	(false, true)  - new range starts at prev and extends beyond it: trim and
//	                 retry past prev's end.
//	(false, false) - new range falls entirely inside prev: drop.
//
// (false, _) with newStart < prevStart cannot occur, since prev is chosen as
// the greatest range with start <= newStart.
func (o *Orderer) Inbound(start int64, data []byte) {
	for {
		end := start + int64(len(data))
		if len(data) == 0 || end <= o.retired {
			return
		}

		i := o.prevIndex(start)
		if i < 0 {
			break
		}
		prev := o.ranges[i]
		prevEnd := prev.end()
		newStartAfter := start > prev.start
		newEndAfter := end > prevEnd

		if !newEndAfter {
			// Fully inside prev (or exactly equal to it): drop.
			return
		}
		if !newStartAfter {
			// start == prev.start (can't be less, by construction) and the
			// new range extends beyond prev: trim the overlap and retry.
			overlap := prevEnd - start
			if overlap < 0 {
				overlap = 0
			}
			data = data[overlap:]
			start = prevEnd
			continue
		}
		// newStartAfter && newEndAfter: new range extends past prev.
		if overlap := prevEnd - start; overlap > 0 {
			data = data[overlap:]
			start = prevEnd
			continue
		}
		break
	}
	o.insertTrimmed(start, data)
}

// prevIndex returns the index of the greatest held range with start <= v, or
// -1 if none exists.
func (o *Orderer) prevIndex(v int64) int {
	i := sort.Search(len(o.ranges), func(i int) bool { return o.ranges[i].start > v })
	return i - 1
}

// insertTrimmed inserts [start, start+len(data)) after trimming it against,
// and possibly subsuming, any ranges that start at or after start.
func (o *Orderer) insertTrimmed(start int64, data []byte) {
	end := start + int64(len(data))
	j := sort.Search(len(o.ranges), func(i int) bool { return o.ranges[i].start >= start })

	removeTo := j
	for removeTo < len(o.ranges) {
		next := o.ranges[removeTo]
		if next.start >= end {
			break
		}
		if next.end() > end {
			// New range overlaps the start of next but not all of it:
			// truncate to what isn't already covered downstream.
			data = data[:next.start-start]
			break
		}
		// New range fully subsumes next.
		removeTo++
	}
	if removeTo > j {
		o.ranges = append(o.ranges[:j], o.ranges[removeTo:]...)
	}
	if len(data) == 0 {
		return
	}

	// Entries own heap byte buffers: copy the caller's bytes rather than
	// aliasing its slice, so a caller that reuses its frame buffer after
	// this call can never corrupt an already-accepted, not-yet-read range.
	owned := make([]byte, len(data))
	copy(owned, data)

	o.ranges = append(o.ranges, orderedRange{})
	copy(o.ranges[j+1:], o.ranges[j:])
	o.ranges[j] = orderedRange{start: start, data: owned}
}

// DataReady reports whether at least one contiguous byte is available to
// read: the first held range starts at or before retired.
func (o *Orderer) DataReady() bool {
	return len(o.ranges) > 0 && o.ranges[0].start <= o.retired
}

// BytesReady returns the length of the longest contiguous prefix of held
// data starting at retired.
func (o *Orderer) BytesReady() int64 {
	prevEnd := o.retired
	var total int64
	for _, r := range o.ranges {
		if r.start > prevEnd {
			break
		}
		off := o.retired - r.start
		if off < 0 {
			off = 0
		}
		dataLen := int64(len(r.data)) - off
		prevEnd += dataLen
		total += dataLen
	}
	return total
}

// Buffered returns the total number of bytes held beyond retired, including
// bytes separated from retired by a gap.
func (o *Orderer) Buffered() int64 {
	var total int64
	for _, r := range o.ranges {
		off := o.retired - r.start
		if off < 0 {
			off = 0
		}
		total += int64(len(r.data)) - off
	}
	return total
}

// Read copies contiguous bytes starting at retired into buf and advances
// retired by the number of bytes copied. It stops at the first gap or once
// buf is full, and returns the number of bytes copied.
//
// Read may also be used as drain-to-end, by sizing buf to BytesReady first.
func (o *Orderer) Read(buf []byte) int {
	copied := 0
	for _, r := range o.ranges {
		if copied >= len(buf) || r.start > o.retired {
			break
		}
		off := o.retired - r.start
		available := int64(len(r.data)) - off
		n := available
		if space := int64(len(buf) - copied); n > space {
			n = space
		}
		if n <= 0 {
			break
		}
		copy(buf[copied:int64(copied)+n], r.data[off:off+n])
		copied += int(n)
		o.retired += n
	}
	o.dropConsumed()
	return copied
}

// dropConsumed removes ranges fully consumed by Read from the front of the
// held list.
func (o *Orderer) dropConsumed() {
	i := 0
	for i < len(o.ranges) && o.ranges[i].end() <= o.retired {
		i++
	}
	if i > 0 {
		o.ranges = o.ranges[i:]
	}
}

// HighestSeenOffset returns the end of the last held range, or retired if
// nothing is held.
func (o *Orderer) HighestSeenOffset() int64 {
	if len(o.ranges) == 0 {
		return o.retired
	}
	return o.ranges[len(o.ranges)-1].end()
}

// Ranges returns a snapshot of the currently held ranges, in order. It is a
// diagnostic accessor, not part of the read/write contract, and allocates on
// every call.
func (o *Orderer) Ranges() []Range {
	out := make([]Range, len(o.ranges))
	for i, r := range o.ranges {
		out[i] = Range{Start: r.start, End: r.end()}
	}
	return out
}
