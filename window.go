// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package polyld

import (
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"
)

// State is the pruning decision recorded for a site.
type State uint8

const (
	// Pending sites have not been through an evaluation pass yet
	Pending State = iota
	// Rejected sites correlate above the threshold with a later site
	Rejected
	// Kept sites survived every evaluation pass so far
	Kept
	// Emitted sites were handed to the sink and will not be emitted again
	Emitted
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Rejected:
		return "rejected"
	case Kept:
		return "kept"
	case Emitted:
		return "emitted"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// Site is a candidate SNP held in a window slot.
type Site struct {
	Locus Locus
	// Dosage is a view into the window arena, one value per individual
	Dosage []int8
	State  State
	// Record holds the raw input line so sinks can render the site
	Record []byte
}

// Window is a fixed capacity ring of candidate sites.  All dosage vectors
// share one arena allocated up front; slots are overwritten in place as the
// cursor wraps around.
type Window struct {
	sites       []Site
	occupied    *bitset.BitSet
	arena       []int8
	cursor      uint
	size        uint
	individuals int
}

// NewWindow allocates a window of size slots for the given number of
// individuals.
func NewWindow(size, individuals int) *Window {
	if size < 1 {
		panic("window size must be positive")
	}
	w := &Window{
		sites:       make([]Site, size),
		occupied:    bitset.New(uint(size)),
		arena:       make([]int8, size*individuals),
		size:        uint(size),
		individuals: individuals,
	}
	for i := range w.sites {
		w.sites[i].Dosage = w.arena[i*individuals : (i+1)*individuals : (i+1)*individuals]
	}
	return w
}

// Len is the capacity of the window.
func (w *Window) Len() int {
	return int(w.size)
}

// Individuals is the length of every dosage vector.
func (w *Window) Individuals() int {
	return w.individuals
}

// Cursor is the index of the slot the next site is written to.
func (w *Window) Cursor() int {
	return int(w.cursor)
}

// Site returns the site stored in slot i.
func (w *Window) Site(i int) *Site {
	return &w.sites[i]
}

// Occupied reports whether slot i holds a site that passed the filters.
func (w *Window) Occupied(i int) bool {
	return w.occupied.Test(uint(i))
}

// Active counts the occupied slots.
func (w *Window) Active() int {
	return int(w.occupied.Count())
}

// Begin clears the slot under the cursor and returns it for filling.
func (w *Window) Begin(l Locus) *Site {
	w.occupied.Clear(w.cursor)
	s := &w.sites[w.cursor]
	s.Locus = l
	s.State = Pending
	s.Record = s.Record[:0]
	clear(s.Dosage)
	return s
}

// Vacate zeroes the dosages of the slot under the cursor, which the next
// site is about to overwrite.  Occupancy and state are kept, so the slot
// still sits in the window but correlates with nothing.
func (w *Window) Vacate() {
	clear(w.sites[w.cursor].Dosage)
}

// Place marks the slot under the cursor as holding a live site.
func (w *Window) Place() {
	w.occupied.Set(w.cursor)
}

// Tombstone marks the slot under the cursor as empty.  The cursor stays put
// so the next site overwrites it.
func (w *Window) Tombstone() {
	w.occupied.Clear(w.cursor)
}

// Advance moves the cursor to the next slot.
func (w *Window) Advance() {
	w.right(&w.cursor)
}

func (w *Window) right(i *uint) {
	*i++
	if *i >= w.size {
		*i = 0
	}
}

// EachActive calls fn for every occupied slot with index in [from, to), in
// buffer order, until fn returns false.
func (w *Window) EachActive(from, to int, fn func(i int, s *Site) bool) {
	if to > int(w.size) {
		to = int(w.size)
	}
	for i, ok := w.occupied.NextSet(uint(from)); ok && int(i) < to; i, ok = w.occupied.NextSet(i + 1) {
		if !fn(int(i), &w.sites[i]) {
			return
		}
	}
}

// Reset empties every slot and rewinds the cursor.  Storage is kept.
func (w *Window) Reset() {
	w.occupied.ClearAll()
	w.cursor = 0
}

// Bytes approximates the memory held by the window.
func (w *Window) Bytes() uint64 {
	n := uint64(len(w.arena))
	for i := range w.sites {
		n += uint64(cap(w.sites[i].Record))
	}
	return n + uint64(len(w.occupied.Bytes()))*8
}

// DebugDump writes a textual representation of the window to out.
func (w *Window) DebugDump(out io.Writer) {
	fmt.Fprintf(out, "\n  slot  O state     locus\n")
	for i := range w.sites {
		o := 0
		if w.Occupied(i) {
			o = 1
		}
		mark := " "
		if uint(i) == w.cursor {
			mark = ">"
		}
		s := &w.sites[i]
		fmt.Fprintf(out, "%s%5d  %d %-9s %s\n", mark, i, o, s.State, s.Locus)
	}
}
