// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package polyld

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func states(w *Window) []State {
	s := make([]State, w.Len())
	for i := range s {
		s[i] = w.Site(i).State
	}
	return s
}

func TestEvaluateLaterWins(t *testing.T) {
	w := NewWindow(3, 3)
	put(w, "1", 10, 0, 1, 2)
	put(w, "1", 20, 0, 1, 2)
	put(w, "1", 30, 2, 1, 0)

	// each site is rejected by the first later site it correlates with
	assert.Equal(t, 1, Evaluate(w, 3, 0.5))
	assert.Equal(t, []State{Rejected, Rejected, Kept}, states(w))
}

func TestEvaluateFirstConflictOnly(t *testing.T) {
	w := NewWindow(3, 4)
	put(w, "1", 10, 0, 1, 2, 0)
	put(w, "1", 20, 1, 1, 1, 1)
	put(w, "1", 30, 1, 0, 1, 2)

	assert.Equal(t, 3, Evaluate(w, 3, 0.5))
	assert.Equal(t, []State{Kept, Kept, Kept}, states(w))

	w = NewWindow(2, 4)
	put(w, "1", 10, 0, 1, 2, 0)
	put(w, "1", 30, 1, 0, 1, 2)
	// r2 of the pair is 2/11
	assert.Equal(t, 1, Evaluate(w, 2, 0.1))
	assert.Equal(t, []State{Rejected, Kept}, states(w))
}

func TestEvaluateIdempotent(t *testing.T) {
	w := NewWindow(4, 3)
	put(w, "1", 10, 0, 1, 2)
	put(w, "1", 20, 1, 1, 2)
	put(w, "1", 30, 2, 1, 0)
	put(w, "1", 40, 0, 0, 1)

	n := Evaluate(w, 4, 0.3)
	first := states(w)
	assert.Equal(t, n, Evaluate(w, 4, 0.3))
	assert.Equal(t, first, states(w))
}

func TestEvaluateChromosomes(t *testing.T) {
	w := NewWindow(2, 3)
	put(w, "1", 10, 0, 1, 2)
	put(w, "2", 10, 0, 1, 2)
	assert.Equal(t, 2, Evaluate(w, 2, 0.1))
}

func TestEvaluateUndefined(t *testing.T) {
	w := NewWindow(3, 3)
	put(w, "1", 10, 1, 1, 1)
	put(w, "1", 20, 1, 1, 1)
	put(w, "1", 30, Missing, 2, Missing)
	assert.Equal(t, 3, Evaluate(w, 3, 0))
}

func TestEvaluateNeverRevives(t *testing.T) {
	w := NewWindow(3, 3)
	put(w, "1", 10, 0, 1, 2).State = Rejected
	put(w, "1", 20, 1, 1, 1).State = Emitted
	put(w, "1", 30, 2, 0, 1)

	assert.Equal(t, 1, Evaluate(w, 3, 0.5))
	assert.Equal(t, []State{Rejected, Emitted, Kept}, states(w))
}

func TestEvaluateSkipsInactive(t *testing.T) {
	w := NewWindow(3, 3)
	put(w, "1", 10, 0, 1, 2)
	s := w.Begin(Locus{Chrom: "1", Pos: 20})
	copy(s.Dosage, []int8{0, 1, 2})
	w.Tombstone()
	w.Advance()
	put(w, "1", 30, 2, 2, 2)

	assert.Equal(t, 2, Evaluate(w, 3, 0.5))
	assert.Equal(t, Kept, w.Site(0).State)
	assert.Equal(t, Pending, w.Site(1).State)
}

func TestEvaluateLimit(t *testing.T) {
	w := NewWindow(3, 3)
	put(w, "1", 10, 0, 1, 2)
	put(w, "1", 20, 1, 1, 1)
	put(w, "1", 30, 0, 1, 2)

	assert.Equal(t, 2, Evaluate(w, 2, 0.5))
	assert.Equal(t, []State{Kept, Kept, Pending}, states(w))
	assert.Equal(t, 2, Evaluate(w, 3, 0.5))
	assert.Equal(t, []State{Rejected, Kept, Kept}, states(w))
}
