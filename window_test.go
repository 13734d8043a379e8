// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package polyld

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// put fills the slot under the cursor, places it and advances.
func put(w *Window, chrom string, pos int, dosage ...int8) *Site {
	s := w.Begin(Locus{Chrom: chrom, Pos: pos})
	copy(s.Dosage, dosage)
	w.Place()
	w.Advance()
	return s
}

func TestWindowBasic(t *testing.T) {
	w := NewWindow(3, 2)
	assert.Equal(t, 3, w.Len())
	assert.Equal(t, 2, w.Individuals())
	assert.Equal(t, 0, w.Cursor())
	assert.Equal(t, 0, w.Active())

	s := w.Begin(Locus{Chrom: "1", Pos: 10})
	assert.Equal(t, Pending, s.State)
	assert.Len(t, s.Dosage, 2)
	assert.False(t, w.Occupied(0))
	w.Place()
	assert.True(t, w.Occupied(0))
	w.Advance()
	assert.Equal(t, 1, w.Cursor())

	// a dropped site leaves its slot for the next one
	w.Begin(Locus{Chrom: "1", Pos: 20})
	w.Tombstone()
	assert.False(t, w.Occupied(1))
	assert.Equal(t, 1, w.Cursor())

	put(w, "1", 30)
	put(w, "1", 40)
	assert.Equal(t, 0, w.Cursor(), "cursor did not wrap")
	assert.Equal(t, 3, w.Active())
	assert.Equal(t, Locus{Chrom: "1", Pos: 30}, w.Site(1).Locus)

	w.Reset()
	assert.Equal(t, 0, w.Active())
	assert.Equal(t, 0, w.Cursor())
}

func TestWindowBeginClears(t *testing.T) {
	w := NewWindow(1, 3)
	s := put(w, "1", 1, 2, 1, Missing)
	s.State = Kept
	s.Record = append(s.Record, "1\t1"...)

	s = w.Begin(Locus{Chrom: "1", Pos: 2})
	assert.Equal(t, []int8{0, 0, 0}, s.Dosage)
	assert.Equal(t, Pending, s.State)
	assert.Empty(t, s.Record)
	assert.False(t, w.Occupied(0))
}

func TestWindowVacate(t *testing.T) {
	w := NewWindow(2, 3)
	put(w, "1", 1, 2, 1, 0).State = Kept
	put(w, "1", 2, 1, 1, 2)
	w.Vacate()
	s := w.Site(0)
	assert.Equal(t, []int8{0, 0, 0}, s.Dosage)
	assert.Equal(t, Kept, s.State)
	assert.True(t, w.Occupied(0))
	assert.Equal(t, []int8{1, 1, 2}, w.Site(1).Dosage)
}

func TestWindowDosageViews(t *testing.T) {
	w := NewWindow(3, 2)
	a := put(w, "1", 1, 1, 1)
	b := put(w, "1", 2, 2, 2)
	assert.Equal(t, []int8{1, 1}, a.Dosage)
	assert.Equal(t, []int8{2, 2}, b.Dosage)

	// views are capped so growing one never spills into its neighbour
	grown := append(a.Dosage, 4)
	grown[0] = 3
	assert.Equal(t, []int8{1, 1}, a.Dosage)
	assert.Equal(t, []int8{2, 2}, b.Dosage)
}

func TestWindowEachActive(t *testing.T) {
	w := NewWindow(4, 1)
	put(w, "1", 1)
	w.Begin(Locus{Chrom: "1", Pos: 2})
	w.Tombstone()
	put(w, "1", 2)
	put(w, "1", 3)

	visit := func(from, to int) []int {
		var got []int
		w.EachActive(from, to, func(i int, s *Site) bool {
			got = append(got, s.Locus.Pos)
			return true
		})
		return got
	}
	assert.Equal(t, []int{1, 2, 3}, visit(0, 4))
	assert.Equal(t, []int{2, 3}, visit(1, 4))
	assert.Equal(t, []int{1}, visit(0, 1))
	assert.Equal(t, []int{1, 2, 3}, visit(0, 100))
	assert.Empty(t, visit(3, 4))

	n := 0
	w.EachActive(0, 4, func(int, *Site) bool {
		n++
		return false
	})
	assert.Equal(t, 1, n)
}

func TestWindowBytesBounded(t *testing.T) {
	w := NewWindow(5, 100)
	line := bytes.Repeat([]byte("0/1\t"), 100)
	fill := func(n int) {
		for i := 0; i < n; i++ {
			s := w.Begin(Locus{Chrom: "1", Pos: i})
			s.Record = append(s.Record, line...)
			w.Place()
			w.Advance()
		}
	}
	fill(5)
	before := w.Bytes()
	assert.GreaterOrEqual(t, before, uint64(500+5*len(line)))
	fill(10000)
	assert.Equal(t, before, w.Bytes())
}

func TestWindowPanics(t *testing.T) {
	assert.Panics(t, func() { NewWindow(0, 10) })
}

func TestWindowDebugDump(t *testing.T) {
	w := NewWindow(2, 1)
	put(w, "chr2", 77).State = Kept
	var buf bytes.Buffer
	w.DebugDump(&buf)
	out := buf.String()
	require.Contains(t, out, "chr2:77")
	assert.Contains(t, out, "kept")
	assert.Contains(t, out, ">    1")
}
