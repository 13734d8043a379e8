// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package polyld

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocusCompare(t *testing.T) {
	for _, tc := range []struct {
		a, b Locus
		want int
	}{
		{Locus{"1", 10}, Locus{"1", 20}, -1},
		{Locus{"1", 20}, Locus{"1", 10}, 1},
		{Locus{"1", 10}, Locus{"1", 10}, 0},
		{Locus{"1", 900}, Locus{"2", 1}, -1},
		{Locus{"10", 1}, Locus{"2", 1}, -1},
		{Locus{"chr2", 1}, Locus{"chr10", 1}, 1},
	} {
		assert.Equal(t, tc.want, tc.a.Compare(tc.b), "%s vs %s", tc.a, tc.b)
	}
	assert.Equal(t, "chr7:1234", Locus{"chr7", 1234}.String())
}

func TestOrder(t *testing.T) {
	var o Order
	assert.NoError(t, o.Check(Locus{"1", 5}))
	assert.NoError(t, o.Check(Locus{"1", 5}))
	assert.NoError(t, o.Check(Locus{"1", 6}))
	assert.NoError(t, o.Check(Locus{"2", 1}))
	err := o.Check(Locus{"1", 7})
	assert.ErrorIs(t, err, ErrUnsorted)
	assert.Contains(t, err.Error(), "1:7 follows 2:1")
}
