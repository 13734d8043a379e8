// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package polyld

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsorted is returned when sites arrive out of (chromosome, position)
// order.
var ErrUnsorted = errors.New("input is not sorted by chromosome and position")

// Locus identifies a genomic position.  Pos is 1-based.
type Locus struct {
	Chrom string
	Pos   int
}

// Compare orders loci by chromosome name (byte order) and then numerically
// by position.  It returns -1, 0 or +1.
func (l Locus) Compare(o Locus) int {
	if c := strings.Compare(l.Chrom, o.Chrom); c != 0 {
		return c
	}
	switch {
	case l.Pos < o.Pos:
		return -1
	case l.Pos > o.Pos:
		return 1
	}
	return 0
}

func (l Locus) String() string {
	return fmt.Sprintf("%s:%d", l.Chrom, l.Pos)
}

// Order checks that loci arrive sorted.
type Order struct {
	last Locus
	seen bool
}

// Check records l and fails if it sorts before the previous locus.
func (o *Order) Check(l Locus) error {
	if o.seen && l.Compare(o.last) < 0 {
		return fmt.Errorf("%w: %s follows %s", ErrUnsorted, l, o.last)
	}
	o.last, o.seen = l, true
	return nil
}
