// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package vcf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	polyld "github.com/facebookincubator/go-polyld"
)

func TestSiteList(t *testing.T) {
	s, err := ReadSiteList(strings.NewReader("# chrom\tpos\n1\t10\n1\t30\textra\n\n2\t5\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())

	for _, tc := range []struct {
		chrom string
		pos   int
		want  bool
	}{
		{"1", 5, false},
		{"1", 10, true},
		{"1", 20, false},
		{"1", 30, true},
		{"1", 40, false},
		{"2", 1, false},
		{"2", 5, true},
		{"3", 5, false},
	} {
		assert.Equal(t, tc.want, s.Contains(polyld.Locus{Chrom: tc.chrom, Pos: tc.pos}), "%s:%d", tc.chrom, tc.pos)
	}
}

func TestSiteListLarge(t *testing.T) {
	var sb strings.Builder
	for i := 1; i <= 5000; i++ {
		fmt.Fprintf(&sb, "chr1\t%d\n", i*3)
	}
	path := filepath.Join(t.TempDir(), "list.sites")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))

	s, err := LoadSiteList(path)
	require.NoError(t, err)
	found := 0
	for pos := 1; pos <= 15000; pos++ {
		if s.Contains(polyld.Locus{Chrom: "chr1", Pos: pos}) {
			assert.Zero(t, pos%3, "%d is not listed", pos)
			found++
		}
	}
	assert.Equal(t, 5000, found)
}

func TestSiteListErrors(t *testing.T) {
	_, err := ReadSiteList(strings.NewReader("1\t30\n1\t10\n"))
	assert.ErrorIs(t, err, polyld.ErrUnsorted)
	assert.Contains(t, err.Error(), "sort -k1,1 -k2,2n")

	_, err = ReadSiteList(strings.NewReader("1 10\n"))
	assert.Error(t, err)

	_, err = ReadSiteList(strings.NewReader("1\tx\n"))
	assert.Error(t, err)

	_, err = LoadSiteList(filepath.Join(t.TempDir(), "missing.sites"))
	assert.Error(t, err)
}

func BenchmarkSiteListContains(b *testing.B) {
	var sb strings.Builder
	for i := 1; i <= 100000; i++ {
		fmt.Fprintf(&sb, "chr1\t%d\n", i*10)
	}
	list := sb.String()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		b.StopTimer()
		s, _ := ReadSiteList(strings.NewReader(list))
		b.StartTimer()
		for pos := 1; pos <= 1000000; pos += 7 {
			s.Contains(polyld.Locus{Chrom: "chr1", Pos: pos})
		}
	}
}
