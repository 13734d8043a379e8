// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package polyld

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"
)

func randomDosages(r *rand.Rand, n, ploidy int, missing float64) []int8 {
	v := make([]int8, n)
	for i := range v {
		if r.Float64() < missing {
			v[i] = Missing
			continue
		}
		v[i] = int8(r.Intn(ploidy + 1))
	}
	return v
}

func TestR2Perfect(t *testing.T) {
	assert.Equal(t, 1.0, R2([]int8{0, 1, 2}, []int8{2, 1, 0}))
	assert.Equal(t, 1.0, R2([]int8{0, 1, 2}, []int8{0, 1, 2}))
	assert.Equal(t, 1.0, R2([]int8{0, 2, 4, 1}, []int8{0, 1, 2, Missing}))
}

func TestR2Constant(t *testing.T) {
	assert.True(t, math.IsNaN(R2([]int8{0, 1, 2}, []int8{0, 0, 0})))
	assert.True(t, math.IsNaN(R2([]int8{1, 1, 1}, []int8{2, 1, 0})))
	// only one individual is called in both
	assert.True(t, math.IsNaN(R2([]int8{0, Missing, 2}, []int8{Missing, 1, 0})))
	assert.True(t, math.IsNaN(R2(nil, nil)))
}

func TestR2MissingExcluded(t *testing.T) {
	a := []int8{0, 1, 2, Missing, 1}
	b := []int8{0, 2, 2, 1, Missing}
	assert.InDelta(t, R2([]int8{0, 1, 2}, []int8{0, 2, 2}), R2(a, b), 1e-12)
}

func TestR2Properties(t *testing.T) {
	r := rand.New(rand.NewSource(77)) //intentionally fixed seed
	for i := 0; i < 500; i++ {
		a := randomDosages(r, 20, 4, 0.1)
		b := randomDosages(r, 20, 4, 0.1)
		ab, ba := R2(a, b), R2(b, a)
		if math.IsNaN(ab) {
			assert.True(t, math.IsNaN(ba))
			continue
		}
		assert.Equal(t, ab, ba, "r2 is not symmetric")
		assert.True(t, ab >= 0 && ab <= 1+1e-12, "r2 %g out of range", ab)
	}
}

func TestR2SelfCorrelation(t *testing.T) {
	r := rand.New(rand.NewSource(77))
	for i := 0; i < 200; i++ {
		a := randomDosages(r, 15, 8, 0)
		if math.IsNaN(R2(a, a)) {
			continue
		}
		assert.Equal(t, 1.0, R2(a, a))
	}
}

func TestR2MatchesPearson(t *testing.T) {
	r := rand.New(rand.NewSource(77))
	for i := 0; i < 200; i++ {
		a := randomDosages(r, 30, 2, 0)
		b := randomDosages(r, 30, 6, 0)
		got := R2(a, b)
		if math.IsNaN(got) {
			continue
		}
		x, y := make([]float64, len(a)), make([]float64, len(b))
		for j := range a {
			x[j], y[j] = float64(a[j]), float64(b[j])
		}
		c := stat.Correlation(x, y, nil)
		assert.InDelta(t, c*c, got, 1e-9)
	}
}

func TestExceeds(t *testing.T) {
	assert.True(t, Exceeds(0.5, 0.1))
	assert.False(t, Exceeds(0.1, 0.1))
	assert.False(t, Exceeds(math.NaN(), 0))
	assert.False(t, Exceeds(math.NaN(), -1))
	assert.True(t, Exceeds(1, 0.99))
}

func BenchmarkR2(b *testing.B) {
	r := rand.New(rand.NewSource(77))
	x := randomDosages(r, 500, 4, 0.05)
	y := randomDosages(r, 500, 4, 0.05)
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		R2(x, y)
	}
}
