package exprgen

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRngDeterministic(t *testing.T) {
	a := NewDefaultRng(42)
	b := NewDefaultRng(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.GenU64(0, math.MaxUint64), b.GenU64(0, math.MaxUint64), "draw %d diverged", i)
	}

	c := NewDefaultRng(43)
	same := true
	a = NewDefaultRng(42)
	for i := 0; i < 100; i++ {
		if a.GenU64(0, math.MaxUint64) != c.GenU64(0, math.MaxUint64) {
			same = false
		}
	}
	assert.False(t, same, "different seeds should diverge")
}

func TestGenU64InclusiveRange(t *testing.T) {
	r := NewDefaultRng(7)
	seen := map[uint64]bool{}
	for i := 0; i < 1000; i++ {
		v := r.GenU64(5, 7)
		require.GreaterOrEqual(t, v, uint64(5))
		require.LessOrEqual(t, v, uint64(7))
		seen[v] = true
	}
	assert.Len(t, seen, 3, "all values of an inclusive range should occur")

	// Degenerate single-value range.
	for i := 0; i < 10; i++ {
		assert.Equal(t, uint64(9), r.GenU64(9, 9))
	}
}

func TestGenDoubleRange(t *testing.T) {
	r := NewDefaultRng(7)
	for i := 0; i < 1000; i++ {
		v := r.GenDouble(1.5, 2.5)
		require.GreaterOrEqual(t, v, 1.5)
		require.LessOrEqual(t, v, 2.5)
	}
}

func TestPickNthSetBitUniform(t *testing.T) {
	// Bits 0, 1 and 3 set; bit 2 must never come out.
	mask := BinOpMask(0b1011)
	r := NewDefaultRng(1)
	counts := map[BinOp]int{}
	const trials = 30000
	for i := 0; i < trials; i++ {
		op := r.GenBinOp(mask)
		require.NotEqual(t, BinOp(2), op, "unset bit selected")
		counts[op]++
	}
	for _, op := range []BinOp{0, 1, 3} {
		assert.InDelta(t, 1.0/3.0, float64(counts[op])/trials, 0.02, "bit %d frequency", op)
	}
}

func TestWeightedChoiceProportions(t *testing.T) {
	r := NewDefaultRng(1)
	hits := 0
	const trials = 30000
	for i := 0; i < trials; i++ {
		idx := r.weightedChoice([]float64{1.0, 3.0})
		require.Contains(t, []int{0, 1}, idx)
		if idx == 1 {
			hits++
		}
	}
	assert.InDelta(t, 0.75, float64(hits)/trials, 0.02)
}

func TestWeightedChoiceSkipsZeroSlots(t *testing.T) {
	r := NewDefaultRng(3)
	for i := 0; i < 1000; i++ {
		assert.Equal(t, 1, r.weightedChoice([]float64{0, 2, 0}))
	}
}

func TestSelectionPreconditionViolationsPanic(t *testing.T) {
	r := NewDefaultRng(0)
	assert.Panics(t, func() { r.GenBinOp(0) })
	assert.Panics(t, func() { r.GenUnOp(0) })
	assert.Panics(t, func() { r.weightedChoice([]float64{0, 0, 0}) })
	assert.Panics(t, func() { r.GenExprKind(Weights{}) })
	assert.Panics(t, func() { r.GenTypeKind(Weights{}) })
	assert.Panics(t, func() { r.GenU64(3, 2) })
}

func TestGenParenthesizeEdges(t *testing.T) {
	r := NewDefaultRng(0)
	for i := 0; i < 200; i++ {
		assert.False(t, r.GenParenthesize(0))
	}
	for i := 0; i < 200; i++ {
		assert.True(t, r.GenParenthesize(1))
	}
}

func TestGenCvQualifiersIndependent(t *testing.T) {
	r := NewDefaultRng(11)
	seen := map[CvQualifiers]int{}
	for i := 0; i < 2000; i++ {
		seen[r.GenCvQualifiers(0.5, 0.5)]++
	}
	for _, q := range []CvQualifiers{CvNone, CvConst, CvVolatile, CvConst | CvVolatile} {
		assert.Positive(t, seen[q], "qualifier combination %v never drawn", q)
	}

	for i := 0; i < 100; i++ {
		assert.Equal(t, CvConst|CvVolatile, r.GenCvQualifiers(1, 1))
		assert.Equal(t, CvNone, r.GenCvQualifiers(0, 0))
	}
}
