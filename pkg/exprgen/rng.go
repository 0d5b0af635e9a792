package exprgen

import (
	"fmt"
	"math/bits"
)

// GeneratorRng is the randomness-source contract consumed by the
// generation engine. A deterministic substitute can stand in for the
// default engine in tests without touching the generation algorithm.
type GeneratorRng interface {
	// GenU64 and GenDouble draw uniformly from the inclusive range
	// [min, max].
	GenU64(min, max uint64) uint64
	GenDouble(min, max float64) float64

	// GenBinOp and GenUnOp pick uniformly among the set bits of the
	// mask. The mask must be non-empty.
	GenBinOp(mask BinOpMask) BinOp
	GenUnOp(mask UnOpMask) UnOp

	// GenCvQualifiers performs two independent Bernoulli draws, one per
	// qualifier.
	GenCvQualifiers(constProb, volatileProb float64) CvQualifiers

	// GenParenthesize is a Bernoulli draw with the given probability.
	GenParenthesize(prob float64) bool

	// GenExprKind and GenTypeKind draw an index proportionally to the
	// corresponding weight vector. The vector's sum must be positive.
	GenExprKind(w Weights) ExprKind
	GenTypeKind(w Weights) TypeKind
}

const (
	lcgA    uint64 = 0x5DEECE66D
	lcgC    uint64 = 0xB
	lcgMask uint64 = (1 << 48) - 1
)

// DefaultRng backs every draw with a single srand48/lrand48-compatible
// LCG engine. Every draw advances the engine state, so a generation run
// is fully determined by the seed plus the sequence of draw call sites.
type DefaultRng struct {
	state uint64
}

func NewDefaultRng(seed uint64) *DefaultRng {
	// srand48 semantics.
	return &DefaultRng{state: ((seed << 16) + 0x330E) & lcgMask}
}

func (r *DefaultRng) next48() uint64 {
	r.state = (lcgA*r.state + lcgC) & lcgMask
	return r.state
}

func (r *DefaultRng) next31() uint32 {
	return uint32(r.next48() >> 17)
}

func (r *DefaultRng) next64() uint64 {
	return r.next48()<<16 ^ r.next48()
}

// nextFloat returns a uniform draw in [0, 1), drand48-style.
func (r *DefaultRng) nextFloat() float64 {
	return float64(r.next48()) / float64(1<<48)
}

func (r *DefaultRng) upto(n uint32) uint32 {
	if n == 0 {
		return 0
	}
	return r.next31() % n
}

func (r *DefaultRng) bernoulli(p float64) bool {
	return r.nextFloat() < p
}

// weightedChoice draws an index proportionally to the given weights: a
// uniform draw in [0, sum) and the first index whose cumulative weight
// exceeds it. A non-positive sum is a configuration bug and panics.
func (r *DefaultRng) weightedChoice(weights []float64) int {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 {
		panic(fmt.Sprintf("exprgen: weighted choice over non-positive weight sum %v", weights))
	}
	val := r.nextFloat() * sum
	running := 0.0
	for i, w := range weights {
		running += w
		if val < running {
			return i
		}
	}
	// val lies in [0, sum) and running reaches sum on the last index, so
	// the loop only falls through when every weight is zero, which the
	// sum check above rejects.
	panic("exprgen: weighted choice fell through")
}

// pickNthSetBit picks uniformly among the set positions of mask: a draw
// in [1, popcount], then a scan in increasing index order until the
// running count of set bits matches the draw. The mask must be non-empty.
func (r *DefaultRng) pickNthSetBit(mask uint32) int {
	count := bits.OnesCount32(mask)
	if count == 0 {
		panic("exprgen: operator mask has no bits set")
	}
	choice := int(r.upto(uint32(count))) + 1

	runningOnes := 0
	for i := 0; i < 32; i++ {
		if mask&(1<<uint(i)) != 0 {
			runningOnes++
		}
		if runningOnes == choice {
			return i
		}
	}
	panic("exprgen: set bit scan fell through")
}

func (r *DefaultRng) GenU64(min, max uint64) uint64 {
	if min > max {
		panic(fmt.Sprintf("exprgen: inverted u64 range [%d, %d]", min, max))
	}
	span := max - min + 1
	if span == 0 {
		// min=0, max=MaxUint64: the whole domain.
		return r.next64()
	}
	return min + r.next64()%span
}

func (r *DefaultRng) GenDouble(min, max float64) float64 {
	if min > max {
		panic(fmt.Sprintf("exprgen: inverted double range [%g, %g]", min, max))
	}
	return min + r.nextFloat()*(max-min)
}

func (r *DefaultRng) GenBinOp(mask BinOpMask) BinOp {
	return BinOp(r.pickNthSetBit(uint32(mask)))
}

func (r *DefaultRng) GenUnOp(mask UnOpMask) UnOp {
	return UnOp(r.pickNthSetBit(uint32(mask)))
}

func (r *DefaultRng) GenCvQualifiers(constProb, volatileProb float64) CvQualifiers {
	q := CvNone
	if r.bernoulli(constProb) {
		q |= CvConst
	}
	if r.bernoulli(volatileProb) {
		q |= CvVolatile
	}
	return q
}

func (r *DefaultRng) GenParenthesize(prob float64) bool {
	return r.bernoulli(prob)
}

func (r *DefaultRng) GenExprKind(w Weights) ExprKind {
	return ExprKind(r.weightedChoice(w.ExprWeights()))
}

func (r *DefaultRng) GenTypeKind(w Weights) TypeKind {
	return TypeKind(r.weightedChoice(w.TypeWeights()))
}
