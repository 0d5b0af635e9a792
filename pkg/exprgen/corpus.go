package exprgen

import (
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Snippet is one corpus item: the variable declaration context drawn for
// the run, the rendered expression, and the seed that reproduces both.
type Snippet struct {
	Seed     uint64
	TypeKind TypeKind
	Quals    CvQualifiers
	Decl     string
	ExprText string
	Tree     Expr
}

// Render emits the snippet as a standalone self-describing fragment,
// banner first so any corpus item can be reproduced on its own.
func (s Snippet) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "/* exprsmith seed %d */\n", s.Seed)
	b.WriteString(s.Decl)
	b.WriteByte('\n')
	b.WriteString(s.ExprText)
	b.WriteByte('\n')
	return b.String()
}

var (
	typeKindSpelling = [NumTypeKinds]string{"int ", "int *"}
	typeKindInit     = [NumTypeKinds]string{"1", "0"}
)

// BuildCorpus produces count snippets from cfg.Seed, one derived seed per
// snippet. Workers run in parallel up to the given bound, each owning its
// own randomness engine, so the result is identical for any worker count.
func BuildCorpus(cfg Options, count, workers int) ([]Snippet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, fmt.Errorf("corpus count must be at least 1")
	}
	if workers < 1 {
		workers = 1
	}

	snippets := make([]Snippet, count)
	var eg errgroup.Group
	eg.SetLimit(workers)
	for i := 0; i < count; i++ {
		i := i
		eg.Go(func() error {
			snippets[i] = buildSnippet(cfg, cfg.Seed+uint64(i))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return snippets, nil
}

// buildSnippet runs one generation: first the variable context (type kind
// from the type weight vector, qualifiers from their independent draws),
// then the expression tree itself.
func buildSnippet(cfg Options, seed uint64) Snippet {
	rng := NewDefaultRng(seed)

	tk := rng.GenTypeKind(initialWeights(&cfg))
	quals := rng.GenCvQualifiers(cfg.ConstProb, cfg.VolatileProb)
	decl := fmt.Sprintf("%s%s%s = %s;", quals, typeKindSpelling[tk], cfg.VarName, typeKindInit[tk])

	tree := NewExprGenerator(cfg, rng).Generate()
	return Snippet{
		Seed:     seed,
		TypeKind: tk,
		Quals:    quals,
		Decl:     decl,
		ExprText: Print(tree),
		Tree:     tree,
	}
}
