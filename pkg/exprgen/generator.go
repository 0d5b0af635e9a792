package exprgen

import "fmt"

// ExprGenerator synthesizes random, grammar-correct expression trees
// according to the configured probability weights. One generator drives
// one randomness source; independent runs in parallel workers each need
// their own source.
type ExprGenerator struct {
	cfg Options
	rng GeneratorRng
}

func NewExprGenerator(cfg Options, rng GeneratorRng) *ExprGenerator {
	return &ExprGenerator{cfg: cfg, rng: rng}
}

// Generate produces one expression tree: a fresh weight vector from the
// configured initial weights, then a single recursive step.
//
// Termination rests on dampening alone. A recursive kind's own weight is
// multiplied by its factor every time it is chosen along a path, so the
// relative mass of leaf kinds grows with depth and the recursion ends
// with probability 1. There is no hard depth cap, and a dampening factor
// of 1.0 on a recursive kind forfeits the bound.
func (g *ExprGenerator) Generate() Expr {
	return g.genWithWeights(initialWeights(&g.cfg))
}

func (g *ExprGenerator) genWithWeights(weights Weights) Expr {
	// weights is already this call's own copy; dampen only the chosen
	// kind's slot before handing it down.
	kind := g.rng.GenExprKind(weights)
	weights.expr[kind] *= g.cfg.ExprKindWeights[kind].DampeningFactor

	var expr Expr
	switch kind {
	case KindIntegerConstant:
		expr = g.genIntegerConstant()
	case KindDoubleConstant:
		expr = g.genDoubleConstant()
	case KindVariableExpr:
		expr = g.genVariableExpr()
	case KindBinaryExpr:
		expr = g.genBinaryExpr(weights)
	case KindUnaryExpr:
		expr = g.genUnaryExpr(weights)
	default:
		panic(fmt.Sprintf("exprgen: unhandled expression kind %d", kind))
	}

	return g.maybeParenthesized(expr)
}

func (g *ExprGenerator) genIntegerConstant() Expr {
	return &IntegerConstant{Value: g.rng.GenU64(g.cfg.IntConstMin, g.cfg.IntConstMax)}
}

func (g *ExprGenerator) genDoubleConstant() Expr {
	return &DoubleConstant{Value: g.rng.GenDouble(g.cfg.DoubleConstMin, g.cfg.DoubleConstMax)}
}

func (g *ExprGenerator) genVariableExpr() Expr {
	return &VariableExpr{Name: g.cfg.VarName}
}

func (g *ExprGenerator) genBinaryExpr(weights Weights) Expr {
	op := g.rng.GenBinOp(g.cfg.BinOpMask)

	// Both children draw from the same dampened copy; dampening applies
	// per distinct draw, not shared mutably between the two.
	lhs := g.genWithWeights(weights)
	rhs := g.genWithWeights(weights)

	// The left child needs parens only when it binds strictly weaker
	// than the operator: `(3 + 4) * 5`, but `3 - 4 + 5` stays bare
	// because left-to-right parsing already groups it as intended.
	if lhs.Precedence() > op.Precedence() {
		lhs = &ParenthesizedExpr{Inner: lhs}
	}

	// The right child is wrapped on weaker-or-equal precedence. Equal
	// precedence must wrap too: left-associativity would re-associate
	// `3 - (4 + 5)` into `3 - 4 + 5`, a different tree.
	if rhs.Precedence() >= op.Precedence() {
		rhs = &ParenthesizedExpr{Inner: rhs}
	}

	return &BinaryExpr{Lhs: lhs, Op: op, Rhs: rhs}
}

func (g *ExprGenerator) genUnaryExpr(weights Weights) Expr {
	operand := g.genWithWeights(weights)
	op := g.rng.GenUnOp(g.cfg.UnOpMask)

	if operand.Precedence() > op.Precedence() {
		operand = &ParenthesizedExpr{Inner: operand}
	}

	return &UnaryExpr{Op: op, Operand: operand}
}

func (g *ExprGenerator) maybeParenthesized(expr Expr) Expr {
	if g.rng.GenParenthesize(g.cfg.ParenthesizeProb) {
		return &ParenthesizedExpr{Inner: expr}
	}
	return expr
}
