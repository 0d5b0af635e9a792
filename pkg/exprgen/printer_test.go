package exprgen

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintFixedTrees(t *testing.T) {
	for _, tc := range []struct {
		name string
		tree Expr
		want string
	}{
		{
			name: "integer constant",
			tree: &IntegerConstant{Value: 42},
			want: "42",
		},
		{
			name: "integral double keeps a decimal point",
			tree: &DoubleConstant{Value: 3},
			want: "3.0",
		},
		{
			name: "fractional double",
			tree: &DoubleConstant{Value: 0.25},
			want: "0.25",
		},
		{
			name: "variable",
			tree: &VariableExpr{Name: "x"},
			want: "x",
		},
		{
			name: "binary chain",
			tree: &BinaryExpr{
				Lhs: &BinaryExpr{Lhs: &IntegerConstant{Value: 1}, Op: BinMinus, Rhs: &IntegerConstant{Value: 2}},
				Op:  BinPlus,
				Rhs: &VariableExpr{Name: "x"},
			},
			want: "1 - 2 + x",
		},
		{
			name: "parenthesized rhs",
			tree: &BinaryExpr{
				Lhs: &IntegerConstant{Value: 5},
				Op:  BinMult,
				Rhs: &ParenthesizedExpr{Inner: &BinaryExpr{
					Lhs: &IntegerConstant{Value: 3},
					Op:  BinPlus,
					Rhs: &IntegerConstant{Value: 4},
				}},
			},
			want: "5 * (3 + 4)",
		},
		{
			name: "unary over leaf",
			tree: &UnaryExpr{Op: UnBitNot, Operand: &VariableExpr{Name: "x"}},
			want: "~x",
		},
		{
			name: "stacked sign operators get a separating space",
			tree: &UnaryExpr{Op: UnNeg, Operand: &UnaryExpr{Op: UnNeg, Operand: &IntegerConstant{Value: 5}}},
			want: "- -5",
		},
		{
			name: "stacked logical not needs no space",
			tree: &UnaryExpr{Op: UnLogicalNot, Operand: &UnaryExpr{Op: UnLogicalNot, Operand: &VariableExpr{Name: "x"}}},
			want: "!!x",
		},
		{
			name: "shift with comparison context",
			tree: &BinaryExpr{
				Lhs: &ParenthesizedExpr{Inner: &BinaryExpr{
					Lhs: &VariableExpr{Name: "x"},
					Op:  BinShl,
					Rhs: &IntegerConstant{Value: 2},
				}},
				Op:  BinMult,
				Rhs: &IntegerConstant{Value: 7},
			},
			want: "(x << 2) * 7",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Print(tc.tree))
		})
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	for _, src := range []string{
		"",
		"1 +",
		"(1 + 2",
		"1 2",
		"* 3",
		"1 @ 2",
		"&& 1",
	} {
		_, err := Parse(src)
		assert.Error(t, err, "input %q", src)
	}
}

func TestParseRebuildsShape(t *testing.T) {
	tree, err := Parse("1 + (2 + x) * 3")
	require.NoError(t, err)
	require.Equal(t, &BinaryExpr{
		Lhs: &IntegerConstant{Value: 1},
		Op:  BinPlus,
		Rhs: &BinaryExpr{
			Lhs: &ParenthesizedExpr{Inner: &BinaryExpr{
				Lhs: &IntegerConstant{Value: 2},
				Op:  BinPlus,
				Rhs: &VariableExpr{Name: "x"},
			}},
			Op:  BinMult,
			Rhs: &IntegerConstant{Value: 3},
		},
	}, tree)
}

func TestParseLeftAssociativeChains(t *testing.T) {
	tree, err := Parse("1 - 2 + 3")
	require.NoError(t, err)
	require.Equal(t, &BinaryExpr{
		Lhs: &BinaryExpr{
			Lhs: &IntegerConstant{Value: 1},
			Op:  BinMinus,
			Rhs: &IntegerConstant{Value: 2},
		},
		Op:  BinPlus,
		Rhs: &IntegerConstant{Value: 3},
	}, tree)
}

// The core correctness contract: printing any generated tree and parsing
// the text back must reconstruct the identical tree, wrapper nodes and
// leaf values included.
func TestPrintParseRoundTrip(t *testing.T) {
	cfg := Defaults()
	for seed := uint64(0); seed < 300; seed++ {
		tree := NewExprGenerator(cfg, NewDefaultRng(seed)).Generate()
		text := Print(tree)
		parsed, err := Parse(text)
		require.NoError(t, err, "seed %d: %q did not parse", seed, text)
		require.Empty(t, cmp.Diff(tree, parsed), "seed %d: %q re-parsed differently", seed, text)
	}
}

func TestPrintParseRoundTripDoubleHeavy(t *testing.T) {
	cfg := Defaults()
	cfg.DoubleConstMin = 0.001
	cfg.DoubleConstMax = 1e7
	cfg.ExprKindWeights[KindDoubleConstant].InitialWeight = 5
	for seed := uint64(0); seed < 200; seed++ {
		tree := NewExprGenerator(cfg, NewDefaultRng(seed)).Generate()
		text := Print(tree)
		parsed, err := Parse(text)
		require.NoError(t, err, "seed %d: %q did not parse", seed, text)
		require.Empty(t, cmp.Diff(tree, parsed), "seed %d: %q re-parsed differently", seed, text)
	}
}
