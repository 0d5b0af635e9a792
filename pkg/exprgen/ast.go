package exprgen

import "math/bits"

// ExprKind identifies a generation-side expression variant. The weight
// vector in Weights is index-aligned with these values.
type ExprKind int

const (
	KindIntegerConstant ExprKind = iota
	KindDoubleConstant
	KindVariableExpr
	KindBinaryExpr
	KindUnaryExpr

	NumExprKinds = int(KindUnaryExpr) + 1
)

var exprKindNames = [NumExprKinds]string{
	"integer_constant",
	"double_constant",
	"variable_expr",
	"binary_expr",
	"unary_expr",
}

func (k ExprKind) String() string {
	if k < 0 || int(k) >= NumExprKinds {
		return "unknown"
	}
	return exprKindNames[k]
}

// TypeKind is the parallel enumeration used for type-directed weighted
// choice. It is consumed the same way as ExprKind but against the second
// weight vector.
type TypeKind int

const (
	TypeScalar TypeKind = iota
	TypePointer

	NumTypeKinds = int(TypePointer) + 1
)

var typeKindNames = [NumTypeKinds]string{
	"scalar_type",
	"pointer_type",
}

func (k TypeKind) String() string {
	if k < 0 || int(k) >= NumTypeKinds {
		return "unknown"
	}
	return typeKindNames[k]
}

// BinOp is a binary operator token. All binary operators in this grammar
// are left-associative.
type BinOp int

const (
	BinPlus BinOp = iota
	BinMinus
	BinMult
	BinDiv
	BinMod
	BinLogicalAnd
	BinLogicalOr
	BinBitAnd
	BinBitOr
	BinBitXor
	BinShl
	BinShr
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe

	NumBinOps = int(BinGe) + 1
)

var binOpTokens = [NumBinOps]string{
	"+", "-", "*", "/", "%",
	"&&", "||",
	"&", "|", "^",
	"<<", ">>",
	"==", "!=", "<", "<=", ">", ">=",
}

// C operator precedence levels; a smaller value binds tighter.
var binOpPrecedence = [NumBinOps]int{
	6, 6, 5, 5, 5,
	14, 15,
	11, 13, 12,
	7, 7,
	10, 10, 9, 9, 9, 9,
}

func (op BinOp) String() string  { return binOpTokens[op] }
func (op BinOp) Precedence() int { return binOpPrecedence[op] }

// UnOp is a unary operator token. Every unary operator binds tighter than
// any binary operator.
type UnOp int

const (
	UnPlus UnOp = iota
	UnNeg
	UnLogicalNot
	UnBitNot

	NumUnOps = int(UnBitNot) + 1
)

// unaryPrecedence is the fixed precedence of all unary operators;
// loosestPrecedence is the weakest binary level in the table above.
const (
	unaryPrecedence   = 3
	loosestPrecedence = 15
)

var unOpTokens = [NumUnOps]string{"+", "-", "!", "~"}

func (op UnOp) String() string  { return unOpTokens[op] }
func (op UnOp) Precedence() int { return unaryPrecedence }

// BinOpMask is a bit set over BinOp values marking enabled operators.
// A mask handed to a selection draw must be non-empty; an empty mask is a
// configuration bug, not a runtime condition.
type BinOpMask uint32

func BinOpMaskOf(ops ...BinOp) BinOpMask {
	var m BinOpMask
	for _, op := range ops {
		m |= 1 << uint(op)
	}
	return m
}

func AllBinOps() BinOpMask { return 1<<uint(NumBinOps) - 1 }

func (m BinOpMask) Contains(op BinOp) bool { return m&(1<<uint(op)) != 0 }
func (m BinOpMask) Count() int             { return bits.OnesCount32(uint32(m)) }

// UnOpMask is the unary counterpart of BinOpMask.
type UnOpMask uint8

func UnOpMaskOf(ops ...UnOp) UnOpMask {
	var m UnOpMask
	for _, op := range ops {
		m |= 1 << uint(op)
	}
	return m
}

func AllUnOps() UnOpMask { return 1<<uint(NumUnOps) - 1 }

func (m UnOpMask) Contains(op UnOp) bool { return m&(1<<uint(op)) != 0 }
func (m UnOpMask) Count() int            { return bits.OnesCount8(uint8(m)) }

// CvQualifiers is a bit-flag combination of const/volatile. Const and
// volatile are drawn independently, so all four combinations occur.
type CvQualifiers uint8

const (
	CvNone     CvQualifiers = 0
	CvConst    CvQualifiers = 1 << 0
	CvVolatile CvQualifiers = 1 << 1
)

func (q CvQualifiers) HasConst() bool    { return q&CvConst != 0 }
func (q CvQualifiers) HasVolatile() bool { return q&CvVolatile != 0 }

// String renders the qualifiers as a declaration prefix, trailing space
// included when non-empty.
func (q CvQualifiers) String() string {
	s := ""
	if q.HasConst() {
		s += "const "
	}
	if q.HasVolatile() {
		s += "volatile "
	}
	return s
}

// Expr is the generation-side expression tree. Each compound variant
// exclusively owns its children; a tree is never mutated after
// construction. Precedence returns the node's binding strength (smaller
// binds tighter); leaves and parenthesized nodes never need wrapping.
type Expr interface {
	Precedence() int
	exprNode() // sealed marker
}

type IntegerConstant struct {
	Value uint64
}

type DoubleConstant struct {
	Value float64
}

type VariableExpr struct {
	Name string
}

type UnaryExpr struct {
	Op      UnOp
	Operand Expr
}

type BinaryExpr struct {
	Lhs Expr
	Op  BinOp
	Rhs Expr
}

type ParenthesizedExpr struct {
	Inner Expr
}

func (e *IntegerConstant) Precedence() int { return 0 }
func (e *DoubleConstant) Precedence() int { return 0 }
func (e *VariableExpr) Precedence() int { return 0 }
func (e *UnaryExpr) Precedence() int { return unaryPrecedence }
func (e *BinaryExpr) Precedence() int { return e.Op.Precedence() }
func (e *ParenthesizedExpr) Precedence() int { return 0 }

func (e *IntegerConstant) exprNode() {}
func (e *DoubleConstant) exprNode() {}
func (e *VariableExpr) exprNode() {}
func (e *UnaryExpr) exprNode() {}
func (e *BinaryExpr) exprNode() {}
func (e *ParenthesizedExpr) exprNode() {}
