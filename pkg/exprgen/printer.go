package exprgen

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders an expression tree to C-style source text. Parentheses
// come only from ParenthesizedExpr nodes; the printer adds none of its
// own.
func Print(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e Expr) {
	switch e := e.(type) {
	case *IntegerConstant:
		b.WriteString(strconv.FormatUint(e.Value, 10))
	case *DoubleConstant:
		b.WriteString(formatDouble(e.Value))
	case *VariableExpr:
		b.WriteString(e.Name)
	case *UnaryExpr:
		b.WriteString(e.Op.String())
		// `- -5` not `--5`: adjacent sign operators would lex as a
		// decrement token.
		if inner, ok := e.Operand.(*UnaryExpr); ok && signOp(e.Op) && signOp(inner.Op) {
			b.WriteByte(' ')
		}
		writeExpr(b, e.Operand)
	case *BinaryExpr:
		writeExpr(b, e.Lhs)
		b.WriteByte(' ')
		b.WriteString(e.Op.String())
		b.WriteByte(' ')
		writeExpr(b, e.Rhs)
	case *ParenthesizedExpr:
		b.WriteByte('(')
		writeExpr(b, e.Inner)
		b.WriteByte(')')
	default:
		panic(fmt.Sprintf("exprgen: unhandled expression node %T", e))
	}
}

func signOp(op UnOp) bool {
	return op == UnPlus || op == UnNeg
}

// formatDouble keeps the shortest representation that round-trips the
// value, with a trailing ".0" forced onto integral values so the literal
// stays a double on re-parse.
func formatDouble(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
