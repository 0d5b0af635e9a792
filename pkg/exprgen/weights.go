package exprgen

// Weights holds the two weight vectors driving kind selection, one slot
// per ExprKind and one per TypeKind. It is a value type on purpose: every
// recursive generation step receives its own copy, so dampening a slot for
// one subtree never leaks into a sibling's or an ancestor's view.
type Weights struct {
	expr [NumExprKinds]float64
	typ  [NumTypeKinds]float64
}

func (w *Weights) ExprWeight(k ExprKind) float64 { return w.expr[k] }
func (w *Weights) TypeWeight(k TypeKind) float64 { return w.typ[k] }

func (w *Weights) SetExprWeight(k ExprKind, v float64) { w.expr[k] = v }
func (w *Weights) SetTypeWeight(k TypeKind, v float64) { w.typ[k] = v }

// ExprWeights exposes the expr-kind vector for a categorical draw. The
// returned slice aliases the receiver; callers draw from it, they do not
// keep it.
func (w *Weights) ExprWeights() []float64 { return w.expr[:] }
func (w *Weights) TypeWeights() []float64 { return w.typ[:] }

// initialWeights seeds a fresh vector pair from the configured initial
// weights. Called once per top-level Generate.
func initialWeights(cfg *Options) Weights {
	var w Weights
	for i := 0; i < NumExprKinds; i++ {
		w.expr[i] = cfg.ExprKindWeights[i].InitialWeight
	}
	for i := 0; i < NumTypeKinds; i++ {
		w.typ[i] = cfg.TypeKindWeights[i].InitialWeight
	}
	return w
}
