package exprgen

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WeightEntry is one row of the per-kind weight table: the slot's value
// at the start of a run and the multiplier applied to that slot each time
// the kind is chosen along a recursion path. Recursive kinds want a
// factor below 1; leaf kinds normally keep 1.
type WeightEntry struct {
	InitialWeight   float64 `yaml:"initial_weight"`
	DampeningFactor float64 `yaml:"dampening_factor"`
}

// Options is the canonical API-level configuration contract for
// generation. It is immutable for the lifetime of a run and safe to share
// read-only across concurrent runs.
//
// Dampening applies to the chosen kind's own weight slot only, never to
// sibling kinds at the same depth. Two recursive kinds can therefore
// drift apart in relative odds as depth grows when only one keeps being
// picked. That asymmetry is a deliberate bias knob, not an oversight.
type Options struct {
	Seed uint64 `yaml:"seed"`

	// Literal ranges, inclusive on both ends.
	IntConstMin    uint64  `yaml:"int_const_min"`
	IntConstMax    uint64  `yaml:"int_const_max"`
	DoubleConstMin float64 `yaml:"double_const_min"`
	DoubleConstMax float64 `yaml:"double_const_max"`

	// Enabled operators.
	BinOpMask BinOpMask `yaml:"bin_ops"`
	UnOpMask  UnOpMask  `yaml:"un_ops"`

	// Probabilities, each in [0, 1]. ConstProb and VolatileProb are
	// independent draws.
	ParenthesizeProb float64 `yaml:"parenthesize_prob"`
	ConstProb        float64 `yaml:"const_prob"`
	VolatileProb     float64 `yaml:"volatile_prob"`

	ExprKindWeights ExprKindTable `yaml:"expr_kind_weights"`
	TypeKindWeights TypeKindTable `yaml:"type_kind_weights"`

	// The single externally-supplied variable symbol expressions refer
	// to. Multiple variables are a configuration extension, not a
	// structural one.
	VarName string `yaml:"var_name"`
}

// ExprKindTable and TypeKindTable are index-aligned weight tables keyed
// by kind name in YAML for readable configs.
type ExprKindTable [NumExprKinds]WeightEntry

type TypeKindTable [NumTypeKinds]WeightEntry

func (t ExprKindTable) MarshalYAML() (interface{}, error) {
	out := make(map[string]WeightEntry, NumExprKinds)
	for i, e := range t {
		out[ExprKind(i).String()] = e
	}
	return out, nil
}

func (t *ExprKindTable) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]WeightEntry
	if err := value.Decode(&raw); err != nil {
		return err
	}
	for name, entry := range raw {
		found := false
		for i := 0; i < NumExprKinds; i++ {
			if ExprKind(i).String() == name {
				t[i] = entry
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown expression kind %q", name)
		}
	}
	return nil
}

func (t TypeKindTable) MarshalYAML() (interface{}, error) {
	out := make(map[string]WeightEntry, NumTypeKinds)
	for i, e := range t {
		out[TypeKind(i).String()] = e
	}
	return out, nil
}

func (t *TypeKindTable) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]WeightEntry
	if err := value.Decode(&raw); err != nil {
		return err
	}
	for name, entry := range raw {
		found := false
		for i := 0; i < NumTypeKinds; i++ {
			if TypeKind(i).String() == name {
				t[i] = entry
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown type kind %q", name)
		}
	}
	return nil
}

// Operator masks are spelled as token lists in YAML, e.g. ["+", "*", "<<"].

func (m BinOpMask) MarshalYAML() (interface{}, error) {
	tokens := make([]string, 0, m.Count())
	for op := BinOp(0); int(op) < NumBinOps; op++ {
		if m.Contains(op) {
			tokens = append(tokens, op.String())
		}
	}
	return tokens, nil
}

func (m *BinOpMask) UnmarshalYAML(value *yaml.Node) error {
	var tokens []string
	if err := value.Decode(&tokens); err != nil {
		return err
	}
	out := BinOpMask(0)
	for _, tok := range tokens {
		op, ok := binOpForToken(tok)
		if !ok {
			return fmt.Errorf("unknown binary operator %q", tok)
		}
		out |= BinOpMaskOf(op)
	}
	*m = out
	return nil
}

func (m UnOpMask) MarshalYAML() (interface{}, error) {
	tokens := make([]string, 0, m.Count())
	for op := UnOp(0); int(op) < NumUnOps; op++ {
		if m.Contains(op) {
			tokens = append(tokens, op.String())
		}
	}
	return tokens, nil
}

func (m *UnOpMask) UnmarshalYAML(value *yaml.Node) error {
	var tokens []string
	if err := value.Decode(&tokens); err != nil {
		return err
	}
	out := UnOpMask(0)
	for _, tok := range tokens {
		op, ok := unOpForToken(tok)
		if !ok {
			return fmt.Errorf("unknown unary operator %q", tok)
		}
		out |= UnOpMaskOf(op)
	}
	*m = out
	return nil
}

func binOpForToken(tok string) (BinOp, bool) {
	for i, t := range binOpTokens {
		if t == tok {
			return BinOp(i), true
		}
	}
	return 0, false
}

func unOpForToken(tok string) (UnOp, bool) {
	for i, t := range unOpTokens {
		if t == tok {
			return UnOp(i), true
		}
	}
	return 0, false
}

func Defaults() Options {
	return Options{
		Seed: 0,

		IntConstMin:    0,
		IntConstMax:    1000,
		DoubleConstMin: 0,
		DoubleConstMax: 10,

		BinOpMask: AllBinOps(),
		UnOpMask:  AllUnOps(),

		ParenthesizeProb: 0.2,
		ConstProb:        0.3,
		VolatileProb:     0.1,

		ExprKindWeights: ExprKindTable{
			KindIntegerConstant: {InitialWeight: 2, DampeningFactor: 1},
			KindDoubleConstant:  {InitialWeight: 1, DampeningFactor: 1},
			KindVariableExpr:    {InitialWeight: 1, DampeningFactor: 1},
			KindBinaryExpr:      {InitialWeight: 3, DampeningFactor: 0.4},
			KindUnaryExpr:       {InitialWeight: 1, DampeningFactor: 0.4},
		},
		TypeKindWeights: TypeKindTable{
			TypeScalar:  {InitialWeight: 3, DampeningFactor: 1},
			TypePointer: {InitialWeight: 1, DampeningFactor: 0.5},
		},

		VarName: "x",
	}
}

// Validate front-loads every generation precondition so that a run never
// trips a selection-primitive panic. Violations that reach a draw anyway
// are programming bugs, not recoverable errors.
func (o Options) Validate() error {
	if o.IntConstMin > o.IntConstMax {
		return fmt.Errorf("int_const_min (%d) cannot exceed int_const_max (%d)", o.IntConstMin, o.IntConstMax)
	}
	if o.DoubleConstMin > o.DoubleConstMax {
		return fmt.Errorf("double_const_min (%g) cannot exceed double_const_max (%g)", o.DoubleConstMin, o.DoubleConstMax)
	}
	// A negative double literal would re-parse as a unary minus applied
	// to a constant, breaking the round-trip contract.
	if o.DoubleConstMin < 0 {
		return fmt.Errorf("double_const_min must be non-negative, got %g", o.DoubleConstMin)
	}
	if o.BinOpMask.Count() == 0 && o.ExprKindWeights[KindBinaryExpr].InitialWeight > 0 {
		return fmt.Errorf("bin_ops is empty while binary_expr has weight %g", o.ExprKindWeights[KindBinaryExpr].InitialWeight)
	}
	if o.UnOpMask.Count() == 0 && o.ExprKindWeights[KindUnaryExpr].InitialWeight > 0 {
		return fmt.Errorf("un_ops is empty while unary_expr has weight %g", o.ExprKindWeights[KindUnaryExpr].InitialWeight)
	}
	for _, p := range []struct {
		name string
		val  float64
	}{
		{"parenthesize_prob", o.ParenthesizeProb},
		{"const_prob", o.ConstProb},
		{"volatile_prob", o.VolatileProb},
	} {
		if p.val < 0 || p.val > 1 {
			return fmt.Errorf("%s must be in [0,1], got %g", p.name, p.val)
		}
	}
	exprSum := 0.0
	for i, e := range o.ExprKindWeights {
		if e.InitialWeight < 0 {
			return fmt.Errorf("%s initial_weight must be non-negative, got %g", ExprKind(i), e.InitialWeight)
		}
		if e.DampeningFactor <= 0 || e.DampeningFactor > 1 {
			return fmt.Errorf("%s dampening_factor must be in (0,1], got %g", ExprKind(i), e.DampeningFactor)
		}
		exprSum += e.InitialWeight
	}
	if exprSum <= 0 {
		return fmt.Errorf("expression kind weights must have a positive sum")
	}
	typeSum := 0.0
	for i, e := range o.TypeKindWeights {
		if e.InitialWeight < 0 {
			return fmt.Errorf("%s initial_weight must be non-negative, got %g", TypeKind(i), e.InitialWeight)
		}
		if e.DampeningFactor <= 0 || e.DampeningFactor > 1 {
			return fmt.Errorf("%s dampening_factor must be in (0,1], got %g", TypeKind(i), e.DampeningFactor)
		}
		typeSum += e.InitialWeight
	}
	if typeSum <= 0 {
		return fmt.Errorf("type kind weights must have a positive sum")
	}
	if o.VarName == "" {
		return fmt.Errorf("var_name must not be empty")
	}
	return nil
}

// LoadOptions reads a YAML config file over the defaults, so partial
// configs only override what they mention.
func LoadOptions(path string) (Options, error) {
	o := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return o, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &o); err != nil {
		return o, fmt.Errorf("parse config %s: %w", path, err)
	}
	return o, nil
}

// DumpYAML renders the options as a YAML document, the inverse of
// LoadOptions.
func (o Options) DumpYAML() ([]byte, error) {
	return yaml.Marshal(o)
}
