package service

import (
	"fmt"
	"sort"
	"sync"

	"github.com/agbru/nbase/pkg/nbase"
)

// Result is the outcome of an operation. Value is set by every operation but
// the comparisons, which set Ordering instead. Remainder is only set by
// divmod.
type Result struct {
	Op        string
	Value     *nbase.Integer
	Remainder *nbase.Integer
	Ordering  *int
}

// Target is where "convert" sends its operand. An empty Charset keeps the
// operand's charset when it is long enough, then tries the default one.
type Target struct {
	Base    int
	Charset string
}

// OpFunc implements an operation over already parsed operands.
type OpFunc func(args []*nbase.Integer, target Target) (Result, error)

// Op describes a registered operation.
type Op struct {
	// Name is the identifier used on the command line and in requests.
	Name string
	// Arity is the number of operands.
	Arity int
	// Summary is a one-line help text.
	Summary string
	// Fn performs the operation.
	Fn OpFunc
}

// Registry is a thread-safe set of operations.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]Op
}

// NewRegistry creates a Registry with the standard operations registered:
// add, sub, mul, div, mod, divmod, pow, neg, abs, sign, cmp, cmpabs and
// convert.
func NewRegistry() *Registry {
	r := &Registry{ops: make(map[string]Op)}
	for _, op := range standardOps() {
		_ = r.Register(op)
	}
	return r
}

// Register adds or replaces an operation.
//
// Parameters:
//   - op: The operation. Name, Fn and a positive Arity are required.
//
// Returns:
//   - error: An error if op is incomplete.
func (r *Registry) Register(op Op) error {
	if op.Name == "" || op.Fn == nil || op.Arity < 1 {
		return fmt.Errorf("incomplete operation %q", op.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops[op.Name] = op
	return nil
}

// Get returns the operation registered under name.
func (r *Registry) Get(name string) (Op, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.ops[name]
	return op, ok
}

// List returns the registered operations sorted by name.
func (r *Registry) List() []Op {
	r.mu.RLock()
	out := make([]Op, 0, len(r.ops))
	for _, op := range r.ops {
		out = append(out, op)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func binary(name, summary string, fn func(a, b *nbase.Integer) (*nbase.Integer, error)) Op {
	return Op{Name: name, Arity: 2, Summary: summary, Fn: func(args []*nbase.Integer, _ Target) (Result, error) {
		v, err := fn(args[0], args[1])
		return Result{Op: name, Value: v}, err
	}}
}

func unary(name, summary string, fn func(a *nbase.Integer) *nbase.Integer) Op {
	return Op{Name: name, Arity: 1, Summary: summary, Fn: func(args []*nbase.Integer, _ Target) (Result, error) {
		return Result{Op: name, Value: fn(args[0])}, nil
	}}
}

func comparison(name, summary string, fn func(a, b *nbase.Integer) (int, error)) Op {
	return Op{Name: name, Arity: 2, Summary: summary, Fn: func(args []*nbase.Integer, _ Target) (Result, error) {
		c, err := fn(args[0], args[1])
		if err != nil {
			return Result{}, err
		}
		return Result{Op: name, Ordering: &c}, nil
	}}
}

func standardOps() []Op {
	return []Op{
		binary("add", "a + b", func(a, b *nbase.Integer) (*nbase.Integer, error) { return a.Add(b) }),
		binary("sub", "a - b", func(a, b *nbase.Integer) (*nbase.Integer, error) { return a.Sub(b) }),
		binary("mul", "a * b", func(a, b *nbase.Integer) (*nbase.Integer, error) { return a.Mul(b) }),
		binary("div", "a / b, truncated toward zero", func(a, b *nbase.Integer) (*nbase.Integer, error) { return a.Div(b) }),
		binary("mod", "remainder of a / b, sign of a", func(a, b *nbase.Integer) (*nbase.Integer, error) { return a.Mod(b) }),
		binary("pow", "a ** b, b >= 0", func(a, b *nbase.Integer) (*nbase.Integer, error) { return a.Pow(b) }),
		{Name: "divmod", Arity: 2, Summary: "quotient and remainder of a / b", Fn: func(args []*nbase.Integer, _ Target) (Result, error) {
			q, r, err := args[0].DivMod(args[1])
			return Result{Op: "divmod", Value: q, Remainder: r}, err
		}},
		unary("neg", "-a", (*nbase.Integer).Neg),
		unary("abs", "|a|", (*nbase.Integer).Abs),
		unary("sign", "-1, 0 or 1", func(a *nbase.Integer) *nbase.Integer { return a.Repr().FromInt64(int64(a.Sign())) }),
		comparison("cmp", "-1, 0 or 1 comparing a and b", func(a, b *nbase.Integer) (int, error) { return a.Cmp(b) }),
		comparison("cmpabs", "-1, 0 or 1 comparing |a| and |b|", func(a, b *nbase.Integer) (int, error) { return a.CmpAbs(b) }),
		{Name: "convert", Arity: 1, Summary: "a written in another base", Fn: convert},
	}
}

func convert(args []*nbase.Integer, t Target) (Result, error) {
	x := args[0]
	if t.Charset == "" {
		v, err := x.ConvertTo(t.Base)
		return Result{Op: "convert", Value: v}, err
	}
	r, err := x.Repr().Factory().Repr(t.Base, t.Charset)
	if err != nil {
		return Result{}, err
	}
	v, err := x.Rebase(r)
	return Result{Op: "convert", Value: v}, err
}
