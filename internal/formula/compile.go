package formula

import (
	"fmt"
	"slices"

	"github.com/vk/sheetcalc/internal/operation"
	"github.com/vk/sheetcalc/internal/sheeterr"
	"github.com/vk/sheetcalc/internal/value"
)

// Func evaluates a compiled formula against the values of its references,
// given in the order reported by Compiled.Addresses.
type Func func(args []value.Value) (value.Value, error)

// Compiled is a parsed formula ready to be evaluated.
type Compiled struct {
	source    string
	addresses []string
	fn        Func
}

// Source returns the formula text the value was compiled from.
func (c *Compiled) Source() string { return c.source }

// Addresses returns the referenced identifiers, one entry per occurrence.
func (c *Compiled) Addresses() []string { return slices.Clone(c.addresses) }

// Eval evaluates the formula. It fails with a plain error when the number of
// arguments does not match Addresses.
func (c *Compiled) Eval(args []value.Value) (value.Value, error) {
	if len(args) != len(c.addresses) {
		return value.Value{}, fmt.Errorf("formula %q: expected %d arguments, got %d", c.source, len(c.addresses), len(args))
	}
	return c.fn(args)
}

// Compile parses src and builds its evaluator. Syntax problems and
// unsupported literals are reported as domain errors.
func Compile(src string) (*Compiled, error) {
	expr, err := Parse(src)
	if err != nil {
		return nil, err
	}
	b := &builder{}
	fn, err := b.build(expr)
	if err != nil {
		return nil, err
	}
	return &Compiled{source: src, addresses: References(expr), fn: fn}, nil
}

// builder turns an expression tree into a closure. Identifiers take argument
// positions in the order walk visits them.
type builder struct {
	next int
}

func (b *builder) build(e Expr) (Func, error) {
	switch n := e.(type) {
	case *Ident:
		pos := b.next
		b.next++
		return func(args []value.Value) (value.Value, error) {
			return args[pos], nil
		}, nil

	case *Literal:
		return b.literal(n)

	case *Unary:
		operand, err := b.build(n.Operand)
		if err != nil {
			return nil, err
		}
		apply := operation.ToDecimal
		if n.Op == OpSub {
			apply = operation.Negate
		}
		return func(args []value.Value) (value.Value, error) {
			v, err := operand(args)
			if err != nil {
				return value.Value{}, err
			}
			return apply(v)
		}, nil

	case *Binary:
		left, err := b.build(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := b.build(n.Right)
		if err != nil {
			return nil, err
		}
		apply, err := binaryOperation(n.Op)
		if err != nil {
			return nil, err
		}
		return func(args []value.Value) (value.Value, error) {
			l, err := left(args)
			if err != nil {
				return value.Value{}, err
			}
			r, err := right(args)
			if err != nil {
				return value.Value{}, err
			}
			return apply(l, r)
		}, nil

	default:
		return nil, sheeterr.Syntaxf("invalid type: %T", e)
	}
}

func (b *builder) literal(n *Literal) (Func, error) {
	switch n.Kind {
	case LiteralNumber, LiteralString:
		v := value.ParseLiteral(n.Raw)
		return func([]value.Value) (value.Value, error) { return v, nil }, nil
	case LiteralBool, LiteralNull:
		return nil, sheeterr.ValueTypef("invalid value: %s", n.Raw)
	default:
		return nil, sheeterr.Syntaxf("invalid type: literal %q", n.Raw)
	}
}

func binaryOperation(op Operator) (func(a, b value.Value) (value.Value, error), error) {
	switch op {
	case OpAdd:
		return operation.Add, nil
	case OpSub:
		return operation.Subtract, nil
	case OpMul:
		return operation.Multiply, nil
	case OpDiv:
		return operation.Divide, nil
	default:
		return nil, sheeterr.Syntaxf("invalid operator: %s", op)
	}
}
