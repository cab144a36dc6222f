package formula

import "github.com/hashicorp/hcl/v2"

// Expr is a node of the formula syntax tree. The set of node types is
// closed: Ident, Literal, Unary and Binary.
type Expr interface {
	Range() hcl.Range
	isExpr()
}

// Operator is an arithmetic operator.
type Operator uint8

const (
	OpAdd Operator = iota + 1
	OpSub
	OpMul
	OpDiv
)

func (o Operator) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "?"
	}
}

// LiteralKind tells which kind of constant a Literal holds.
type LiteralKind uint8

const (
	LiteralNumber LiteralKind = iota + 1
	LiteralString
	LiteralBool
	LiteralNull
)

// Ident references a cell by address.
type Ident struct {
	Name     string
	SrcRange hcl.Range
}

// Literal is a constant. Raw holds the number as written, the decoded string,
// or the keyword for bool and null literals.
type Literal struct {
	Kind     LiteralKind
	Raw      string
	SrcRange hcl.Range
}

// Unary applies a sign operator to its operand.
type Unary struct {
	Op       Operator
	Operand  Expr
	SrcRange hcl.Range
}

// Binary applies an arithmetic operator to two operands.
type Binary struct {
	Op          Operator
	Left, Right Expr
	SrcRange    hcl.Range
}

func (e *Ident) Range() hcl.Range   { return e.SrcRange }
func (e *Literal) Range() hcl.Range { return e.SrcRange }
func (e *Unary) Range() hcl.Range   { return e.SrcRange }
func (e *Binary) Range() hcl.Range  { return e.SrcRange }

func (*Ident) isExpr()   {}
func (*Literal) isExpr() {}
func (*Unary) isExpr()   {}
func (*Binary) isExpr()  {}
