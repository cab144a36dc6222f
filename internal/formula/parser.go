package formula

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/sheetcalc/internal/sheeterr"
)

// Parse parses src as exactly one arithmetic expression.
func Parse(src string) (Expr, error) {
	tokens, err := lex([]byte(src))
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	if p.peek().Type == hclsyntax.TokenEOF {
		return nil, sheeterr.Syntaxf("must be a single expression")
	}
	expr, err := p.additive()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != hclsyntax.TokenEOF {
		return nil, unexpected(tok)
	}
	return expr, nil
}

// parser is a recursive-descent parser over a token slice that always ends
// with TokenEOF.
type parser struct {
	tokens hclsyntax.Tokens
	pos    int
}

func (p *parser) peek() hclsyntax.Token {
	if p.pos >= len(p.tokens) {
		return hclsyntax.Token{Type: hclsyntax.TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) next() hclsyntax.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

var binaryOps = map[hclsyntax.TokenType]Operator{
	hclsyntax.TokenPlus:  OpAdd,
	hclsyntax.TokenMinus: OpSub,
	hclsyntax.TokenStar:  OpMul,
	hclsyntax.TokenSlash: OpDiv,
}

// additive := multiplicative (("+" | "-") multiplicative)*
func (p *parser) additive() (Expr, error) {
	return p.binary(p.multiplicative, OpAdd, OpSub)
}

// multiplicative := unary (("*" | "/") unary)*
func (p *parser) multiplicative() (Expr, error) {
	return p.binary(p.unary, OpMul, OpDiv)
}

func (p *parser) binary(operand func() (Expr, error), ops ...Operator) (Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := binaryOps[p.peek().Type]
		if !ok || (op != ops[0] && op != ops[1]) {
			return left, nil
		}
		p.next()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &Binary{
			Op:       op,
			Left:     left,
			Right:    right,
			SrcRange: hcl.RangeBetween(left.Range(), right.Range()),
		}
	}
}

// unary := ("+" | "-") unary | primary
func (p *parser) unary() (Expr, error) {
	tok := p.peek()
	var op Operator
	switch tok.Type {
	case hclsyntax.TokenPlus:
		op = OpAdd
	case hclsyntax.TokenMinus:
		op = OpSub
	default:
		return p.primary()
	}
	p.next()
	operand, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &Unary{Op: op, Operand: operand, SrcRange: hcl.RangeBetween(tok.Range, operand.Range())}, nil
}

// primary := number | string | identifier | "(" additive ")"
func (p *parser) primary() (Expr, error) {
	tok := p.next()
	switch tok.Type {
	case hclsyntax.TokenNumberLit:
		return &Literal{Kind: LiteralNumber, Raw: string(tok.Bytes), SrcRange: tok.Range}, nil

	case hclsyntax.TokenIdent:
		name := string(tok.Bytes)
		switch name {
		case "true", "false":
			return &Literal{Kind: LiteralBool, Raw: name, SrcRange: tok.Range}, nil
		case "null":
			return &Literal{Kind: LiteralNull, Raw: name, SrcRange: tok.Range}, nil
		}
		return &Ident{Name: name, SrcRange: tok.Range}, nil

	case hclsyntax.TokenOQuote:
		return p.stringLit(tok)

	case hclsyntax.TokenOParen:
		expr, err := p.additive()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.Type != hclsyntax.TokenCParen {
			return nil, unexpected(closing)
		}
		return expr, nil

	default:
		return nil, unexpected(tok)
	}
}

// stringLit parses the remainder of a quoted string whose opening quote has
// been consumed. Interpolation and template directives are rejected.
func (p *parser) stringLit(open hclsyntax.Token) (Expr, error) {
	var sb strings.Builder
	for {
		tok := p.next()
		switch tok.Type {
		case hclsyntax.TokenQuotedLit:
			s, diags := hclsyntax.ParseStringLiteralToken(tok)
			if diags.HasErrors() {
				return nil, diagnosticError(diags)
			}
			sb.WriteString(s)
		case hclsyntax.TokenCQuote:
			return &Literal{Kind: LiteralString, Raw: sb.String(), SrcRange: hcl.RangeBetween(open.Range, tok.Range)}, nil
		case hclsyntax.TokenTemplateInterp, hclsyntax.TokenTemplateControl:
			return nil, sheeterr.Syntaxf("string templates are not supported (%s)", position(tok.Range.Start))
		case hclsyntax.TokenEOF:
			return nil, sheeterr.Syntaxf("unterminated string (%s)", position(open.Range.Start))
		default:
			return nil, unexpected(tok)
		}
	}
}

func unexpected(tok hclsyntax.Token) error {
	if tok.Type == hclsyntax.TokenEOF {
		return sheeterr.Syntaxf("unexpected end of formula")
	}
	return sheeterr.Syntaxf("unexpected token %q (%s)", tok.Bytes, position(tok.Range.Start))
}
