package formula

import (
	"bytes"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/sheetcalc/internal/sheeterr"
)

const sourceName = "formula"

// lex scans src into tokens, dropping comments and newlines.
//
// HCL identifiers may contain dashes, but cell addresses never do, so an
// identifier such as "A1-B1" is cut at its first dash: the prefix stays an
// identifier, the dash becomes a minus token and the remainder of the source
// is scanned again.
func lex(src []byte) (hclsyntax.Tokens, error) {
	var out hclsyntax.Tokens
	from := hcl.InitialPos

	for {
		tokens, diags := hclsyntax.LexExpression(src[from.Byte:], sourceName, from)
		if diags.HasErrors() {
			return nil, diagnosticError(diags)
		}

		rescan := false
		for _, tok := range tokens {
			switch tok.Type {
			case hclsyntax.TokenComment, hclsyntax.TokenNewline:
				continue
			case hclsyntax.TokenIdent:
				if i := bytes.IndexByte(tok.Bytes, '-'); i > 0 {
					ident, minus, next := splitIdent(tok, i)
					out = append(out, ident, minus)
					from = next
					rescan = true
				}
			}
			if rescan {
				break
			}
			out = append(out, tok)
		}
		if !rescan {
			return out, nil
		}
	}
}

// splitIdent cuts an identifier token at byte offset i, which holds a dash.
func splitIdent(tok hclsyntax.Token, i int) (hclsyntax.Token, hclsyntax.Token, hcl.Pos) {
	start := tok.Range.Start
	at := func(offset int) hcl.Pos {
		return hcl.Pos{Line: start.Line, Column: start.Column + offset, Byte: start.Byte + offset}
	}

	ident := hclsyntax.Token{
		Type:  hclsyntax.TokenIdent,
		Bytes: tok.Bytes[:i],
		Range: hcl.Range{Filename: tok.Range.Filename, Start: start, End: at(i)},
	}
	minus := hclsyntax.Token{
		Type:  hclsyntax.TokenMinus,
		Bytes: tok.Bytes[i : i+1],
		Range: hcl.Range{Filename: tok.Range.Filename, Start: at(i), End: at(i + 1)},
	}
	return ident, minus, at(i + 1)
}

// diagnosticError turns the first error diagnostic into a syntax error.
func diagnosticError(diags hcl.Diagnostics) error {
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		if d.Subject != nil {
			return sheeterr.Syntaxf("%s (%s)", d.Summary, position(d.Subject.Start))
		}
		return sheeterr.Syntaxf("%s", d.Summary)
	}
	return sheeterr.Syntaxf("%s", diags.Error())
}

func position(p hcl.Pos) string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
