package formula

// References returns the identifier names of e in depth-first, left-to-right
// order. Repeated identifiers are reported once per occurrence, so the result
// lines up with the argument positions a compiled formula expects.
func References(e Expr) []string {
	var names []string
	walk(e, func(id *Ident) {
		names = append(names, id.Name)
	})
	return names
}

// walk visits every identifier under e in source order.
func walk(e Expr, visit func(*Ident)) {
	switch n := e.(type) {
	case *Ident:
		visit(n)
	case *Unary:
		walk(n.Operand, visit)
	case *Binary:
		walk(n.Left, visit)
		walk(n.Right, visit)
	}
}
