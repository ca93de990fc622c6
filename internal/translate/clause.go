package translate

import "github.com/roach88/bqchain/internal/expr"

// Clause renders keyword followed by e as its body.
//
//	indented:  I(d)KEYWORD
//	           I(d+1)body
//	flat:      KEYWORD body
func Clause(keyword string, e expr.Expr, opts Options) (string, error) {
	body, err := Body(e, opts)
	if err != nil {
		return "", err
	}
	return Block(keyword, body, opts), nil
}

// Body renders e one level below opts.Depth, indented. Object
// constructions indent each of their own fields.
func Body(e expr.Expr, opts Options) (string, error) {
	inner := opts.Deeper()
	s, err := Translate(e, inner)
	if err != nil {
		return "", err
	}
	if isObject(e) {
		return s, nil
	}
	return inner.Indent(inner.Depth) + s, nil
}

// Block joins a keyword and an already rendered body.
func Block(keyword, body string, opts Options) string {
	if opts.Flat() {
		return keyword + " " + body
	}
	return opts.Indent(opts.Depth) + keyword + "\n" + body
}

func isObject(e expr.Expr) bool {
	switch n := e.(type) {
	case *expr.New:
		return true
	case *expr.Constant:
		_, ok := n.Value.(*expr.New)
		return ok
	}
	return false
}
