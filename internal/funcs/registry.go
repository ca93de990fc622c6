// Package funcs is the function registry: a static mapping from a call's
// Symbol (namespace + name) to the rule that emits it as legacy SQL.
//
// A Rule either names the SQL function (emitted as NAME(arg1, arg2, ...))
// or carries a Formatter for irregular syntax such as infix operators or
// keyword-laced forms. The default registry is built once on first use and
// is read-only afterwards, so it is safe for concurrent lookups.
package funcs

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/roach88/bqchain/internal/expr"
	"github.com/roach88/bqchain/internal/queryerr"
)

// Variadic marks a rule with no upper bound on argument count.
const Variadic = -1

// ArgRenderer renders a sub-expression into its own buffer. The translator
// implements it; formatters use it to render their operands.
type ArgRenderer interface {
	Isolated(e expr.Expr) (string, error)
}

// Formatter renders a whole call node for functions with irregular syntax.
type Formatter interface {
	Format(call *expr.Call, args ArgRenderer) (string, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(call *expr.Call, args ArgRenderer) (string, error)

// Format calls f(call, args).
func (f FormatterFunc) Format(call *expr.Call, args ArgRenderer) (string, error) {
	return f(call, args)
}

// Rule is the emission rule for one function.
type Rule struct {
	// Name is the SQL function name used by the default NAME(args) form.
	Name string

	// MinArgs and MaxArgs bound the operand count (receiver included).
	// MaxArgs == Variadic means unbounded.
	MinArgs int
	MaxArgs int

	// Formatter, when set, renders the call instead of the default form.
	Formatter Formatter

	// Syntax describes a custom form for listings ("x CONTAINS y").
	Syntax string
}

// CheckArity validates an operand count against the rule.
func (r Rule) CheckArity(sym expr.Symbol, n int) error {
	if n < r.MinArgs || (r.MaxArgs != Variadic && n > r.MaxArgs) {
		return queryerr.New(queryerr.KindInvalidArgument, sym.String(),
			"expected %s arguments, got %d", r.ArityString(), n)
	}
	return nil
}

// ArityString renders the accepted argument range ("2", "1..3", "1+").
func (r Rule) ArityString() string {
	switch {
	case r.MaxArgs == Variadic:
		return fmt.Sprintf("%d+", r.MinArgs)
	case r.MinArgs == r.MaxArgs:
		return fmt.Sprintf("%d", r.MinArgs)
	default:
		return fmt.Sprintf("%d..%d", r.MinArgs, r.MaxArgs)
	}
}

// Describe returns the rule's textual form for listings.
func (r Rule) Describe() string {
	if r.Syntax != "" {
		return r.Syntax
	}
	return r.Name + "(...)"
}

// Entry pairs a symbol with its rule.
type Entry struct {
	Symbol expr.Symbol
	Rule   Rule
}

// Registry maps symbols to rules. A Registry is immutable once built.
type Registry struct {
	rules map[expr.Symbol]Rule
}

// NewRegistry builds a registry from entries.
//
// Panics on a duplicate symbol: registries are assembled from static tables
// at startup, so a duplicate is a programming error.
func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{rules: make(map[expr.Symbol]Rule, len(entries))}
	for _, e := range entries {
		if _, dup := r.rules[e.Symbol]; dup {
			panic(fmt.Sprintf("funcs: duplicate registration for %s", e.Symbol))
		}
		r.rules[e.Symbol] = e.Rule
	}
	return r
}

// With returns a new registry holding r's rules plus entries. Entries
// replace existing rules for the same symbol. r is not modified.
func (r *Registry) With(entries ...Entry) *Registry {
	out := &Registry{rules: make(map[expr.Symbol]Rule, len(r.rules)+len(entries))}
	for sym, rule := range r.rules {
		out.rules[sym] = rule
	}
	for _, e := range entries {
		out.rules[e.Symbol] = e.Rule
	}
	return out
}

// Lookup returns the rule for sym.
func (r *Registry) Lookup(sym expr.Symbol) (Rule, bool) {
	rule, ok := r.rules[sym]
	return rule, ok
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	return len(r.rules)
}

// Symbols returns all registered symbols sorted by "Namespace.Name".
func (r *Registry) Symbols() []expr.Symbol {
	syms := make([]expr.Symbol, 0, len(r.rules))
	for sym := range r.rules {
		syms = append(syms, sym)
	}
	slices.SortFunc(syms, func(a, b expr.Symbol) int {
		return strings.Compare(a.String(), b.String())
	})
	return syms
}

// Default returns the built-in legacy SQL catalog.
var Default = sync.OnceValue(func() *Registry {
	return NewRegistry(catalog()...)
})

func catalog() []Entry {
	var all []Entry
	all = append(all, aggregateEntries()...)
	all = append(all, stringEntries()...)
	all = append(all, regexpEntries()...)
	all = append(all, mathEntries()...)
	all = append(all, dateTimeEntries()...)
	all = append(all, comparisonEntries()...)
	all = append(all, miscEntries()...)
	return all
}

// fn registers a default-form function.
func fn(sym expr.Symbol, name string, minArgs, maxArgs int) Entry {
	return Entry{Symbol: sym, Rule: Rule{Name: name, MinArgs: minArgs, MaxArgs: maxArgs}}
}

// custom registers a function with a formatter.
func custom(sym expr.Symbol, name, syntax string, minArgs, maxArgs int, f FormatterFunc) Entry {
	return Entry{Symbol: sym, Rule: Rule{
		Name:      name,
		MinArgs:   minArgs,
		MaxArgs:   maxArgs,
		Formatter: f,
		Syntax:    syntax,
	}}
}

// ParseSymbol parses "Namespace.Name". A string without a dot is a bare
// name with no namespace.
func ParseSymbol(s string) expr.Symbol {
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return expr.Sym(s[:i], s[i+1:])
	}
	return expr.Symbol{Name: s}
}
