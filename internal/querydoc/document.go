// Package querydoc reads query documents: YAML (or JSON) descriptions of a
// chain, used by the CLI.
//
// A document lists the chain's clauses by name:
//
//	from: people
//	where:
//	  - gt: [{field: Age}, 18]
//	select:
//	  Name: {field: Name}
//	order_by:
//	  - key: {field: Name}
//	limit: 10
//
// Build replays the clauses through a query.Client in grammar order.
package querydoc

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/bqchain/internal/query"
	"github.com/roach88/bqchain/internal/queryerr"
)

// Document is one query.
type Document struct {
	// Name and Description are informational.
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`

	// Exactly one of From and Subquery names the source.
	From     string    `yaml:"from,omitempty"`
	Subquery *Document `yaml:"subquery,omitempty"`

	// Snapshot or Range decorate a From table.
	Snapshot *BoundSpec `yaml:"snapshot,omitempty"`
	Range    *RangeSpec `yaml:"range,omitempty"`

	Joins []JoinSpec `yaml:"joins,omitempty"`

	// Where conditions are AND-combined.
	Where []yaml.Node `yaml:"where,omitempty"`

	// PreOrderBy sorts before the projection. It excludes GroupBy and
	// OrderBy.
	PreOrderBy []SortSpec `yaml:"pre_order_by,omitempty"`

	// Select is "*", a single expression, or a mapping of output name to
	// expression.
	Select *yaml.Node `yaml:"select,omitempty"`

	GroupBy    *GroupSpec `yaml:"group_by,omitempty"`
	Having     *yaml.Node `yaml:"having,omitempty"`
	OrderBy    []SortSpec `yaml:"order_by,omitempty"`
	Limit      *int       `yaml:"limit,omitempty"`
	IgnoreCase bool       `yaml:"ignore_case,omitempty"`
}

// BoundSpec is a decoration bound: "oldest", {at: RFC3339} or {ago: 1h}.
type BoundSpec struct {
	bound query.Bound
}

func (b *BoundSpec) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		if n.Value != "oldest" {
			return nodeError(n, "bound must be oldest, {at: ...} or {ago: ...}, got %q", n.Value)
		}
		b.bound = query.Oldest
		return nil
	}

	var raw struct {
		At  string `yaml:"at"`
		Ago string `yaml:"ago"`
	}
	if err := n.Decode(&raw); err != nil {
		return nodeError(n, "bound: %v", err)
	}
	switch {
	case raw.At != "" && raw.Ago != "":
		return nodeError(n, "bound takes at or ago, not both")
	case raw.At != "":
		t, err := time.Parse(time.RFC3339, raw.At)
		if err != nil {
			return nodeError(n, "bound at: %v", err)
		}
		if t.UnixMilli() < 0 {
			return nodeError(n, "bound %s is before the Unix epoch", raw.At)
		}
		b.bound = query.At(t)
	case raw.Ago != "":
		d, err := time.ParseDuration(raw.Ago)
		if err != nil {
			return nodeError(n, "bound ago: %v", err)
		}
		if d < 0 {
			return nodeError(n, "bound ago must not be negative")
		}
		b.bound = query.Ago(d)
	default:
		return nodeError(n, "bound takes at or ago")
	}
	return nil
}

// Bound returns the decoded bound.
func (b *BoundSpec) Bound() query.Bound {
	return b.bound
}

// RangeSpec is a range decoration; To is optional.
type RangeSpec struct {
	From *BoundSpec `yaml:"from"`
	To   *BoundSpec `yaml:"to,omitempty"`
}

// JoinSpec is one join. Exactly one of Table and Subquery names the joined
// side; On is required unless Kind is "cross".
type JoinSpec struct {
	Kind     string    `yaml:"kind,omitempty"`
	Each     bool      `yaml:"each,omitempty"`
	Table    string    `yaml:"table,omitempty"`
	Subquery *Document `yaml:"subquery,omitempty"`
	Alias    AliasSpec `yaml:"alias"`
	On       yaml.Node `yaml:"on,omitempty"`
}

type AliasSpec struct {
	Outer string `yaml:"outer"`
	Inner string `yaml:"inner"`
}

// SortSpec is an ORDER BY key.
type SortSpec struct {
	Key  yaml.Node `yaml:"key"`
	Desc bool      `yaml:"desc,omitempty"`
}

// GroupSpec lists GROUP BY keys.
type GroupSpec struct {
	Keys []yaml.Node `yaml:"keys"`
	Each bool        `yaml:"each,omitempty"`
}

// Load reads and parses a document file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read query document: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse parses a document. Unknown keys are rejected.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if queryerr.IsKind(err, queryerr.KindInvalidArgument) {
			return nil, err
		}
		return nil, queryerr.InvalidArgument("failed to parse query document: %v", err)
	}
	return &doc, nil
}

func nodeError(n *yaml.Node, format string, args ...any) error {
	return queryerr.InvalidArgument("line %d: "+format, append([]any{n.Line}, args...)...)
}
