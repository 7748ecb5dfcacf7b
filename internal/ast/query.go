package ast

import "strings"

// Query is a compiled JSONPath path expression: either a single PathQuery
// or a UnionPath of alternatives joined by the top-level grouping
// extension's `|` operator (spec §4.2).
type Query interface {
	// Select evaluates the query starting from current (used when the
	// query is relative, i.e. begins with @) or cfg.Root (when rooted,
	// i.e. begins with $), returning the resulting Nodes in order.
	Select(current Node, cfg *EvalConfig) []Node
	// IsSingular reports whether the query always selects at most one node.
	IsSingular() bool
	// String returns the canonical string representation of the query.
	String() string
}

// PathQuery is the root of a single (non-alternated) compiled JSONPath
// expression. It holds a sequence of segments and whether the query is
// rooted ($) or relative (@).
type PathQuery struct {
	segments []Segment
	root     bool
}

// NewPathQuery creates a [PathQuery]. When root is true it indicates a
// root-identifier ($) query; when false it indicates a current-node (@) query
// used in filter sub-expressions.
func NewPathQuery(root bool, segments ...Segment) *PathQuery {
	return &PathQuery{root: root, segments: segments}
}

// Segments returns the query's segments.
func (q *PathQuery) Segments() []Segment { return q.segments }

// IsRoot reports whether the query starts from the root ($).
func (q *PathQuery) IsRoot() bool { return q.root }

// IsSingular reports whether the query always selects at most one node.
// A query is singular when every segment is singular: a child segment with
// exactly one name or index selector. Descendant, filter, script,
// property-name, parent, and type-selector segments are never singular.
func (q *PathQuery) IsSingular() bool {
	for i := range q.segments {
		if !q.segments[i].IsSingular() {
			return false
		}
	}
	return true
}

// Singular returns the [SingularQuery] variant of q if q is a singular query,
// or nil otherwise.
func (q *PathQuery) Singular() *SingularQuery {
	if !q.IsSingular() {
		return nil
	}
	sels := make([]Selector, len(q.segments))
	for i := range q.segments {
		sels[i] = q.segments[i].Selectors()[0]
	}
	return &SingularQuery{selectors: sels, relative: !q.root}
}

// writeTo writes the canonical string representation of q to buf.
func (q *PathQuery) writeTo(buf *strings.Builder) {
	if q.root {
		buf.WriteByte('$')
	} else {
		buf.WriteByte('@')
	}
	for i := range q.segments {
		q.segments[i].writeTo(buf)
	}
}

// String returns the canonical string representation of the query,
// e.g. $["a"][0] or @["name"].
func (q *PathQuery) String() string {
	var buf strings.Builder
	q.writeTo(&buf)
	return buf.String()
}

// Select evaluates the query starting from current (relative queries) or
// cfg.Root (rooted queries), threading cfg through every segment.
func (q *PathQuery) Select(current Node, cfg *EvalConfig) []Node {
	start := current
	if q.root {
		start = cfg.RootNode()
	}

	result := []Node{start}
	for i := range q.segments {
		result = q.segments[i].Apply(result, cfg, i == len(q.segments)-1)
	}
	return result
}

// UnionPath is a top-level alternation of Paths joined by `|` (the grouping
// extension of spec §4.2's grammar: `Path := ... ('|' Path)*`). Select
// concatenates each alternative's results in the order written.
type UnionPath struct {
	Alternatives []*PathQuery
}

// NewUnionPath creates a [UnionPath] from two or more alternatives.
func NewUnionPath(alts ...*PathQuery) *UnionPath {
	return &UnionPath{Alternatives: alts}
}

// Select evaluates every alternative and concatenates the results in order.
func (u *UnionPath) Select(current Node, cfg *EvalConfig) []Node {
	var out []Node
	for _, alt := range u.Alternatives {
		out = append(out, alt.Select(current, cfg)...)
	}
	return out
}

// IsSingular reports whether u has exactly one alternative and it is
// itself singular.
func (u *UnionPath) IsSingular() bool {
	return len(u.Alternatives) == 1 && u.Alternatives[0].IsSingular()
}

// String returns the canonical `|`-joined string representation of u.
func (u *UnionPath) String() string {
	var buf strings.Builder
	for i, alt := range u.Alternatives {
		if i > 0 {
			buf.WriteByte('|')
		}
		alt.writeTo(&buf)
	}
	return buf.String()
}

// SingularQuery is a JSONPath query that is guaranteed to select at most one
// node. It is composed of a flat list of name/index selectors extracted from
// singular segments. Per RFC 9535, singular queries can be used as comparison
// operands and as arguments to the value() function.
type SingularQuery struct {
	selectors []Selector
	relative  bool // true for @ (current-node), false for $ (root)
}

// NewSingularQuery creates a [SingularQuery]. When relative is true, the query
// starts from the current node (@); otherwise from the root ($).
func NewSingularQuery(relative bool, selectors ...Selector) *SingularQuery {
	return &SingularQuery{selectors: selectors, relative: relative}
}

// Selectors returns the singular query's selectors.
func (sq *SingularQuery) Selectors() []Selector { return sq.selectors }

// IsRelative reports whether the query is relative (@) rather than rooted ($).
func (sq *SingularQuery) IsRelative() bool { return sq.relative }

// writeTo writes the canonical string representation to buf.
func (sq *SingularQuery) writeTo(buf *strings.Builder) {
	if sq.relative {
		buf.WriteByte('@')
	} else {
		buf.WriteByte('$')
	}
	for i := range sq.selectors {
		buf.WriteByte('[')
		sq.selectors[i].writeTo(buf)
		buf.WriteByte(']')
	}
}

// String returns the canonical string representation of the singular query.
func (sq *SingularQuery) String() string {
	var buf strings.Builder
	sq.writeTo(&buf)
	return buf.String()
}
