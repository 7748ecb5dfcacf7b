package ast

import (
	"strings"

	"github.com/agentable/jsonpath/internal/value"
)

// SegmentKind identifies which of the path grammar's six segment forms a
// [Segment] represents.
type SegmentKind uint8

const (
	ChildSegment        SegmentKind = iota // [<selectors>]
	DescendantSegment                      // ..[<selectors>]
	ParentSegment                          // ^ (pop one level of the ancestor chain)
	PropertyNameSegment                    // ~ (the key/index leading to the current node, as a value)
	ScriptSegment                          // [(<script>)] (dispatched through Options.ScriptEvaluator)
	TypeSelectorSegment                    // @TypeName() (spec §4.4's ten type predicates)
)

// Segment is a single step of a compiled path: one of RFC 9535's child and
// descendant segments, or one of the spec's extension segments (parent,
// property-name, script, type-selector).
type Segment struct {
	kind       SegmentKind
	selectors  []Selector // ChildSegment, DescendantSegment
	typeName   string     // TypeSelectorSegment
	scriptSrc  string     // ScriptSegment: raw source between '(' and ')'
}

// Child creates a child [Segment] that applies selectors to direct children.
func Child(sel ...Selector) Segment {
	return Segment{kind: ChildSegment, selectors: sel}
}

// Descendant creates a descendant [Segment] that applies selectors
// recursively to all descendants.
func Descendant(sel ...Selector) Segment {
	return Segment{kind: DescendantSegment, selectors: sel}
}

// Parent creates a Segment implementing the `^` extension: each current node
// is replaced by its own parent, popping one level of the ancestor chain.
func Parent() Segment {
	return Segment{kind: ParentSegment}
}

// PropertyName creates a Segment implementing the `~` extension: each
// current node is replaced by the name or index that reached it from its
// parent, reported as a value with PayloadType "property".
func PropertyName() Segment {
	return Segment{kind: PropertyNameSegment}
}

// Script creates a Segment implementing the `[(...)]` extension. src is the
// raw, unparsed script source; it is handed verbatim to
// Options.ScriptEvaluator at evaluation time.
func Script(src string) Segment {
	return Segment{kind: ScriptSegment, scriptSrc: src}
}

// TypeSelectorSeg creates a Segment implementing the `@TypeName()`
// extension, retaining only nodes whose value matches the named type
// predicate (spec §4.4).
func TypeSelectorSeg(name string) Segment {
	return Segment{kind: TypeSelectorSegment, typeName: name}
}

// Kind returns the segment's kind.
func (s *Segment) Kind() SegmentKind { return s.kind }

// Selectors returns the segment's selectors. Only meaningful for
// ChildSegment and DescendantSegment.
func (s *Segment) Selectors() []Selector { return s.selectors }

// IsDescendant reports whether the segment is a descendant segment.
func (s *Segment) IsDescendant() bool { return s.kind == DescendantSegment }

// IsSingular reports whether the segment selects at most one node.
// A child segment is singular only with exactly one singular selector.
// Descendant, parent, property-name, script, and type-selector segments are
// never singular.
func (s *Segment) IsSingular() bool {
	switch s.kind {
	case ChildSegment:
		return len(s.selectors) == 1 && s.selectors[0].IsSingular()
	default:
		return false
	}
}

// writeTo writes the canonical string representation of the segment to buf.
func (s *Segment) writeTo(buf *strings.Builder) {
	switch s.kind {
	case DescendantSegment:
		buf.WriteString("..[")
		for i := range s.selectors {
			if i > 0 {
				buf.WriteByte(',')
			}
			s.selectors[i].writeTo(buf)
		}
		buf.WriteByte(']')
	case ParentSegment:
		buf.WriteByte('^')
	case PropertyNameSegment:
		buf.WriteByte('~')
	case ScriptSegment:
		buf.WriteString("[(")
		buf.WriteString(s.scriptSrc)
		buf.WriteString(")]")
	case TypeSelectorSegment:
		buf.WriteByte('@')
		buf.WriteString(s.typeName)
		buf.WriteString("()")
	default: // ChildSegment
		buf.WriteByte('[')
		for i := range s.selectors {
			if i > 0 {
				buf.WriteByte(',')
			}
			s.selectors[i].writeTo(buf)
		}
		buf.WriteByte(']')
	}
}

// String returns the canonical string representation of the segment.
func (s *Segment) String() string {
	var buf strings.Builder
	s.writeTo(&buf)
	return buf.String()
}

// Apply applies the segment to a list of nodes and returns the resulting
// list. terminal reports whether this is the last segment of its query,
// which governs FilterMode: ModeJSONPath's terminal-select /
// non-terminal-constrain distinction for Filter selectors.
func (s *Segment) Apply(nodes []Node, cfg *EvalConfig, terminal bool) []Node {
	if len(nodes) == 0 {
		return nodes
	}

	switch s.kind {
	case DescendantSegment:
		result := make([]Node, 0, len(nodes))
		for _, n := range nodes {
			result = appendDescendant(result, s.selectors, n, cfg, terminal)
		}
		return result

	case ParentSegment:
		result := make([]Node, 0, len(nodes))
		for _, n := range nodes {
			if p, ok := n.AsParent(); ok {
				result = append(result, p)
			}
		}
		return result

	case PropertyNameSegment:
		result := make([]Node, 0, len(nodes))
		for _, n := range nodes {
			key, ok := n.ParentProperty()
			if !ok {
				continue
			}
			var v any
			if key.IsName {
				v = key.Name
			} else {
				v = key.Index
			}
			prop := n
			prop.Value = v
			prop.PayloadType = "property"
			result = append(result, prop)
		}
		return result

	case ScriptSegment:
		result := make([]Node, 0, len(nodes))
		for _, n := range nodes {
			result = appendScript(result, s.scriptSrc, n, cfg)
		}
		return result

	case TypeSelectorSegment:
		result := make([]Node, 0, len(nodes))
		for _, n := range nodes {
			if value.MatchesTypePredicate(s.typeName, n.Value, cfg.OtherType) {
				result = append(result, n)
			}
		}
		return result

	default: // ChildSegment
		result := make([]Node, 0, len(nodes))
		for _, n := range nodes {
			result = appendSelectors(result, s.selectors, n, cfg, terminal)
		}
		return result
	}
}

// appendSelectors applies selectors to node and appends the results to out.
// terminal is passed through to each Selector.Apply for the Filter case's
// FilterMode-dependent expansion rule.
func appendSelectors(out []Node, selectors []Selector, node Node, cfg *EvalConfig, terminal bool) []Node {
	for i := range selectors {
		out = selectors[i].Apply(out, node, cfg, terminal)
	}
	return out
}

// appendDescendant recursively applies selectors to node and all of its
// descendants, visiting node itself before its children (pre-order).
func appendDescendant(out []Node, selectors []Selector, node Node, cfg *EvalConfig, terminal bool) []Node {
	out = appendSelectors(out, selectors, node, cfg, terminal)

	switch v := node.Value.(type) {
	case *value.Object:
		for k, val := range v.All() {
			out = appendDescendant(out, selectors, node.Child(val, NameKey(k)), cfg, terminal)
		}
	case []any:
		for i, val := range v {
			out = appendDescendant(out, selectors, node.Child(val, IndexKey(i)), cfg, terminal)
		}
	}
	return out
}

// appendScript evaluates src against node via cfg.ScriptEval and appends the
// selected child (by name or index) to out. A nil ScriptEval hook is an
// evaluation error (scripts default to disabled, per spec §9); a script
// result of a type other than string or number selects nothing.
func appendScript(out []Node, src string, node Node, cfg *EvalConfig) []Node {
	if cfg.ScriptEval == nil {
		if cfg.Fail(&scriptDisabledError{}) {
			return out
		}
	}
	result, err := cfg.ScriptEval(src, node.Value, cfg.Root)
	if err != nil {
		if cfg.Fail(err) {
			return out
		}
	}
	switch key := result.(type) {
	case string:
		if obj, ok := node.Value.(*value.Object); ok {
			if v, ok := obj.Get(key); ok {
				out = append(out, node.Child(v, NameKey(key)))
			}
		}
	case float64:
		if arr, ok := node.Value.([]any); ok {
			idx := normalizeIndex(int64(key), len(arr))
			if idx >= 0 {
				out = append(out, node.Child(arr[idx], IndexKey(idx)))
			}
		}
	}
	return out
}

// scriptDisabledError is the sentinel reason a Script segment fails when no
// Options.ScriptEvaluator is configured.
type scriptDisabledError struct{}

func (*scriptDisabledError) Error() string { return "script disabled" }
