package ast

import (
	"strconv"
	"strings"

	"github.com/agentable/jsonpath/internal/value"
)

// SelectorKind identifies the variant stored in a [Selector].
type SelectorKind uint8

const (
	Name     SelectorKind = iota // member name selector
	Index                        // array index selector
	Slice                        // array slice selector
	Wildcard                     // wildcard selector
	Filter                       // filter selector
)

// Selector is a tagged union representing one of the five RFC 9535 selector
// types. Using a concrete struct (instead of an interface) keeps selector
// slices contiguous in memory for cache efficiency.
type Selector struct {
	Kind   SelectorKind
	Name   string      // KindName: the member name
	Index  int64       // KindIndex: the array index (may be negative)
	Slice  SliceArgs   // KindSlice
	Filter *FilterExpr // KindFilter
}

// SliceArgs holds the optional start, end, step for a slice selector.
type SliceArgs struct {
	Start    int64
	End      int64
	Step     int64
	HasStart bool
	HasEnd   bool
	HasStep  bool
}

// NameSelector returns a Selector for a member name.
func NameSelector(name string) Selector {
	return Selector{Kind: Name, Name: name}
}

// IndexSelector returns a Selector for an array index.
func IndexSelector(idx int64) Selector {
	return Selector{Kind: Index, Index: idx}
}

// SliceSelector returns a Selector for an array slice.
func SliceSelector(args SliceArgs) Selector {
	return Selector{Kind: Slice, Slice: args}
}

// WildcardSelector returns a wildcard Selector.
func WildcardSelector() Selector {
	return Selector{Kind: Wildcard}
}

// FilterSelector returns a filter Selector.
func FilterSelector(expr *FilterExpr) Selector {
	return Selector{Kind: Filter, Filter: expr}
}

// IsSingular reports whether the selector can select at most one node.
// Only name and index selectors are singular.
func (s *Selector) IsSingular() bool {
	return s.Kind == Name || s.Kind == Index
}

// writeTo writes the canonical string representation of s to buf.
func (s *Selector) writeTo(buf *strings.Builder) {
	switch s.Kind {
	case Name:
		buf.WriteString(strconv.Quote(s.Name))
	case Index:
		buf.WriteString(strconv.FormatInt(s.Index, 10))
	case Slice:
		s.Slice.writeTo(buf)
	case Wildcard:
		buf.WriteByte('*')
	case Filter:
		buf.WriteByte('?')
		buf.WriteString(s.Filter.String())
	}
}

// String returns the canonical string representation of s.
func (s *Selector) String() string {
	var buf strings.Builder
	s.writeTo(&buf)
	return buf.String()
}

// Apply applies the selector to node and appends matching children to out,
// using key to build each child's location via Node.Child. terminal matters
// only to the Filter case: it is whether this selector's segment is the
// last one in its query, per cfg.Mode's expansion-vs-selection rule (§4.3).
func (s *Selector) Apply(out []Node, node Node, cfg *EvalConfig, terminal bool) []Node {
	switch s.Kind {
	case Name:
		if obj, ok := node.Value.(*value.Object); ok {
			if v, ok := obj.Get(s.Name); ok {
				out = append(out, node.Child(v, NameKey(s.Name)))
			}
		}
	case Index:
		if arr, ok := node.Value.([]any); ok {
			idx := normalizeIndex(s.Index, len(arr))
			if idx >= 0 {
				out = append(out, node.Child(arr[idx], IndexKey(idx)))
			}
		}
	case Slice:
		if arr, ok := node.Value.([]any); ok {
			for _, idx := range sliceIndices(s.Slice, len(arr)) {
				out = append(out, node.Child(arr[idx], IndexKey(idx)))
			}
		}
	case Wildcard:
		switch v := node.Value.(type) {
		case *value.Object:
			for k, val := range v.All() {
				out = append(out, node.Child(val, NameKey(k)))
			}
		case []any:
			for i, val := range v {
				out = append(out, node.Child(val, IndexKey(i)))
			}
		}
	case Filter:
		if !s.filterExpands(cfg, terminal) {
			// ModeXPath, or ModeJSONPath on a non-terminal segment: test the
			// current context node once, whole, and keep it unmodified rather
			// than expanding into its children.
			if s.Filter.Eval(node, cfg) {
				out = append(out, node)
			}
			return out
		}
		switch v := node.Value.(type) {
		case *value.Object:
			for k, val := range v.All() {
				if s.Filter.Eval(ValueNode(val), cfg) {
					out = append(out, node.Child(val, NameKey(k)))
				}
			}
		case []any:
			for i, val := range v {
				if s.Filter.Eval(ValueNode(val), cfg) {
					out = append(out, node.Child(val, IndexKey(i)))
				}
			}
		}
	}
	return out
}

// filterExpands reports whether a Filter selector should expand the current
// context node into its children and test each child independently
// (ModeRFC always; ModeJSONPath only when terminal, its legacy
// terminal-selects behavior), versus testing the whole current node once
// and retaining it unchanged if it passes (ModeXPath always; ModeJSONPath
// when non-terminal, its legacy constrain-without-re-expanding behavior).
func (s *Selector) filterExpands(cfg *EvalConfig, terminal bool) bool {
	switch cfg.Mode {
	case ModeXPath:
		return false
	case ModeJSONPath:
		return terminal
	default: // ModeRFC
		return true
	}
}

// normalizeIndex converts a possibly-negative index to a non-negative index.
// Negative indices count from the end of the array. Returns -1 if the index
// is out of bounds.
func normalizeIndex(idx int64, length int) int {
	if idx < 0 {
		idx += int64(length)
	}
	if idx < 0 || idx >= int64(length) {
		return -1
	}
	return int(idx)
}

// sliceIndices calculates, in selection order, the indices a slice selector
// selects from an array of the given length, per RFC 9535 §2.3.4.
func sliceIndices(args SliceArgs, length int) []int {
	if length == 0 {
		return nil
	}

	step := int64(1)
	if args.HasStep {
		step = args.Step
	}
	if step == 0 {
		return nil
	}

	var start, end int64
	if step > 0 {
		start = 0
		if args.HasStart {
			start = args.Start
		}
		end = int64(length)
		if args.HasEnd {
			end = args.End
		}
	} else {
		start = int64(length - 1)
		if args.HasStart {
			start = args.Start
		}
		end = -int64(length) - 1
		if args.HasEnd {
			end = args.End
		}
	}

	start, end = normalizeSliceBounds(start, end, step, length)

	var indices []int
	if step > 0 {
		for i := start; i < end; i += step {
			if i >= 0 && i < int64(length) {
				indices = append(indices, int(i))
			}
		}
	} else {
		for i := start; i > end; i += step {
			if i >= 0 && i < int64(length) {
				indices = append(indices, int(i))
			}
		}
	}
	return indices
}

// normalizeSliceBounds normalizes start and end indices for slice operations
// according to RFC 9535 §2.3.4. Handles negative indices and out-of-bounds
// values based on the step direction.
func normalizeSliceBounds(start, end, step int64, length int) (int64, int64) {
	if start < 0 {
		start += int64(length)
		if start < 0 && step > 0 {
			start = 0
		}
	} else if start >= int64(length) && step < 0 {
		start = int64(length - 1)
	}

	if end < 0 {
		end += int64(length)
		if end < 0 && step < 0 {
			end = -1
		}
	} else if end > int64(length) {
		end = int64(length)
	}

	return start, end
}

// writeTo writes the canonical slice notation (e.g. "1:5:2") to buf.
func (a *SliceArgs) writeTo(buf *strings.Builder) {
	if a.HasStart {
		buf.WriteString(strconv.FormatInt(a.Start, 10))
	}
	buf.WriteByte(':')
	if a.HasEnd {
		buf.WriteString(strconv.FormatInt(a.End, 10))
	}
	if a.HasStep {
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatInt(a.Step, 10))
	}
}
