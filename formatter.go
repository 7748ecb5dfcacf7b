package jsonpath

import "slices"

// ResultType selects which projection of a matched node [Query]/[QuerySync]
// returns, per spec §6.
type ResultType uint8

const (
	// ResultValue returns just the matched value (the default).
	ResultValue ResultType = iota
	// ResultPath returns the normalized path string to the matched value.
	ResultPath
	// ResultPointer returns the RFC 6901 JSON Pointer string to the matched value.
	ResultPointer
	// ResultParent returns the value's containing object or array.
	ResultParent
	// ResultParentProperty returns the key or index leading from the parent
	// to the matched value.
	ResultParentProperty
	// ResultParentChain returns the full ancestor chain from the root to the
	// matched value's parent, outermost first.
	ResultParentChain
	// ResultAll returns every field of Result populated.
	ResultAll
)

// Result is one projected match from [Query] or [QuerySync], shaped by the
// requesting Options.ResultType.
type Result struct {
	Value          any
	Path           NormalizedPath
	Pointer        string
	Parent         any
	ParentProperty PathElement
	ParentChain    []any
}

// project reduces a LocatedNode to the Result fields requested by rt. Under
// ResultValue (the default) and every non-All single-field selector, only
// that one field (plus Value, always present) is populated; ResultAll
// populates every field.
func project(n *LocatedNode, rt ResultType) Result {
	r := Result{Value: n.Value}
	switch rt {
	case ResultPath:
		r.Path = n.Path
	case ResultPointer:
		r.Pointer = n.Path.Pointer()
	case ResultParent:
		r.Parent = n.Parent
	case ResultParentProperty:
		r.ParentProperty = n.ParentProperty
	case ResultParentChain:
		r.ParentChain = n.AncestorChain
	case ResultAll:
		r.Path = n.Path
		r.Pointer = n.Path.Pointer()
		r.Parent = n.Parent
		r.ParentProperty = n.ParentProperty
		r.ParentChain = n.AncestorChain
	}
	return r
}

// flattenDepth unpacks each array/object value in nodes one level into its
// elements/members, depth times. depth <= 0 is a no-op.
func flattenDepth(nodes LocatedNodeList, depth int) LocatedNodeList {
	for ; depth > 0; depth-- {
		var out LocatedNodeList
		for _, n := range nodes {
			switch v := n.Value.(type) {
			case []any:
				for i, elem := range v {
					out = append(out, &LocatedNode{
						Value:          elem,
						Path:           extendPath(n.Path, IndexElement(i)),
						Parent:         n.Value,
						ParentProperty: IndexElement(i),
						PayloadType:    n.PayloadType,
						AncestorChain:  append(slices.Clone(n.AncestorChain), n.Value),
					})
				}
			case *Object:
				for k, val := range v.All() {
					out = append(out, &LocatedNode{
						Value:          val,
						Path:           extendPath(n.Path, NameElement(k)),
						Parent:         n.Value,
						ParentProperty: NameElement(k),
						PayloadType:    n.PayloadType,
						AncestorChain:  append(slices.Clone(n.AncestorChain), n.Value),
					})
				}
			default:
				out = append(out, n)
			}
		}
		nodes = out
	}
	return nodes
}

// formatResults projects a LocatedNodeList into a []Result per opts,
// flattening container values per opts.Flatten (via opts.flattenDepth) first (spec §6's
// `flatten: false | true | n`; 0 is a no-op, matching the `false` case).
func formatResults(nodes LocatedNodeList, opts Options) []Result {
	nodes = flattenDepth(nodes, opts.flattenDepth())
	out := make([]Result, len(nodes))
	for i, n := range nodes {
		out[i] = project(n, opts.ResultType)
	}
	return out
}
