package jsonpath

import (
	"errors"
	"slices"

	"github.com/agentable/jsonpath/internal/ast"
)

// Path is a compiled JSONPath query. Safe for concurrent use.
type Path struct {
	query ast.Query
}

// Select returns all nodes matched by p in input, evaluated with default
// Options (FilterMode rfc, scripts disabled).
//
// input must be this package's value representation ([Unmarshal]'s output,
// or an equivalent tree of *Object / []any / string / float64 / bool / nil).
// A plain map[string]any (as produced by encoding/json) is not treated as an
// object: selectors do not descend into it.
func (p *Path) Select(input any) NodeList {
	if p.query == nil {
		return nil
	}
	cfg := ast.NewEvalConfig(input)
	nodes := p.query.Select(ast.ValueNode(input), cfg)
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = n.Value
	}
	return NodeList(out)
}

// SelectLocated returns matched nodes paired with their normalized paths,
// ancestor value, and leading key, evaluated with default Options.
func (p *Path) SelectLocated(input any) LocatedNodeList {
	if p.query == nil {
		return nil
	}
	cfg := ast.NewEvalConfig(input)
	nodes := p.query.Select(ast.ValueNode(input), cfg)
	return toLocatedNodeList(nodes)
}

// evalWith evaluates p against input using the given Options-derived config,
// returning raw ast.Nodes. Used by Query/QuerySync in query.go.
func (p *Path) evalWith(input any, cfg *ast.EvalConfig) ([]ast.Node, error) {
	if p.query == nil {
		return nil, nil
	}
	nodes := p.query.Select(ast.ValueNode(input), cfg)
	if err := cfg.Err(); err != nil {
		return nodes, &EvalError{Msg: err.Error()}
	}
	return nodes, nil
}

// toLocatedNodeList converts ast.Nodes (carrying EvalContext-style ancestor
// chains) into this package's public LocatedNode representation.
func toLocatedNodeList(nodes []ast.Node) LocatedNodeList {
	out := make([]*LocatedNode, len(nodes))
	for i, n := range nodes {
		keys := n.Path()
		path := make(NormalizedPath, len(keys))
		for j, k := range keys {
			if k.IsName {
				path[j] = NameElement(k.Name)
			} else {
				path[j] = IndexElement(k.Index)
			}
		}
		var parentProp PathElement
		if key, ok := n.ParentProperty(); ok {
			if key.IsName {
				parentProp = NameElement(key.Name)
			} else {
				parentProp = IndexElement(key.Index)
			}
		}
		out[i] = &LocatedNode{
			Value:          n.Value,
			Path:           path,
			Parent:         n.Parent(),
			ParentProperty: parentProp,
			PayloadType:    n.PayloadType,
			AncestorChain:  n.Ancestors(),
		}
	}
	return LocatedNodeList(out)
}

// String returns the canonical string representation of p.
func (p *Path) String() string {
	if p.query == nil {
		return ""
	}
	return p.query.String()
}

// MarshalText implements encoding.TextMarshaler.
func (p *Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Path) UnmarshalText(text []byte) error {
	path, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = *path
	return nil
}

// Parse compiles a JSONPath expression. Returns ErrPathParse on failure.
func Parse(expr string) (*Path, error) {
	p := NewParser()
	return p.Parse(expr)
}

// MustParse compiles a JSONPath expression. Panics on failure.
func MustParse(expr string) *Path {
	path, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return path
}

// extendPath creates a new path by appending elem to path. The original
// path is not modified.
func extendPath(path NormalizedPath, elem PathElement) NormalizedPath {
	return append(slices.Clone(path), elem)
}

// Valid reports whether expr is a syntactically valid JSONPath expression.
func Valid(expr string) bool {
	_, err := Parse(expr)
	return err == nil
}

// QueryJSON unmarshals src with this package's order-preserving [Unmarshal]
// and evaluates path against it.
func QueryJSON(src []byte, path *Path) (NodeList, error) {
	v, err := Unmarshal(src)
	if err != nil {
		return nil, errors.Join(ErrUnmarshal, err)
	}
	return path.Select(v), nil
}

// QueryJSONLocated is the located variant of QueryJSON.
func QueryJSONLocated(src []byte, path *Path) (LocatedNodeList, error) {
	v, err := Unmarshal(src)
	if err != nil {
		return nil, errors.Join(ErrUnmarshal, err)
	}
	return path.SelectLocated(v), nil
}
