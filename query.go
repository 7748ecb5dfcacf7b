package jsonpath

import (
	"context"
	"fmt"

	"github.com/agentable/jsonpath/internal/ast"
)

// toValue coerces a query_sync json argument into this package's value
// representation: []byte/string are decoded with [Unmarshal]; anything else
// (an *Object/[]any/string/float64/bool/nil tree already built by the
// caller, e.g. via [Unmarshal]) passes through unchanged.
func toValue(json any) (any, error) {
	switch v := json.(type) {
	case []byte:
		val, err := Unmarshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnmarshal, err)
		}
		return val, nil
	case string:
		val, err := Unmarshal([]byte(v))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnmarshal, err)
		}
		return val, nil
	default:
		return v, nil
	}
}

// parentKeyOf converts a PathElement into an ast.PathKey for EvalConfig's
// root-parent seeding.
func parentKeyOf(e PathElement) ast.PathKey {
	switch k := e.(type) {
	case NameElement:
		return ast.NameKey(string(k))
	case IndexElement:
		return ast.IndexKey(int(k))
	default:
		return ast.PathKey{}
	}
}

// evalConfigFor builds the ast.EvalConfig for one evaluation of root under
// opts, including the parse-time DisallowScript gate.
func evalConfigFor(query ast.Query, root any, opts Options) (*ast.EvalConfig, error) {
	if opts.DisallowScript && hasScriptSegment(query) {
		return nil, &ConfigError{Msg: "path contains a script segment, but Options.DisallowScript is set"}
	}
	cfg := ast.NewEvalConfig(root).
		WithMode(opts.FilterMode).
		WithIgnoreEvalErrors(opts.IgnoreEvalErrors).
		WithScriptEval(opts.ScriptEvaluator).
		WithOtherType(opts.OtherTypeCallback)
	if opts.HasParent {
		cfg.WithRootParent(opts.Parent, parentKeyOf(opts.ParentProperty))
	}
	return cfg, nil
}

// QuerySync parses text, evaluates it against json, and projects the
// matches per opts. text is parsed fresh on every call; callers evaluating
// the same path repeatedly should [Parse] it once and call [Path.Select] or
// [Path.SelectLocated] directly.
//
// json may be []byte or string (decoded with [Unmarshal]) or an already
// decoded value tree in this package's representation. A plain
// map[string]any (as produced by encoding/json) is not treated as an object:
// selectors do not descend into it.
func QuerySync(text string, json any, opts Options) ([]Result, error) {
	path, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return path.QuerySync(json, opts)
}

// QuerySync is the [Path] method form of the package-level QuerySync,
// skipping re-parsing when the path is already compiled.
func (p *Path) QuerySync(json any, opts Options) ([]Result, error) {
	if p.query == nil {
		return nil, nil
	}
	root, err := toValue(json)
	if err != nil {
		return nil, err
	}
	cfg, err := evalConfigFor(p.query, root, opts)
	if err != nil {
		return nil, err
	}
	nodes, err := p.evalWith(root, cfg)
	if err != nil {
		return nil, err
	}
	located := toLocatedNodeList(nodes)
	return formatResults(located, opts), nil
}

// Query is the asynchronous equivalent of [QuerySync]: it evaluates in a
// goroutine and returns as soon as either the evaluation completes or ctx is
// canceled, whichever comes first. JSONPath evaluation in this package never
// blocks on I/O (scripts are a pure host callback), so this wrapper exists
// for API parity with spec §6 rather than any real concurrency need.
func Query(ctx context.Context, text string, json any, opts Options) ([]Result, error) {
	type outcome struct {
		results []Result
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		results, err := QuerySync(text, json, opts)
		done <- outcome{results, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case o := <-done:
		return o.results, o.err
	}
}

// Normalize parses text and returns the canonical bracket-quoted form of the
// result (spec §6), suitable for use as a cache key or for path equality.
func Normalize(text string) (string, error) {
	path, err := Parse(text)
	if err != nil {
		return "", err
	}
	return path.String(), nil
}
