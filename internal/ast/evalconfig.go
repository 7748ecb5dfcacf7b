package ast

// FilterMode selects which of the three filter-segment semantics spec §4.3
// and §9 describe governs Filter and Script evaluation for a query.
type FilterMode uint8

const (
	// ModeRFC expands the current context over its children and retains
	// candidates that satisfy the predicate. This is the teacher's original
	// (and RFC 9535-conformant) behavior, and the default.
	ModeRFC FilterMode = iota
	// ModeJSONPath is the legacy jsonpath-plus behavior: a terminal filter
	// (the last segment in the query) selects matching children; a
	// non-terminal filter constrains the current context list and lets
	// evaluation continue into the next segment without re-expanding.
	ModeJSONPath
	// ModeXPath tests the whole current context once against the predicate
	// (no expansion over children) and retains it if true.
	ModeXPath
)

// EvalConfig carries the per-query configuration and root value threaded
// through every Segment/Selector Apply and filter Eval call, replacing a
// bare `root any` parameter with a small mutable context object. It is the
// one piece of per-query state that accumulates during evaluation (a
// sticky first error for Script failures); Path ASTs
// themselves remain immutable and shareable across EvalConfig values.
type EvalConfig struct {
	Root             any
	Mode             FilterMode
	IgnoreEvalErrors bool
	ScriptEval       func(expr string, current, root any) (any, error)
	OtherType        func(any) bool

	// RootParent and RootParentProperty seed the root node's ancestor frame
	// for queries over a sub-document (spec §6's parent/parent_property
	// options): HasRootParent must be set for either to take effect, since a
	// nil RootParent is indistinguishable from "no parent" otherwise.
	RootParent         any
	RootParentProperty PathKey
	HasRootParent      bool

	err error // sticky: first non-ignored evaluation error
}

// NewEvalConfig creates an EvalConfig evaluating against root in ModeRFC
// with no script hook or other-type callback. Use the With* methods to
// configure it further.
func NewEvalConfig(root any) *EvalConfig {
	return &EvalConfig{Root: root}
}

// WithRootParent seeds the root node's ancestor frame with an external
// parent value and key, for evaluating a query over a sub-document.
func (cfg *EvalConfig) WithRootParent(parent any, key PathKey) *EvalConfig {
	cfg.RootParent = parent
	cfg.RootParentProperty = key
	cfg.HasRootParent = true
	return cfg
}

// RootNode returns the root Node for this config: a plain Node wrapping Root,
// or (when WithRootParent was used) one whose ancestor frame reflects the
// seeded external parent.
func (cfg *EvalConfig) RootNode() Node {
	if !cfg.HasRootParent {
		return Node{Value: cfg.Root}
	}
	return Node{Value: cfg.Root, anc: &frame{value: cfg.RootParent, key: cfg.RootParentProperty}}
}

// WithMode sets the filter mode and returns cfg for chaining.
func (cfg *EvalConfig) WithMode(m FilterMode) *EvalConfig { cfg.Mode = m; return cfg }

// WithIgnoreEvalErrors sets whether evaluation errors are swallowed.
func (cfg *EvalConfig) WithIgnoreEvalErrors(ignore bool) *EvalConfig {
	cfg.IgnoreEvalErrors = ignore
	return cfg
}

// WithScriptEval sets the host script-evaluation hook.
func (cfg *EvalConfig) WithScriptEval(fn func(expr string, current, root any) (any, error)) *EvalConfig {
	cfg.ScriptEval = fn
	return cfg
}

// WithOtherType sets the @other() predicate callback.
func (cfg *EvalConfig) WithOtherType(fn func(any) bool) *EvalConfig {
	cfg.OtherType = fn
	return cfg
}

// Fail records err as the query's first evaluation error unless
// IgnoreEvalErrors is set, in which case it reports the item should be
// dropped (returns true) without recording anything fatal.
//
// Fail returns true when the caller should drop the current item from its
// result (either because the error was swallowed, or because an error is
// already pending and partial results no longer matter).
func (cfg *EvalConfig) Fail(err error) (drop bool) {
	if cfg.IgnoreEvalErrors {
		return true
	}
	if cfg.err == nil {
		cfg.err = err
	}
	return true
}

// Err returns the first evaluation error recorded via Fail, or nil.
func (cfg *EvalConfig) Err() error { return cfg.err }
