package jsonpath

import (
	"errors"
	"maps"

	"github.com/agentable/jsonpath/functions"
	"github.com/agentable/jsonpath/internal/ast"
	"github.com/agentable/jsonpath/internal/parser"
)

// FuncType describes the type of a function extension's return value as
// defined by RFC 9535 §2.4.1.
type FuncType uint8

const (
	// FuncLogical indicates the function returns a logical (bool) value.
	FuncLogical FuncType = iota
	// FuncValue indicates the function returns a single JSON value.
	FuncValue
	// FuncNodes indicates the function returns a node list.
	FuncNodes
)

// ArgType describes the type of a function argument expression for
// parse-time validation.
type ArgType uint8

const (
	// ArgLiteral is a literal JSON value argument.
	ArgLiteral ArgType = iota
	// ArgSingularQuery is a singular query argument (e.g. @.name or $.name).
	ArgSingularQuery
	// ArgFilterQuery is a filter query argument producing a node list.
	ArgFilterQuery
	// ArgLogicalExpr is a logical expression argument.
	ArgLogicalExpr
	// ArgFunctionExpr is a nested function call argument.
	ArgFunctionExpr
)

// Function defines an extension function that can be registered with a
// [Parser] via [WithFunctions]. Implementations must be safe for concurrent
// use if the [Parser] is used concurrently.
type Function interface {
	// Name returns the function name as used in JSONPath expressions.
	Name() string
	// ResultType returns the FuncType of the function's return value.
	ResultType() FuncType
	// Validate checks argument types at parse time. It returns an error
	// if the argument types are incompatible with this function.
	Validate(args []ArgType) error
	// Call evaluates the function at query time and returns the result.
	Call(args []any) any
}

// Option configures a [Parser].
type Option func(*parserOptions)

// parserOptions holds configuration for a [Parser].
type parserOptions struct {
	functions map[string]Function
}

// WithFunctions registers additional filter functions beyond the RFC 9535
// built-ins. If multiple functions share the same name, the last one wins.
func WithFunctions(fns ...Function) Option {
	return func(o *parserOptions) {
		for _, fn := range fns {
			o.functions[fn.Name()] = fn
		}
	}
}

// Parser parses JSONPath expressions into [Path] values, optionally
// configured with extension functions.
type Parser struct {
	opts parserOptions
}

// NewParser creates a new [Parser] configured by opts.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		opts: parserOptions{
			functions: make(map[string]Function),
		},
	}
	for _, o := range opts {
		o(&p.opts)
	}
	return p
}

// Parse compiles a JSONPath expression. Returns [ErrPathParse] on failure.
func (p *Parser) Parse(expr string) (*Path, error) {
	// Convert function map to map[string]any for internal parser
	// Start with built-in functions
	funcs := make(map[string]any, 5+len(p.opts.functions))

	// Register built-in functions from the functions package
	registry := newBuiltinRegistry()
	maps.Copy(funcs, registry)

	// Add user-provided functions (can override built-ins)
	for name, fn := range p.opts.functions {
		funcs[name] = fn
	}

	internalParser, err := parser.New(expr, funcs)
	if err != nil {
		return nil, newParseError(expr, err)
	}

	query, err := internalParser.Parse()
	if err != nil {
		return nil, newParseError(expr, err)
	}

	return &Path{query: query}, nil
}

// newParseError wraps an internal/parser failure into a *ParseError,
// recovering the byte offset from a *parser.PositionError when present.
func newParseError(expr string, err error) error {
	var pe *parser.PositionError
	offset := 0
	if errors.As(err, &pe) {
		offset = pe.Pos
	}
	return &ParseError{Expr: expr, Offset: offset, Msg: err.Error()}
}

// newBuiltinRegistry creates a registry with RFC 9535 built-in functions.
func newBuiltinRegistry() map[string]any {
	builtins := []ast.Function{
		&functions.LengthFunc{},
		&functions.CountFunc{},
		&functions.MatchFunc{},
		&functions.SearchFunc{},
		&functions.ValueFunc{},
	}

	registry := make(map[string]any, len(builtins))
	for _, fn := range builtins {
		registry[fn.Name()] = fn
	}
	return registry
}

// MustParse compiles a JSONPath expression. Panics on failure.
func (p *Parser) MustParse(expr string) *Path {
	path, err := p.Parse(expr)
	if err != nil {
		panic(err)
	}
	return path
}

// FilterMode selects which of the three filter-segment semantics (spec §4.3,
// §9) govern Filter-selector and Script-segment evaluation.
type FilterMode = ast.FilterMode

const (
	// ModeRFC (the default) expands the current context over its children
	// and retains candidates that satisfy the predicate.
	ModeRFC = ast.ModeRFC
	// ModeJSONPath is the legacy jsonpath-plus behavior: a terminal filter
	// selects matching children; a non-terminal filter constrains the
	// current context list without re-expanding.
	ModeJSONPath = ast.ModeJSONPath
	// ModeXPath tests the whole current context once against the predicate
	// (no expansion over children).
	ModeXPath = ast.ModeXPath
)

// Options configures a single evaluation via [Query] or [QuerySync].
// The zero value evaluates under ModeRFC with scripts disabled and no
// result projection beyond the matched value.
type Options struct {
	// ResultType selects the []Result projection. Zero value is ResultValue.
	ResultType ResultType
	// FilterMode selects filter/script evaluation semantics. Zero value is ModeRFC.
	FilterMode FilterMode
	// IgnoreEvalErrors drops items that fail to evaluate (a disabled script,
	// a failing host script hook) instead of aborting the query with an error.
	IgnoreEvalErrors bool
	// DisallowScript is a parse-time gate: if true, a path whose AST
	// contains a Script segment is rejected with a ConfigError before
	// evaluation begins, regardless of ScriptEvaluator. The zero value
	// (false) matches spec §6's allow_script default of true: scripts are
	// permitted to appear in the path, though they still fail at evaluation
	// time (as an EvalError) unless ScriptEvaluator is set.
	DisallowScript bool
	// Flatten unpacks each matched array/object value into its elements or
	// members, one Result per child, instead of returning the container
	// itself as a single Result: 0 (the zero value, spec §6's `false`) does
	// no flattening, 1 (spec's `true`) flattens one level, and n > 1 repeats
	// the unpacking n times against whatever containers remain after the
	// previous pass.
	Flatten int
	// ScriptEvaluator is the host hook for [(...)] script segments. A nil
	// hook (the default) makes any Script segment fail with an EvalError at
	// evaluation time; this package never embeds a script engine itself.
	ScriptEvaluator func(expr string, current, root any) (any, error)
	// OtherTypeCallback implements @other() for TypeSelector segments using
	// a type name outside the nine built-in predicates. A nil callback makes
	// @other() match nothing.
	OtherTypeCallback func(any) bool

	// Parent and ParentProperty seed the root node's ancestor frame when the
	// json argument is itself a sub-document: Parent is the value that
	// contains it, and ParentProperty is the key or index leading from
	// Parent down to it. Ignored unless HasParent is set (a nil Parent is
	// indistinguishable from "no parent" otherwise).
	Parent         any
	ParentProperty PathElement
	HasParent      bool
}

// flattenDepth returns the number of flatten passes formatResults should run,
// clamped to a non-negative count. Per spec §6, flatten is ignored when the
// projection is ResultAll.
func (o Options) flattenDepth() int {
	if o.ResultType == ResultAll {
		return 0
	}
	return max(o.Flatten, 0)
}

// hasScriptSegment reports whether q's top-level segments (or, for a
// UnionPath, any alternative's top-level segments) include a Script segment,
// for the DisallowScript gate. Filter sub-queries embedded inside a ?(...)
// predicate are not descended into: a script segment there already fails at
// evaluation time via ScriptEvaluator regardless of this parse-time gate.
func hasScriptSegment(q ast.Query) bool {
	switch v := q.(type) {
	case *ast.PathQuery:
		for _, seg := range v.Segments() {
			if seg.Kind() == ast.ScriptSegment {
				return true
			}
		}
		return false
	case *ast.UnionPath:
		for _, alt := range v.Alternatives {
			if hasScriptSegment(alt) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
