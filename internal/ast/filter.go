package ast

import (
	"fmt"
	"strconv"

	"github.com/agentable/jsonpath/internal/value"
)

// FilterExpr represents a filter expression tree (?logical-expr) per
// RFC 9535 §2.3.5.
type FilterExpr struct {
	Or LogicalOr
}

// Eval evaluates the filter expression against current.
func (f *FilterExpr) Eval(current Node, cfg *EvalConfig) bool {
	return f.Or.Eval(current, cfg)
}

// String returns the canonical string representation of f.
func (f *FilterExpr) String() string {
	return f.Or.String()
}

// LogicalOr is a sequence of LogicalAnd expressions joined by ||.
// Short-circuits on first true.
type LogicalOr []LogicalAnd

// Eval returns true if any LogicalAnd expression is true.
func (lo LogicalOr) Eval(current Node, cfg *EvalConfig) bool {
	for i := range lo {
		if lo[i].Eval(current, cfg) {
			return true
		}
	}
	return false
}

// String renders lo using its `||`-joined canonical form.
func (lo LogicalOr) String() string {
	var buf []byte
	for i := range lo {
		if i > 0 {
			buf = append(buf, " || "...)
		}
		buf = append(buf, lo[i].String()...)
	}
	return string(buf)
}

// LogicalAnd is a sequence of BasicExpr joined by &&.
// Short-circuits on first false.
type LogicalAnd []BasicExpr

// Eval returns true if all BasicExpr are true.
func (la LogicalAnd) Eval(current Node, cfg *EvalConfig) bool {
	for i := range la {
		if !la[i].Eval(current, cfg) {
			return false
		}
	}
	return true
}

// String renders la using its `&&`-joined canonical form.
func (la LogicalAnd) String() string {
	var buf []byte
	for i := range la {
		if i > 0 {
			buf = append(buf, " && "...)
		}
		if s, ok := la[i].(interface{ String() string }); ok {
			buf = append(buf, s.String()...)
		}
	}
	return string(buf)
}

// BasicExpr is a filter expression that evaluates to a boolean.
type BasicExpr interface {
	Eval(current Node, cfg *EvalConfig) bool
}

// ExistExpr tests if a query selects at least one node.
type ExistExpr struct {
	Query Query
}

// Eval returns true if the query selects at least one node.
func (e *ExistExpr) Eval(current Node, cfg *EvalConfig) bool {
	return len(e.Query.Select(current, cfg)) > 0
}

// String returns the query's own canonical string representation.
func (e *ExistExpr) String() string { return e.Query.String() }

// NonExistExpr tests if a query selects no nodes.
type NonExistExpr struct {
	Query Query
}

// Eval returns true if the query selects no nodes.
func (e *NonExistExpr) Eval(current Node, cfg *EvalConfig) bool {
	return len(e.Query.Select(current, cfg)) == 0
}

// String returns the negated query's canonical string representation.
func (e *NonExistExpr) String() string { return "!" + e.Query.String() }

// ParenExpr is a parenthesized logical expression.
type ParenExpr struct {
	Expr *LogicalOr
}

// Eval evaluates the parenthesized expression.
func (p *ParenExpr) Eval(current Node, cfg *EvalConfig) bool {
	return p.Expr.Eval(current, cfg)
}

// String returns p's canonical string representation.
func (p *ParenExpr) String() string { return "(" + p.Expr.String() + ")" }

// NotParenExpr is a negated parenthesized logical expression.
type NotParenExpr struct {
	Expr *LogicalOr
}

// Eval evaluates the negated parenthesized expression.
func (n *NotParenExpr) Eval(current Node, cfg *EvalConfig) bool {
	return !n.Expr.Eval(current, cfg)
}

// String returns n's canonical string representation.
func (n *NotParenExpr) String() string { return "!(" + n.Expr.String() + ")" }

// NegFuncExpr is a negated logical function call expression (!match(), !search()).
type NegFuncExpr struct {
	Func *FuncExpr
}

// Eval evaluates the negated function call.
func (n *NegFuncExpr) Eval(current Node, cfg *EvalConfig) bool {
	return !n.Func.Eval(current, cfg)
}

// String returns n's canonical string representation.
func (n *NegFuncExpr) String() string { return "!" + n.Func.String() }

// CompOp is a comparison operator.
type CompOp uint8

const (
	Equal        CompOp = iota // ==
	NotEqual                   // !=
	Less                       // <
	LessEqual                  // <=
	Greater                    // >
	GreaterEqual               // >=
)

// CompExpr is a comparison expression.
type CompExpr struct {
	Left  CompValue
	Op    CompOp
	Right CompValue
}

// Eval evaluates the comparison expression.
func (c *CompExpr) Eval(current Node, cfg *EvalConfig) bool {
	left := c.Left.Value(current, cfg)
	right := c.Right.Value(current, cfg)

	switch c.Op {
	case Equal:
		return filterValuesEqual(cfg, left, right)
	case NotEqual:
		return !filterValuesEqual(cfg, left, right)
	case Less:
		return filterValuesOrdered(left, right) && filterValueLess(left, right)
	case LessEqual:
		return filterValuesOrdered(left, right) &&
			(filterValueLess(left, right) || filterValuesEqual(cfg, left, right))
	case Greater:
		return filterValuesOrdered(left, right) &&
			!filterValueLess(left, right) && !filterValuesEqual(cfg, left, right)
	case GreaterEqual:
		return filterValuesOrdered(left, right) && !filterValueLess(left, right)
	}
	return false
}

// String renders the comparison using its canonical infix operator.
func (c *CompExpr) String() string {
	ops := [...]string{"==", "!=", "<", "<=", ">", ">="}
	op := "?"
	if int(c.Op) < len(ops) {
		op = ops[c.Op]
	}
	return stringOf(c.Left) + " " + op + " " + stringOf(c.Right)
}

func stringOf(v any) string {
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}

// CompValue represents a comparable value in a comparison expression.
type CompValue interface {
	Value(current Node, cfg *EvalConfig) FilterValue
}

// FilterValueKind discriminates the three-way value algebra a filter
// comparison or function argument can produce, per spec §4.3: a query that
// selected no node (Nothing), a single JSON scalar/container (Scalar), or a
// node list from a non-singular query used as a function argument (List).
type FilterValueKind uint8

const (
	NothingKind FilterValueKind = iota
	ScalarKind
	ListKind
)

// FilterValue is a tagged value produced while evaluating a filter
// comparison or function argument.
type FilterValue struct {
	Kind   FilterValueKind
	Scalar any
	List   []any
}

// Nothing returns the FilterValue representing "no value" (the result of a
// singular query that selected zero nodes). It is distinct from a JSON null,
// which is represented as Scalar(nil).
func Nothing() FilterValue { return FilterValue{Kind: NothingKind} }

// ScalarValue returns a FilterValue wrapping a single JSON value (including a
// literal or decoded nil for JSON null).
func ScalarValue(v any) FilterValue { return FilterValue{Kind: ScalarKind, Scalar: v} }

// ListValue returns a FilterValue wrapping a node list, as produced by a
// non-singular query used where a function expects a Nodes-typed argument.
func ListValue(vs []any) FilterValue { return FilterValue{Kind: ListKind, List: vs} }

// LiteralValue is a literal value (string, number, bool, null) appearing
// directly in a filter expression.
type LiteralValue struct {
	Val any
}

// Value returns the literal value.
func (l *LiteralValue) Value(Node, *EvalConfig) FilterValue {
	return ScalarValue(l.Val)
}

// String returns l's canonical string representation.
func (l *LiteralValue) String() string {
	switch v := l.Val.(type) {
	case jsonNull:
		return "null"
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprint(v)
	}
}

// QueryValue is a query used as a comparable value. A singular query that
// selects exactly one node yields its Scalar; anything else (zero nodes, or
// a non-singular query with more than one match) yields Nothing.
type QueryValue struct {
	Query Query
}

// Value evaluates the query and reduces it to a FilterValue.
func (q *QueryValue) Value(current Node, cfg *EvalConfig) FilterValue {
	nodes := q.Query.Select(current, cfg)
	if len(nodes) != 1 {
		return Nothing()
	}
	return ScalarValue(nodes[0].Value)
}

// String returns the query's own canonical string representation.
func (q *QueryValue) String() string { return q.Query.String() }

// jsonNull is a sentinel type representing a literal JSON null written in
// filter-expression source, distinguished at parse time from the absence of
// a value (Nothing). A null literal compares equal to a decoded JSON null
// (Go nil) via filterValuesEqual; Nothing does not.
type jsonNull struct{}

// JSONNull returns a sentinel value representing a literal JSON null.
func JSONNull() jsonNull { return jsonNull{} }

// FuncValue is a function call that produces a value.
type FuncValue struct {
	Func *FuncExpr
}

// Value returns the result of the function call as a FilterValue.
func (f *FuncValue) Value(current Node, cfg *EvalConfig) FilterValue {
	result := f.Func.Call(current, cfg)
	if nodes, ok := result.([]Node); ok {
		vs := make([]any, len(nodes))
		for i, n := range nodes {
			vs[i] = n.Value
		}
		return ListValue(vs)
	}
	if result == nil {
		return Nothing()
	}
	return ScalarValue(result)
}

// String returns the function call's canonical string representation.
func (f *FuncValue) String() string { return f.Func.String() }

// filterValuesOrdered reports whether a and b are both comparable for
// ordering (<, <=, >, >=): neither is Nothing/List, and their scalars share
// a comparable type per RFC 9535 §2.3.5.2.2.
func filterValuesOrdered(a, b FilterValue) bool {
	if a.Kind != ScalarKind || b.Kind != ScalarKind {
		return false
	}
	return sameComparableType(a.Scalar, b.Scalar)
}

// sameComparableType reports whether a and b have types eligible for
// ordering comparison: both numeric, both strings, or both booleans. JSON
// null is never eligible.
func sameComparableType(a, b any) bool {
	aNull, bNull := isNullish(a), isNullish(b)
	if aNull || bNull {
		return false // nulls only support equality, never ordering
	}
	if isNumeric(a) && isNumeric(b) {
		return true
	}
	switch a.(type) {
	case string:
		_, ok := b.(string)
		return ok
	case bool:
		_, ok := b.(bool)
		return ok
	default:
		return false
	}
}

func isNullish(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(jsonNull)
	return ok
}

// isNumeric returns true if v is a numeric type.
func isNumeric(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64:
		return true
	case uint, uint8, uint16, uint32, uint64:
		return true
	case float32, float64:
		return true
	default:
		return false
	}
}

// filterValueLess returns true if a < b. Assumes filterValuesOrdered(a, b).
func filterValueLess(a, b FilterValue) bool {
	av, bv := a.Scalar, b.Scalar
	if isNumeric(av) && isNumeric(bv) {
		return toFloat64(av) < toFloat64(bv)
	}
	as, aok := av.(string)
	bs, bok := bv.(string)
	return aok && bok && as < bs
}

// filterValuesEqual implements RFC 9535 §2.3.5.2.2 equality, generalized to
// the FilterValue algebra. Two Nothing values are equal to each other; under
// FilterMode jsonpath, legacy compatibility treats Nothing as equal to the
// literal number 0 (spec §9's "Nothing == 0" note).
func filterValuesEqual(cfg *EvalConfig, a, b FilterValue) bool {
	if a.Kind == NothingKind || b.Kind == NothingKind {
		if a.Kind == NothingKind && b.Kind == NothingKind {
			return true
		}
		if cfg != nil && cfg.Mode == ModeJSONPath {
			other := a
			if a.Kind == NothingKind {
				other = b
			}
			if other.Kind == ScalarKind {
				if isNumeric(other.Scalar) && toFloat64(other.Scalar) == 0 {
					return true
				}
			}
		}
		return false
	}

	if a.Kind == ListKind || b.Kind == ListKind {
		return false // node lists are never directly compared
	}

	return scalarsEqual(a.Scalar, b.Scalar)
}

// scalarsEqual implements value equality for two non-Nothing, non-List
// scalars, with JSON-null/Go-nil unification and numeric coercion.
func scalarsEqual(a, b any) bool {
	aNull, bNull := isNullish(a), isNullish(b)
	if aNull && bNull {
		return true
	}
	if aNull || bNull {
		return false
	}
	if isNumeric(a) && isNumeric(b) {
		return toFloat64(a) == toFloat64(b)
	}
	return value.DeepEqual(a, b)
}

// toFloat64 converts a numeric value to float64.
func toFloat64(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}
