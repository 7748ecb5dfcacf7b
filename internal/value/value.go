// Package value implements the ordered JSON object representation shared by
// the public jsonpath package and the internal ast/lexer/parser/functions
// packages, so selectors and filter predicates operating deep inside the
// evaluator see the same insertion-ordered objects the public API exposes.
package value

import (
	"iter"
	"unicode/utf8"
)

// Object is an order-preserving JSON object: a string-keyed map that
// remembers insertion order. RFC 9535 and this package's superset
// extensions (wildcards, recursive descent, property-name selection) all
// depend on stable, insertion-ordered iteration over object members, which
// a plain Go map cannot provide. Object is the canonical representation of
// a JSON object used throughout the evaluator; JSON arrays remain []any.
//
// The zero value is not usable; create one with NewObject.
type Object struct {
	keys []string
	vals []any
	idx  map[string]int
}

// New creates an empty Object.
func New() *Object {
	return &Object{idx: make(map[string]int)}
}

// NewSize creates an empty Object with capacity for n members.
func NewSize(n int) *Object {
	return &Object{
		keys: make([]string, 0, n),
		vals: make([]any, 0, n),
		idx:  make(map[string]int, n),
	}
}

// Set assigns val to key, preserving key's original position if it already
// exists, or appending it as the newest member otherwise.
func (o *Object) Set(key string, val any) {
	if i, ok := o.idx[key]; ok {
		o.vals[i] = val
		return
	}
	o.idx[key] = len(o.keys)
	o.keys = append(o.keys, key)
	o.vals = append(o.vals, val)
}

// Get returns the value for key and whether key is an own property of o.
func (o *Object) Get(key string) (any, bool) {
	i, ok := o.idx[key]
	if !ok {
		return nil, false
	}
	return o.vals[i], true
}

// Has reports whether key is an own property of o.
func (o *Object) Has(key string) bool {
	_, ok := o.idx[key]
	return ok
}

// Len returns the number of own properties in o.
func (o *Object) Len() int { return len(o.keys) }

// Keys returns o's keys in insertion order. The returned slice must not be
// modified.
func (o *Object) Keys() []string { return o.keys }

// All returns an iterator over o's key/value pairs in insertion order.
func (o *Object) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for i, k := range o.keys {
			if !yield(k, o.vals[i]) {
				return
			}
		}
	}
}

// IsArray reports whether v is a JSON array.
func IsArray(v any) bool {
	_, ok := v.([]any)
	return ok
}

// IsObject reports whether v is a JSON object.
func IsObject(v any) bool {
	_, ok := v.(*Object)
	return ok
}

// IsNumber reports whether v is a JSON number as produced by this package's
// decoder (always float64).
func IsNumber(v any) bool {
	_, ok := v.(float64)
	return ok
}

// IsInteger reports whether v is a JSON number whose value is a finite
// mathematical integer.
func IsInteger(v any) bool {
	f, ok := v.(float64)
	if !ok {
		return false
	}
	return f == float64(int64(f))
}

// MatchesTypePredicate implements the ten type predicates of spec §4.4's
// TypeSelector: number, string, boolean, null, array, object, integer,
// scalar, nonscalar, and other (delegated to the optional callback).
func MatchesTypePredicate(name string, v any, other func(any) bool) bool {
	switch name {
	case "number":
		return IsNumber(v)
	case "integer":
		return IsInteger(v)
	case "string":
		_, ok := v.(string)
		return ok
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "null":
		return v == nil
	case "array":
		return IsArray(v)
	case "object":
		return IsObject(v)
	case "scalar":
		return v != nil && !IsArray(v) && !IsObject(v)
	case "nonscalar":
		return IsArray(v) || IsObject(v)
	case "other":
		return other != nil && other(v)
	default:
		return false
	}
}

// Len implements length() semantics (spec §8 item 14): character count for
// strings, element count for arrays, own-key count for objects, nil (no
// value) for everything else.
func Len(v any) any {
	switch x := v.(type) {
	case string:
		return utf8.RuneCountInString(x)
	case []any:
		return len(x)
	case *Object:
		return x.Len()
	default:
		return nil
	}
}

// DeepEqual reports whether a and b are structurally equal JSON values,
// coercing numeric comparisons are left to callers (both operands here are
// already known to be non-numeric container or scalar values).
func DeepEqual(a, b any) bool {
	switch av := a.(type) {
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !DeepEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv, ok := b.(*Object)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for k, v := range av.All() {
			bvv, ok := bv.Get(k)
			if !ok || !DeepEqual(v, bvv) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
