package jsonpath

import "github.com/agentable/jsonpath/internal/value"

// Object is an order-preserving JSON object: a string-keyed map that
// remembers insertion order. RFC 9535 and this package's superset
// extensions (wildcards, recursive descent, property-name selection) all
// depend on stable, insertion-ordered iteration over object members, which
// a plain Go map cannot provide. Object is the canonical representation of
// a JSON object throughout this package; JSON arrays remain []any. Its
// methods (Get, Set, Has, Len, Keys, All) are documented on
// [value.Object].
//
// The zero value is not usable; create one with NewObject.
type Object = value.Object

// NewObject creates an empty Object.
func NewObject() *Object { return value.New() }

// NewObjectSize creates an empty Object with capacity for n members.
func NewObjectSize(n int) *Object { return value.NewSize(n) }
