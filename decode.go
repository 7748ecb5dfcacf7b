package jsonpath

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-json-experiment/json/jsontext"
)

// Unmarshal decodes JSON src into this package's canonical in-memory value
// representation: *Object for objects (insertion-order preserving), []any
// for arrays, string, float64, bool, or nil for scalars. Unlike
// encoding/json or a bare github.com/go-json-experiment/json Unmarshal into
// any (which both degrade objects to unordered map[string]any), Unmarshal
// walks the jsontext token stream directly so that object member order
// survives, matching spec §3's ordering invariant.
func Unmarshal(src []byte) (any, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(src))
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.ReadToken(); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("jsonpath: trailing data after JSON value")
		}
		return nil, err
	}
	return v, nil
}

// decodeValue reads one complete JSON value from dec.
func decodeValue(dec *jsontext.Decoder) (any, error) {
	tok, err := dec.ReadToken()
	if err != nil {
		return nil, err
	}
	switch tok.Kind() {
	case 'n':
		return nil, nil
	case 'f':
		return false, nil
	case 't':
		return true, nil
	case '"':
		return tok.String(), nil
	case '0':
		return tok.Float(), nil
	case '[':
		return decodeArray(dec)
	case '{':
		return decodeObject(dec)
	default:
		return nil, fmt.Errorf("jsonpath: unexpected token kind %q", tok.Kind())
	}
}

// decodeArray reads array elements until the matching ']', which the
// preceding ReadToken for '[' has already consumed as its opener.
func decodeArray(dec *jsontext.Decoder) ([]any, error) {
	arr := []any{}
	for dec.PeekKind() != ']' {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	if _, err := dec.ReadToken(); err != nil { // consume ']'
		return nil, err
	}
	return arr, nil
}

// decodeObject reads object members in the order they appear on the wire,
// into an order-preserving Object.
func decodeObject(dec *jsontext.Decoder) (*Object, error) {
	obj := NewObject()
	for dec.PeekKind() != '}' {
		keyTok, err := dec.ReadToken()
		if err != nil {
			return nil, err
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.Set(keyTok.String(), val)
	}
	if _, err := dec.ReadToken(); err != nil { // consume '}'
		return nil, err
	}
	return obj, nil
}

// Marshal encodes v (this package's value representation, or a value built
// from Go's usual JSON primitives) back to JSON bytes, preserving Object
// member order.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf)
	if err := encodeValue(enc, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(enc *jsontext.Encoder, v any) error {
	switch x := v.(type) {
	case nil:
		return enc.WriteToken(jsontext.Null)
	case bool:
		return enc.WriteToken(jsontext.Bool(x))
	case string:
		return enc.WriteToken(jsontext.String(x))
	case float64:
		return enc.WriteToken(jsontext.Float(x))
	case int:
		return enc.WriteToken(jsontext.Int(int64(x)))
	case int64:
		return enc.WriteToken(jsontext.Int(x))
	case []any:
		if err := enc.WriteToken(jsontext.ArrayStart); err != nil {
			return err
		}
		for _, elem := range x {
			if err := encodeValue(enc, elem); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.ArrayEnd)
	case *Object:
		if err := enc.WriteToken(jsontext.ObjectStart); err != nil {
			return err
		}
		for k, val := range x.All() {
			if err := enc.WriteToken(jsontext.String(k)); err != nil {
				return err
			}
			if err := encodeValue(enc, val); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.ObjectEnd)
	default:
		return fmt.Errorf("jsonpath: cannot encode value of type %T", v)
	}
}
