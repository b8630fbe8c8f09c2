package serp

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a position inside a decoded JSON document. Lookups never panic:
// walking through a missing or mistyped node yields an absent Value that
// remembers the path it was asked for.
type Value struct {
	raw     any
	present bool
	path    string
}

// Lookup wraps a document produced by encoding/json, with or without
// Decoder.UseNumber.
func Lookup(doc any) Value {
	return Value{raw: doc, present: true, path: "$"}
}

// Field returns the named member of an object.
func (v Value) Field(name string) Value {
	path := v.path + "." + name
	obj, ok := v.raw.(map[string]any)
	if !v.present || !ok {
		return Value{path: path}
	}
	raw, ok := obj[name]
	return Value{raw: raw, present: ok, path: path}
}

// Index returns the i-th element of an array.
func (v Value) Index(i int) Value {
	path := v.path + "[" + strconv.Itoa(i) + "]"
	arr, ok := v.raw.([]any)
	if !v.present || !ok || i < 0 || i >= len(arr) {
		return Value{path: path}
	}
	return Value{raw: arr[i], present: true, path: path}
}

// Present reports whether the node exists. A JSON null counts as present.
func (v Value) Present() bool {
	return v.present
}

// Raw returns the underlying value, or nil when absent.
func (v Value) Raw() any {
	return v.raw
}

// Path is the JSON path this value was looked up at.
func (v Value) Path() string {
	return v.path
}

// Array returns the node as an array.
func (v Value) Array() ([]any, bool) {
	if !v.present {
		return nil, false
	}
	arr, ok := v.raw.([]any)
	return arr, ok
}

// Str returns the node as a string.
func (v Value) Str() (string, bool) {
	if !v.present {
		return "", false
	}
	s, ok := v.raw.(string)
	return s, ok
}

// Float returns the node as a number.
func (v Value) Float() (float64, bool) {
	if !v.present {
		return 0, false
	}
	switch n := v.raw.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// RequireStr is Str that reports a missing or mistyped node as ErrMalformedResponse.
func (v Value) RequireStr() (string, error) {
	s, ok := v.Str()
	if !ok {
		return "", v.malformed("string")
	}
	return s, nil
}

// RequireFloat is Float that reports a missing or mistyped node as ErrMalformedResponse.
func (v Value) RequireFloat() (float64, error) {
	f, ok := v.Float()
	if !ok {
		return 0, v.malformed("number")
	}
	return f, nil
}

// RequireArray is Array that reports a missing or mistyped node as ErrMalformedResponse.
func (v Value) RequireArray() ([]any, error) {
	arr, ok := v.Array()
	if !ok {
		return nil, v.malformed("array")
	}
	return arr, nil
}

func (v Value) malformed(want string) error {
	if !v.present {
		return fmt.Errorf("%w: %s is missing", ErrMalformedResponse, v.path)
	}
	return fmt.Errorf("%w: %s is not a %s", ErrMalformedResponse, v.path, want)
}
