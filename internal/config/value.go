// ABOUTME: Tagged value type for configuration data of varying shape
// ABOUTME: Wraps decoded YAML scalars, sequences and mappings behind one type

package config

import (
	"fmt"
	"sort"
)

// Kind identifies the shape of a configuration Value.
type Kind int

const (
	// KindScalar is a single decoded value: string, bool, int, float or null.
	KindScalar Kind = iota
	// KindSequence is an ordered list of Values.
	KindSequence
	// KindMapping is a string-keyed map of Values.
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a single configuration value. The zero Value is a null scalar,
// which is what Get returns for an absent key with no default.
type Value struct {
	kind    Kind
	scalar  any
	seq     []Value
	mapping map[string]Value
}

// String wraps a string as a scalar Value.
func String(s string) Value { return Value{scalar: s} }

// Int wraps an int as a scalar Value.
func Int(i int) Value { return Value{scalar: i} }

// Bool wraps a bool as a scalar Value.
func Bool(b bool) Value { return Value{scalar: b} }

// Strings wraps a list of strings as a sequence Value.
func Strings(ss ...string) Value {
	seq := make([]Value, len(ss))
	for i, s := range ss {
		seq[i] = String(s)
	}
	return Value{kind: KindSequence, seq: seq}
}

// fromDecoded converts a yaml.v3-decoded any into a Value.
// Unknown scalar types are carried through as-is.
func fromDecoded(v any) Value {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, child := range t {
			m[k] = fromDecoded(child)
		}
		return Value{kind: KindMapping, mapping: m}
	case []any:
		seq := make([]Value, len(t))
		for i, child := range t {
			seq[i] = fromDecoded(child)
		}
		return Value{kind: KindSequence, seq: seq}
	default:
		return Value{scalar: t}
	}
}

// Kind returns the shape of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether the value is a null scalar (absent key, YAML null).
func (v Value) IsNil() bool { return v.kind == KindScalar && v.scalar == nil }

// AsString returns the value as a string if it is a string scalar.
func (v Value) AsString() (string, bool) {
	s, ok := v.scalar.(string)
	return s, ok && v.kind == KindScalar
}

// AsInt returns the value as an int if it is an integer scalar.
func (v Value) AsInt() (int, bool) {
	if v.kind != KindScalar {
		return 0, false
	}
	switch t := v.scalar.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	}
	return 0, false
}

// AsBool returns the value as a bool if it is a boolean scalar.
func (v Value) AsBool() (bool, bool) {
	b, ok := v.scalar.(bool)
	return b, ok && v.kind == KindScalar
}

// AsFloat returns the value as a float64 if it is a numeric scalar.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindScalar {
		return 0, false
	}
	switch t := v.scalar.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

// AsSequence returns the elements of a sequence value.
func (v Value) AsSequence() ([]Value, bool) {
	if v.kind != KindSequence {
		return nil, false
	}
	return v.seq, true
}

// AsStrings returns a sequence value whose elements are all string scalars.
func (v Value) AsStrings() ([]string, bool) {
	seq, ok := v.AsSequence()
	if !ok {
		return nil, false
	}
	out := make([]string, len(seq))
	for i, elem := range seq {
		s, ok := elem.AsString()
		if !ok {
			return nil, false
		}
		out[i] = s
	}
	return out, true
}

// AsMapping returns the entries of a mapping value.
func (v Value) AsMapping() (map[string]Value, bool) {
	if v.kind != KindMapping {
		return nil, false
	}
	return v.mapping, true
}

// Keys returns the sorted keys of a mapping value, or nil for other kinds.
func (v Value) Keys() []string {
	if v.kind != KindMapping {
		return nil
	}
	keys := make([]string, 0, len(v.mapping))
	for k := range v.mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
