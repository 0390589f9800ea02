package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind tags the variant held by a Value
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindText
	KindTextArray
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindTextArray:
		return "text[]"
	}
	return fmt.Sprintf("ValueKind(%d)", int(k))
}

// Value is a field value or condition operand: Null | Bool | Number | Text | TextArray.
// The zero Value is Null. Values are immutable once constructed.
type Value struct {
	kind ValueKind
	b    bool
	n    float64
	s    string
	arr  []string
}

// Null returns the null value
func Null() Value { return Value{} }

// Bool returns a boolean value
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric value
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Text returns a string value
func Text(s string) Value { return Value{kind: KindText, s: s} }

// TextArray returns a multi-value string list
func TextArray(items ...string) Value {
	arr := make([]string, len(items))
	copy(arr, items)
	return Value{kind: KindTextArray, arr: arr}
}

// Kind returns the variant tag
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether v is the null value
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload and whether v is a Bool
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the numeric payload and whether v is a Number
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsText returns the string payload and whether v is a Text
func (v Value) AsText() (string, bool) { return v.s, v.kind == KindText }

// AsTextArray returns a copy of the list payload and whether v is a TextArray
func (v Value) AsTextArray() ([]string, bool) {
	if v.kind != KindTextArray {
		return nil, false
	}
	out := make([]string, len(v.arr))
	copy(out, v.arr)
	return out, true
}

// Equal is strict equality: kinds must match, no coercion.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	case KindText:
		return v.s == o.s
	case KindTextArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if v.arr[i] != o.arr[i] {
				return false
			}
		}
		return true
	}
	return false
}

// ToNumber coerces v for ordered comparison. Numbers pass through, text is
// parsed after trimming spaces, everything else is NaN.
func (v Value) ToNumber() float64 {
	switch v.kind {
	case KindNumber:
		return v.n
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

// String renders v for display and substring operators
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindText:
		return v.s
	case KindTextArray:
		return strings.Join(v.arr, ";")
	}
	return ""
}

// Native converts v to the plain Go value used by expression environments
func (v Value) Native() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindText:
		return v.s
	case KindTextArray:
		out := make([]string, len(v.arr))
		copy(out, v.arr)
		return out
	}
	return nil
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			return nil, fmt.Errorf("cannot encode non-finite number %v", v.n)
		}
		return json.Marshal(v.n)
	case KindText:
		return json.Marshal(v.s)
	case KindTextArray:
		if v.arr == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.arr)
	}
	return []byte("null"), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty value")
	}
	switch data[0] {
	case 'n':
		*v = Null()
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("array values must contain only strings: %w", err)
		}
		*v = TextArray(items...)
		return nil
	case '{':
		return fmt.Errorf("object values are not supported")
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = Number(n)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (v Value) MarshalYAML() (interface{}, error) {
	return v.Native(), nil
}

// UnmarshalYAML implements the yaml.v3 obsolete-style unmarshaler; the node
// is decoded generically and converted with FromNative.
func (v *Value) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	val, err := FromNative(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// FromNative converts a decoded JSON/YAML value into a Value
func FromNative(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(float64(x)), nil
	case int:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case uint64:
		return Number(float64(x)), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Null(), err
		}
		return Number(f), nil
	case string:
		return Text(x), nil
	case []string:
		return TextArray(x...), nil
	case []any:
		items := make([]string, 0, len(x))
		for i, item := range x {
			s, ok := item.(string)
			if !ok {
				return Null(), fmt.Errorf("array element %d: expected string, got %T", i, item)
			}
			items = append(items, s)
		}
		return TextArray(items...), nil
	}
	return Null(), fmt.Errorf("unsupported value type %T", raw)
}

// Record is the current field-value map of one entity instance
type Record map[string]Value

// Get returns the value stored under apiName, or Null when absent
func (r Record) Get(apiName string) Value {
	if r == nil {
		return Null()
	}
	return r[apiName]
}

// Env converts the record to the environment used by the expression engine
func (r Record) Env() map[string]interface{} {
	env := make(map[string]interface{}, len(r))
	for k, v := range r {
		env[k] = v.Native()
	}
	return env
}

// RecordFromMap converts a decoded JSON payload into a Record
func RecordFromMap(raw map[string]interface{}) (Record, error) {
	rec := make(Record, len(raw))
	for k, item := range raw {
		v, err := FromNative(item)
		if err != nil {
			return nil, fmt.Errorf("field '%s': %w", k, err)
		}
		rec[k] = v
	}
	return rec, nil
}
