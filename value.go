package disclosure

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind tags the six variants a Value can hold.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the lower-case JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// MarshalText lets Kind appear as a string in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Value is a read-only semi-structured value: null, boolean, number, string,
// ordered array or insertion-ordered object. The zero Value is null.
//
// Numbers keep their literal text so integers such as shard indices survive
// decoding without float rounding.
type Value struct {
	kind Kind
	b    bool
	s    string // string payload, or number literal
	arr  []Value
	obj  *Object
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int wraps an integer.
func Int(n int64) Value { return Value{kind: KindNumber, s: strconv.FormatInt(n, 10)} }

// Float wraps a float. NaN and infinities have no JSON form and become null.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Value{kind: KindNumber, s: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Number wraps a numeric literal such as "42" or "1.5e3".
func Number(literal string) (Value, error) {
	if _, err := strconv.ParseFloat(literal, 64); err != nil {
		return Value{}, &Error{Code: ErrInvalidDocument, Message: fmt.Sprintf("invalid number %q", literal), Offset: -1, Cause: err}
	}
	return Value{kind: KindNumber, s: literal}, nil
}

// Array wraps an ordered sequence of values.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, arr: items}
}

// ObjectValue wraps an ordered object. A nil object becomes an empty one.
func ObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, obj: o}
}

// ObjectOf builds an object from alternating key/value pairs.
//
//	doc := disclosure.ObjectOf("a", disclosure.ObjectOf("b", disclosure.Int(5)))
func ObjectOf(pairs ...any) Value {
	if len(pairs)%2 != 0 {
		panic("disclosure.ObjectOf: odd number of arguments")
	}
	o := NewObject()
	for i := 0; i < len(pairs); i += 2 {
		k, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("disclosure.ObjectOf: key %d is %T, not string", i/2, pairs[i]))
		}
		v, ok := pairs[i+1].(Value)
		if !ok {
			panic(fmt.Sprintf("disclosure.ObjectOf: value for %q is %T, not Value", k, pairs[i+1]))
		}
		o.Set(k, v)
	}
	return ObjectValue(o)
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload and whether v is a boolean.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsString returns the string payload and whether v is a string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// Float64 returns the numeric payload and whether v is a number.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.s, 64)
	return f, err == nil
}

// Int returns the numeric payload as an integer. It reports false when v is
// not a number or the number has a fractional part.
func (v Value) Int() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	if n, err := strconv.ParseInt(v.s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(v.s, 64)
	if err != nil || f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// Literal returns the number literal. It is empty for non-numbers.
func (v Value) Literal() string {
	if v.kind != KindNumber {
		return ""
	}
	return v.s
}

// Len returns the number of array elements or object keys, and 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return v.obj.Len()
	default:
		return 0
	}
}

// Get looks key up in an object. It reports false for missing keys and for
// every non-object value.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	return v.obj.Get(key)
}

// Index returns the i-th array element. It reports false when v is not an
// array or i is out of range.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return Value{}, false
	}
	return v.arr[i], true
}

// Items returns the array elements. The slice must not be modified.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.arr
}

// Object returns the ordered object and whether v is an object.
func (v Value) Object() (*Object, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// GetString is a convenience lookup of a string field, returning def when the
// field is absent or not a string.
func (v Value) GetString(key, def string) string {
	child, ok := v.Get(key)
	if !ok {
		return def
	}
	if s, ok := child.AsString(); ok {
		return s
	}
	return def
}

// GetInt is a convenience lookup of an integer field, returning def when the
// field is absent or not an integer.
func (v Value) GetInt(key string, def int64) int64 {
	child, ok := v.Get(key)
	if !ok {
		return def
	}
	if n, ok := child.Int(); ok {
		return n
	}
	return def
}

// Interface converts v to plain Go values: nil, bool, json.Number, string,
// []any and map[string]any. Object key order is lost.
func (v Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindNumber:
		return json.Number(v.s)
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, v.obj.Len())
		for i, k := range v.obj.keys {
			out[k] = v.obj.vals[i].Interface()
		}
		return out
	default:
		panic(fmt.Sprintf("disclosure: unknown value kind %d", v.kind))
	}
}

// MarshalJSON renders v as JSON, keeping object keys in insertion order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes JSON into v, keeping object keys in document order.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		buf.WriteString(v.s)
	case KindString:
		b, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, k := range v.obj.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(b)
			buf.WriteByte(':')
			if err := v.obj.vals[i].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("disclosure: unknown value kind %d", v.kind)
	}
	return nil
}

// Object is an insertion-ordered string-keyed mapping with unique keys.
type Object struct {
	keys  []string
	vals  []Value
	index map[string]int
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{index: map[string]int{}}
}

// Set stores v under key. A new key is appended; an existing key keeps its
// position and takes the new value. Set returns o for chaining. The zero
// Object is ready to use.
func (o *Object) Set(key string, v Value) *Object {
	if o.index == nil {
		o.index = map[string]int{}
	}
	if i, ok := o.index[key]; ok {
		o.vals[i] = v
		return o
	}
	o.index[key] = len(o.keys)
	o.keys = append(o.keys, key)
	o.vals = append(o.vals, v)
	return o
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	i, ok := o.index[key]
	if !ok {
		return Value{}, false
	}
	return o.vals[i], true
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order. The slice must not be modified.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

// At returns the i-th key and value in insertion order.
func (o *Object) At(i int) (string, Value) {
	return o.keys[i], o.vals[i]
}
