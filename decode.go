package disclosure

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

func documentError(message string, cause error) *Error {
	return &Error{Code: ErrInvalidDocument, Message: message, Offset: -1, Cause: cause}
}

// ParseJSON decodes a JSON document into a Value. Object keys keep their
// document order; when a key repeats, the first position is kept and the
// last value wins.
//
// Example:
//
//	doc, err := disclosure.ParseJSON(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
func ParseJSON(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Value{}, documentError("failed to parse JSON", errors.New("empty document"))
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeJSON(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return Value{}, documentError("failed to parse JSON", err)
	}
	if tok, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = fmt.Errorf("unexpected trailing token %v", tok)
		}
		return Value{}, documentError("failed to parse JSON", err)
	}
	return v, nil
}

func decodeJSON(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Value{kind: KindNumber, s: string(t)}, nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			items := []Value{}
			for dec.More() {
				item, err := decodeJSON(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Array(items...), nil
		case '{':
			o := NewObject()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := kt.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key %v is not a string", kt)
				}
				val, err := decodeJSON(dec)
				if err != nil {
					return Value{}, err
				}
				o.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return ObjectValue(o), nil
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

// ParseYAML decodes the first document of a YAML stream into a Value. Mapping
// order is preserved and aliases are expanded. A document whose aliases would
// expand far beyond its own size is rejected.
func ParseYAML(data []byte) (Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Value{}, documentError("failed to parse YAML", err)
	}
	d := &yamlConverter{
		active: map[*yaml.Node]bool{},
		budget: countYAMLNodes(&root)*yamlExpansionRatio + yamlExpansionSlack,
	}
	v, err := d.convert(&root)
	if err != nil {
		return Value{}, documentError("failed to convert YAML", err)
	}
	return v, nil
}

// Alias expansion may build at most this many values per source node, plus
// a fixed allowance for small documents.
const (
	yamlExpansionRatio = 100
	yamlExpansionSlack = 10000
)

var errYAMLAliasExpansion = errors.New("document contains excessive aliasing")

type yamlConverter struct {
	active map[*yaml.Node]bool
	budget int
}

// countYAMLNodes counts nodes as written, without following aliases.
func countYAMLNodes(n *yaml.Node) int {
	c := 1
	for _, child := range n.Content {
		c += countYAMLNodes(child)
	}
	return c
}

func (d *yamlConverter) convert(n *yaml.Node) (Value, error) {
	d.budget--
	if d.budget < 0 {
		return Value{}, errYAMLAliasExpansion
	}
	switch n.Kind {
	case 0:
		return Null(), nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return d.convert(n.Content[0])
	case yaml.AliasNode:
		if d.active[n.Alias] {
			return Value{}, fmt.Errorf("line %d: recursive alias %q", n.Line, n.Value)
		}
		d.active[n.Alias] = true
		defer delete(d.active, n.Alias)
		return d.convert(n.Alias)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := d.convert(c)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Array(items...), nil
	case yaml.MappingNode:
		o := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			val, err := d.convert(n.Content[i+1])
			if err != nil {
				return Value{}, err
			}
			o.Set(n.Content[i].Value, val)
		}
		return ObjectValue(o), nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	default:
		return Value{}, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
	}
}

func yamlScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			// Out of int64 range; keep the magnitude as a float.
			var f float64
			if ferr := n.Decode(&f); ferr != nil {
				return Value{}, err
			}
			return Float(f), nil
		}
		return Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, err
		}
		return Float(f), nil
	default:
		return String(n.Value), nil
	}
}

// FromInterface converts plain Go values into a Value. Maps are emitted with
// sorted keys since Go maps carry no order; other types (structs, typed
// slices) go through encoding/json, which keeps struct field order.
func FromInterface(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return Number(string(t))
	case float64:
		return Float(t), nil
	case float32:
		return Float(float64(t)), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case int32:
		return Int(int64(t)), nil
	case uint64:
		if t > math.MaxInt64 {
			return Value{kind: KindNumber, s: strconv.FormatUint(t, 10)}, nil
		}
		return Int(int64(t)), nil
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			v, err := FromInterface(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return Array(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		o := NewObject()
		for _, k := range keys {
			v, err := FromInterface(t[k])
			if err != nil {
				return Value{}, err
			}
			o.Set(k, v)
		}
		return ObjectValue(o), nil
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return Value{}, documentError(fmt.Sprintf("cannot convert %T", x), err)
		}
		return ParseJSON(data)
	}
}
