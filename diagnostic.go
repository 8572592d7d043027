package disclosure

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// MissKind classifies why an expression produced no value.
type MissKind uint8

const (
	// MissSyntax means the expression did not compile.
	MissSyntax MissKind = iota + 1
	// MissNotFound means an object lacked the requested field.
	MissNotFound
	// MissTypeMismatch means a segment met a value of the wrong kind,
	// e.g. a field name applied to an array.
	MissTypeMismatch
	// MissIndexOutOfRange means an index fell outside an array.
	MissIndexOutOfRange
	// MissEmpty means a wildcard met an empty array or object.
	MissEmpty
)

// String returns the snake_case name of the kind.
func (k MissKind) String() string {
	switch k {
	case MissSyntax:
		return "syntax"
	case MissNotFound:
		return "not_found"
	case MissTypeMismatch:
		return "type_mismatch"
	case MissIndexOutOfRange:
		return "index_out_of_range"
	case MissEmpty:
		return "empty"
	default:
		return fmt.Sprintf("miss(%d)", uint8(k))
	}
}

// MarshalText lets MissKind appear as a string in JSON output.
func (k MissKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Diagnostic explains an empty evaluation precisely enough for a caller to
// correct the expression: it names the failing segment, where evaluation
// stood, and what was available there.
type Diagnostic struct {
	Kind       MissKind `json:"kind"`
	Expression string   `json:"expression"`
	// Segment is the failing segment as written in Expression.
	Segment      string `json:"segment,omitempty"`
	SegmentIndex int    `json:"segment_index"`
	// Offset is the byte offset of Segment in Expression, -1 when unknown.
	Offset int `json:"offset"`
	// At is the provenance of the last value reached; empty means the root.
	At string `json:"at"`
	// Found is the kind of the last value reached.
	Found string `json:"found,omitempty"`
	// Keys lists up to the configured number of the reached object's keys, sorted.
	Keys      []string `json:"keys,omitempty"`
	TotalKeys int      `json:"total_keys,omitempty"`
	// Length and ValidRange describe the reached array.
	Length     *int   `json:"length,omitempty"`
	ValidRange string `json:"valid_range,omitempty"`
	Message    string `json:"message"`
}

// Error implements the error interface so a Diagnostic can be surfaced as-is.
func (d *Diagnostic) Error() string {
	return d.Message
}

func syntaxDiagnostic(expr string, err error) Diagnostic {
	d := Diagnostic{Kind: MissSyntax, Expression: expr, Offset: -1, SegmentIndex: -1, Message: err.Error()}
	var pe *Error
	if errors.As(err, &pe) {
		d.Segment = pe.Fragment
		d.Offset = pe.Offset
		d.Message = pe.Message
	}
	return d
}

func buildDiagnostic(p *Path, m miss, maxKeys int) Diagnostic {
	d := Diagnostic{
		Kind:         m.kind,
		Expression:   p.raw,
		SegmentIndex: m.segment,
		Offset:       -1,
		At:           m.at,
		Found:        m.value.Kind().String(),
	}
	var seg Segment
	if m.segment >= 0 && m.segment < len(p.segments) {
		seg = p.segments[m.segment]
		d.Segment = seg.Text
		d.Offset = seg.Offset
	}

	var hint string
	switch m.value.Kind() {
	case KindObject:
		obj, _ := m.value.Object()
		d.Keys, d.TotalKeys = sortedKeys(obj, maxKeys)
		hint = keysHint(d.Keys, d.TotalKeys)
	case KindArray:
		n := m.value.Len()
		d.Length = &n
		if n > 0 {
			d.ValidRange = fmt.Sprintf("0..%d", n-1)
			hint = fmt.Sprintf("array has %d element(s); valid index range is %s", n, d.ValidRange)
		} else {
			hint = "array is empty; there is no valid index"
		}
	}

	where := describeAt(m.at)
	switch m.kind {
	case MissNotFound:
		d.Message = fmt.Sprintf("field %q not found at %s", seg.Name, where)
	case MissTypeMismatch:
		d.Message = fmt.Sprintf("%s segment %q needs %s, but %s is %s",
			seg.Kind, seg.Text, expectedKinds(seg.Kind), where, withArticle(m.value.Kind()))
	case MissIndexOutOfRange:
		d.Message = fmt.Sprintf("index %d out of range at %s", seg.Index, where)
	case MissEmpty:
		d.Message = fmt.Sprintf("wildcard %q matched nothing: %s is an empty %s", seg.Text, where, m.value.Kind())
	default:
		d.Message = fmt.Sprintf("no value at %s", where)
	}
	d.Message = fmt.Sprintf("%s (segment %d %q of %q)", d.Message, m.segment, seg.Text, p.raw)
	if hint != "" {
		d.Message += "; " + hint
	}
	return d
}

func describeAt(at string) string {
	if at == "" {
		return "the document root"
	}
	return at
}

func expectedKinds(k SegmentKind) string {
	switch k {
	case SegmentField:
		return "an object"
	case SegmentWildcard:
		return "an array or object"
	case SegmentIndex:
		return "an array"
	default:
		return "a container"
	}
}

func withArticle(k Kind) string {
	switch k {
	case KindArray, KindObject:
		return "an " + k.String()
	case KindNull:
		return "null"
	default:
		return "a " + k.String()
	}
}

// sortedKeys returns up to max keys of o in sorted order plus the total.
func sortedKeys(o *Object, max int) ([]string, int) {
	total := o.Len()
	keys := make([]string, total)
	copy(keys, o.Keys())
	sort.Strings(keys)
	if max > 0 && len(keys) > max {
		keys = keys[:max]
	}
	return keys, total
}

func keysHint(keys []string, total int) string {
	if total == 0 {
		return "object has no keys"
	}
	if len(keys) < total {
		return fmt.Sprintf("available keys (%d of %d): %s", len(keys), total, strings.Join(keys, ", "))
	}
	return "available keys: " + strings.Join(keys, ", ")
}
