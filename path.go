package disclosure

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SegmentKind identifies the type of a path segment.
type SegmentKind uint8

const (
	// SegmentField selects a named key of an object.
	SegmentField SegmentKind = iota + 1
	// SegmentWildcard fans out over every element of an array or every value of an object.
	SegmentWildcard
	// SegmentIndex selects one array element.
	SegmentIndex
)

// String returns the lower-case name of the kind.
func (k SegmentKind) String() string {
	switch k {
	case SegmentField:
		return "field"
	case SegmentWildcard:
		return "wildcard"
	case SegmentIndex:
		return "index"
	default:
		return fmt.Sprintf("segment(%d)", uint8(k))
	}
}

// Segment is one step of a compiled path.
type Segment struct {
	Kind SegmentKind
	// Name is the key selected by a field segment.
	Name string
	// Index is the element selected by an index segment.
	Index int
	// Text is the segment as written, e.g. "runtimeAttributes", "*" or "[0]".
	Text string
	// Offset is the byte offset of Text in the source expression, or -1 for
	// segments built with FieldSegment, WildcardSegment or IndexSegment.
	Offset int
}

// FieldSegment returns a segment selecting key name. Unlike the textual
// grammar, name may contain any character, including '.'.
func FieldSegment(name string) Segment {
	return Segment{Kind: SegmentField, Name: name, Text: name, Offset: -1}
}

// WildcardSegment returns a fan-out segment.
func WildcardSegment() Segment {
	return Segment{Kind: SegmentWildcard, Text: "*", Offset: -1}
}

// IndexSegment returns a segment selecting array element n.
func IndexSegment(n int) Segment {
	return Segment{Kind: SegmentIndex, Index: n, Text: "[" + strconv.Itoa(n) + "]", Offset: -1}
}

// String returns the segment as written.
func (s Segment) String() string {
	return s.Text
}

// Path is a compiled path expression. A Path is immutable and safe to reuse
// across evaluations and goroutines.
//
// Example:
//
//	p, err := disclosure.Compile("calls.*[0].runtimeAttributes")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ex1 := p.Evaluate(doc1)
//	ex2 := p.Evaluate(doc2)
type Path struct {
	raw      string
	segments []Segment
}

// Compile parses and validates a path expression.
//
// Segments are separated by '.'; each is an identifier (letters, digits, '_'
// and '-') or '*', optionally followed by one bracket suffix: "[*]" or "[N]"
// with N a non-negative integer. Violations return an *Error with code
// ErrInvalidPath whose Fragment and Offset point at the offending text.
func Compile(expr string) (*Path, error) {
	if expr == "" {
		return nil, pathError(expr, 0, "", "path must not be empty")
	}

	var segments []Segment
	n := len(expr)
	i := 0

	for {
		start := i
		if expr[i] == '*' {
			i++
			segments = append(segments, Segment{Kind: SegmentWildcard, Text: "*", Offset: start})
		} else {
			i += readIdentifier(expr[i:])
			if i == start {
				return nil, emptyHead(expr, i)
			}
			name := expr[start:i]
			segments = append(segments, Segment{Kind: SegmentField, Name: name, Text: name, Offset: start})
		}

		if i < n && expr[i] == '[' {
			seg, advance, err := parseBracket(expr, i)
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)
			i += advance
			if i < n && expr[i] == '[' {
				end := strings.IndexByte(expr[i:], ']')
				frag := expr[i:]
				if end >= 0 {
					frag = expr[i : i+end+1]
				}
				return nil, pathError(expr, i, frag, "only one bracket suffix is allowed per segment, got %q", frag)
			}
		}

		if i == n {
			break
		}
		if expr[i] != '.' {
			r, _ := utf8.DecodeRuneInString(expr[i:])
			return nil, pathError(expr, i, string(r), "unexpected character %q", r)
		}
		i++
		if i == n {
			return nil, pathError(expr, i-1, ".", "path must not end with '.'")
		}
	}

	return &Path{raw: expr, segments: segments}, nil
}

// emptyHead reports a segment that does not start with a name or '*'.
func emptyHead(expr string, i int) *Error {
	switch {
	case i == len(expr):
		return pathError(expr, i, "", "expected a field name or '*' at end of path")
	case expr[i] == '.' && i == 0:
		return pathError(expr, 0, ".", "path must not start with '.'")
	case expr[i] == '.':
		return pathError(expr, i-1, "..", "empty segment between '.' separators")
	case expr[i] == '[':
		frag := expr[i:]
		if end := strings.IndexByte(frag, ']'); end >= 0 {
			frag = frag[:end+1]
		}
		return pathError(expr, i, frag, "bracket suffix %q must follow a field name or '*'", frag)
	default:
		r, _ := utf8.DecodeRuneInString(expr[i:])
		return pathError(expr, i, string(r), "unexpected character %q", r)
	}
}

func readIdentifier(s string) int {
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isIdentRune(r) {
			break
		}
		i += size
	}
	return i
}

func isIdentRune(r rune) bool {
	if r == utf8.RuneError {
		return false
	}
	return r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// parseBracket parses the suffix starting at expr[at] == '['.
func parseBracket(expr string, at int) (Segment, int, error) {
	end := strings.IndexByte(expr[at:], ']')
	if end < 0 {
		return Segment{}, 0, pathError(expr, at, expr[at:], "unclosed '['")
	}
	text := expr[at : at+end+1]
	inner := text[1 : len(text)-1]

	switch {
	case inner == "*":
		return Segment{Kind: SegmentWildcard, Text: text, Offset: at}, len(text), nil
	case inner == "":
		return Segment{}, 0, pathError(expr, at, text, "empty brackets")
	case strings.HasPrefix(inner, "-") && len(inner) > 1 && allDigits(inner[1:]):
		return Segment{}, 0, pathError(expr, at, text, "negative index %s is not supported; indices start at 0", inner)
	case !allDigits(inner):
		return Segment{}, 0, pathError(expr, at, text, "invalid index %q; expected '*' or a non-negative integer", inner)
	}

	idx, err := strconv.Atoi(inner)
	if err != nil {
		return Segment{}, 0, pathError(expr, at, text, "index %s is too large", inner)
	}
	return Segment{Kind: SegmentIndex, Index: idx, Text: text, Offset: at}, len(text), nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MustCompile compiles a path expression and panics if invalid.
// Use only for compile-time constant paths.
func MustCompile(expr string) *Path {
	p, err := Compile(expr)
	if err != nil {
		panic(fmt.Sprintf("disclosure.MustCompile: %v", err))
	}
	return p
}

// NewPath builds a path from segments without going through the textual
// grammar, which is how keys containing '.' are addressed.
func NewPath(segments ...Segment) (*Path, error) {
	if len(segments) == 0 {
		return nil, invalidInput("path needs at least one segment")
	}
	var b strings.Builder
	segs := make([]Segment, len(segments))
	for i, s := range segments {
		switch s.Kind {
		case SegmentField:
			if s.Name == "" {
				return nil, invalidInput("segment %d: field name must not be empty", i)
			}
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(s.Name)
		case SegmentWildcard:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteByte('*')
		case SegmentIndex:
			if s.Index < 0 {
				return nil, invalidInput("segment %d: negative index %d is not supported", i, s.Index)
			}
			b.WriteString("[" + strconv.Itoa(s.Index) + "]")
		default:
			return nil, invalidInput("segment %d: unknown kind %d", i, s.Kind)
		}
		segs[i] = s
		if segs[i].Text == "" {
			segs[i].Text = canonicalText(s)
		}
		segs[i].Offset = -1
	}
	return &Path{raw: b.String(), segments: segs}, nil
}

func canonicalText(s Segment) string {
	switch s.Kind {
	case SegmentField:
		return s.Name
	case SegmentWildcard:
		return "*"
	default:
		return "[" + strconv.Itoa(s.Index) + "]"
	}
}

// Segments returns a copy of the compiled segments.
func (p *Path) Segments() []Segment {
	out := make([]Segment, len(p.segments))
	copy(out, p.segments)
	return out
}

// String returns the original path expression.
func (p *Path) String() string {
	return p.raw
}
