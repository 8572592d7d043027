package disclosure

import (
	"strconv"
	"strings"
)

// Match is a single value reached by a path.
type Match struct {
	// Path is the concrete provenance of the value, with every wildcard
	// replaced by the key or index it matched, e.g. "calls.align[3].stderr".
	Path string `json:"path"`
	// Bindings lists the keys/indices the wildcards matched, in order.
	Bindings []string `json:"bindings,omitempty"`
	// Value is the matched value.
	Value Value `json:"value"`
}

// Extraction is the outcome of evaluating one expression. It holds either
// matches or a Diagnostic explaining why nothing matched.
type Extraction struct {
	Expression string      `json:"expression"`
	Matches    []Match     `json:"matches,omitempty"`
	Diagnostic *Diagnostic `json:"error,omitempty"`
}

// OK reports whether the expression matched at least one value.
func (x Extraction) OK() bool {
	return len(x.Matches) > 0
}

// Values returns just the matched values, discarding provenance.
func (x Extraction) Values() []Value {
	vals := make([]Value, len(x.Matches))
	for i, m := range x.Matches {
		vals[i] = m.Value
	}
	return vals
}

// Paths returns just the provenance of each match.
func (x Extraction) Paths() []string {
	paths := make([]string, len(x.Matches))
	for i, m := range x.Matches {
		paths[i] = m.Path
	}
	return paths
}

// Collapse folds the matches into one value: nothing yields null, a single
// match yields its value, and several matches yield an object keyed by the
// joined wildcard bindings (or by provenance when a path has no wildcard).
//
// For "calls.*[0].runtimeAttributes" this gives {"task1": {...}, "task2": {...}}.
func (x Extraction) Collapse() Value {
	switch len(x.Matches) {
	case 0:
		return Null()
	case 1:
		return x.Matches[0].Value
	}
	o := NewObject()
	for _, m := range x.Matches {
		key := strings.Join(m.Bindings, ".")
		if key == "" {
			key = m.Path
		}
		if _, taken := o.Get(key); taken {
			key = m.Path
		}
		o.Set(key, m.Value)
	}
	return ObjectValue(o)
}

// Option configures evaluation behavior.
type Option func(*engine)

// DefaultMaxHintKeys caps the object keys listed in a Diagnostic.
const DefaultMaxHintKeys = 20

// WithMaxHintKeys sets how many object keys a Diagnostic lists.
// Values below 1 fall back to DefaultMaxHintKeys.
func WithMaxHintKeys(n int) Option {
	return func(e *engine) {
		if n > 0 {
			e.maxHintKeys = n
		}
	}
}

type engine struct {
	maxHintKeys int
}

func newEngine(opts []Option) *engine {
	e := &engine{maxHintKeys: DefaultMaxHintKeys}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate applies the compiled path to doc.
func (p *Path) Evaluate(doc Value, opts ...Option) Extraction {
	return newEngine(opts).evaluate(doc, p)
}

// Evaluate compiles expr and applies it to doc. A syntax error is reported
// as a Diagnostic of kind MissSyntax rather than returned.
//
// Example:
//
//	ex := disclosure.Evaluate(doc, "calls.*.executionStatus")
//	for _, m := range ex.Matches {
//	    fmt.Println(m.Path, m.Value)
//	}
func Evaluate(doc Value, expr string, opts ...Option) Extraction {
	p, err := Compile(expr)
	if err != nil {
		d := syntaxDiagnostic(expr, err)
		return Extraction{Expression: expr, Diagnostic: &d}
	}
	return newEngine(opts).evaluate(doc, p)
}

// Extract evaluates each expression independently against doc. A failure
// in one expression never affects the others; results keep input order.
func Extract(doc Value, expressions []string, opts ...Option) []Extraction {
	e := newEngine(opts)
	out := make([]Extraction, len(expressions))
	for i, expr := range expressions {
		p, err := Compile(expr)
		if err != nil {
			d := syntaxDiagnostic(expr, err)
			out[i] = Extraction{Expression: expr, Diagnostic: &d}
			continue
		}
		out[i] = e.evaluate(doc, p)
	}
	return out
}

// evalContext is one live branch of an evaluation.
type evalContext struct {
	path     string
	bindings []string
	value    Value
}

// miss records where a branch died.
type miss struct {
	kind    MissKind
	segment int
	at      string
	value   Value
}

func (e *engine) evaluate(root Value, p *Path) Extraction {
	active := []evalContext{{value: root}}
	var anchor *miss
	record := func(kind MissKind, si int, c evalContext) {
		if anchor == nil {
			anchor = &miss{kind: kind, segment: si, at: c.path, value: c.value}
		}
	}

	for si, seg := range p.segments {
		next := make([]evalContext, 0, len(active))
		for _, c := range active {
			switch seg.Kind {
			case SegmentField:
				if c.value.Kind() != KindObject {
					record(MissTypeMismatch, si, c)
					continue
				}
				child, ok := c.value.Get(seg.Name)
				if !ok {
					record(MissNotFound, si, c)
					continue
				}
				next = append(next, evalContext{path: joinField(c.path, seg.Name), bindings: c.bindings, value: child})

			case SegmentWildcard:
				switch c.value.Kind() {
				case KindArray:
					items := c.value.Items()
					if len(items) == 0 {
						record(MissEmpty, si, c)
					}
					for i, item := range items {
						next = append(next, evalContext{
							path:     joinIndex(c.path, i),
							bindings: bind(c.bindings, strconv.Itoa(i)),
							value:    item,
						})
					}
				case KindObject:
					obj, _ := c.value.Object()
					if obj.Len() == 0 {
						record(MissEmpty, si, c)
					}
					for i := 0; i < obj.Len(); i++ {
						k, v := obj.At(i)
						next = append(next, evalContext{
							path:     joinField(c.path, k),
							bindings: bind(c.bindings, k),
							value:    v,
						})
					}
				default:
					record(MissTypeMismatch, si, c)
				}

			case SegmentIndex:
				if c.value.Kind() != KindArray {
					record(MissTypeMismatch, si, c)
					continue
				}
				item, ok := c.value.Index(seg.Index)
				if !ok {
					record(MissIndexOutOfRange, si, c)
					continue
				}
				next = append(next, evalContext{path: joinIndex(c.path, seg.Index), bindings: c.bindings, value: item})
			}
		}
		active = next
	}

	ex := Extraction{Expression: p.raw}
	if len(active) == 0 {
		m := miss{kind: MissEmpty, value: root}
		if anchor != nil {
			m = *anchor
		}
		d := buildDiagnostic(p, m, e.maxHintKeys)
		ex.Diagnostic = &d
		return ex
	}
	ex.Matches = make([]Match, len(active))
	for i, c := range active {
		ex.Matches[i] = Match{Path: c.path, Bindings: c.bindings, Value: c.value}
	}
	return ex
}

func joinField(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func joinIndex(prefix string, i int) string {
	return prefix + "[" + strconv.Itoa(i) + "]"
}

// bind appends without sharing the backing array between sibling branches.
func bind(bindings []string, key string) []string {
	return append(bindings[:len(bindings):len(bindings)], key)
}
