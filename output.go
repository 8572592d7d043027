package disclosure

import (
	"fmt"
	"strconv"
	"strings"
)

// OutputQuery selects a task output without writing a path expression, so
// task names containing '.' can be addressed.
type OutputQuery struct {
	Task string
	// Shard selects the record whose shardIndex equals *Shard. When nil the
	// task's first record is used.
	Shard *int
	// Output is the key under "outputs"; empty selects the whole outputs object.
	Output string
}

// ExtractOutput resolves calls.<Task>[pos].outputs.<Output>, where pos is the
// position of the record matching Shard. Misses are reported through the
// Extraction's Diagnostic; only an empty Task is an error.
func ExtractOutput(doc Value, q OutputQuery, opts ...Option) (Extraction, error) {
	if q.Task == "" {
		return Extraction{}, invalidInput("output query needs a task name")
	}
	e := newEngine(opts)

	taskPath, _ := NewPath(FieldSegment("calls"), FieldSegment(q.Task))
	records := e.evaluate(doc, taskPath)
	if !records.OK() {
		return records, nil
	}

	pos := 0
	if q.Shard != nil {
		var found bool
		pos, found = findShard(records.Matches[0].Value, *q.Shard)
		if !found {
			d := shardDiagnostic(taskPath, records.Matches[0], *q.Shard, e.maxHintKeys)
			return Extraction{Expression: taskPath.String(), Diagnostic: &d}, nil
		}
	}

	segs := []Segment{FieldSegment("calls"), FieldSegment(q.Task), IndexSegment(pos), FieldSegment("outputs")}
	if q.Output != "" {
		segs = append(segs, FieldSegment(q.Output))
	}
	p, err := NewPath(segs...)
	if err != nil {
		return Extraction{}, err
	}
	return e.evaluate(doc, p), nil
}

func findShard(records Value, shard int) (int, bool) {
	for i, r := range records.Items() {
		if r.GetInt("shardIndex", -1) == int64(shard) {
			return i, true
		}
	}
	return 0, false
}

func shardDiagnostic(p *Path, at Match, shard, maxKeys int) Diagnostic {
	var avail []string
	total := 0
	for _, r := range at.Value.Items() {
		if n, ok := r.Get("shardIndex"); ok && n.Kind() == KindNumber {
			total++
			if len(avail) < maxKeys {
				avail = append(avail, n.Literal())
			}
		}
	}
	n := at.Value.Len()
	d := Diagnostic{
		Kind:         MissNotFound,
		Expression:   p.String(),
		Segment:      "[shardIndex=" + strconv.Itoa(shard) + "]",
		SegmentIndex: len(p.segments),
		Offset:       -1,
		At:           at.Path,
		Found:        at.Value.Kind().String(),
		Length:       &n,
		Keys:         avail,
		TotalKeys:    total,
	}
	if n > 0 {
		d.ValidRange = fmt.Sprintf("0..%d", n-1)
	}
	d.Message = fmt.Sprintf("no record with shardIndex %d at %s", shard, at.Path)
	switch {
	case total == 0:
		d.Message += "; no record carries a shardIndex"
	case len(avail) < total:
		d.Message += fmt.Sprintf("; available shard indices (%d of %d): %s", len(avail), total, strings.Join(avail, ", "))
	default:
		d.Message += "; available shard indices: " + strings.Join(avail, ", ")
	}
	return d
}
