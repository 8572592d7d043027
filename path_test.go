package disclosure_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/go-disclosure"
)

func TestCompileSegments(t *testing.T) {
	tests := []struct {
		expr string
		want []disclosure.Segment
	}{
		{
			expr: "calls.*[0].runtimeAttributes",
			want: []disclosure.Segment{
				{Kind: disclosure.SegmentField, Name: "calls", Text: "calls", Offset: 0},
				{Kind: disclosure.SegmentWildcard, Text: "*", Offset: 6},
				{Kind: disclosure.SegmentIndex, Index: 0, Text: "[0]", Offset: 7},
				{Kind: disclosure.SegmentField, Name: "runtimeAttributes", Text: "runtimeAttributes", Offset: 11},
			},
		},
		{
			expr: "calls.align[*]",
			want: []disclosure.Segment{
				{Kind: disclosure.SegmentField, Name: "calls", Text: "calls", Offset: 0},
				{Kind: disclosure.SegmentField, Name: "align", Text: "align", Offset: 6},
				{Kind: disclosure.SegmentWildcard, Text: "[*]", Offset: 11},
			},
		},
		{
			expr: "call-caching.hit_2",
			want: []disclosure.Segment{
				{Kind: disclosure.SegmentField, Name: "call-caching", Text: "call-caching", Offset: 0},
				{Kind: disclosure.SegmentField, Name: "hit_2", Text: "hit_2", Offset: 13},
			},
		},
		{
			expr: "a[12]",
			want: []disclosure.Segment{
				{Kind: disclosure.SegmentField, Name: "a", Text: "a", Offset: 0},
				{Kind: disclosure.SegmentIndex, Index: 12, Text: "[12]", Offset: 1},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			p, err := disclosure.Compile(tt.expr)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, p.Segments()); diff != "" {
				t.Errorf("segments mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.expr, p.String())
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		expr     string
		offset   int
		fragment string
	}{
		{"", 0, ""},
		{".calls", 0, "."},
		{"calls..status", 5, ".."},
		{"calls.", 5, "."},
		{"calls[", 5, "["},
		{"calls[]", 5, "[]"},
		{"calls[-1]", 5, "[-1]"},
		{"calls[x]", 5, "[x]"},
		{"calls[1:2]", 5, "[1:2]"},
		{"calls[0][1]", 8, "[1]"},
		{"[0]", 0, "[0]"},
		{"calls status", 5, " "},
		{"calls[99999999999999999999]", 5, "[99999999999999999999]"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := disclosure.Compile(tt.expr)
			require.Error(t, err)
			assert.True(t, disclosure.IsPathError(err))

			var pe *disclosure.Error
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, disclosure.ErrInvalidPath, pe.Code)
			assert.Equal(t, tt.offset, pe.Offset)
			assert.Equal(t, tt.fragment, pe.Fragment)
		})
	}
}

func TestMustCompilePanic(t *testing.T) {
	assert.Panics(t, func() { disclosure.MustCompile("a[") })
	assert.NotPanics(t, func() { disclosure.MustCompile("a[0]") })
}

func TestNewPath(t *testing.T) {
	p, err := disclosure.NewPath(
		disclosure.FieldSegment("calls"),
		disclosure.FieldSegment("wf.align"),
		disclosure.IndexSegment(0),
		disclosure.WildcardSegment(),
	)
	require.NoError(t, err)
	assert.Equal(t, "calls.wf.align[0].*", p.String())

	doc := disclosure.ObjectOf("calls", disclosure.ObjectOf(
		"wf.align", disclosure.Array(disclosure.ObjectOf("stderr", disclosure.String("gs://b/stderr"))),
	))
	ex := p.Evaluate(doc)
	require.True(t, ex.OK())
	assert.Equal(t, []string{"calls.wf.align[0].stderr"}, ex.Paths())
}

func TestNewPathRejectsInvalidSegments(t *testing.T) {
	tests := map[string][]disclosure.Segment{
		"no segments":    nil,
		"empty field":    {disclosure.FieldSegment("")},
		"negative index": {disclosure.FieldSegment("a"), disclosure.IndexSegment(-1)},
		"unknown kind":   {{Kind: 0}},
	}
	for name, segs := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := disclosure.NewPath(segs...)
			require.Error(t, err)
			assert.True(t, disclosure.IsInvalidInput(err))
		})
	}
}

func TestSegmentsReturnsCopy(t *testing.T) {
	p := disclosure.MustCompile("a.b")
	segs := p.Segments()
	segs[0].Name = "changed"
	assert.Equal(t, "a", p.Segments()[0].Name)
}
