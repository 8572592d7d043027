package disclosure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/go-disclosure"
)

func TestParseMode(t *testing.T) {
	for _, name := range []string{"summary", "extract", "truncate", "logs", "submission", "output", "size"} {
		m, err := disclosure.ParseMode(name)
		require.NoError(t, err)
		assert.Equal(t, name, m.String())
	}
	m, err := disclosure.ParseMode(" Summary ")
	require.NoError(t, err)
	assert.Equal(t, disclosure.ModeSummary, m)

	_, err = disclosure.ParseMode("full")
	assert.True(t, disclosure.IsInvalidInput(err))
}

func TestRun(t *testing.T) {
	doc := loadMetadata(t)

	t.Run("summary", func(t *testing.T) {
		resp, err := disclosure.Run(disclosure.Request{Mode: disclosure.ModeSummary, Document: doc, Summary: disclosure.DefaultSummaryOptions()})
		require.NoError(t, err)
		require.NotNil(t, resp.Summary)
		assert.Equal(t, 3, resp.Summary.TotalShards)
		assert.Nil(t, resp.Extractions)
	})
	t.Run("extract", func(t *testing.T) {
		resp, err := disclosure.Run(disclosure.Request{
			Mode:        disclosure.ModeExtract,
			Document:    doc,
			Expressions: []string{"status", "calls.x"},
			Options:     []disclosure.Option{disclosure.WithMaxHintKeys(1)},
		})
		require.NoError(t, err)
		require.Len(t, resp.Extractions, 2)
		assert.Equal(t, []string{"align"}, resp.Extractions[1].Diagnostic.Keys)
	})
	t.Run("extract without expressions", func(t *testing.T) {
		_, err := disclosure.Run(disclosure.Request{Mode: disclosure.ModeExtract, Document: doc})
		assert.True(t, disclosure.IsInvalidInput(err))
	})
	t.Run("truncate", func(t *testing.T) {
		resp, err := disclosure.Run(disclosure.Request{Mode: disclosure.ModeTruncate, Text: "abcdef", MaxChars: 3, HeadFraction: 0.5})
		require.NoError(t, err)
		assert.Equal(t, "[... 6 omitted ...]", resp.Truncation.Text)
	})
	t.Run("logs", func(t *testing.T) {
		resp, err := disclosure.Run(disclosure.Request{Mode: disclosure.ModeLogs, Document: doc, MaxTasks: 2})
		require.NoError(t, err)
		assert.Len(t, resp.Logs.Logs, 2)
	})
	t.Run("submission", func(t *testing.T) {
		sub, err := disclosure.ParseJSON([]byte(submissionJSON))
		require.NoError(t, err)
		resp, err := disclosure.Run(disclosure.Request{Mode: disclosure.ModeSubmission, Document: sub, MaxWorkflows: 1})
		require.NoError(t, err)
		assert.Len(t, resp.Submission.Workflows, 1)
	})
	t.Run("output", func(t *testing.T) {
		resp, err := disclosure.Run(disclosure.Request{Mode: disclosure.ModeOutput, Document: doc, Output: disclosure.OutputQuery{Task: "call"}})
		require.NoError(t, err)
		require.NotNil(t, resp.Output.Diagnostic)
		assert.Equal(t, "calls.call[0]", resp.Output.Diagnostic.At)
	})
	t.Run("size", func(t *testing.T) {
		resp, err := disclosure.Run(disclosure.Request{Mode: disclosure.ModeSize, Document: doc, WarnAbove: 10})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Size.Warning)
	})
	t.Run("unknown mode", func(t *testing.T) {
		_, err := disclosure.Run(disclosure.Request{Document: doc})
		assert.True(t, disclosure.IsInvalidInput(err))
	})
	t.Run("errors propagate", func(t *testing.T) {
		_, err := disclosure.Run(disclosure.Request{Mode: disclosure.ModeSummary, Document: disclosure.String("x"), Summary: disclosure.DefaultSummaryOptions()})
		assert.True(t, disclosure.IsMalformed(err))
	})
}

func TestResponseJSON(t *testing.T) {
	resp, err := disclosure.Run(disclosure.Request{Mode: disclosure.ModeTruncate, Text: "ok", MaxChars: 10})
	require.NoError(t, err)
	assert.Equal(t,
		`{"mode":"truncate","truncation":{"text":"ok","truncated":false,"original_length":2,"returned_length":2,"omitted_length":0}}`,
		mustJSON(t, resp))
}
