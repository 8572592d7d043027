package disclosure_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/go-disclosure"
)

func scatteredDocument(n int, status string) disclosure.Value {
	shards := make([]disclosure.Value, n)
	for i := range shards {
		shards[i] = disclosure.ObjectOf(
			"executionStatus", disclosure.String(status),
			"shardIndex", disclosure.Int(int64(i)),
			"stderr", disclosure.String("gs://bucket/stderr"),
		)
	}
	return disclosure.ObjectOf(
		"status", disclosure.String("Failed"),
		"calls", disclosure.ObjectOf("wf.scatter", disclosure.Array(shards...)),
	)
}

func TestSummarizeBoundsFailures(t *testing.T) {
	opts := disclosure.DefaultSummaryOptions()
	res, err := disclosure.Summarize(scatteredDocument(10000, "Failed"), opts)
	require.NoError(t, err)

	assert.Len(t, res.FailedEntries, 20)
	assert.Equal(t, 9980, res.TruncatedFailureCount)
	assert.Equal(t, 10000, res.StatusCounts["Failed"])
	assert.Equal(t, 10000, res.TotalShards)
	for i, e := range res.FailedEntries {
		assert.Equal(t, int64(i), e.ShardIndex)
		assert.Equal(t, "wf.scatter", e.Task)
	}
}

func TestSummarize(t *testing.T) {
	doc, err := disclosure.ParseJSON([]byte(`{
		"id": "wf-1",
		"workflowName": "pipeline",
		"status": "Failed",
		"start": "2026-01-02T03:04:05Z",
		"end": "2026-01-02T04:00:00Z",
		"calls": {
			"prep": [{"executionStatus": "Done", "shardIndex": -1}],
			"align": [
				{"executionStatus": "Failed", "shardIndex": 0, "attempt": 2,
				 "stderr": "gs://b/align/0/stderr", "stdout": "gs://b/align/0/stdout",
				 "failures": [
					{"message": "Task failed", "causedBy": [
						{"message": "exit code 137", "causedBy": [{"message": "killed by OOM"}]},
						{"message": "disk full", "causedBy": []}
					]}
				 ]},
				{"executionStatus": "Aborted", "shardIndex": 1},
				{"shardIndex": 2}
			]
		}
	}`))
	require.NoError(t, err)

	opts := disclosure.DefaultSummaryOptions()
	opts.FailureStatuses = []string{"Failed", "Aborted"}
	res, err := disclosure.Summarize(doc, opts)
	require.NoError(t, err)

	want := disclosure.SummaryResult{
		WorkflowID:   "wf-1",
		WorkflowName: "pipeline",
		Status:       "Failed",
		Start:        "2026-01-02T03:04:05Z",
		End:          "2026-01-02T04:00:00Z",
		TotalShards:  4,
		StatusCounts: map[string]int{"Done": 1, "Failed": 1, "Aborted": 1, "Unknown": 1},
		FailedEntries: []disclosure.FailureEntry{
			{
				Task:            "align",
				ShardIndex:      0,
				Attempt:         2,
				Status:          "Failed",
				Messages:        []string{"Task failed", "exit code 137", "killed by OOM"},
				OmittedMessages: 1,
				Stderr:          "gs://b/align/0/stderr",
				Stdout:          "gs://b/align/0/stdout",
			},
			{Task: "align", ShardIndex: 1, Status: "Aborted"},
		},
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeWithoutCalls(t *testing.T) {
	res, err := disclosure.Summarize(disclosure.ObjectOf("status", disclosure.String("Submitted")), disclosure.DefaultSummaryOptions())
	require.NoError(t, err)
	assert.Equal(t, "Submitted", res.Status)
	assert.Zero(t, res.TotalShards)
	assert.Empty(t, res.StatusCounts)
	assert.Empty(t, res.FailedEntries)
}

func TestSummarizeMalformed(t *testing.T) {
	doc, err := disclosure.ParseJSON([]byte(`{"calls":{"a":[{"executionStatus":"Done"},"oops"],"b":{"not":"an array"},"c":[{"executionStatus":"Failed"}]}}`))
	require.NoError(t, err)

	_, err = disclosure.Summarize(doc, disclosure.DefaultSummaryOptions())
	require.Error(t, err)
	assert.True(t, disclosure.IsMalformed(err))
	var de *disclosure.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "calls.a[1]", de.Fragment)

	opts := disclosure.DefaultSummaryOptions()
	opts.SkipMalformed = true
	res, err := disclosure.Summarize(doc, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, res.MalformedRecords)
	assert.Equal(t, 2, res.TotalShards)
	assert.Equal(t, map[string]int{"Done": 1, "Failed": 1}, res.StatusCounts)
}

func TestSummarizeRejectsBadInput(t *testing.T) {
	opts := disclosure.DefaultSummaryOptions()
	opts.MaxFailedEntries = 0
	_, err := disclosure.Summarize(scatteredDocument(1, "Failed"), opts)
	assert.True(t, disclosure.IsInvalidInput(err))

	_, err = disclosure.Summarize(disclosure.Array(), disclosure.DefaultSummaryOptions())
	assert.True(t, disclosure.IsMalformed(err))

	_, err = disclosure.Summarize(disclosure.ObjectOf("calls", disclosure.Array()), disclosure.DefaultSummaryOptions())
	assert.True(t, disclosure.IsMalformed(err))
}

func TestSummarizeZeroMessageCap(t *testing.T) {
	doc, err := disclosure.ParseJSON([]byte(`{"calls":{"a":[{"executionStatus":"Failed","failures":[{"message":"x"},{"message":"y"}]}]}}`))
	require.NoError(t, err)
	opts := disclosure.DefaultSummaryOptions()
	opts.MaxFailureMessages = 0
	res, err := disclosure.Summarize(doc, opts)
	require.NoError(t, err)
	require.Len(t, res.FailedEntries, 1)
	assert.Empty(t, res.FailedEntries[0].Messages)
	assert.Equal(t, 2, res.FailedEntries[0].OmittedMessages)
}

func TestSummarizeBoundProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("failed entries never exceed the cap", prop.ForAll(
		func(n, limit int) bool {
			opts := disclosure.DefaultSummaryOptions()
			opts.MaxFailedEntries = limit
			res, err := disclosure.Summarize(scatteredDocument(n, "Failed"), opts)
			if err != nil {
				return false
			}
			kept := min(n, limit)
			return len(res.FailedEntries) == kept &&
				res.TruncatedFailureCount == n-kept &&
				res.StatusCounts["Failed"] == n &&
				res.TotalShards == n
		},
		gen.IntRange(0, 500),
		gen.IntRange(1, 40),
	))

	properties.TestingRun(t)
}
