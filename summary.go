package disclosure

// Default summary settings.
const (
	DefaultMaxFailedEntries   = 20
	DefaultMaxFailureMessages = 3
	// UnknownStatus is counted for shard records without an executionStatus.
	UnknownStatus = "Unknown"
)

// SummaryOptions configures Summarize.
type SummaryOptions struct {
	// FailureStatuses lists the executionStatus values that produce a
	// FailureEntry. Matching is exact.
	FailureStatuses []string
	// MaxFailedEntries caps FailedEntries. It must be positive.
	MaxFailedEntries int
	// MaxFailureMessages caps the messages kept per entry; 0 keeps none.
	MaxFailureMessages int
	// SkipMalformed counts malformed records in MalformedRecords instead of
	// failing the whole summary.
	SkipMalformed bool
}

// DefaultSummaryOptions returns options treating "Failed" as the only
// failure status.
func DefaultSummaryOptions() SummaryOptions {
	return SummaryOptions{
		FailureStatuses:    []string{"Failed"},
		MaxFailedEntries:   DefaultMaxFailedEntries,
		MaxFailureMessages: DefaultMaxFailureMessages,
	}
}

// FailureEntry describes one failed shard record.
type FailureEntry struct {
	Task       string `json:"task"`
	ShardIndex int64  `json:"shard_index"`
	Attempt    int64  `json:"attempt,omitempty"`
	Status     string `json:"status"`
	// Messages holds the first failure messages, depth-first through causedBy.
	Messages        []string `json:"messages,omitempty"`
	OmittedMessages int      `json:"omitted_messages,omitempty"`
	Stderr          string   `json:"stderr,omitempty"`
	Stdout          string   `json:"stdout,omitempty"`
}

// SummaryResult is a fixed-shape digest of an execution document. Its size
// depends on the number of distinct statuses and MaxFailedEntries, never on
// the number of shard records.
type SummaryResult struct {
	WorkflowID            string         `json:"workflow_id,omitempty"`
	WorkflowName          string         `json:"workflow_name,omitempty"`
	Status                string         `json:"status,omitempty"`
	Start                 string         `json:"start,omitempty"`
	End                   string         `json:"end,omitempty"`
	TotalShards           int            `json:"total_shards"`
	StatusCounts          map[string]int `json:"status_counts"`
	FailedEntries         []FailureEntry `json:"failed_entries,omitempty"`
	TruncatedFailureCount int            `json:"truncated_failure_count"`
	MalformedRecords      int            `json:"malformed_records,omitempty"`
}

// Summarize counts shard records by executionStatus and lists up to
// MaxFailedEntries failures, walking calls in insertion order and each
// task's records in order.
func Summarize(doc Value, opts SummaryOptions) (SummaryResult, error) {
	if opts.MaxFailedEntries <= 0 {
		return SummaryResult{}, invalidInput("maxFailedEntries must be positive, got %d", opts.MaxFailedEntries)
	}
	if doc.Kind() != KindObject {
		return SummaryResult{}, malformed("", "execution document must be an object, got %s", doc.Kind())
	}

	res := SummaryResult{
		WorkflowID:   doc.GetString("id", ""),
		WorkflowName: doc.GetString("workflowName", ""),
		Status:       doc.GetString("status", ""),
		Start:        doc.GetString("start", ""),
		End:          doc.GetString("end", ""),
		StatusCounts: map[string]int{},
	}

	failing := make(map[string]struct{}, len(opts.FailureStatuses))
	for _, s := range opts.FailureStatuses {
		failing[s] = struct{}{}
	}

	skipped, err := walkCalls(doc, opts.SkipMalformed, func(task string, _, _ int, shard Value) {
		status := shard.GetString("executionStatus", UnknownStatus)
		res.TotalShards++
		res.StatusCounts[status]++

		if _, bad := failing[status]; !bad {
			return
		}
		if len(res.FailedEntries) >= opts.MaxFailedEntries {
			res.TruncatedFailureCount++
			return
		}
		res.FailedEntries = append(res.FailedEntries, failureEntry(task, status, shard, opts.MaxFailureMessages))
	})
	if err != nil {
		return SummaryResult{}, err
	}
	res.MalformedRecords = skipped
	return res, nil
}

func failureEntry(task, status string, shard Value, maxMessages int) FailureEntry {
	entry := FailureEntry{
		Task:       task,
		Status:     status,
		ShardIndex: shard.GetInt("shardIndex", -1),
		Attempt:    shard.GetInt("attempt", 0),
		Stderr:     shard.GetString("stderr", ""),
		Stdout:     shard.GetString("stdout", ""),
	}
	if failures, ok := shard.Get("failures"); ok {
		collectMessages(failures, maxMessages, &entry)
	}
	return entry
}

// collectMessages walks failures depth-first through causedBy, keeping the
// first max messages and counting the rest.
func collectMessages(v Value, max int, entry *FailureEntry) {
	switch v.Kind() {
	case KindArray:
		for _, item := range v.Items() {
			collectMessages(item, max, entry)
		}
	case KindObject:
		if msg := v.GetString("message", ""); msg != "" {
			addMessage(msg, max, entry)
		}
		if cause, ok := v.Get("causedBy"); ok {
			collectMessages(cause, max, entry)
		}
	case KindString:
		s, _ := v.AsString()
		if s != "" {
			addMessage(s, max, entry)
		}
	}
}

func addMessage(msg string, max int, entry *FailureEntry) {
	if len(entry.Messages) < max {
		entry.Messages = append(entry.Messages, msg)
		return
	}
	entry.OmittedMessages++
}
