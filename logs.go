package disclosure

import "strconv"

// LogLocation points at the stderr/stdout of one call attempt.
type LogLocation struct {
	// Key is the task name, suffixed with "[i]" when the task has more than one record.
	Key        string `json:"key"`
	Task       string `json:"task"`
	Stderr     string `json:"stderr,omitempty"`
	Stdout     string `json:"stdout,omitempty"`
	Status     string `json:"status"`
	Attempt    int64  `json:"attempt"`
	ShardIndex int64  `json:"shard_index"`
}

// LogIndex lists log locations of an execution document.
type LogIndex struct {
	WorkflowName   string        `json:"workflow_name,omitempty"`
	Status         string        `json:"status,omitempty"`
	TaskCount      int           `json:"task_count"`
	Logs           []LogLocation `json:"logs"`
	TruncatedTasks int           `json:"truncated_tasks,omitempty"`
}

// LogLocations collects where each call attempt wrote its logs. At most
// maxTasks locations are listed (all when maxTasks <= 0); TaskCount always
// reports the full number.
func LogLocations(doc Value, maxTasks int) (LogIndex, error) {
	idx := LogIndex{Logs: []LogLocation{}}
	_, err := walkCalls(doc, false, func(task string, pos, n int, shard Value) {
		idx.TaskCount++
		if maxTasks > 0 && len(idx.Logs) >= maxTasks {
			idx.TruncatedTasks++
			return
		}
		key := task
		if n > 1 {
			key = task + "[" + strconv.Itoa(pos) + "]"
		}
		idx.Logs = append(idx.Logs, LogLocation{
			Key:        key,
			Task:       task,
			Stderr:     shard.GetString("stderr", ""),
			Stdout:     shard.GetString("stdout", ""),
			Status:     shard.GetString("executionStatus", UnknownStatus),
			Attempt:    shard.GetInt("attempt", 1),
			ShardIndex: shard.GetInt("shardIndex", -1),
		})
	})
	if err != nil {
		return LogIndex{}, err
	}
	idx.WorkflowName = doc.GetString("workflowName", "")
	idx.Status = doc.GetString("status", UnknownStatus)
	return idx, nil
}
