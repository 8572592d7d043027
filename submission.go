package disclosure

import "fmt"

// SubmissionSummary digests a submission document: workflow counts by
// status and the first few workflows.
type SubmissionSummary struct {
	SubmissionID   string         `json:"submission_id,omitempty"`
	Status         string         `json:"status,omitempty"`
	SubmissionDate string         `json:"submission_date,omitempty"`
	WorkflowCount  int            `json:"workflow_count"`
	StatusSummary  map[string]int `json:"status_summary"`
	Workflows      []Value        `json:"workflows"`
	Note           string         `json:"note,omitempty"`
}

// SummarizeSubmission counts the workflows of a submission document by
// status and keeps the first maxWorkflows of them; maxWorkflows <= 0 keeps
// all. A note records when the list was cut.
func SummarizeSubmission(doc Value, maxWorkflows int) (SubmissionSummary, error) {
	if doc.Kind() != KindObject {
		return SubmissionSummary{}, malformed("", "submission document must be an object, got %s", doc.Kind())
	}
	res := SubmissionSummary{
		SubmissionID:   doc.GetString("submissionId", ""),
		Status:         doc.GetString("status", ""),
		SubmissionDate: doc.GetString("submissionDate", ""),
		StatusSummary:  map[string]int{},
		Workflows:      []Value{},
	}

	wfs, ok := doc.Get("workflows")
	if !ok {
		return res, nil
	}
	if wfs.Kind() != KindArray {
		return SubmissionSummary{}, malformed("workflows", "workflows must be an array, got %s", wfs.Kind())
	}

	items := wfs.Items()
	res.WorkflowCount = len(items)
	for i, wf := range items {
		if wf.Kind() != KindObject {
			at := joinIndex("workflows", i)
			return SubmissionSummary{}, malformed(at, "workflow %s must be an object, got %s", at, wf.Kind())
		}
		res.StatusSummary[wf.GetString("status", UnknownStatus)]++
	}

	kept := items
	if maxWorkflows > 0 && len(items) > maxWorkflows {
		kept = items[:maxWorkflows]
		res.Note = fmt.Sprintf("Showing first %d of %d workflows", maxWorkflows, len(items))
	}
	res.Workflows = append(res.Workflows, kept...)
	return res, nil
}
