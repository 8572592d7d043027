package disclosure

import (
	"fmt"
	"strings"
)

// Mode selects the view Run produces.
type Mode uint8

const (
	// ModeSummary digests an execution document with Summarize.
	ModeSummary Mode = iota + 1
	// ModeExtract evaluates path expressions with Extract.
	ModeExtract
	// ModeTruncate bounds raw text with Truncate.
	ModeTruncate
	// ModeLogs lists log locations with LogLocations.
	ModeLogs
	// ModeSubmission digests a submission document with SummarizeSubmission.
	ModeSubmission
	// ModeOutput looks up a task output with ExtractOutput.
	ModeOutput
	// ModeSize measures a document with Measure.
	ModeSize
)

var modeNames = map[Mode]string{
	ModeSummary:    "summary",
	ModeExtract:    "extract",
	ModeTruncate:   "truncate",
	ModeLogs:       "logs",
	ModeSubmission: "submission",
	ModeOutput:     "output",
	ModeSize:       "size",
}

// String returns the mode name accepted by ParseMode.
func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// MarshalText encodes the mode as its name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ParseMode returns the mode named s (case-insensitive).
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m, n := range modeNames {
		if n == name {
			return m, nil
		}
	}
	return 0, invalidInput("unknown mode %q", s)
}

// Request carries the inputs of one Run call. Only the fields used by Mode
// are read.
type Request struct {
	Mode Mode
	// Document is the decoded document for every mode except ModeTruncate.
	Document Value
	// Text is the raw text for ModeTruncate.
	Text string
	// Expressions are the paths for ModeExtract.
	Expressions []string
	// Summary configures ModeSummary.
	Summary SummaryOptions
	// MaxChars and HeadFraction configure ModeTruncate.
	MaxChars     int
	HeadFraction float64
	// MaxWorkflows caps ModeSubmission; MaxTasks caps ModeLogs.
	MaxWorkflows int
	MaxTasks     int
	// Output selects the value for ModeOutput.
	Output OutputQuery
	// WarnAbove is the ModeSize warning threshold.
	WarnAbove int
	// Options apply to evaluation in ModeExtract and ModeOutput.
	Options []Option
}

// Response holds the result of one Run call. Exactly the field matching
// Mode is set.
type Response struct {
	Mode        Mode               `json:"mode"`
	Extractions []Extraction       `json:"extractions,omitempty"`
	Summary     *SummaryResult     `json:"summary,omitempty"`
	Truncation  *TruncationResult  `json:"truncation,omitempty"`
	Logs        *LogIndex          `json:"logs,omitempty"`
	Submission  *SubmissionSummary `json:"submission,omitempty"`
	Output      *Extraction        `json:"output,omitempty"`
	Size        *SizeReport        `json:"size,omitempty"`
}

// Run dispatches req to the operation selected by its mode.
func Run(req Request) (Response, error) {
	resp := Response{Mode: req.Mode}
	switch req.Mode {
	case ModeSummary:
		r, err := Summarize(req.Document, req.Summary)
		if err != nil {
			return Response{}, err
		}
		resp.Summary = &r
	case ModeExtract:
		if len(req.Expressions) == 0 {
			return Response{}, invalidInput("extract mode needs at least one expression")
		}
		resp.Extractions = Extract(req.Document, req.Expressions, req.Options...)
	case ModeTruncate:
		r := Truncate(req.Text, req.MaxChars, req.HeadFraction)
		resp.Truncation = &r
	case ModeLogs:
		r, err := LogLocations(req.Document, req.MaxTasks)
		if err != nil {
			return Response{}, err
		}
		resp.Logs = &r
	case ModeSubmission:
		r, err := SummarizeSubmission(req.Document, req.MaxWorkflows)
		if err != nil {
			return Response{}, err
		}
		resp.Submission = &r
	case ModeOutput:
		r, err := ExtractOutput(req.Document, req.Output, req.Options...)
		if err != nil {
			return Response{}, err
		}
		resp.Output = &r
	case ModeSize:
		r, err := Measure(req.Document, req.WarnAbove)
		if err != nil {
			return Response{}, err
		}
		resp.Size = &r
	default:
		return Response{}, invalidInput("unknown mode %s", req.Mode)
	}
	return resp, nil
}
