package disclosure

import (
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultSizeWarning is the character count above which Measure warns.
const DefaultSizeWarning = 100000

// SizeReport estimates how much room a full document would take.
type SizeReport struct {
	Chars           int    `json:"chars"`
	EstimatedTokens int    `json:"estimated_tokens"`
	Warning         string `json:"warning,omitempty"`
}

// Measure reports the size of doc's compact JSON encoding in characters and
// estimated tokens (about four characters per token). When the encoding is
// longer than warnAbove characters the report carries a warning pointing at
// the narrower modes; warnAbove <= 0 disables the warning.
func Measure(doc Value, warnAbove int) (SizeReport, error) {
	data, err := doc.MarshalJSON()
	if err != nil {
		return SizeReport{}, err
	}
	chars := utf8.RuneCount(data)
	r := SizeReport{Chars: chars, EstimatedTokens: (chars + 3) / 4}
	if warnAbove > 0 && chars > warnAbove {
		p := message.NewPrinter(language.English)
		r.Warning = p.Sprintf("Document is %d characters (about %d tokens). "+
			"Use summary or extract mode for a bounded view, or save it to a file and query it with jq.",
			chars, r.EstimatedTokens)
	}
	return r, nil
}
