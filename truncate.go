package disclosure

import (
	"math"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultHeadFraction splits the window evenly between head and tail.
const DefaultHeadFraction = 0.5

// TruncationResult is a bounded head+tail window of a text.
//
// All lengths count characters (code points). ReturnedLength is the length of
// Text including the omission marker. It exceeds the budget only when the
// budget cannot hold even the short marker.
type TruncationResult struct {
	Text           string `json:"text"`
	Truncated      bool   `json:"truncated"`
	OriginalLength int    `json:"original_length"`
	ReturnedLength int    `json:"returned_length"`
	OmittedLength  int    `json:"omitted_length"`
}

// Truncate bounds text to maxChars characters, keeping the first part and
// the last part and replacing the middle with a marker that states how many
// characters were cut and the original size.
//
// The marker is counted against the budget: the head gets
// floor(window*headFraction) characters and the tail the rest of the window,
// where window is maxChars minus the marker length. When the full marker does
// not fit, the short form "[... N omitted ...]" is used; when even that does
// not fit, the short marker is returned alone, which is the only case where
// ReturnedLength exceeds maxChars. maxChars <= 0 yields empty text. Empty
// text is never truncated. headFraction is clamped to [0, 1]; NaN means
// DefaultHeadFraction. Invalid UTF-8 bytes count as one character each.
//
// Example:
//
//	r := disclosure.Truncate(stderr, 10000, 0.3)
//	if r.Truncated {
//	    fmt.Printf("showing %d of %d characters\n", r.ReturnedLength, r.OriginalLength)
//	}
func Truncate(text string, maxChars int, headFraction float64) TruncationResult {
	total := utf8.RuneCountInString(text)
	if total <= maxChars || total == 0 {
		return TruncationResult{Text: text, OriginalLength: total, ReturnedLength: total}
	}
	if maxChars <= 0 {
		return TruncationResult{Truncated: true, OriginalLength: total, OmittedLength: total}
	}

	window, marker := fitMarker(total, maxChars)
	head := int(math.Floor(float64(window) * clampFraction(headFraction)))
	if head > window {
		head = window
	}
	tail := window - head

	headEnd := runeOffset(text, head)
	tailStart := len(text) - runeOffsetFromEnd(text, tail)
	if tailStart < headEnd {
		tailStart = headEnd
	}

	out := text[:headEnd] + marker + text[tailStart:]
	return TruncationResult{
		Text:           out,
		Truncated:      true,
		OriginalLength: total,
		ReturnedLength: window + utf8.RuneCountInString(marker),
		OmittedLength:  total - window,
	}
}

// fitMarker finds the largest content window such that window plus the
// marker describing it fits in budget, trying the full marker before the
// short one. The marker grows with the omitted count, so the window shrinks
// until the two agree. If neither fits, the window is empty and the short
// marker stands alone.
func fitMarker(total, budget int) (int, string) {
	for _, format := range []func(omitted, total int) string{omissionMarker, shortMarker} {
		if window, m, ok := fitWindow(total, budget, format); ok {
			return window, m
		}
	}
	return 0, shortMarker(total, total)
}

func fitWindow(total, budget int, format func(omitted, total int) string) (int, string, bool) {
	window := budget
	for {
		m := format(total-window, total)
		w := budget - utf8.RuneCountInString(m)
		if w < 0 {
			return 0, "", false
		}
		if w == window {
			return window, m, true
		}
		window = w
	}
}

func omissionMarker(omitted, total int) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("\n\n[... Truncated %d characters. Total log size: %d characters ...]\n\n", omitted, total)
}

func shortMarker(omitted, _ int) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("[... %d omitted ...]", omitted)
}

func clampFraction(f float64) float64 {
	switch {
	case math.IsNaN(f):
		return DefaultHeadFraction
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

// runeOffset returns the byte offset just past the first n characters.
func runeOffset(s string, n int) int {
	b := 0
	for i := 0; i < n && b < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[b:])
		b += size
	}
	return b
}

// runeOffsetFromEnd returns the byte length of the last n characters.
func runeOffsetFromEnd(s string, n int) int {
	e := len(s)
	for i := 0; i < n && e > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(s[:e])
		e -= size
	}
	return len(s) - e
}
