package disclosure_test

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/njchilds90/go-disclosure"
)

func TestTruncateWithinBudget(t *testing.T) {
	r := disclosure.Truncate("short log", 100, 0.5)
	assert.Equal(t, disclosure.TruncationResult{
		Text:           "short log",
		OriginalLength: 9,
		ReturnedLength: 9,
	}, r)

	r = disclosure.Truncate("exact", 5, 0.5)
	assert.False(t, r.Truncated)
	assert.Equal(t, "exact", r.Text)
}

func TestTruncateLargeLog(t *testing.T) {
	text := strings.Repeat("h", 15000) + strings.Repeat("t", 15000)
	r := disclosure.Truncate(text, 10000, 0.5)

	const marker = "\n\n[... Truncated 20,076 characters. Total log size: 30,000 characters ...]\n\n"
	assert.True(t, r.Truncated)
	assert.Equal(t, 30000, r.OriginalLength)
	assert.Equal(t, 10000, r.ReturnedLength)
	assert.Equal(t, 20076, r.OmittedLength)
	assert.Equal(t, strings.Repeat("h", 4962)+marker+strings.Repeat("t", 4962), r.Text)
}

func TestTruncateHeadFraction(t *testing.T) {
	text := strings.Repeat("a", 500) + strings.Repeat("z", 500)

	tail := disclosure.Truncate(text, 200, 0)
	assert.True(t, strings.HasPrefix(tail.Text, "\n\n[... Truncated"))
	assert.True(t, strings.HasSuffix(tail.Text, "z"))

	head := disclosure.Truncate(text, 200, 1)
	assert.True(t, strings.HasPrefix(head.Text, "a"))
	assert.True(t, strings.HasSuffix(head.Text, "characters ...]\n\n"))

	// Out-of-range and NaN fractions are clamped or defaulted.
	assert.Equal(t, tail, disclosure.Truncate(text, 200, -3))
	assert.Equal(t, head, disclosure.Truncate(text, 200, 7))
	assert.Equal(t, disclosure.Truncate(text, 200, 0.5), disclosure.Truncate(text, 200, math.NaN()))
}

func TestTruncateSmallBudgetUsesShortMarker(t *testing.T) {
	text := strings.Repeat("é", 1000)
	r := disclosure.Truncate(text, 70, 0.3)
	assert.True(t, r.Truncated)
	assert.Equal(t, 70, r.ReturnedLength)
	assert.Equal(t, 951, r.OmittedLength)
	assert.Equal(t, strings.Repeat("é", 14)+"[... 951 omitted ...]"+strings.Repeat("é", 35), r.Text)
}

func TestTruncateBudgetTooSmallForAnyMarker(t *testing.T) {
	text := "0123456789" + strings.Repeat("x", 80) + "abcdefghij"
	for _, budget := range []int{1, 5, 19} {
		r := disclosure.Truncate(text, budget, 0.5)
		assert.Equal(t, "[... 100 omitted ...]", r.Text)
		assert.True(t, r.Truncated)
		assert.Equal(t, 21, r.ReturnedLength)
		assert.Equal(t, 100, r.OmittedLength)
	}
}

func TestTruncateEmptyText(t *testing.T) {
	for _, budget := range []int{-5, 0, 10} {
		assert.Equal(t, disclosure.TruncationResult{}, disclosure.Truncate("", budget, 0.5))
	}
}

func TestTruncateNonPositiveBudget(t *testing.T) {
	for _, budget := range []int{0, -10} {
		r := disclosure.Truncate("héllo", budget, 0.5)
		assert.Equal(t, disclosure.TruncationResult{
			Truncated:      true,
			OriginalLength: 5,
			OmittedLength:  5,
		}, r)
	}
}

func TestTruncateCountsCodePoints(t *testing.T) {
	text := strings.Repeat("é", 300) + strings.Repeat("日本", 300)
	r := disclosure.Truncate(text, 120, 0.5)
	require.True(t, r.Truncated)
	assert.True(t, utf8.ValidString(r.Text))
	assert.Equal(t, 900, r.OriginalLength)
	assert.Equal(t, r.ReturnedLength, utf8.RuneCountInString(r.Text))
	assert.LessOrEqual(t, r.ReturnedLength, 120)
	assert.True(t, strings.HasPrefix(r.Text, "é"))
	assert.True(t, strings.HasSuffix(r.Text, "本"))
}

func TestTruncateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("text within budget is returned unchanged", prop.ForAll(
		func(text string, extra int) bool {
			budget := utf8.RuneCountInString(text) + extra
			r := disclosure.Truncate(text, budget, 0.5)
			return r.Text == text && !r.Truncated && r.ReturnedLength == r.OriginalLength
		},
		gen.AnyString(),
		gen.IntRange(0, 50),
	))

	properties.Property("output stays within the budget plus one short marker", prop.ForAll(
		func(text string, budget int, frac float64) bool {
			total := utf8.RuneCountInString(text)
			r := disclosure.Truncate(text, budget, frac)
			if total <= budget || total == 0 {
				return !r.Truncated
			}
			if !r.Truncated || r.OriginalLength != total || r.ReturnedLength != utf8.RuneCountInString(r.Text) {
				return false
			}
			if budget <= 0 {
				return r.Text == ""
			}
			if r.ReturnedLength <= budget {
				return true
			}
			return r.Text == markerAlone(total) && r.OmittedLength == total
		},
		gen.AnyString(),
		gen.IntRange(-5, 120),
		gen.Float64Range(0, 1),
	))

	properties.Property("every cut states how much was omitted", prop.ForAll(
		func(text string, budget int, frac float64) bool {
			r := disclosure.Truncate(text, budget, frac)
			if !r.Truncated {
				return true
			}
			p := message.NewPrinter(language.English)
			return strings.Contains(r.Text, p.Sprintf("Truncated %d characters", r.OmittedLength)) ||
				strings.Contains(r.Text, p.Sprintf("[... %d omitted ...]", r.OmittedLength))
		},
		gen.AnyString(),
		gen.IntRange(1, 120),
		gen.Float64Range(0, 1),
	))

	properties.Property("re-truncating with the same budget is a no-op", prop.ForAll(
		func(text string, budget int, frac float64) bool {
			once := disclosure.Truncate(text, budget, frac)
			if once.ReturnedLength > budget {
				return true
			}
			twice := disclosure.Truncate(once.Text, budget, frac)
			return twice.Text == once.Text && !twice.Truncated
		},
		gen.AnyString(),
		gen.IntRange(0, 120),
		gen.Float64Range(0, 1),
	))

	properties.Property("long logs are deterministic", prop.ForAll(
		func(n, budget int) bool {
			text := strings.Repeat("line of log output\n", n)
			return disclosure.Truncate(text, budget, 0.3) == disclosure.Truncate(text, budget, 0.3)
		},
		gen.IntRange(0, 2000),
		gen.IntRange(0, 5000),
	))

	properties.TestingRun(t)
}

func markerAlone(total int) string {
	return message.NewPrinter(language.English).Sprintf("[... %d omitted ...]", total)
}
