// Package textstat implements the character accounting and script analysis
// used by the thread pipeline: grapheme-cluster counting and truncation that
// match how the target platform measures tweet length, and language-mix
// detection for Arabic/English presentation decisions.
package textstat

import (
	"strings"

	"github.com/rivo/uniseg"
)

const (
	// ellipsisMarker terminates hard-sliced text. Three ASCII dots so the
	// marker costs exactly three grapheme units.
	ellipsisMarker = "..."
	ellipsisUnits  = 3

	wordCoverageFloor     = 0.5
	sentenceCoverageFloor = 0.3
)

// sentenceTerminators covers English and Arabic sentence-ending punctuation.
var sentenceTerminators = []rune{'.', '!', '?', '؟'}

// Count returns the number of user-perceived characters (grapheme clusters)
// in text plus each extra, as if the extras were appended with single-space
// separators. Extras already contained in text verbatim are not counted
// again. Combining marks, ZWJ emoji sequences, flags and Arabic
// letter+diacritic clusters each count as one unit.
func Count(text string, extras ...string) int {
	total := 0

	if text != "" {
		total = uniseg.GraphemeClusterCount(text)
	}

	for _, extra := range extras {
		if extra == "" || strings.Contains(text, extra) {
			continue
		}

		// one unit for the separating space
		total += 1 + uniseg.GraphemeClusterCount(extra)
	}

	return total
}

// LengthCheck is the result of validating one message against the limit.
type LengthCheck struct {
	IsValid   bool
	CharCount int
	Remaining int
	OverBy    int
}

// ValidateLength measures text with its hashtags and CTA appended and
// compares against limit. Remaining may be negative when over the limit.
func ValidateLength(text string, hashtags []string, cta string, limit int) LengthCheck {
	extras := make([]string, 0, len(hashtags)+1)
	extras = append(extras, hashtags...)

	if cta != "" {
		extras = append(extras, cta)
	}

	count := Count(text, extras...)

	return LengthCheck{
		IsValid:   count <= limit,
		CharCount: count,
		Remaining: limit - count,
		OverBy:    max(0, count-limit),
	}
}

// Truncate shortens text so that text plus hashtags plus CTA fits within
// limit grapheme units. The decorations are preserved; only the text
// shrinks. Strategy cascade: keep whole words, fall back to whole sentences
// when the word cut covers less than half the available space, and finally
// hard-slice grapheme clusters with a trailing ellipsis when even sentences
// cover less than 30%.
func Truncate(text string, limit int, hashtags []string, cta string) string {
	available := availableForText(limit, hashtags, cta)
	if available <= 0 {
		return ""
	}

	if uniseg.GraphemeClusterCount(text) <= available {
		return text
	}

	byWords := accumulateWords(text, available)
	if coverage(byWords, available) >= wordCoverageFloor {
		return byWords
	}

	bySentences := accumulateSentences(text, available)
	if coverage(bySentences, available) >= sentenceCoverageFloor {
		return bySentences
	}

	return hardSlice(text, available)
}

// availableForText reserves room for the decorations and their separators.
func availableForText(limit int, hashtags []string, cta string) int {
	reserved := 0

	for _, tag := range hashtags {
		if tag == "" {
			continue
		}

		reserved += 1 + uniseg.GraphemeClusterCount(tag)
	}

	if cta != "" {
		reserved += 1 + uniseg.GraphemeClusterCount(cta)
	}

	return limit - reserved
}

func coverage(s string, available int) float64 {
	if available <= 0 {
		return 0
	}

	return float64(uniseg.GraphemeClusterCount(s)) / float64(available)
}

// accumulateWords greedily keeps whole words while the running grapheme
// count stays within the available space.
func accumulateWords(text string, available int) string {
	words := strings.Fields(text)

	var sb strings.Builder

	used := 0

	for _, word := range words {
		cost := uniseg.GraphemeClusterCount(word)
		if sb.Len() > 0 {
			cost++
		}

		if used+cost > available {
			break
		}

		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString(word)
		used += cost
	}

	return sb.String()
}

// accumulateSentences keeps whole sentences, split on . ! ? and the Arabic
// question mark, while they fit.
func accumulateSentences(text string, available int) string {
	sentences := SplitSentences(text)

	var sb strings.Builder

	used := 0

	for _, sentence := range sentences {
		cost := uniseg.GraphemeClusterCount(sentence)
		if sb.Len() > 0 {
			cost++
		}

		if used+cost > available {
			break
		}

		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString(sentence)
		used += cost
	}

	return sb.String()
}

// hardSlice cuts at a grapheme-cluster boundary and appends the ellipsis
// marker, which consumes three of the available units.
func hardSlice(text string, available int) string {
	keep := available - ellipsisUnits
	if keep <= 0 {
		return strings.TrimSpace(truncGraphemes(text, available))
	}

	return strings.TrimSpace(truncGraphemes(text, keep)) + ellipsisMarker
}

// truncGraphemes returns the first n grapheme clusters of text.
func truncGraphemes(text string, n int) string {
	if n <= 0 {
		return ""
	}

	gr := uniseg.NewGraphemes(text)

	var sb strings.Builder

	count := 0

	for gr.Next() {
		if count >= n {
			break
		}

		sb.WriteString(gr.Str())
		count++
	}

	return sb.String()
}

// SplitSentences splits text on sentence terminators, keeping the
// terminator attached to its sentence and dropping empty pieces.
func SplitSentences(text string) []string {
	var sentences []string

	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			sentences = append(sentences, s)
		}

		current.Reset()
	}

	for _, r := range text {
		current.WriteRune(r)

		if isSentenceTerminator(r) {
			flush()
		}
	}

	flush()

	return sentences
}

func isSentenceTerminator(r rune) bool {
	for _, t := range sentenceTerminators {
		if r == t {
			return true
		}
	}

	return false
}
