// Package segment splits source prose into a requested number of ordered,
// balanced chunks. A cascade of strategies is tried in order: blank-line
// paragraphs, sentence groups, then fixed character width. The first
// strategy with enough source units wins, and the result is rebalanced to
// exactly the requested count.
package segment

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/threadforge/threadforge/internal/core/domain"
	"github.com/threadforge/threadforge/internal/core/textstat"
)

const (
	// mergeWidthFactor caps a merged chunk at 1.5x the mean target length.
	mergeWidthFactor = 1.5

	// paragraphTakeFactor limits how many paragraphs feed the merge pass.
	paragraphTakeFactor = 2

	// SplitFloorGraphemes is the length below which a chunk is not worth
	// splitting further; rebalancing stops early once every chunk is under
	// this floor.
	SplitFloorGraphemes = 100

	// minWordBreakShare is how far into a fixed-width chunk a space must
	// fall before the boundary is pulled back to it.
	minWordBreakShare = 0.5
)

// strategy produces candidate chunks from text, or nil when the text lacks
// enough of its source units (paragraphs, sentences) to reach the target.
// The cascade keeps the first strategy that applies; merge undershoot is
// repaired by EnsureExactCount, not by falling through.
type strategy func(text string, target int) []string

// Split divides text into exactly target non-empty trimmed chunks covering
// the source in order. Target is clamped to the supported thread length
// range. The result may fall short of target only when every chunk is
// already below the split floor; it is empty only for blank input.
func Split(text string, target int) []string {
	target = clampTarget(target)

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	for _, s := range []strategy{byParagraphs, bySentenceGroups} {
		if parts := s(text, target); len(parts) > 0 {
			return EnsureExactCount(parts, target)
		}
	}

	return EnsureExactCount(byFixedWidth(text, target), target)
}

func clampTarget(target int) int {
	if target < domain.MinThreadLength {
		return domain.MinThreadLength
	}

	if target > domain.MaxThreadLength {
		return domain.MaxThreadLength
	}

	return target
}

// byParagraphs splits on blank lines and merges short neighbours down to
// the target count.
func byParagraphs(text string, target int) []string {
	paragraphs := splitBlankLines(text)
	if len(paragraphs) < target {
		return nil
	}

	if len(paragraphs) > target*paragraphTakeFactor {
		paragraphs = paragraphs[:target*paragraphTakeFactor]
	}

	return mergeToCount(paragraphs, target)
}

func splitBlankLines(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")

	var paragraphs []string

	for _, block := range strings.Split(normalized, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			paragraphs = append(paragraphs, block)
		}
	}

	return paragraphs
}

// mergeToCount greedily concatenates adjacent parts while the running chunk
// stays under 1.5x the mean target length. Once target-1 chunks exist, all
// remaining parts are absorbed into the final chunk so late content lands at
// the end of the thread rather than spawning new chunks.
func mergeToCount(parts []string, target int) []string {
	if len(parts) <= target {
		return parts
	}

	total := 0
	for _, p := range parts {
		total += uniseg.GraphemeClusterCount(p)
	}

	maxChunk := int(mergeWidthFactor * float64(total) / float64(target))

	var (
		chunks  []string
		current strings.Builder
		used    int
	)

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()

			used = 0
		}
	}

	for i, part := range parts {
		if len(chunks) == target-1 {
			// runt absorption: everything left joins the last chunk
			rest := strings.Join(parts[i:], "\n\n")
			if current.Len() > 0 {
				rest = current.String() + "\n\n" + rest
				current.Reset()
			}

			chunks = append(chunks, rest)

			return chunks
		}

		cost := uniseg.GraphemeClusterCount(part)

		if current.Len() > 0 && used+cost > maxChunk {
			flush()
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}

		current.WriteString(part)
		used += cost
	}

	flush()

	return chunks
}

// bySentenceGroups splits on sentence terminators and groups consecutive
// sentences into target chunks of equal sentence count, re-joined with ". ".
func bySentenceGroups(text string, target int) []string {
	sentences := sentencesWithoutTerminators(text)
	if len(sentences) < target {
		return nil
	}

	groupSize := (len(sentences) + target - 1) / target

	var chunks []string

	for start := 0; start < len(sentences); start += groupSize {
		end := min(start+groupSize, len(sentences))
		chunks = append(chunks, strings.Join(sentences[start:end], ". "))
	}

	return chunks
}

func sentencesWithoutTerminators(text string) []string {
	raw := textstat.SplitSentences(text)

	sentences := make([]string, 0, len(raw))

	for _, s := range raw {
		s = strings.TrimRight(s, ".!?؟ ")
		if s != "" {
			sentences = append(sentences, s)
		}
	}

	return sentences
}

// byFixedWidth cuts the text into target chunks of roughly equal grapheme
// width, pulling each boundary back to the nearest preceding space when the
// natural break falls past half the chunk width.
func byFixedWidth(text string, target int) []string {
	total := uniseg.GraphemeClusterCount(text)
	if total == 0 {
		return nil
	}

	width := (total + target - 1) / target

	var chunks []string

	rest := text

	for rest != "" && len(chunks) < target-1 {
		chunk, remainder := cutAtWidth(rest, width)
		if chunk == "" {
			break
		}

		chunks = append(chunks, strings.TrimSpace(chunk))
		rest = strings.TrimSpace(remainder)
	}

	if rest != "" {
		chunks = append(chunks, rest)
	}

	return chunks
}

// cutAtWidth returns the first chunk of up to width graphemes and the
// remainder. The cut moves back to the last space seen after half the
// width, avoiding mid-word cuts.
func cutAtWidth(text string, width int) (string, string) {
	if uniseg.GraphemeClusterCount(text) <= width {
		return text, ""
	}

	gr := uniseg.NewGraphemes(text)

	var (
		sb        strings.Builder
		count     int
		lastSpace int // byte offset of last space past the midpoint
	)

	midpoint := int(minWordBreakShare * float64(width))

	for gr.Next() {
		if count >= width {
			break
		}

		s := gr.Str()
		sb.WriteString(s)
		count++

		if count > midpoint && s == " " {
			lastSpace = sb.Len()
		}
	}

	cut := sb.Len()
	if lastSpace > 0 {
		cut = lastSpace
	}

	return text[:cut], text[cut:]
}

// EnsureExactCount rebalances chunks to exactly target items. Excess chunks
// are removed from the middle of the sequence, keeping the head and tail
// which usually carry the hook and the conclusion. A shortfall is resolved
// by repeatedly splitting the longest chunk at the space nearest its
// midpoint, stopping early once every chunk is under the split floor.
// Empty chunks are dropped first.
func EnsureExactCount(chunks []string, target int) []string {
	target = clampTarget(target)

	trimmed := make([]string, 0, len(chunks))

	for _, c := range chunks {
		c = strings.TrimSpace(c)
		if c != "" {
			trimmed = append(trimmed, c)
		}
	}

	if len(trimmed) == 0 {
		return nil
	}

	for len(trimmed) > target {
		mid := len(trimmed) / 2
		trimmed = append(trimmed[:mid], trimmed[mid+1:]...)
	}

	for len(trimmed) < target {
		idx, longest := longestChunk(trimmed)
		if uniseg.GraphemeClusterCount(longest) < SplitFloorGraphemes {
			break
		}

		head, tail := splitAtMidpointSpace(longest)
		if tail == "" {
			break
		}

		trimmed = append(trimmed[:idx+1], trimmed[idx:]...)
		trimmed[idx] = head
		trimmed[idx+1] = tail
	}

	return trimmed
}

func longestChunk(chunks []string) (int, string) {
	bestIdx := 0
	bestLen := -1

	for i, c := range chunks {
		if n := uniseg.GraphemeClusterCount(c); n > bestLen {
			bestIdx = i
			bestLen = n
		}
	}

	return bestIdx, chunks[bestIdx]
}

// splitAtMidpointSpace cuts s at the space closest to its byte midpoint.
// Both halves are trimmed; the second half is empty when s has no space.
func splitAtMidpointSpace(s string) (string, string) {
	mid := len(s) / 2

	cut := -1

	for offset := 0; offset <= mid; offset++ {
		if i := mid - offset; i >= 0 && i < len(s) && s[i] == ' ' {
			cut = i
			break
		}

		if i := mid + offset; i < len(s) && s[i] == ' ' {
			cut = i
			break
		}
	}

	if cut < 0 {
		return s, ""
	}

	return strings.TrimSpace(s[:cut]), strings.TrimSpace(s[cut:])
}
