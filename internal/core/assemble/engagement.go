package assemble

import (
	"fmt"

	"github.com/threadforge/threadforge/internal/core/domain"
)

// Engagement scoring weights. The score is a bounded heuristic of message
// length, CTA presence and hashtag/emoji density, plus a style bonus.
const (
	engagementBase     = 5.0
	engagementMax      = 10.0
	idealTweetLow      = 70
	idealTweetHigh     = 240
	lengthBonus        = 1.5
	ctaBonus           = 1.0
	hashtagDenseBonus  = 1.0
	emojiPresenceBonus = 0.5
	idealShareFloor    = 0.6
)

// styleBonus rewards styles that historically drive interaction.
var styleBonus = map[domain.Style]float64{
	domain.StyleEngaging:    1.5,
	domain.StyleEducational: 1.0,
	domain.StyleConcise:     0.5,
}

// EngagementScore estimates how well the thread is likely to perform, on a
// 0-10 scale. Purely structural: it looks at lengths and decorations, not
// at meaning.
func EngagementScore(messages []domain.Message, style domain.Style) float64 {
	if len(messages) == 0 {
		return 0
	}

	score := engagementBase

	ideal := 0
	hasCTA := false
	withTags := 0
	withEmoji := 0

	for _, msg := range messages {
		if msg.CharCount >= idealTweetLow && msg.CharCount <= idealTweetHigh {
			ideal++
		}

		if msg.CTA != "" {
			hasCTA = true
		}

		if len(msg.Hashtags) > 0 {
			withTags++
		}

		if len(msg.EmojiSuggestions) > 0 {
			withEmoji++
		}
	}

	if float64(ideal)/float64(len(messages)) >= idealShareFloor {
		score += lengthBonus
	}

	if hasCTA {
		score += ctaBonus
	}

	if withTags == len(messages) {
		score += hashtagDenseBonus
	}

	if withEmoji > 0 {
		score += emojiPresenceBonus
	}

	score += styleBonus[style]

	if score > engagementMax {
		score = engagementMax
	}

	if score < 0 {
		score = 0
	}

	return score
}

// ThreadSummary labels the structure the thread follows for its style.
func ThreadSummary(style domain.Style, tweetCount int) string {
	label, ok := threadStructureLabels[style]
	if !ok {
		label = threadStructureLabels[domain.StyleProfessional]
	}

	return fmt.Sprintf("%d-tweet %s", tweetCount, label)
}
