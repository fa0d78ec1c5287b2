package hashtags

import (
	"math"

	"github.com/threadforge/threadforge/internal/core/domain"
	"github.com/threadforge/threadforge/internal/core/textstat"
)

// Allocation defaults. EnglishRatio is product policy; override the field,
// not the default.
const (
	DefaultMaxHashtags   = 4
	DefaultEnglishRatio  = 0.7
	interiorMessageCap   = 3
	closingMessageCap    = 4
	arabicShareThreshold = 30.0
)

// UsedSet tracks hashtags already assigned within one thread-generation
// call. Membership is tested on normalized tags. A fresh set must be
// allocated per call; it is never shared across concurrent generations.
type UsedSet map[string]struct{}

// NewUsedSet returns an empty per-thread used-tag set.
func NewUsedSet() UsedSet {
	return make(UsedSet)
}

// Add registers a tag, normalizing first.
func (u UsedSet) Add(tag string) {
	if normalized := NormalizeTag(tag); normalized != "" {
		u[normalized] = struct{}{}
	}
}

// Contains reports whether the normalized form of tag is already used.
func (u UsedSet) Contains(tag string) bool {
	_, ok := u[NormalizeTag(tag)]
	return ok
}

// Options configures one allocation call.
type Options struct {
	// MaxHashtags caps the returned tag count. Zero means the default of 4.
	MaxHashtags int
	// EnglishRatio is the share of slots reserved for English-pool tags.
	// Zero means the default of 0.7.
	EnglishRatio float64
	// IncludeThreadTag prepends a thread-marker tag; true only for the
	// first message of a thread.
	IncludeThreadTag bool
	// ForceArabic draws Arabic-pool tags regardless of the text's own mix.
	ForceArabic bool
}

func (o Options) normalized() Options {
	if o.MaxHashtags <= 0 {
		o.MaxHashtags = DefaultMaxHashtags
	}

	if o.EnglishRatio <= 0 {
		o.EnglishRatio = DefaultEnglishRatio
	}

	return o
}

// Allocate draws up to MaxHashtags topic-relevant tags for one message.
// English slots are filled first, Arabic slots when the message's Arabic
// letter share exceeds 30% or ForceArabic is set, then remaining slots are
// backfilled from the general pool matching the content's dominant
// language. Every returned tag is registered in used, so no tag repeats
// within a thread. Pool exhaustion simply yields fewer tags.
func Allocate(text string, opts Options, used UsedSet) []string {
	opts = opts.normalized()

	topics := DetectTopics(text)
	profile := textstat.Analyze(text)
	arabicContent := profile.ArabicPercent > arabicShareThreshold

	englishCount := int(math.Ceil(float64(opts.MaxHashtags) * opts.EnglishRatio))
	arabicCount := opts.MaxHashtags - englishCount

	var tags []string

	if opts.IncludeThreadTag {
		if marker := pickThreadMarker(arabicContent, used); marker != "" {
			tags = append(tags, marker)
		}
	}

	tags = takeFromPool(tags, englishPoolFor(topics), englishCount, used)

	if arabicContent || opts.ForceArabic {
		tags = takeFromPool(tags, arabicPoolFor(topics), arabicCount, used)
	}

	tags = backfillGeneral(tags, opts.MaxHashtags, arabicContent, used)

	if len(tags) > opts.MaxHashtags {
		tags = tags[:opts.MaxHashtags]
	}

	for _, tag := range tags {
		used.Add(tag)
	}

	return tags
}

// pickThreadMarker returns the first unused thread-marker tag in the
// language matching the content, or "" when all markers are spent.
func pickThreadMarker(arabicContent bool, used UsedSet) string {
	markers := threadMarkerTags.english
	if arabicContent {
		markers = threadMarkerTags.arabic
	}

	for _, marker := range markers {
		if !used.Contains(marker) {
			return NormalizeTag(marker)
		}
	}

	return ""
}

// takeFromPool appends up to limit unused pool tags not already chosen.
func takeFromPool(tags []string, candidates []string, limit int, used UsedSet) []string {
	if limit <= 0 {
		return tags
	}

	taken := 0

	for _, candidate := range DedupeHashtags(candidates) {
		if taken >= limit {
			break
		}

		if used.Contains(candidate) || contains(tags, candidate) {
			continue
		}

		tags = append(tags, candidate)
		taken++
	}

	return tags
}

// backfillGeneral tops the list up to maxTags from the general-purpose pool
// in the content's dominant language.
func backfillGeneral(tags []string, maxTags int, arabicContent bool, used UsedSet) []string {
	general := topicPools[TopicGeneral].english
	if arabicContent {
		general = topicPools[TopicGeneral].arabic
	}

	for _, candidate := range DedupeHashtags(general) {
		if len(tags) >= maxTags {
			break
		}

		if used.Contains(candidate) || contains(tags, candidate) {
			continue
		}

		tags = append(tags, candidate)
	}

	return tags
}

func contains(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}

	return false
}

// AllocateForThread allocates tags message by message in index order with a
// single shared used-set. The first message carries the thread-marker tag,
// interior messages are capped at 3 tags and the closing message at 4.
// Messages are mutated in place.
func AllocateForThread(messages []domain.Message, opts Options) {
	used := NewUsedSet()

	for i := range messages {
		msgOpts := opts
		msgOpts.IncludeThreadTag = i == 0

		if i == len(messages)-1 {
			msgOpts.MaxHashtags = closingMessageCap
		} else {
			msgOpts.MaxHashtags = interiorMessageCap
		}

		allocated := Allocate(messages[i].Text, msgOpts, used)
		messages[i].Hashtags = DedupeHashtags(append(messages[i].Hashtags, allocated...))
	}
}
