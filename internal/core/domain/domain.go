// Package domain defines the data model shared by the thread generation
// pipeline: request options, language profiles, per-tweet messages and the
// final thread result returned to callers.
package domain

// MaxTweetChars is the per-tweet length limit enforced after enrichment,
// measured in grapheme clusters.
const MaxTweetChars = 280

// Thread length bounds for one generation request.
const (
	MinThreadLength     = 1
	MaxThreadLength     = 20
	DefaultThreadLength = 5
)

// Style selects the prefix, CTA and emoji pools used during assembly.
type Style string

const (
	StyleEducational  Style = "educational"
	StyleTechnical    Style = "technical"
	StyleConcise      Style = "concise"
	StyleEngaging     Style = "engaging"
	StyleProfessional Style = "professional"
)

// Valid reports whether s is one of the known styles.
func (s Style) Valid() bool {
	switch s {
	case StyleEducational, StyleTechnical, StyleConcise, StyleEngaging, StyleProfessional:
		return true
	default:
		return false
	}
}

// Language is the caller-requested output language policy.
type Language string

const (
	LanguageAuto    Language = "auto"
	LanguageArabic  Language = "ar"
	LanguageEnglish Language = "en"
	LanguageBoth    Language = "both"
)

// Dominant identifies the script category with the highest letter share.
type Dominant string

const (
	DominantArabic  Dominant = "arabic"
	DominantEnglish Dominant = "english"
	DominantOther   Dominant = "other"
	DominantUnknown Dominant = "unknown"
)

// Direction is the presentation direction derived from the script mix.
type Direction string

const (
	DirectionLTR Direction = "ltr"
	DirectionRTL Direction = "rtl"
)

// LanguageProfile is the script-mix analysis of one text, computed once per
// input and immutable afterwards. Percentages sum to 100 when TotalLetters>0
// and are all zero otherwise.
type LanguageProfile struct {
	ArabicPercent  float64   `json:"arabic_percent"`
	EnglishPercent float64   `json:"english_percent"`
	OtherPercent   float64   `json:"other_percent"`
	TotalLetters   int       `json:"total_letters"`
	Dominant       Dominant  `json:"dominant_language"`
	Direction      Direction `json:"direction"`
	IsMixed        bool      `json:"is_mixed"`
}

// Options configures one thread generation call. Zero values are replaced by
// defaults via Normalize. IncludeHashtags is a pointer so an omitted field
// is distinguishable from an explicit false; unset means hashtags on.
type Options struct {
	Language        Language `json:"language"`
	Style           Style    `json:"style"`
	MaxTweets       int      `json:"max_tweets"`
	IncludeHashtags *bool    `json:"include_hashtags,omitempty"`
	IncludeImages   bool     `json:"include_images"`
}

// BoolPtr returns a pointer to v, for optional boolean option fields.
func BoolPtr(v bool) *bool { return &v }

// HashtagsEnabled reports whether hashtag allocation is on. An unset field
// counts as on.
func (o Options) HashtagsEnabled() bool {
	return o.IncludeHashtags == nil || *o.IncludeHashtags
}

// DefaultOptions returns the documented defaults: auto language, professional
// style, five tweets, hashtags on, images off.
func DefaultOptions() Options {
	return Options{
		Language:        LanguageAuto,
		Style:           StyleProfessional,
		MaxTweets:       DefaultThreadLength,
		IncludeHashtags: BoolPtr(true),
	}
}

// Normalize fills unset fields with defaults and clamps MaxTweets to the
// supported range.
func (o Options) Normalize() Options {
	if o.Language == "" {
		o.Language = LanguageAuto
	}

	if !o.Style.Valid() {
		o.Style = StyleProfessional
	}

	if o.MaxTweets == 0 {
		o.MaxTweets = DefaultThreadLength
	}

	if o.MaxTweets < MinThreadLength {
		o.MaxTweets = MinThreadLength
	}

	if o.MaxTweets > MaxThreadLength {
		o.MaxTweets = MaxThreadLength
	}

	if o.IncludeHashtags == nil {
		o.IncludeHashtags = BoolPtr(true)
	}

	return o
}

// ImageSuggestion describes a visual to pair with one tweet.
type ImageSuggestion struct {
	Template    string `json:"template"`
	Description string `json:"description"`
	AltText     string `json:"alt_text,omitempty"`
}

// Message is one tweet of a thread. Index is 1-based. CharCount is the
// grapheme count of the text plus appended hashtags and CTA, and never
// exceeds MaxTweetChars once assembly finishes.
type Message struct {
	Index            int              `json:"index"`
	Text             string           `json:"text"`
	CharCount        int              `json:"char_count"`
	Hashtags         []string         `json:"hashtags"`
	EmojiSuggestions []string         `json:"emoji_suggestions"`
	CTA              string           `json:"cta,omitempty"`
	Image            *ImageSuggestion `json:"image_suggestion,omitempty"`
	Warnings         []string         `json:"warnings,omitempty"`
}

// Metadata describes one generated thread.
type Metadata struct {
	Language           Dominant  `json:"language"`
	Direction          Direction `json:"direction"`
	StyleRequested     Style     `json:"style_requested"`
	ToneDetected       string    `json:"tone_detected,omitempty"`
	MaxTweetsRequested int       `json:"max_tweets_requested"`
	TweetsGenerated    int       `json:"tweets_generated"`
	Source             string    `json:"source,omitempty"`
}

// ThreadResult is the success payload of one generation call.
type ThreadResult struct {
	Metadata        Metadata  `json:"metadata"`
	Thread          []Message `json:"thread"`
	ThreadSummary   string    `json:"thread_summary"`
	EngagementScore float64   `json:"estimated_engagement_score"`
	Recommendations []string  `json:"publishing_recommendations,omitempty"`
}

// GenerationError is the structured failure value returned instead of a
// thread. The pipeline never panics and never returns a partial thread.
type GenerationError struct {
	Message string `json:"error"`
	Code    string `json:"code"`
}

func (e *GenerationError) Error() string {
	return e.Code + ": " + e.Message
}
