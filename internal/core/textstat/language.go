package textstat

import (
	"fmt"
	"unicode"

	"github.com/threadforge/threadforge/internal/core/domain"
)

// Policy holds the script-mix thresholds. The defaults are product policy;
// callers may override them but the default values are fixed.
type Policy struct {
	// RTLThreshold is the Arabic letter share above which text is presented RTL.
	RTLThreshold float64
	// MixedThreshold is the per-script share above which a script counts as present.
	MixedThreshold float64
	// ArabicThreshold is the share used by IsArabic.
	ArabicThreshold float64
	// EnglishThreshold is the share used by IsEnglish.
	EnglishThreshold float64
}

// DefaultPolicy returns the stock thresholds: RTL above 30% Arabic, mixed
// when both scripts exceed 10%, Arabic classification at 30%, English at 50%.
func DefaultPolicy() Policy {
	return Policy{
		RTLThreshold:     defaultRTLThreshold,
		MixedThreshold:   defaultMixedThreshold,
		ArabicThreshold:  defaultRTLThreshold,
		EnglishThreshold: defaultEnglishThreshold,
	}
}

const (
	defaultRTLThreshold     = 30.0
	defaultMixedThreshold   = 10.0
	defaultEnglishThreshold = 50.0

	percentScale = 100.0
)

// Analyze computes the language profile of text with the default policy.
func Analyze(text string) domain.LanguageProfile {
	return DefaultPolicy().Analyze(text)
}

// Analyze classifies every letter of text as Arabic-script, Latin or other
// and derives dominance, direction and the mixed flag. Whitespace, digits,
// punctuation and symbols are ignored. Zero letters yields the all-zero
// unknown/LTR profile.
func (p Policy) Analyze(text string) domain.LanguageProfile {
	arabic, latin, other := countScriptLetters(text)

	total := arabic + latin + other
	if total == 0 {
		return domain.LanguageProfile{
			Dominant:  domain.DominantUnknown,
			Direction: domain.DirectionLTR,
		}
	}

	profile := domain.LanguageProfile{
		ArabicPercent:  percentScale * float64(arabic) / float64(total),
		EnglishPercent: percentScale * float64(latin) / float64(total),
		OtherPercent:   percentScale * float64(other) / float64(total),
		TotalLetters:   total,
	}

	profile.Dominant = dominantOf(profile)
	profile.Direction = domain.DirectionLTR

	if profile.ArabicPercent > p.RTLThreshold {
		profile.Direction = domain.DirectionRTL
	}

	profile.IsMixed = profile.ArabicPercent > p.MixedThreshold && profile.EnglishPercent > p.MixedThreshold

	return profile
}

// IsArabic reports whether the Arabic letter share of text exceeds the
// policy's Arabic threshold.
func (p Policy) IsArabic(text string) bool {
	return p.Analyze(text).ArabicPercent > p.ArabicThreshold
}

// IsEnglish reports whether the Latin letter share of text exceeds the
// policy's English threshold.
func (p Policy) IsEnglish(text string) bool {
	return p.Analyze(text).EnglishPercent > p.EnglishThreshold
}

// IsArabic applies the default policy.
func IsArabic(text string) bool {
	return DefaultPolicy().IsArabic(text)
}

// IsEnglish applies the default policy.
func IsEnglish(text string) bool {
	return DefaultPolicy().IsEnglish(text)
}

// HasEmoji reports whether text contains at least one emoji code point.
func HasEmoji(text string) bool {
	for _, r := range text {
		if IsEmojiRune(r) {
			return true
		}
	}

	return false
}

// dominantOf picks the strictly highest share; ties yield unknown.
func dominantOf(p domain.LanguageProfile) domain.Dominant {
	switch {
	case p.ArabicPercent > p.EnglishPercent && p.ArabicPercent > p.OtherPercent:
		return domain.DominantArabic
	case p.EnglishPercent > p.ArabicPercent && p.EnglishPercent > p.OtherPercent:
		return domain.DominantEnglish
	case p.OtherPercent > p.ArabicPercent && p.OtherPercent > p.EnglishPercent:
		return domain.DominantOther
	default:
		return domain.DominantUnknown
	}
}

func countScriptLetters(text string) (arabic, latin, other int) {
	for _, r := range text {
		if unicode.IsSpace(r) || unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}

		if !unicode.IsLetter(r) {
			continue
		}

		switch {
		case isArabicRune(r):
			arabic++
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
			latin++
		default:
			other++
		}
	}

	return
}

// isArabicRune covers the main Arabic block plus the supplement and both
// presentation forms ranges.
func isArabicRune(r rune) bool {
	return (r >= 0x0600 && r <= 0x06FF) || // Arabic
		(r >= 0x0750 && r <= 0x077F) || // Arabic Supplement
		(r >= 0xFB50 && r <= 0xFDFF) || // Arabic Presentation Forms-A
		(r >= 0xFE70 && r <= 0xFEFF) // Arabic Presentation Forms-B
}

// IsEmojiRune reports whether r falls in one of the common emoji blocks.
// ZWJ sequences are handled by the grapheme counter; this predicate only
// needs to spot the base code points.
func IsEmojiRune(r rune) bool {
	return (r >= 0x1F300 && r <= 0x1F5FF) || // symbols & pictographs
		(r >= 0x1F600 && r <= 0x1F64F) || // emoticons
		(r >= 0x1F680 && r <= 0x1F6FF) || // transport & map
		(r >= 0x1F900 && r <= 0x1F9FF) || // supplemental symbols
		(r >= 0x1FA70 && r <= 0x1FAFF) || // extended-A
		(r >= 0x2600 && r <= 0x26FF) || // miscellaneous symbols
		(r >= 0x2700 && r <= 0x27BF) || // dingbats
		(r >= 0x1F1E6 && r <= 0x1F1FF) // regional indicators
}

// ThreadLanguageReport aggregates the script mix across a whole thread.
type ThreadLanguageReport struct {
	Profile         domain.LanguageProfile
	IsConsistent    bool
	Recommendations []string
}

// AnalyzeThread aggregates raw letter counts (not percentages) across all
// messages before computing thread-level shares, and flags the thread as
// inconsistent when any single message is internally mixed.
func (p Policy) AnalyzeThread(messages []domain.Message) ThreadLanguageReport {
	var arabic, latin, other int

	consistent := true

	for _, msg := range messages {
		a, l, o := countScriptLetters(msg.Text)
		arabic += a
		latin += l
		other += o

		if p.Analyze(msg.Text).IsMixed {
			consistent = false
		}
	}

	report := ThreadLanguageReport{IsConsistent: consistent}

	total := arabic + latin + other
	if total == 0 {
		report.Profile = domain.LanguageProfile{
			Dominant:  domain.DominantUnknown,
			Direction: domain.DirectionLTR,
		}

		return report
	}

	report.Profile = domain.LanguageProfile{
		ArabicPercent:  percentScale * float64(arabic) / float64(total),
		EnglishPercent: percentScale * float64(latin) / float64(total),
		OtherPercent:   percentScale * float64(other) / float64(total),
		TotalLetters:   total,
	}
	report.Profile.Dominant = dominantOf(report.Profile)

	if report.Profile.ArabicPercent > p.RTLThreshold {
		report.Profile.Direction = domain.DirectionRTL
	} else {
		report.Profile.Direction = domain.DirectionLTR
	}

	report.Profile.IsMixed = report.Profile.ArabicPercent > p.MixedThreshold &&
		report.Profile.EnglishPercent > p.MixedThreshold

	if !consistent {
		report.Recommendations = append(report.Recommendations,
			"Some tweets mix Arabic and English; consider keeping each tweet in a single language for readability")
	}

	if report.Profile.Direction == domain.DirectionRTL {
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("Thread is %.0f%% Arabic; publish with right-to-left presentation", report.Profile.ArabicPercent))
	}

	return report
}

// AnalyzeThread applies the default policy.
func AnalyzeThread(messages []domain.Message) ThreadLanguageReport {
	return DefaultPolicy().AnalyzeThread(messages)
}
