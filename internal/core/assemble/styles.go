package assemble

import "github.com/threadforge/threadforge/internal/core/domain"

// stylePool holds the language-specific phrase candidates for one style.
type stylePool struct {
	english []string
	arabic  []string
}

func (p stylePool) forLanguage(arabic bool) []string {
	if arabic {
		return p.arabic
	}

	return p.english
}

// openerPrefixes decorate only the first tweet of a thread.
var openerPrefixes = map[domain.Style]stylePool{
	domain.StyleEducational: {
		english: []string{"Let's break this down 👇", "A quick lesson:", "Here's what you need to know:", "Today I'm explaining:"},
		arabic:  []string{"دعونا نشرح الموضوع 👇", "درس سريع:", "إليكم ما تحتاجون معرفته:"},
	},
	domain.StyleTechnical: {
		english: []string{"Deep dive 🧵", "Technical breakdown:", "How it actually works:"},
		arabic:  []string{"شرح تقني 🧵", "تحليل تقني:", "كيف يعمل فعلاً:"},
	},
	domain.StyleConcise: {
		english: []string{"Quick thread:", "TL;DR thread:", "In short:"},
		arabic:  []string{"ثريد سريع:", "باختصار:"},
	},
	domain.StyleEngaging: {
		english: []string{"You won't believe this 👀", "Story time 🧵", "This changed how I think:"},
		arabic:  []string{"لن تصدقوا هذا 👀", "قصة تستحق القراءة 🧵", "هذا غيّر طريقة تفكيري:"},
	},
	domain.StyleProfessional: {
		english: []string{"A thread on", "Some thoughts on", "Key takeaways:"},
		arabic:  []string{"سلسلة تغريدات عن", "بعض الأفكار حول", "أهم النقاط:"},
	},
}

// closingCTAs attach to the final tweet only.
var closingCTAs = map[domain.Style]stylePool{
	domain.StyleEducational: {
		english: []string{"Follow for more lessons like this!", "Retweet the first tweet to help others learn.", "What should I explain next?"},
		arabic:  []string{"تابعني لمزيد من الدروس!", "أعد نشر التغريدة الأولى لتعم الفائدة.", "ما الموضوع الذي تريدون شرحه؟"},
	},
	domain.StyleTechnical: {
		english: []string{"Questions? Drop them below.", "Follow for more deep dives.", "Bookmark this for later."},
		arabic:  []string{"أسئلتكم في الردود.", "تابعني لمزيد من الشروحات التقنية.", "احفظ الثريد للرجوع إليه."},
	},
	domain.StyleConcise: {
		english: []string{"That's it. Follow for more.", "RT if useful."},
		arabic:  []string{"انتهى. تابعني للمزيد.", "أعد النشر إن كان مفيداً."},
	},
	domain.StyleEngaging: {
		english: []string{"If you enjoyed this, a retweet helps a lot ❤️", "Follow me for more stories!", "Share your take below 👇"},
		arabic:  []string{"إذا أعجبك الثريد فإعادة النشر تساعد كثيراً ❤️", "تابعني لمزيد من القصص!", "شاركنا رأيك 👇"},
	},
	domain.StyleProfessional: {
		english: []string{"Thanks for reading. Follow for more insights.", "I'd love to hear your perspective.", "Connect if this resonates."},
		arabic:  []string{"شكراً للقراءة. تابعني لمزيد من الأفكار.", "يسعدني سماع وجهة نظرك.", "تواصل معي إن وجدت الموضوع مفيداً."},
	},
}

// styleEmojis seed the per-tweet emoji suggestions.
var styleEmojis = map[domain.Style][]string{
	domain.StyleEducational:  {"📚", "💡", "✍️"},
	domain.StyleTechnical:    {"⚙️", "🔧", "💻"},
	domain.StyleConcise:      {"⚡", "📌"},
	domain.StyleEngaging:     {"🔥", "👀", "💬"},
	domain.StyleProfessional: {"📊", "💼", "🎯"},
}

// threadStartEmojis are prepended to the first tweet's suggestions.
var threadStartEmojis = []string{"🧵", "👇"}

// bonusEmojiRule adds emoji when content keywords appear.
type bonusEmojiRule struct {
	keywords []string
	emoji    string
}

var bonusEmojiRules = []bonusEmojiRule{
	{[]string{"success", "win", "achieved", "نجح", "نجاح", "فوز"}, "🎉"},
	{[]string{"money", "revenue", "profit", "مال", "ربح", "أرباح"}, "💰"},
	{[]string{"grow", "growth", "increase", "نمو", "زيادة"}, "📈"},
	{[]string{"warning", "careful", "avoid", "mistake", "تحذير", "خطأ", "تجنب"}, "⚠️"},
	{[]string{"idea", "think", "فكرة", "تفكير"}, "💡"},
	{[]string{"time", "fast", "quick", "وقت", "سريع"}, "⏰"},
	{[]string{"love", "passion", "حب", "شغف"}, "❤️"},
}

// threadStructureLabels map the requested style to the summary label of the
// thread's structure.
var threadStructureLabels = map[domain.Style]string{
	domain.StyleEducational:  "step-by-step lesson",
	domain.StyleTechnical:    "technical deep dive",
	domain.StyleConcise:      "rapid-fire summary",
	domain.StyleEngaging:     "narrative hook and payoff",
	domain.StyleProfessional: "structured analysis",
}

// imageRule scores a keyword pattern against tweet text; the sum of
// priority plus matched keyword lengths picks the best template.
type imageRule struct {
	keywords []string
	priority int
	template domain.ImageSuggestion
}

var imageRules = []imageRule{
	{
		keywords: []string{"data", "chart", "statistics", "percent", "بيانات", "إحصائيات"},
		priority: 3,
		template: domain.ImageSuggestion{Template: "chart", Description: "A simple chart visualizing the key numbers"},
	},
	{
		keywords: []string{"step", "process", "how to", "خطوة", "طريقة"},
		priority: 3,
		template: domain.ImageSuggestion{Template: "step-diagram", Description: "A numbered diagram of the process steps"},
	},
	{
		keywords: []string{"quote", "said", "اقتباس", "قال"},
		priority: 2,
		template: domain.ImageSuggestion{Template: "quote-card", Description: "A quote card with the highlighted sentence"},
	},
	{
		keywords: []string{"compare", "versus", "vs", "مقارنة"},
		priority: 2,
		template: domain.ImageSuggestion{Template: "comparison-table", Description: "A two-column comparison table"},
	},
	{
		keywords: []string{"list", "tips", "reasons", "قائمة", "نصائح", "أسباب"},
		priority: 2,
		template: domain.ImageSuggestion{Template: "checklist", Description: "A checklist card of the listed points"},
	},
}

// minImageScore is the score a rule must reach before its template beats
// the style default.
const minImageScore = 5

// defaultImageTemplates are used when no rule scores high enough.
var defaultImageTemplates = map[domain.Style]domain.ImageSuggestion{
	domain.StyleEducational:  {Template: "lesson-card", Description: "A title card summarizing the lesson"},
	domain.StyleTechnical:    {Template: "code-snippet", Description: "A code or architecture snippet card"},
	domain.StyleConcise:      {Template: "summary-card", Description: "A single-sentence summary card"},
	domain.StyleEngaging:     {Template: "story-visual", Description: "An illustrative image matching the story beat"},
	domain.StyleProfessional: {Template: "insight-card", Description: "A branded card with the key insight"},
}
