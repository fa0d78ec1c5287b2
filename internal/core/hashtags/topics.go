// Package hashtags maps content to topic categories, allocates
// language-appropriate hashtags from a static topic dictionary, and
// deduplicates/rebalances tags and emoji across a thread.
package hashtags

import "regexp"

// Topic is a content category label used to select relevant hashtags.
type Topic string

// Known topics, in detection order.
const (
	TopicAI           Topic = "ai"
	TopicProgramming  Topic = "programming"
	TopicWriting      Topic = "writing"
	TopicEducation    Topic = "education"
	TopicBusiness     Topic = "business"
	TopicProductivity Topic = "productivity"
	TopicTechnology   Topic = "technology"
	TopicDesign       Topic = "design"
	TopicFinance      Topic = "finance"
	TopicHealth       Topic = "health"
	TopicSocial       Topic = "social"
	TopicGeneral      Topic = "general"
)

// topicRule pairs a topic with its keyword predicate. Detection is
// data-driven dispatch over this ordered list; topics are plain labels,
// not a type hierarchy.
type topicRule struct {
	topic   Topic
	pattern *regexp.Regexp
}

// topicRules is ordered: earlier matches come first in the detected list.
// Patterns cover both English and Arabic keywords.
var topicRules = []topicRule{
	{TopicAI, regexp.MustCompile(`(?i)\b(ai|artificial intelligence|machine learning|deep learning|neural|llm|chatgpt|gpt)\b|ذكاء اصطناعي|تعلم الآلة`)},
	{TopicProgramming, regexp.MustCompile(`(?i)\b(code|coding|programming|software|developer|api|golang|python|javascript|bug|debug)\b|برمجة|مبرمج|كود`)},
	{TopicWriting, regexp.MustCompile(`(?i)\b(writing|writer|author|blog|storytelling|copywriting|content creation)\b|كتابة|كاتب|محتوى`)},
	{TopicEducation, regexp.MustCompile(`(?i)\b(learn|learning|education|teach|course|student|study|school|university)\b|تعليم|تعلم|دراسة|مدرسة|جامعة`)},
	{TopicBusiness, regexp.MustCompile(`(?i)\b(business|startup|entrepreneur|marketing|sales|company|customer|growth)\b|أعمال|شركة|ريادة|تسويق`)},
	{TopicProductivity, regexp.MustCompile(`(?i)\b(productivity|habits|focus|time management|goals|routine|efficiency)\b|إنتاجية|عادات|تركيز|أهداف`)},
	{TopicTechnology, regexp.MustCompile(`(?i)\b(tech|technology|digital|innovation|gadget|internet|cloud|mobile)\b|تقنية|تكنولوجيا|رقمي|ابتكار`)},
	{TopicDesign, regexp.MustCompile(`(?i)\b(design|ui|ux|interface|typography|branding|visual)\b|تصميم|مصمم`)},
	{TopicFinance, regexp.MustCompile(`(?i)\b(finance|money|invest|investing|stock|crypto|budget|saving|wealth)\b|مال|استثمار|تمويل|ادخار`)},
	{TopicHealth, regexp.MustCompile(`(?i)\b(health|fitness|exercise|diet|nutrition|sleep|mental health|wellness)\b|صحة|لياقة|تغذية|نوم`)},
	{TopicSocial, regexp.MustCompile(`(?i)\b(social media|twitter|community|followers|engagement|audience|viral)\b|تواصل اجتماعي|متابعين|جمهور`)},
}

// DetectTopics tests text against every topic rule in order and returns all
// matches; text matching nothing is classified as general.
func DetectTopics(text string) []Topic {
	var topics []Topic

	for _, rule := range topicRules {
		if rule.pattern.MatchString(text) {
			topics = append(topics, rule.topic)
		}
	}

	if len(topics) == 0 {
		topics = []Topic{TopicGeneral}
	}

	return topics
}

// pool holds the English and Arabic hashtag candidates for one topic.
type pool struct {
	english []string
	arabic  []string
}

// topicPools is the static topic→hashtag dictionary. Read-only; safe to
// share across concurrent generation calls.
var topicPools = map[Topic]pool{
	TopicAI: {
		english: []string{"#AI", "#ArtificialIntelligence", "#MachineLearning", "#DeepLearning", "#LLM", "#GenAI"},
		arabic:  []string{"#ذكاء_اصطناعي", "#تعلم_الآلة", "#تقنيات_الذكاء"},
	},
	TopicProgramming: {
		english: []string{"#Programming", "#Coding", "#SoftwareEngineering", "#DevCommunity", "#100DaysOfCode", "#WebDev"},
		arabic:  []string{"#برمجة", "#مبرمجين", "#تطوير_البرمجيات"},
	},
	TopicWriting: {
		english: []string{"#Writing", "#WritingCommunity", "#ContentCreation", "#Copywriting", "#AmWriting"},
		arabic:  []string{"#كتابة", "#محتوى", "#مجتمع_الكتابة"},
	},
	TopicEducation: {
		english: []string{"#Education", "#Learning", "#EdTech", "#StudyTips", "#LifelongLearning"},
		arabic:  []string{"#تعليم", "#تعلم", "#التعليم_الإلكتروني"},
	},
	TopicBusiness: {
		english: []string{"#Business", "#Startup", "#Entrepreneurship", "#Marketing", "#GrowthHacking"},
		arabic:  []string{"#أعمال", "#ريادة_الأعمال", "#تسويق"},
	},
	TopicProductivity: {
		english: []string{"#Productivity", "#TimeManagement", "#Habits", "#DeepWork", "#Goals"},
		arabic:  []string{"#إنتاجية", "#إدارة_الوقت", "#عادات"},
	},
	TopicTechnology: {
		english: []string{"#Tech", "#Technology", "#Innovation", "#DigitalTransformation", "#FutureOfWork"},
		arabic:  []string{"#تقنية", "#تكنولوجيا", "#ابتكار"},
	},
	TopicDesign: {
		english: []string{"#Design", "#UX", "#UI", "#ProductDesign", "#DesignThinking"},
		arabic:  []string{"#تصميم", "#تجربة_المستخدم"},
	},
	TopicFinance: {
		english: []string{"#Finance", "#Investing", "#PersonalFinance", "#Money", "#FinancialFreedom"},
		arabic:  []string{"#استثمار", "#مال", "#تمويل_شخصي"},
	},
	TopicHealth: {
		english: []string{"#Health", "#Wellness", "#Fitness", "#MentalHealth", "#HealthyHabits"},
		arabic:  []string{"#صحة", "#لياقة", "#صحة_نفسية"},
	},
	TopicSocial: {
		english: []string{"#SocialMedia", "#CommunityBuilding", "#Engagement", "#CreatorEconomy"},
		arabic:  []string{"#تواصل_اجتماعي", "#صناعة_المحتوى"},
	},
	TopicGeneral: {
		english: []string{"#Thread", "#TipsAndTricks", "#DidYouKnow", "#Insights", "#KnowledgeSharing", "#MustRead"},
		arabic:  []string{"#ثريد", "#معلومات", "#هل_تعلم", "#فوائد"},
	},
}

// threadMarkerTags identify the opening tweet of a thread; one not-yet-used
// marker is prepended to the first message.
var threadMarkerTags = pool{
	english: []string{"#Thread", "#ThreadAlert", "#MegaThread"},
	arabic:  []string{"#ثريد", "#سلسلة_تغريدات"},
}

// englishPoolFor gathers the English candidates of the given topics in order.
func englishPoolFor(topics []Topic) []string {
	var tags []string

	for _, t := range topics {
		tags = append(tags, topicPools[t].english...)
	}

	return tags
}

// arabicPoolFor gathers the Arabic candidates of the given topics in order.
func arabicPoolFor(topics []Topic) []string {
	var tags []string

	for _, t := range topics {
		tags = append(tags, topicPools[t].arabic...)
	}

	return tags
}
