package wrap

// classifyTopics is how many ranked topics the classifier looks at.
const classifyTopics = 15

const (
	DefaultPersonality = "Thoughtful Learner"
	DefaultTheme       = "General Exploration"
)

// signals are the counters the classifier reads.
type signals struct {
	UserMessages    int
	NightMessages   int
	Weekend         int
	Weekday         int
	CodeBlocks      int
	Topics          []TopicCount
	AvgSessionHours float64
	Depth           int
	QuestionRatio   int
}

func (s signals) nightRatio() float64 {
	if s.UserMessages == 0 {
		return 0
	}
	return float64(s.NightMessages) / float64(s.UserMessages)
}

func (s signals) codeRatio() float64 {
	if s.UserMessages == 0 {
		return 0
	}
	return float64(s.CodeBlocks) / float64(s.UserMessages)
}

// matches counts topics that appear in words.
func (s signals) matches(words set) int {
	n := 0
	for _, t := range s.Topics {
		if words.has(t.Topic) {
			n++
		}
	}
	return n
}

// Word lists for the personality cascade.
var (
	codeWords = wordSet(
		"debug", "debugging", "python", "javascript", "typescript", "golang", "react",
		"compile", "compiler", "script", "server", "backend", "frontend", "deploy",
		"refactor", "syntax", "github", "docker", "database", "endpoint", "exception",
		"runtime", "library", "framework", "variable", "method", "programming",
		"coding", "developer", "software", "bugfix", "tests", "testing",
	)
	designWords = wordSet(
		"design", "designs", "layout", "figma", "sketch", "illustration", "palette",
		"typography", "visual", "colors", "colour", "drawing", "image", "images",
		"poster", "brand", "branding", "style", "styling", "creative", "mockup",
	)
	dataWords = wordSet(
		"dataset", "datasets", "pandas", "excel", "spreadsheet", "analysis",
		"analytics", "statistics", "chart", "charts", "graph", "graphs", "numpy",
		"query", "regression", "metrics", "dashboard", "visualization", "table",
		"tables", "column", "columns",
	)
	writingWords = wordSet(
		"write", "writing", "essay", "story", "stories", "article", "articles",
		"email", "emails", "letter", "poem", "novel", "draft", "paragraph", "grammar",
		"rewrite", "summary", "summarize", "chapter", "proofread", "outline",
	)
	businessWords = wordSet(
		"business", "marketing", "startup", "sales", "customer", "customers",
		"strategy", "revenue", "pricing", "market", "product", "investment",
		"finance", "budget", "client", "clients", "proposal", "pitch", "company",
		"growth", "brand",
	)
	learningWords = wordSet(
		"learn", "learning", "explain", "understand", "tutorial", "guide", "study",
		"lesson", "course", "concept", "concepts", "homework", "practice", "teach",
		"example", "examples", "exams", "history", "science", "physics", "chemistry",
		"biology", "difference", "meaning",
	)
)

type personalityRule struct {
	Label string
	Match func(signals) bool
}

// personalityRules is evaluated in order; the first match wins.
var personalityRules = []personalityRule{
	{"Night Owl Thinker", func(s signals) bool { return s.nightRatio() > 0.4 }},
	{"Weekend Warrior", func(s signals) bool { return float64(s.Weekend) > 0.6*float64(s.Weekday) }},
	{"Code Warrior", func(s signals) bool { return s.codeRatio() > 0.3 || s.matches(codeWords) >= 3 }},
	{"Creative Visionary", func(s signals) bool { return s.matches(designWords) >= 2 }},
	{"Data Wizard", func(s signals) bool { return s.matches(dataWords) >= 2 }},
	{"Wordsmith", func(s signals) bool { return s.matches(writingWords) >= 2 }},
	{"Strategic Mind", func(s signals) bool { return s.matches(businessWords) >= 2 }},
	{"Deep Diver", func(s signals) bool { return s.AvgSessionHours > 2 || s.Depth >= 30 }},
	{"Curious Explorer", func(s signals) bool { return s.QuestionRatio > 70 }},
	{"Lifelong Learner", func(s signals) bool { return s.matches(learningWords) >= 2 }},
	{"Power User", func(s signals) bool { return s.UserMessages > 1000 }},
}

func classifyPersonality(s signals) string {
	for _, rule := range personalityRules {
		if rule.Match(s) {
			return rule.Label
		}
	}
	return DefaultPersonality
}

type themeCategory struct {
	Label string
	Words set
}

// themeCategories is in precedence order: on equal scores the earlier one wins.
var themeCategories = []themeCategory{
	{"Technical Development", codeWords},
	{"Creative Projects", wordSet(
		"design", "creative", "story", "stories", "drawing", "illustration", "music",
		"songs", "lyrics", "poetry", "image", "images", "artwork", "video", "photo",
		"photos", "character", "characters", "fantasy", "painting",
	)},
	{"Knowledge & Learning", learningWords},
	{"Data & Analytics", dataWords},
	{"Business & Strategy", businessWords},
	{"AI & Machine Learning", wordSet(
		"model", "models", "prompt", "prompts", "chatgpt", "neural", "training",
		"machine", "embedding", "embeddings", "openai", "claude", "gemini", "agent",
		"agents", "transformer", "llama", "inference", "finetune", "finetuning",
	)},
	{"Web Development", wordSet(
		"website", "websites", "webpage", "frontend", "nextjs", "vuejs", "angular",
		"browser", "nodejs", "express", "tailwind", "react", "javascript", "django",
		"flask", "wordpress",
	)},
	{"Mobile Development", wordSet(
		"android", "iphone", "swift", "swiftui", "kotlin", "flutter", "mobile",
		"xcode", "reactnative", "tablet", "appstore", "playstore", "jetpack",
	)},
	{"DevOps & Infrastructure", wordSet(
		"docker", "kubernetes", "deploy", "deployment", "pipeline", "terraform",
		"nginx", "linux", "ubuntu", "cloud", "azure", "ansible", "jenkins", "gitlab",
		"container", "containers", "monitoring", "server", "servers",
	)},
	{"Security & Privacy", wordSet(
		"security", "password", "passwords", "encryption", "encrypt", "vulnerability",
		"exploit", "firewall", "privacy", "token", "tokens", "attack", "malware",
		"phishing", "authentication", "oauth", "certificate", "hashing",
	)},
	{"Algorithms & Problem Solving", wordSet(
		"algorithm", "algorithms", "recursion", "sorting", "complexity", "graph",
		"binary", "arrays", "dynamic", "leetcode", "optimize", "optimization",
		"search", "matrix", "pointer", "pointers", "linked", "puzzle",
	)},
	{"Writing & Communication", writingWords},
}

// themeScores returns, per category, the frequency-weighted coverage score:
// the category's share of topic counts times its number of matched topics.
func themeScores(topics []TopicCount) []float64 {
	scores := make([]float64, len(themeCategories))
	total := 0
	for _, t := range topics {
		total += t.Count
	}
	if total == 0 {
		return scores
	}
	for i, cat := range themeCategories {
		matched, sum := 0, 0
		for _, t := range topics {
			if cat.Words.has(t.Topic) {
				matched++
				sum += t.Count
			}
		}
		scores[i] = float64(sum) / float64(total) * float64(matched)
	}
	return scores
}

func dominantTheme(topics []TopicCount) string {
	scores := themeScores(topics)
	best := 0.0
	for _, s := range scores {
		if s > best {
			best = s
		}
	}
	if best == 0 {
		return DefaultTheme
	}
	for i, cat := range themeCategories {
		if scores[i] == best {
			return cat.Label
		}
	}
	return DefaultTheme
}
