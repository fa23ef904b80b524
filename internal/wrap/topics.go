package wrap

import "strings"

const minTopicLen = 5

// stopwords are skipped when counting topic words: filler English plus
// keywords that show up whenever code is pasted into a prompt.
var stopwords = wordSet(
	// English
	"about", "above", "actually", "after", "again", "against", "already", "also",
	"although", "always", "another", "anything", "around", "because", "before",
	"being", "below", "between", "cannot", "could", "doing", "during", "either",
	"every", "everything", "first", "going", "gonna", "great", "hello", "however",
	"itself", "little", "maybe", "might", "myself", "never", "nothing", "often",
	"other", "others", "please", "pretty", "really", "right", "shall", "should",
	"since", "something", "sorry", "still", "thank", "thanks", "their", "theirs",
	"there", "these", "thing", "things", "think", "those", "though", "three",
	"through", "today", "under", "until", "wanna", "where", "whether", "which",
	"while", "whose", "within", "without", "would", "yours", "yourself",
	"added", "change", "using", "value",
	// code
	"array", "async", "await", "boolean", "break", "class", "console", "const",
	"continue", "default", "double", "error", "export", "extends", "false",
	"float", "function", "implements", "import", "instanceof", "integer",
	"interface", "lambda", "module", "number", "object", "package", "println",
	"print", "private", "props", "public", "render", "require", "return", "state",
	"static", "string", "struct", "switch", "typeof", "undefined", "usestate",
	"useeffect", "component", "yield",
)

type set map[string]struct{}

func wordSet(words ...string) set {
	s := make(set, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s set) has(w string) bool {
	_, ok := s[w]
	return ok
}

// topicWords extracts countable topic words from a user message.
func topicWords(text string) []string {
	var out []string
	for _, tok := range strings.Fields(text) {
		clean := cleanToken(tok)
		if len(clean) < minTopicLen || isNumeric(clean) || stopwords.has(clean) {
			continue
		}
		out = append(out, clean)
	}
	return out
}

// cleanToken lowercases tok and keeps only ASCII letters and digits.
func cleanToken(tok string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(tok) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
