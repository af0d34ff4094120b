package location

import (
	"regexp"
	"strings"
)

// Extraction patterns, tried in order. Best-effort text matching, not a
// grammar: ambiguous input may yield a wrong or empty candidate.
var patterns = []*regexp.Regexp{
	// "what's the weather in Queens, NY?" / "tell me the weather for X"
	regexp.MustCompile(`(?i)(?:what'?s|what|tell|show|get).*?weather\s+(?:in|at|for)\s+([^?!]*?)(?:\s+(?:weather|joke)|[?!]|$)`),
	// "weather in Queens, NY"
	regexp.MustCompile(`(?i)weather\s+(?:in|at|for)\s+([^?!]*?)(?:\s+(?:weather|joke)|[?!]|$)`),
	// "weather joke for Brooklyn" and similar, where words sit between
	// "weather" and the preposition
	regexp.MustCompile(`(?i)weather\b.*?\b(?:in|at|for)\s+([^?!]+)`),
	// "[location] weather"
	regexp.MustCompile(`(?i)(.+?)\s+weather`),
	// "weather in [location]" to end of string
	regexp.MustCompile(`(?i)weather\s+(?:in|at|for)\s+(.+?)$`),
}

var modifierWords = regexp.MustCompile(`(?i)\s+(weather|joke|like|today|now|current)`)

var commaSpace = regexp.MustCompile(`,\s+`)

var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "what": {}, "how": {},
	"tell": {}, "me": {}, "is": {}, "it": {},
}

// Parse extracts a candidate location from a free-form message. The
// second return is false when no usable candidate was found.
func Parse(message string) (string, bool) {
	lower := strings.ToLower(message)

	for _, pattern := range patterns {
		match := pattern.FindStringSubmatch(lower)
		if match == nil {
			continue
		}
		candidate := strings.TrimSpace(match[1])
		candidate = modifierWords.ReplaceAllString(candidate, "")
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimRight(candidate, ".,!?")
		// "queens, ny" -> "queens,ny" for downstream lookup
		candidate = commaSpace.ReplaceAllString(candidate, ",")

		if len(candidate) <= 2 {
			continue
		}
		if _, stop := stopwords[candidate]; stop {
			continue
		}
		return candidate, true
	}

	return "", false
}
