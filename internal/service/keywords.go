package service

import "strings"

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "at": {}, "be": {}, "by": {},
	"for": {}, "from": {}, "in": {}, "is": {}, "it": {}, "of": {}, "on": {},
	"or": {}, "the": {}, "to": {}, "will": {}, "with": {},
}

const maxKeywords = 6

// DeriveKeywords turns a market question into a search query: punctuation
// stripped, stopwords dropped, capped at a handful of significant words so
// news and Reddit search stay focused.
func DeriveKeywords(question string) string {
	var keywords []string
	for _, word := range strings.Fields(question) {
		cleaned := strings.TrimFunc(word, func(r rune) bool {
			return !isWordRune(r)
		})
		if cleaned == "" {
			continue
		}
		if _, skip := stopwords[strings.ToLower(cleaned)]; skip {
			continue
		}
		keywords = append(keywords, cleaned)
		if len(keywords) == maxKeywords {
			break
		}
	}
	if len(keywords) == 0 {
		return strings.TrimSpace(question)
	}
	return strings.Join(keywords, " ")
}

func isWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '$' || r == '%' || r == '-':
		return true
	}
	return false
}
