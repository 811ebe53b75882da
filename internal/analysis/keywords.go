package analysis

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultMaxKeywords is the default cap on extracted keywords.
const DefaultMaxKeywords = 10

var wordPattern = regexp.MustCompile(`[가-힣a-zA-Z0-9]{2,}`)

// stopWords are filler words excluded from keyword extraction.
var stopWords = map[string]struct{}{
	"그래서": {}, "그런데": {}, "하지만": {}, "그리고": {}, "그러나": {},
	"그냥": {}, "정말": {}, "진짜": {}, "완전": {},
	"the": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {},
	"at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
}

// Keywords extracts the top-N keywords from text by descending frequency.
// Ties are broken by first occurrence order, so output is deterministic for
// identical input.
func Keywords(text string, max int) []string {
	if max <= 0 {
		max = DefaultMaxKeywords
	}

	words := wordPattern.FindAllString(strings.ToLower(text), -1)

	type entry struct {
		word  string
		count int
		first int
	}

	counts := make(map[string]*entry)
	order := make([]*entry, 0)
	for i, word := range words {
		if _, stop := stopWords[word]; stop {
			continue
		}
		if e, ok := counts[word]; ok {
			e.count++
			continue
		}
		e := &entry{word: word, count: 1, first: i}
		counts[word] = e
		order = append(order, e)
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})

	if len(order) > max {
		order = order[:max]
	}

	keywords := make([]string, 0, len(order))
	for _, e := range order {
		keywords = append(keywords, e.word)
	}
	return keywords
}
