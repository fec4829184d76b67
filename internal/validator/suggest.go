package validator

import (
	"sort"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

const maxSuggestions = 3

type suggestion struct {
	keyword  string
	distance int
}

// Suggest returns up to three single-word technologies that are a small edit
// away from a token in text, closest first.
func (m *Matcher) Suggest(text string) []string {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens = lo.Filter(tokens, func(t string, _ int) bool { return len([]rune(t)) >= 3 })

	best := map[string]int{}
	for _, keyword := range m.TechStack.phrases {
		if strings.Contains(keyword, " ") {
			continue
		}
		limit := 1
		if len(keyword) > 5 {
			limit = 2
		}
		for _, token := range tokens {
			d := fuzzy.LevenshteinDistance(token, keyword)
			if d == 0 || d > limit {
				continue
			}
			if prev, ok := best[keyword]; !ok || d < prev {
				best[keyword] = d
			}
		}
	}

	found := make([]suggestion, 0, len(best))
	for keyword, d := range best {
		found = append(found, suggestion{keyword: keyword, distance: d})
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].distance != found[j].distance {
			return found[i].distance < found[j].distance
		}
		return found[i].keyword < found[j].keyword
	})

	if len(found) > maxSuggestions {
		found = found[:maxSuggestions]
	}

	return lo.Map(found, func(s suggestion, _ int) string { return s.keyword })
}
