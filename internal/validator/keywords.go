// Package validator classifies free-text candidate input against keyword sets
// and checks submitted profiles.
package validator

import (
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

var (
	endIntentPhrases = []string{"bye", "goodbye", "quit", "exit", "stop", "thank you", "thanks"}

	techStackPhrases = []string{
		"python", "java", "javascript", "typescript", "react", "angular", "vue",
		"node", "django", "flask", "spring", "flutter", "kotlin", "swift",
		"html", "css", "tailwind", "bootstrap", "sql", "mysql", "postgres",
		"mongodb", "redis", "nlp", "computer vision", "cv", "pytorch",
		"tensorflow", "sklearn", "scikit", "docker", "kubernetes", "aws",
		"azure", "gcp", "linux", "bash", "git",
	}

	outOfScopePhrases = []string{
		"story", "joke", "poem", "song", "lyrics", "weather",
		"news", "movie", "games", "time pass",
	}
)

// KeywordSet is a named list of phrases matched as case-insensitive substrings.
type KeywordSet struct {
	name    string
	phrases []string
}

// NewKeywordSet normalizes phrases to lower case and drops blanks and duplicates.
func NewKeywordSet(name string, phrases ...string) KeywordSet {
	normalized := lo.Map(phrases, func(p string, _ int) string {
		return strings.ToLower(strings.TrimSpace(p))
	})
	normalized = lo.Filter(normalized, func(p string, _ int) bool { return p != "" })

	return KeywordSet{name: name, phrases: lo.Uniq(normalized)}
}

func (k KeywordSet) Name() string { return k.name }

// Phrases returns a copy of the normalized phrases.
func (k KeywordSet) Phrases() []string {
	return append([]string(nil), k.phrases...)
}

// Matches reports whether any phrase occurs anywhere in text.
func (k KeywordSet) Matches(text string) bool {
	lower := strings.ToLower(text)
	return lo.ContainsBy(k.phrases, func(p string) bool {
		return strings.Contains(lower, p)
	})
}

// Matcher groups the three classification sets used by a session.
type Matcher struct {
	EndIntent  KeywordSet
	TechStack  KeywordSet
	OutOfScope KeywordSet
}

var defaultMatcher = Default()

// Default returns the built-in keyword sets.
func Default() *Matcher {
	return &Matcher{
		EndIntent:  NewKeywordSet("end_intent", endIntentPhrases...),
		TechStack:  NewKeywordSet("tech_stack", techStackPhrases...),
		OutOfScope: NewKeywordSet("out_of_scope", outOfScopePhrases...),
	}
}

// keywordFile is the on-disk shape of a keyword override file.
type keywordFile struct {
	EndIntent  []string `yaml:"end_intent"`
	TechStack  []string `yaml:"tech_stack"`
	OutOfScope []string `yaml:"out_of_scope"`
}

// LoadMatcher reads keyword overrides from a YAML file. Lists omitted from the
// file keep their built-in values.
func LoadMatcher(path string) (*Matcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keywords file: %w", err)
	}

	var raw keywordFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse keywords file %q: %w", path, err)
	}

	m := Default()
	if len(raw.EndIntent) > 0 {
		m.EndIntent = NewKeywordSet("end_intent", raw.EndIntent...)
	}
	if len(raw.TechStack) > 0 {
		m.TechStack = NewKeywordSet("tech_stack", raw.TechStack...)
	}
	if len(raw.OutOfScope) > 0 {
		m.OutOfScope = NewKeywordSet("out_of_scope", raw.OutOfScope...)
	}

	return m, nil
}

func (m *Matcher) IsEndIntent(text string) bool { return m.EndIntent.Matches(text) }

// LooksLikeTechStack is a plausibility gate; it does not extract technologies.
func (m *Matcher) LooksLikeTechStack(text string) bool { return m.TechStack.Matches(text) }

func (m *Matcher) IsOutOfScope(text string) bool { return m.OutOfScope.Matches(text) }

// IsEndIntent reports whether text contains a closing phrase such as "bye" or "thanks".
func IsEndIntent(text string) bool { return defaultMatcher.IsEndIntent(text) }

// LooksLikeTechStack reports whether text mentions at least one known technology.
func LooksLikeTechStack(text string) bool { return defaultMatcher.LooksLikeTechStack(text) }

// IsOutOfScope reports whether text asks for something unrelated to interview prep.
func IsOutOfScope(text string) bool { return defaultMatcher.IsOutOfScope(text) }
