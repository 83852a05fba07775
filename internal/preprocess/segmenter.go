package preprocess

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed rules/romanian.yaml
var defaultRulesYAML []byte

// MinSentenceLength is the shortest trimmed fragment, in runes, kept as a
// sentence.
const MinSentenceLength = 2

// SplitRule rewrites every match of Pattern with Replace. A newline in the
// rewritten text marks a sentence boundary.
type SplitRule struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Replace string `yaml:"replace"`

	re *regexp.Regexp
}

type RuleSet struct {
	Language string      `yaml:"language"`
	Rules    []SplitRule `yaml:"rules"`
}

// Segmenter applies an ordered list of split rules. Compiled patterns are
// safe for concurrent use, so one Segmenter can serve every request.
type Segmenter struct {
	language string
	rules    []SplitRule
}

var (
	defaultSegmenter     *Segmenter
	defaultSegmenterOnce sync.Once
)

// DefaultSegmenter returns the built-in Romanian rule set.
func DefaultSegmenter() *Segmenter {
	defaultSegmenterOnce.Do(func() {
		seg, err := ParseRules(defaultRulesYAML)
		if err != nil {
			panic(fmt.Sprintf("preprocess: embedded rules: %v", err))
		}
		defaultSegmenter = seg
	})
	return defaultSegmenter
}

func LoadRules(path string) (*Segmenter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	return ParseRules(data)
}

func ParseRules(data []byte) (*Segmenter, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	return NewSegmenter(rs.Language, rs.Rules)
}

func NewSegmenter(language string, rules []SplitRule) (*Segmenter, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("rule set %q has no rules", language)
	}

	compiled := make([]SplitRule, len(rules))
	for i, rule := range rules {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rule.Name, err)
		}
		rule.re = re
		compiled[i] = rule
	}

	return &Segmenter{language: language, rules: compiled}, nil
}

func (s *Segmenter) Language() string {
	return s.language
}

func (s *Segmenter) Rules() []SplitRule {
	return s.rules
}

// Apply rewrites text with a single rule.
func (r SplitRule) Apply(text string) string {
	return r.re.ReplaceAllString(text, r.Replace)
}

// Mark runs every rule in order and returns text with boundaries as
// newlines.
func (s *Segmenter) Mark(text string) string {
	for _, rule := range s.rules {
		text = rule.Apply(text)
	}
	return text
}

// Split returns the trimmed sentences of text, dropping fragments shorter
// than MinSentenceLength. Newlines already present in text are boundaries
// too.
func (s *Segmenter) Split(text string) []string {
	marked := strings.TrimSpace(s.Mark(text))

	var sentences []string
	for _, fragment := range strings.Split(marked, "\n") {
		fragment = strings.TrimSpace(fragment)
		if utf8.RuneCountInString(fragment) < MinSentenceLength {
			continue
		}
		sentences = append(sentences, fragment)
	}
	return sentences
}
