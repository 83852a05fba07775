// Package preprocess turns raw Romanian text into sentences and the term
// lists used to vectorize them.
package preprocess

import (
	"regexp"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Sentence is a retained sentence. Index is its 0-based position among the
// retained sentences; Terms are for vectorization only, never for display.
type Sentence struct {
	Index int
	Text  string
	Terms []string
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Preprocessor is request-scoped: its case mapper keeps state and must not
// be shared between goroutines. The segmenter, stopwords and normalizer it
// is built from are read-only and may be shared.
type Preprocessor struct {
	segmenter  *Segmenter
	stopwords  StopwordSet
	normalizer TermNormalizer
	lower      cases.Caser
}

func New(segmenter *Segmenter, stopwords StopwordSet, normalizer TermNormalizer) *Preprocessor {
	if segmenter == nil {
		segmenter = DefaultSegmenter()
	}
	if normalizer == nil {
		normalizer = IdentityNormalizer{}
	}
	return &Preprocessor{
		segmenter:  segmenter,
		stopwords:  stopwords,
		normalizer: normalizer,
		lower:      cases.Lower(language.Romanian),
	}
}

// Process returns the retained original sentences and, index-aligned, their
// term lists.
func (p *Preprocessor) Process(text string) ([]string, [][]string) {
	text = NormalizeDiacritics(text)

	original := p.segmenter.Split(text)
	processed := make([][]string, len(original))
	for i, sentence := range original {
		processed[i] = p.Terms(sentence)
	}

	return original, processed
}

func (p *Preprocessor) Sentences(text string) []Sentence {
	original, processed := p.Process(text)

	sentences := make([]Sentence, len(original))
	for i := range original {
		sentences[i] = Sentence{Index: i, Text: original[i], Terms: processed[i]}
	}
	return sentences
}

// Terms lower-cases a sentence, extracts word tokens, drops stopwords,
// normalizes what is left and drops single-character results.
func (p *Preprocessor) Terms(sentence string) []string {
	tokens := wordPattern.FindAllString(p.lower.String(sentence), -1)

	terms := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if p.stopwords.Contains(token) {
			continue
		}
		term := p.normalizer.Normalize(token)
		if utf8.RuneCountInString(term) <= 1 {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}
