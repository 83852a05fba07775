package preprocess

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blevesearch/snowballstem"
	"github.com/blevesearch/snowballstem/romanian"
)

// TermNormalizer reduces a lower-cased token to a stem or lemma. It returns
// the token unchanged when it has nothing better.
type TermNormalizer interface {
	Normalize(term string) string
}

type IdentityNormalizer struct{}

func (IdentityNormalizer) Normalize(term string) string {
	return term
}

// SnowballStemmer applies the Snowball Romanian stemmer. Each call builds
// its own environment, so the zero value is safe to share.
type SnowballStemmer struct{}

func (SnowballStemmer) Normalize(term string) string {
	// Snowball's Romanian tables are written with the cedilla letters.
	env := snowballstem.NewEnv(toCedilla(term))
	romanian.Stem(env)
	return NormalizeDiacritics(env.Current())
}

// DictionaryLemmatizer looks tokens up in a form -> lemma table.
type DictionaryLemmatizer struct {
	lemmas map[string]string
}

func NewDictionaryLemmatizer(lemmas map[string]string) *DictionaryLemmatizer {
	normalized := make(map[string]string, len(lemmas))
	for form, lemma := range lemmas {
		normalized[normalizeEntry(form)] = normalizeEntry(lemma)
	}
	return &DictionaryLemmatizer{lemmas: normalized}
}

// LoadLemmas reads a two-column "form,lemma" CSV. Rows with a different
// column count are skipped.
func LoadLemmas(path string) (*DictionaryLemmatizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lemma dictionary: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.Comment = '#'

	lemmas := make(map[string]string)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read lemma dictionary %s: %w", path, err)
		}
		if len(record) != 2 {
			continue
		}
		lemmas[record[0]] = record[1]
	}

	return NewDictionaryLemmatizer(lemmas), nil
}

func (d *DictionaryLemmatizer) Normalize(term string) string {
	if lemma, ok := d.lemmas[term]; ok && lemma != "" {
		return lemma
	}
	return term
}

func (d *DictionaryLemmatizer) Len() int {
	return len(d.lemmas)
}

func normalizeEntry(s string) string {
	return strings.ToLower(NormalizeDiacritics(strings.TrimSpace(s)))
}
