package preprocess

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed data/stopwords_ro.txt
var defaultStopwords []byte

// StopwordSet holds normalized word forms. It is read-only once built.
type StopwordSet map[string]struct{}

func NewStopwordSet(words ...string) StopwordSet {
	set := make(StopwordSet, len(words))
	for _, w := range words {
		if w = normalizeEntry(w); w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

func (s StopwordSet) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// DefaultStopwords returns a fresh copy of the built-in Romanian list.
func DefaultStopwords() StopwordSet {
	set, err := ReadStopwords(bytes.NewReader(defaultStopwords))
	if err != nil {
		panic(fmt.Sprintf("preprocess: embedded stopwords: %v", err))
	}
	return set
}

func LoadStopwords(path string) (StopwordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stopwords: %w", err)
	}
	defer f.Close()

	return ReadStopwords(f)
}

// ReadStopwords reads one word per line. Blank lines and lines starting
// with # are ignored.
func ReadStopwords(r io.Reader) (StopwordSet, error) {
	set := make(StopwordSet)
	scan := bufio.NewScanner(r)
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set[normalizeEntry(line)] = struct{}{}
	}
	if err := scan.Err(); err != nil {
		return nil, fmt.Errorf("read stopwords: %w", err)
	}
	return set, nil
}
