package summarizer

import (
	"bytes"
	"encoding/json"
)

type Result struct {
	Summary           string    `json:"summary"`
	Sentences         []string  `json:"sentences"`
	Scores            []float64 `json:"scores"`
	SelectedIndices   []int     `json:"selected_indices"`
	SelectedSentences []string  `json:"selected_sentences"`

	Iterations int  `json:"-"`
	Converged  bool `json:"-"`
}

// JSON renders r with two-space indentation. Diacritics and other
// non-ASCII text are written as-is.
func (r *Result) JSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
