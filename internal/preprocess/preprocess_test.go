package preprocess

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/wgomg/rezumat/internal/config"
)

func TestNormalizeDiacritics(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ştiinţă", "știință"},
		{"ŞTIINŢĂ", "ȘTIINȚĂ"},
		{"știință", "știință"},
		{"Ăă Ââ Îî", "Ăă Ââ Îî"},
		{"", ""},
	}
	for _, tt := range tests {
		got := NormalizeDiacritics(tt.in)
		if got != tt.want {
			t.Errorf("NormalizeDiacritics(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := NormalizeDiacritics(got); again != got {
			t.Errorf("not idempotent on %q: %q", got, again)
		}
	}
}

func TestDefaultSegmenterSplit(t *testing.T) {
	seg := DefaultSegmenter()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "two plain sentences",
			in:   "Soarele răsare. Apoi apune.",
			want: []string{"Soarele răsare.", "Apoi apune."},
		},
		{
			name: "exclamation and question",
			in:   "Vine ploaia! Ești acasă? Da.",
			want: []string{"Vine ploaia!", "Ești acasă?", "Da."},
		},
		{
			name: "closing quote stays with its sentence",
			in:   `El a spus: "Vin." Apoi a plecat.`,
			want: []string{`El a spus: "Vin."`, "Apoi a plecat."},
		},
		{
			name: "opening quote after period without space",
			in:   `Am terminat."Începem acum.`,
			want: []string{"Am terminat.", `"Începem acum.`},
		},
		{
			name: "lower case after period is not a boundary",
			in:   "Dl. popescu vine mâine.",
			want: []string{"Dl. popescu vine mâine."},
		},
		{
			name: "romanian capital diacritic",
			in:   "Am plecat. Țara era departe.",
			want: []string{"Am plecat.", "Țara era departe."},
		},
		{
			name: "no-break space",
			in:   "Unu.\u00a0Doi.",
			want: []string{"Unu.", "Doi."},
		},
		{
			name: "newline is a boundary and short fragments drop",
			in:   "Prima linie\n\nA doua. B",
			want: []string{"Prima linie", "A doua."},
		},
		{
			name: "empty",
			in:   "   ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := seg.Split(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitRulesIndividually(t *testing.T) {
	if lang := DefaultSegmenter().Language(); lang != "ro" {
		t.Errorf("default rule set language = %q, want ro", lang)
	}

	rules := DefaultSegmenter().Rules()
	if len(rules) != 2 {
		t.Fatalf("expected 2 default rules, got %d", len(rules))
	}

	terminal, quote := rules[0], rules[1]
	if terminal.Name != "terminal-punctuation" || quote.Name != "opening-quote" {
		t.Fatalf("unexpected rule order: %q, %q", terminal.Name, quote.Name)
	}

	if got := terminal.Apply(`Gata!" Acum.`); got != "Gata!\"\nAcum." {
		t.Errorf("terminal rule: %q", got)
	}
	if got := terminal.Apply("Gata. acum."); got != "Gata. acum." {
		t.Errorf("terminal rule split before lower case: %q", got)
	}
	if got := quote.Apply(`Gata. "Acum.`); got != "Gata.\n\"Acum." {
		t.Errorf("quote rule: %q", got)
	}
	if got := quote.Apply(`Gata! "Acum.`); got != `Gata! "Acum.` {
		t.Errorf("quote rule fired after '!': %q", got)
	}
}

func TestParseRulesErrors(t *testing.T) {
	if _, err := ParseRules([]byte("language: ro\nrules: []\n")); err == nil {
		t.Error("expected error for empty rule set")
	}
	bad := "rules:\n  - name: broken\n    pattern: '(['\n    replace: x\n"
	if _, err := ParseRules([]byte(bad)); err == nil {
		t.Error("expected error for invalid pattern")
	}
	if _, err := ParseRules([]byte("rules: [")); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestProcess(t *testing.T) {
	p := New(nil, NewStopwordSet("și", "ESTE"), IdentityNormalizer{})

	original, processed := p.Process("Ana şi Maria ESTE acasă, a 2 x_y. Şi este.")

	wantOriginal := []string{"Ana și Maria ESTE acasă, a 2 x_y.", "Și este."}
	if !reflect.DeepEqual(original, wantOriginal) {
		t.Fatalf("original = %q, want %q", original, wantOriginal)
	}
	if len(processed) != len(original) {
		t.Fatalf("processed has %d rows, want %d", len(processed), len(original))
	}
	if want := []string{"ana", "maria", "acasă", "x_y"}; !reflect.DeepEqual(processed[0], want) {
		t.Errorf("terms = %q, want %q", processed[0], want)
	}
	if len(processed[1]) != 0 {
		t.Errorf("stopword-only sentence should have no terms, got %q", processed[1])
	}
}

func TestProcessEmpty(t *testing.T) {
	p := New(nil, nil, nil)
	original, processed := p.Process("")
	if len(original) != 0 || len(processed) != 0 {
		t.Errorf("expected empty output, got %q / %q", original, processed)
	}
}

func TestSentencesIndices(t *testing.T) {
	p := New(nil, nil, nil)
	sentences := p.Sentences("A\nPrimul rând.\nB\nAl doilea rând.")

	if len(sentences) != 2 {
		t.Fatalf("got %d sentences: %+v", len(sentences), sentences)
	}
	for i, s := range sentences {
		if s.Index != i {
			t.Errorf("sentence %d has index %d", i, s.Index)
		}
	}
	if sentences[1].Text != "Al doilea rând." {
		t.Errorf("second sentence = %q", sentences[1].Text)
	}
}

func TestSnowballStemmer(t *testing.T) {
	stemmer := SnowballStemmer{}

	// comma-below letters survive the stemmer's cedilla alphabet
	for word, want := range map[string]string{
		"națiunilor": "națiun",
		"științelor": "științ",
		"cărțile":    "cărț",
	} {
		if got := stemmer.Normalize(word); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", word, got, want)
		}
	}

	for _, word := range []string{"națiunilor", "frumoasele", "copiii", "țări"} {
		first := stemmer.Normalize(word)
		if first == "" {
			t.Errorf("empty stem for %q", word)
		}
		if first != stemmer.Normalize(word) {
			t.Errorf("stem of %q is not deterministic", word)
		}
		if strings.ContainsAny(first, "şţŞŢ") {
			t.Errorf("stem %q of %q uses cedilla letters", first, word)
		}
	}
}

func TestDictionaryLemmatizer(t *testing.T) {
	lem := NewDictionaryLemmatizer(map[string]string{
		"copiii":  "copil",
		"Mergeau": "merge",
		"ţări":    "ţară",
	})

	tests := map[string]string{
		"copiii":     "copil",
		"mergeau":    "merge",
		"țări":       "țară",
		"necunoscut": "necunoscut",
	}
	for in, want := range tests {
		if got := lem.Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()

	lemmaPath := filepath.Join(dir, "lemmas.csv")
	if err := os.WriteFile(lemmaPath, []byte("# form,lemma\ncărţile,carte\nbad,row,extra\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	lem, err := LoadLemmas(lemmaPath)
	if err != nil {
		t.Fatalf("LoadLemmas: %v", err)
	}
	if lem.Len() != 1 || lem.Normalize("cărțile") != "carte" {
		t.Errorf("unexpected lemma table: len=%d", lem.Len())
	}

	stopPath := filepath.Join(dir, "stop.txt")
	if err := os.WriteFile(stopPath, []byte("# comment\nŞI\n\n  dar  \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	stop, err := LoadStopwords(stopPath)
	if err != nil {
		t.Fatalf("LoadStopwords: %v", err)
	}
	if !stop.Contains("și") || !stop.Contains("dar") || len(stop) != 2 {
		t.Errorf("unexpected stopwords: %v", stop)
	}

	if _, err := LoadStopwords(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("expected error for missing stopword file")
	}
}

func TestDefaultStopwords(t *testing.T) {
	set := DefaultStopwords()
	for _, w := range []string{"și", "este", "care", "în"} {
		if !set.Contains(w) {
			t.Errorf("default stopwords missing %q", w)
		}
	}
}

func TestLoadResources(t *testing.T) {
	res, err := LoadResources(&config.PreprocessConfig{Normalizer: "none"})
	if err != nil {
		t.Fatalf("LoadResources: %v", err)
	}
	if _, ok := res.Normalizer.(IdentityNormalizer); !ok {
		t.Errorf("normalizer = %T", res.Normalizer)
	}
	if res.Segmenter != DefaultSegmenter() {
		t.Error("expected the default segmenter")
	}

	if _, err := LoadResources(&config.PreprocessConfig{Normalizer: "porter"}); err == nil {
		t.Error("expected error for unknown normalizer")
	}

	p := res.NewPreprocessor()
	_, processed := p.Process("Copiii merg la școală.")
	if want := []string{"copiii", "merg", "școală"}; !reflect.DeepEqual(processed[0], want) {
		t.Errorf("terms = %q, want %q", processed[0], want)
	}
}
