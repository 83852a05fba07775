package preprocess

import (
	"fmt"

	"github.com/wgomg/rezumat/internal/config"
)

// Resources are the read-only inputs shared by every request's
// Preprocessor. Load them once at startup.
type Resources struct {
	Segmenter  *Segmenter
	Stopwords  StopwordSet
	Normalizer TermNormalizer
}

func LoadResources(cfg *config.PreprocessConfig) (*Resources, error) {
	res := &Resources{}

	if cfg.RulesFile != "" {
		seg, err := LoadRules(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
		res.Segmenter = seg
	} else {
		res.Segmenter = DefaultSegmenter()
	}

	if cfg.StopwordsFile != "" {
		stopwords, err := LoadStopwords(cfg.StopwordsFile)
		if err != nil {
			return nil, err
		}
		res.Stopwords = stopwords
	} else {
		res.Stopwords = DefaultStopwords()
	}

	switch cfg.Normalizer {
	case "", "stem":
		res.Normalizer = SnowballStemmer{}
	case "lemma":
		lemmatizer, err := LoadLemmas(cfg.LemmaFile)
		if err != nil {
			return nil, err
		}
		res.Normalizer = lemmatizer
	case "none":
		res.Normalizer = IdentityNormalizer{}
	default:
		return nil, fmt.Errorf("unknown term normalizer %q", cfg.Normalizer)
	}

	return res, nil
}

// NewPreprocessor builds a request-scoped Preprocessor over r.
func (r *Resources) NewPreprocessor() *Preprocessor {
	return New(r.Segmenter, r.Stopwords, r.Normalizer)
}
