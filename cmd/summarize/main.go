// Command summarize prints the extractive summary of a Romanian text file,
// or of stdin, as JSON.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/wgomg/rezumat/internal/config"
	"github.com/wgomg/rezumat/internal/embedding"
	"github.com/wgomg/rezumat/internal/preprocess"
	"github.com/wgomg/rezumat/internal/summarizer"
	"github.com/wgomg/rezumat/internal/utils"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "summarize:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := flag.NewFlagSet("summarize", flag.ContinueOnError)
	rate := flags.Float64("rate", cfg.Summary.DefaultCompressionRate, "fraction of sentences to keep, 0.1 to 1.0")
	choice := flags.String("embedding", cfg.Summary.DefaultEmbedding, "tfidf, bert, roberta, ollama or openai")
	flags.StringVar(&cfg.Preprocess.RulesFile, "rules", cfg.Preprocess.RulesFile, "YAML segmentation rules file")
	flags.StringVar(&cfg.Preprocess.StopwordsFile, "stopwords", cfg.Preprocess.StopwordsFile, "stopword list, one per line")
	flags.StringVar(&cfg.Preprocess.Normalizer, "normalizer", cfg.Preprocess.Normalizer, "stem, lemma or none")
	flags.StringVar(&cfg.Preprocess.LemmaFile, "lemmas", cfg.Preprocess.LemmaFile, "word,lemma CSV for -normalizer=lemma")
	verbose := flags.Bool("v", false, "log progress to stderr")
	flags.SetOutput(os.Stderr)
	if err := flags.Parse(args); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	input := stdin
	if flags.NArg() > 0 {
		f, err := os.Open(flags.Arg(0))
		if err != nil {
			return err
		}
		defer f.Close()
		input = f
	}
	text, err := io.ReadAll(input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	logger := utils.NewDiscardLogger()
	if *verbose {
		logger = utils.NewLogger("debug", false)
	}

	resources, err := preprocess.LoadResources(&cfg.Preprocess)
	if err != nil {
		return err
	}

	registry, err := embedding.NewDefaultRegistry(logger, &cfg.Semantic)
	if err != nil {
		return err
	}
	defer registry.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts, err := summarizer.OptionsFromConfig(&cfg.Summary)
	if err != nil {
		return err
	}
	s := summarizer.New(logger, resources, registry, opts)
	result, err := s.Summarize(ctx, summarizer.Request{
		Text:            string(text),
		CompressionRate: *rate,
		Embedding:       *choice,
	})
	if err != nil {
		return err
	}

	out, err := result.JSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(out))
	return err
}
