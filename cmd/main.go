package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/chains"

	"tabular-rag/internal/config"
	"tabular-rag/internal/embedding"
	"tabular-rag/internal/generator"
	"tabular-rag/internal/helper"
	"tabular-rag/internal/llmservice"
	"tabular-rag/internal/logger"
	"tabular-rag/internal/models"
	"tabular-rag/internal/parser"
	"tabular-rag/internal/session"
)

var cli struct {
	Config  string   `help:"Path to the YAML config file" default:"./configs/config.yaml"`
	File    []string `help:"Spreadsheet (.xlsx, .xls) or .csv file to load; repeat for multiple files" required:""`
	Variant string   `help:"Pipeline variant, direct or chain (overrides config)" default:""`
	Query   []string `help:"Question to answer; repeatable. Questions are read from stdin when omitted"`
	DryRun  bool     `help:"Print the flattened rows and exit"`
	HTML    bool     `name:"html" help:"Render answers as HTML"`
}

func main() {
	_ = kong.Parse(&cli,
		kong.Name("tabular-rag"),
		kong.Description("Ask questions about spreadsheet and CSV files."),
	)
	logger.Setup(os.Stderr, "info")

	cfg, err := config.LoadConfig(cli.Config)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	logger.Setup(os.Stderr, cfg.Logging.Level)

	variantName := cfg.RAG.Variant
	if cli.Variant != "" {
		variantName = cli.Variant
	}
	variant, err := models.ParseVariant(variantName)
	if err != nil {
		log.Fatal().Err(err).Msg("Error selecting pipeline variant")
	}

	if cli.DryRun {
		printUnits(cli.File)
		return
	}

	ctx := context.Background()
	providers, err := newProviders(ctx, cfg, variant)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing providers")
	}
	defer func() {
		if err := providers.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing providers")
		}
	}()

	s, err := session.New(providers)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating session")
	}

	if _, err := s.Load(ctx, cli.File, variant); err != nil {
		log.Fatal().Err(err).Msg("Error building index")
	}

	if len(cli.Query) > 0 {
		for _, q := range cli.Query {
			answer(ctx, s, q)
		}
		return
	}
	askInteractively(ctx, s, os.Stdin)
}

// only the clients the selected variant calls are created
func newProviders(ctx context.Context, cfg *config.Config, variant models.Variant) (*session.Providers, error) {
	embedder, err := embedding.NewEmbedder(ctx, &cfg.EmbedLLM)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}
	providers := &session.Providers{
		Embedder: embedder,
		TopK:     cfg.RAG.TopK,
	}

	switch variant {
	case models.VariantDirect:
		gen, err := generator.NewGenerator(ctx, &cfg.InferenceLLM)
		if err != nil {
			return nil, fmt.Errorf("generator: %w", err)
		}
		providers.Generator = gen
	case models.VariantChain:
		model, err := llmservice.NewModel(ctx, &cfg.InferenceLLM)
		if err != nil {
			return nil, fmt.Errorf("chain model: %w", err)
		}
		providers.Model = model
		if t := cfg.InferenceLLM.Temperature; t != nil {
			providers.ChainOptions = append(providers.ChainOptions, chains.WithTemperature(*t))
		}
	}
	return providers, nil
}

func printUnits(files []string) {
	units, err := parser.FlattenAll(files)
	if err != nil {
		log.Fatal().Err(err).Msg("Error parsing files")
	}
	helper.PrettyPrint(os.Stdout, models.Texts(units))
}

func askInteractively(ctx context.Context, s *session.Session, in io.Reader) {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(os.Stderr, "Ask your question: ")
	for scanner.Scan() {
		if q := strings.TrimSpace(scanner.Text()); q != "" {
			answer(ctx, s, q)
		}
		fmt.Fprint(os.Stderr, "Ask your question: ")
	}
	fmt.Fprintln(os.Stderr)
	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("Error reading questions")
	}
}

// a failed question is reported and the session stays usable
func answer(ctx context.Context, s *session.Session, question string) {
	res, err := s.Ask(ctx, question)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmbeddingService):
			log.Error().Err(err).Msg("Embedding service failed")
		case errors.Is(err, models.ErrGenerationService):
			log.Error().Err(err).Msg("Generation service failed")
		default:
			log.Error().Err(err).Msg("Error answering question")
		}
		return
	}

	if cli.HTML {
		rendered, err := helper.RenderMarkdown(res)
		if err != nil {
			log.Error().Err(err).Msg("Error rendering answer")
		} else {
			res = rendered
		}
	}

	log.Info().Msg("Query: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", question)

	log.Info().Msg("Assistant: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", res)
}
