// Package cli implements the sibyl command line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/sibyl-labs/sibyl-cli/internal/adapters/driven/config/file"
	"github.com/sibyl-labs/sibyl-cli/internal/adapters/driven/generation/openai"
	"github.com/sibyl-labs/sibyl-cli/internal/adapters/driven/index/lexical"
	source "github.com/sibyl-labs/sibyl-cli/internal/adapters/driven/source/file"
	"github.com/sibyl-labs/sibyl-cli/internal/adapters/driven/storage/memory"
	"github.com/sibyl-labs/sibyl-cli/internal/adapters/driven/storage/sqlite"
	"github.com/sibyl-labs/sibyl-cli/internal/core/domain"
	"github.com/sibyl-labs/sibyl-cli/internal/core/ports/driven"
	"github.com/sibyl-labs/sibyl-cli/internal/core/ports/driving"
	"github.com/sibyl-labs/sibyl-cli/internal/core/services"
	"github.com/sibyl-labs/sibyl-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "0.1.0"

var (
	cfgPath string
	verbose bool

	// Wired services, shared by all commands. Populated lazily by
	// ensureServices; tests may set them directly.
	appConfig        *configfile.Config
	assistantService driving.AssistantService
	corpusStore      driven.CorpusStore
)

var rootCmd = &cobra.Command{
	Use:   "sibyl",
	Short: "Grounded documentation assistant",
	Long: `Sibyl answers questions from a scraped documentation corpus.

It indexes a JSON snapshot of documentation pages, retrieves the most
relevant excerpts for a question, and assembles a grounded answer with
citations. When an OpenAI API key is configured, answers are rephrased
by a language model without ever leaving the retrieved evidence.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.sibyl/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// ensureServices wires the assistant pipeline from configuration.
// It is a no-op when services are already set.
func ensureServices() error {
	if assistantService != nil {
		return nil
	}

	cfg, err := configfile.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	appConfig = cfg

	var store driven.CorpusStore
	if cfg.Corpus.Persist {
		s, err := sqlite.NewStore(cfg.Corpus.DataDir)
		if err != nil {
			return fmt.Errorf("opening corpus store: %w", err)
		}
		store = s
	} else {
		store = memory.NewCorpusStore()
	}

	engine := lexical.New(lexical.WithExcerptPrefixLen(cfg.Policy.ExcerptPrefixLen))

	var generator driven.GenerationService
	if cfg.Generation.Active() {
		g, err := openai.NewService(openai.Config{
			APIKey:      cfg.Generation.APIKey,
			BaseURL:     cfg.Generation.BaseURL,
			Model:       cfg.Generation.Model,
			ProductName: cfg.Product,
			Timeout:     cfg.Generation.Timeout(),
			MaxTokens:   cfg.Generation.MaxTokens,
			Temperature: cfg.Generation.Temperature,
			RateLimit:   cfg.Generation.RateLimit,
		})
		if err != nil {
			return fmt.Errorf("configuring generation: %w", err)
		}
		generator = g
		logger.Debug("Generation enabled (model %s)", g.ModelName())
	} else {
		logger.Debug("Generation disabled, answers stay templated")
	}

	corpusStore = store
	assistantService = services.NewAssistantService(
		store,
		engine,
		generator,
		cfg.Policy,
		domain.DefaultCatalog(cfg.Product),
	)

	return nil
}

// prepareCorpus makes sure the retrieval index is populated before a
// command answers questions. A fresh process starts with an empty
// in-memory index, so the corpus is re-read from the store, or from
// the configured snapshot when the store is empty.
func prepareCorpus(cmd *cobra.Command) error {
	if corpusStore == nil {
		return nil
	}

	docs, err := corpusStore.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading corpus: %w", err)
	}

	if len(docs) == 0 {
		docs, err = snapshotSource().Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading snapshot: %w", err)
		}
		if len(docs) == 0 {
			return fmt.Errorf("corpus is empty, run 'sibyl index' first")
		}
	}

	return assistantService.Index(cmd.Context(), docs)
}

// snapshotSource resolves the configured snapshot, preferring the
// processed copy when the scraper produced one.
func snapshotSource() *source.Source {
	corpus := config().Corpus
	return source.Resolve(corpus.ProcessedPath, corpus.SnapshotPath)
}

// config returns the loaded configuration, falling back to defaults
// when ensureServices has not run.
func config() *configfile.Config {
	if appConfig == nil {
		return configfile.Default()
	}
	return appConfig
}
