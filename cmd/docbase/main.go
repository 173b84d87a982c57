// Copyright 2026 Quarterlane Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/quarterlane/docbase"
	"github.com/quarterlane/docbase/ai"
	"github.com/quarterlane/docbase/chunk"
	"github.com/quarterlane/docbase/core"
	"github.com/quarterlane/docbase/pipeline"
	"github.com/quarterlane/docbase/search"
)

func main() {
	// Optional .env for API keys and hosts; a missing file is fine
	godotenv.Load()

	app := &cli.App{
		Name:   "docbase",
		Usage:  "Markdown documentation to searchable vector knowledge base",
		Before: setupLogger,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "process",
				Usage:  "Ingest a documentation tree into the knowledge base",
				Action: processCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "Root directory of the documentation tree",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "version-tag",
						Usage: "Version stamped into every chunk's metadata",
					},
					&cli.BoolFlag{
						Name:  "reset",
						Usage: "Discard prior progress state and reprocess everything",
					},
					&cli.BoolFlag{
						Name:  "strict-state",
						Usage: "Fail instead of starting fresh when progress state is unreadable",
					},
					&cli.StringFlag{
						Name:  "error-report",
						Usage: "Path for the JSON error report written when files fail",
						Value: "processing_errors.json",
					},
					&cli.StringFlag{
						Name:  "extension",
						Usage: "Document extension to discover",
						Value: pipeline.DefaultExtension,
					},
					&cli.IntFlag{
						Name:  "target-tokens",
						Usage: "Target chunk size in tokens",
						Value: chunk.DefaultTargetTokens,
					},
					&cli.IntFlag{
						Name:  "overlap-tokens",
						Usage: "Token overlap between adjacent split chunks",
						Value: chunk.DefaultOverlapTokens,
					},
					&cli.IntFlag{
						Name:  "min-chunk-tokens",
						Usage: "Minimum chunk size before merging",
						Value: chunk.DefaultMinChunkTokens,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for embedding calls",
						Value: pipeline.DefaultMaxRetries,
					},
					&cli.DurationFlag{
						Name:  "base-delay",
						Usage: "Base delay for exponential backoff",
						Value: pipeline.DefaultBaseDelay,
					},
					&cli.DurationFlag{
						Name:  "batch-delay",
						Usage: "Pause between consecutive successful embedding batches",
						Value: pipeline.DefaultBatchDelay,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunk texts per embedding call",
						Value: pipeline.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "checkpoint-interval",
						Usage: "Checkpoint progress every N processed files",
						Value: pipeline.DefaultCheckpointInterval,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "api-key",
						Usage:   "Embedding service API key",
						EnvVars: []string{"OPENAI_API_KEY"},
						Value:   "none",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search the knowledge base",
				Action:    searchCommand,
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "version",
						Usage: "Restrict results to this source version",
					},
					&cli.StringFlag{
						Name:  "content-type",
						Usage: "Restrict results to one content type (reference, tutorial, api, example)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: search.DefaultLimit,
					},
					&cli.Float64Flag{
						Name:  "min-score",
						Usage: "Minimum similarity score",
						Value: search.DefaultMinScore,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "api-key",
						Usage:   "Embedding service API key",
						EnvVars: []string{"OPENAI_API_KEY"},
						Value:   "none",
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Show per-file ingestion progress",
				Action: statusCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "failed",
						Usage: "List failed files with their errors",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func aiConfigFromFlags(c *cli.Context) (*ai.Config, error) {
	cfg := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
		ai.WithAPIKey(c.String("api-key")),
	)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid embedding configuration: %w", err)
	}
	return cfg, nil
}

func processCommand(c *cli.Context) error {
	aiConfig, err := aiConfigFromFlags(c)
	if err != nil {
		return err
	}

	kb, err := docbase.Open(c.String("db"), docbase.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open knowledge base: %w", err)
	}
	defer kb.Close()

	config := pipeline.DefaultConfig()
	config.SourceRoot = c.String("source")
	config.Extension = c.String("extension")
	config.TargetTokens = c.Int("target-tokens")
	config.OverlapTokens = c.Int("overlap-tokens")
	config.MinChunkTokens = c.Int("min-chunk-tokens")
	config.MaxRetries = c.Int("max-retries")
	config.BaseDelay = c.Duration("base-delay")
	config.BatchDelay = c.Duration("batch-delay")
	config.BatchSize = c.Int("batch-size")
	config.CheckpointInterval = c.Int("checkpoint-interval")
	config.Reset = c.Bool("reset")
	config.StrictState = c.Bool("strict-state")
	config.VersionTag = c.String("version-tag")
	config.ErrorReportPath = c.String("error-report")

	orchestrator, err := kb.NewPipeline(config)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}

	// An interrupt cancels the run; the orchestrator checkpoints
	// before returning so the next run resumes where this one stopped.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := orchestrator.Run(ctx)
	if summary != nil {
		printSummary(summary)
	}
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", summary.Failed, summary.Total)
	}
	return nil
}

func printSummary(summary *pipeline.Summary) {
	fmt.Fprintf(os.Stderr, "\nOutcome: %s\n", summary.Outcome())
	fmt.Fprintf(os.Stderr, "  Succeeded: %d (%d chunks)\n", summary.Succeeded, summary.TotalChunks)
	fmt.Fprintf(os.Stderr, "  Skipped:   %d\n", summary.Skipped)
	fmt.Fprintf(os.Stderr, "  Failed:    %d\n", summary.Failed)
	for _, fileError := range summary.FailedFiles {
		fmt.Fprintf(os.Stderr, "    %s: %s\n", fileError.Path, fileError.ErrorMessage)
	}
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query argument is required")
	}

	aiConfig, err := aiConfigFromFlags(c)
	if err != nil {
		return err
	}

	kb, err := docbase.Open(c.String("db"), docbase.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open knowledge base: %w", err)
	}
	defer kb.Close()

	searcher, err := kb.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to build searcher: %w", err)
	}

	matches, err := searcher.Search(context.Background(), search.Query{
		Text:        query,
		Version:     c.String("version"),
		ContentType: core.ContentType(c.String("content-type")),
		Limit:       c.Int("limit"),
		MinScore:    float32(c.Float64("min-score")),
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(matches) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	for i, match := range matches {
		heading := strings.Join(match.Chunk.HeadingPath, " > ")
		fmt.Printf("%d. [%.3f] %s", i+1, match.Score, match.Chunk.SourcePath)
		if heading != "" {
			fmt.Printf(" - %s", heading)
		}
		fmt.Println()
		fmt.Printf("   %s\n\n", excerpt(match.Chunk.Text, 200))
	}
	return nil
}

// excerpt returns the first n runes of text on a single line.
func excerpt(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

func statusCommand(c *cli.Context) error {
	kb, err := docbase.Open(c.String("db"), docbase.WithTokenCounter(chunk.ApproxCounter{}))
	if err != nil {
		return fmt.Errorf("failed to open knowledge base: %w", err)
	}
	defer kb.Close()

	records, err := kb.ProgressRepository().LoadRecords(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load progress state: %w", err)
	}

	counts := map[core.FileStatus]int{}
	chunks := 0
	var lastUpdated time.Time
	for _, record := range records {
		counts[record.Status]++
		chunks += record.ChunkCount
		if record.LastUpdated.After(lastUpdated) {
			lastUpdated = record.LastUpdated
		}
	}

	fmt.Printf("Files: %d (%d chunks)\n", len(records), chunks)
	fmt.Printf("  completed:   %d\n", counts[core.StatusCompleted])
	fmt.Printf("  pending:     %d\n", counts[core.StatusPending])
	fmt.Printf("  in_progress: %d\n", counts[core.StatusInProgress])
	fmt.Printf("  failed:      %d\n", counts[core.StatusFailed])
	if !lastUpdated.IsZero() {
		fmt.Printf("Last updated: %s\n", lastUpdated.Format(time.RFC3339))
	}

	if c.Bool("failed") {
		for _, record := range records {
			if record.Status == core.StatusFailed {
				fmt.Printf("  %s: %s\n", record.Path, record.ErrorMessage)
			}
		}
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
