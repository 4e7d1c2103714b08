package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"arxivdigest/internal/ai"
	"arxivdigest/internal/arxiv"
	"arxivdigest/internal/config"
	"arxivdigest/internal/notify"
	"arxivdigest/internal/pipeline"
	"arxivdigest/internal/sources"
	"arxivdigest/internal/state"
)

var (
	dryRun       = flag.Bool("dry-run", false, "Fetch and classify but don't send email, save files, or update state")
	noEmail      = flag.Bool("no-email", false, "Skip sending email, just save the report locally")
	lookbackDays = flag.Int("lookback-days", 0, "Override: how many days back to search (default: auto from state file)")
	maxLLMCalls  = flag.Int("max-llm-calls", 0, "Override: max LLM API calls for this run")
)

func main() {
	flag.Parse()

	// A .env file is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg := config.Load()
	if *maxLLMCalls > 0 {
		cfg.MaxLLMCalls = *maxLLMCalls
	}

	emailRequested := !*dryRun && !*noEmail
	if err := cfg.Validate(emailRequested); err != nil {
		fmt.Printf("Configuration error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	stateManager, err := state.NewManager(cfg.StateDir)
	if err != nil {
		fmt.Printf("Fatal error setting up run state: %v\n", err)
		os.Exit(1)
	}

	budget := ai.NewBudget(cfg.MaxLLMCalls)

	llm, err := ai.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.BatchSize, budget)
	if err != nil {
		fmt.Printf("Fatal error setting up LLM client: %v\n", err)
		os.Exit(1)
	}

	httpClient := &http.Client{Timeout: 60 * time.Second}

	deps := pipeline.Deps{
		Sources: []pipeline.Source{
			arxiv.NewClient(cfg.ArxivQueries, httpClient),
			sources.NewSemanticScholarClient(cfg.S2Queries, cfg.S2APIKey, httpClient),
			sources.NewHuggingFaceClient(cfg.HFKeywords, httpClient),
		},
		LLM:    llm,
		Budget: budget,
		Sender: notify.NewEmailSender(cfg.Email),
		Writer: notify.NewWriter(cfg.ReportDir),
		State:  stateManager,
	}

	opts := pipeline.Options{
		DryRun:       *dryRun,
		NoEmail:      *noEmail,
		LookbackDays: *lookbackDays,
	}

	fmt.Println("=== ArXiv RecSys & LLM Industry Digest ===")

	if err := pipeline.Run(ctx, deps, opts); err != nil {
		fmt.Printf("Run failed: %v\n", err)
		os.Exit(1)
	}
}
