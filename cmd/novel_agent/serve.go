package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/novel-planner/internal/config"
	"github.com/jonathan/novel-planner/internal/db"
	"github.com/jonathan/novel-planner/internal/generate"
	"github.com/jonathan/novel-planner/internal/llm"
	"github.com/jonathan/novel-planner/internal/server"
)

var (
	servePort   int
	serveConfig string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing the intake, proposal, decision and plan endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to an optional JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(serveConfig)
	if err != nil {
		return err
	}
	if cfg.Port == 0 {
		cfg.Port = servePort
	}

	ctx := context.Background()

	var store db.Store
	if cfg.DatabaseURL != "" {
		pg, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pg.Close()
		store = pg
	} else {
		log.Println("DATABASE_URL not set, using in-memory session store")
		store = db.NewMemoryStore()
	}

	gen, closeGen, err := buildGenerator(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeGen()

	srv := server.New(server.Config{Port: cfg.Port}, store, gen)
	return srv.Start()
}

// buildGenerator selects the generation strategy explicitly: live Gemini when
// an API key is configured, deterministic synthetic output otherwise.
func buildGenerator(ctx context.Context, cfg *config.Config) (generate.Generator, func(), error) {
	if cfg.APIKey == "" {
		log.Println("GEMINI_API_KEY not set, using synthetic generation")
		return generate.NewSynthetic(), func() {}, nil
	}

	llmCfg := llm.DefaultConfig()
	if cfg.Model != "" {
		llmCfg.Model = cfg.Model
	}
	if cfg.TimeoutSecs > 0 {
		llmCfg.Timeout = time.Duration(cfg.TimeoutSecs) * time.Second
	}

	client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return generate.NewLive(client, cfg.MaxRetries), func() { _ = client.Close() }, nil
}
