package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/novel-planner/internal/db"
	"github.com/jonathan/novel-planner/internal/generate"
	"github.com/jonathan/novel-planner/internal/plan"
	"github.com/jonathan/novel-planner/internal/workflow"
)

var demoText string

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run an offline intake-to-plan walkthrough",
	Long:  `Run the full session lifecycle (intake, proposal, approval, plan expansion) against the in-memory store and synthetic generator, printing each artifact as JSON.`,
	RunE:  runDemo,
}

func init() {
	demoCmd.Flags().StringVar(&demoText, "text", "Write a dark magic school story", "Requirement text to plan")
	rootCmd.AddCommand(demoCmd)
}

func runDemo(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	store := db.NewMemoryStore()
	gen := generate.NewSynthetic()
	engine := workflow.NewEngine(store, gen)
	plans := plan.NewService(store, gen)

	sessionID, err := store.CreateSession(ctx, demoText)
	if err != nil {
		return err
	}
	fmt.Printf("session: %s\n", sessionID)

	proposal, err := engine.RunProposal(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := printJSON("proposal", proposal); err != nil {
		return err
	}

	approved, err := engine.ApplyDecision(ctx, sessionID, "approve", "")
	if err != nil {
		return err
	}
	fmt.Printf("status: %s (version %d)\n", approved.Status, approved.Version)

	pkg, err := plans.Get(ctx, sessionID, false)
	if err != nil {
		return err
	}
	return printJSON("plan", pkg)
}

func printJSON(label string, v any) error {
	fmt.Printf("%s:\n", label)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
