// Package main provides the entry point for the novel planner HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "novel_agent",
	Short: "Novel planning workflow server",
	Long:  "novel_agent turns free-text creative-writing requests into versioned, negotiable proposals and expands approved proposals into a story bible and full outline, served over a REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
