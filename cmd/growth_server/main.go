// Package main provides the entry point for the character growth HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "growth_server",
	Short: "Character growth HTTP API server",
	Long:  "Growth server evolves game characters: it checks clear-count eligibility, rolls stat increments, generates an evolved character image via an external provider, and records the growth.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
