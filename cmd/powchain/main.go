package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "powchain",
	Short: "Proof-of-work ledger",
	Long:  "A command-line tool for building, mining, and inspecting an in-memory proof-of-work ledger.",
}

func main() {
	// A missing .env file is fine, the environment and the flags still apply.
	_ = godotenv.Load()

	rootCmd.AddCommand(newDemoCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
