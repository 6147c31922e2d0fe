// Package main is the entry point for the clubtime CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/jholhewres/clubtime/cmd/clubtime/commands"
)

// version is injected at build time via ldflags.
var version = "dev"

func main() {
	// Load .env if present; missing files are fine.
	_ = godotenv.Load()

	rootCmd := commands.NewRootCmd(version)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
