package main

import (
	"github.com/spf13/cobra"

	"grafo/internal/version"
)

var rootCmd = &cobra.Command{
	Use:     "grafo",
	Short:   "grafo extracts a semantic dependency graph from a C# solution",
	Long:    `grafo walks a multi-project C# solution's bound type information and emits a line-delimited, JSON-LD-annotated dependency graph for downstream code-intelligence tooling.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("grafo version {{.Version}}\n")
}
