package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/espalier/internal/cli"
	mcpAdapter "github.com/aretw0/espalier/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long:  `Exposes build_query and describe_phrases as Model Context Protocol tools over stdin/stdout.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		// Stdout carries the protocol; keep logging on stderr only.
		logger := cli.NewServerLogger(cfg.LogLevel)

		srv := mcpAdapter.NewServer(mcpAdapter.EngineFactory(cli.NewEngineFactory(cfg, logger)))
		if err := srv.ServeStdio(); err != nil {
			fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
