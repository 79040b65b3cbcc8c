package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/aretw0/espalier/internal/presentation/tui"
)

var describeCmd = &cobra.Command{
	Use:   "describe [program.yaml]",
	Short: "Explain what a phrase program would do, without building",
	Long: `Prints a human-readable description of each phrase in the program.
Unlike build, describe fails on phrases that have no registered describer.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		logger := cli.NewLogger(cfg.LogLevel)

		prog, err := readProgram(args)
		if err != nil {
			fmt.Printf("Error reading program: %v\n", err)
			os.Exit(1)
		}

		eng := cli.NewEngineFactory(cfg, logger)()
		lines, err := eng.Describe(prog.Phrases)
		if err != nil {
			fmt.Printf("Describe error: %v\n", err)
			os.Exit(1)
		}

		markdown := strings.Join(lines, "\n")
		if prog.Name != "" {
			markdown = "# " + prog.Name + "\n\n" + markdown
		}

		// Pretty-render only on a real terminal; plain markdown when piped.
		if term.IsTerminal(int(os.Stdout.Fd())) {
			render := tui.NewRenderer()
			if out, err := render(markdown); err == nil {
				fmt.Print(out)
				return
			}
		}
		fmt.Println(markdown)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
