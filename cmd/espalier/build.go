package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/cli"
)

var buildCmd = &cobra.Command{
	Use:   "build [program.yaml]",
	Short: "Build a query document from a phrase program",
	Long: `Reads a phrase program (YAML or JSON) from the given file, or from
stdin when no file is given, and prints the built query document as JSON.`,
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
		doc, err := eng.BuildQuery(context.Background(), prog.Phrases)
		if err != nil {
			fmt.Printf("Build error: %v\n", err)
			os.Exit(1)
		}

		out := any(map[string]any(doc))
		if extract, _ := cmd.Flags().GetString("extract"); extract != "" {
			x, err := jp.ParseString(extract)
			if err != nil {
				fmt.Printf("Invalid --extract path %q: %v\n", extract, err)
				os.Exit(1)
			}
			results := x.Get(out)
			switch len(results) {
			case 0:
				fmt.Printf("No match for --extract path %q\n", extract)
				os.Exit(1)
			case 1:
				out = results[0]
			default:
				out = results
			}
		}

		fmt.Println(oj.JSON(out, 2))
	},
}

// readProgram loads the phrase program from the file argument or stdin.
func readProgram(args []string) (*espalier.Program, error) {
	if len(args) == 0 {
		return espalier.LoadProgram(os.Stdin)
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return espalier.LoadProgram(f)
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringP("extract", "x", "", "JSONPath to extract from the built document (e.g. $.query.bool.filter)")
}
