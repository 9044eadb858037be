package cmd

import (
	"fmt"
	"os"

	"github.com/corelang/corec/internal/parser"
	"github.com/spf13/cobra"
)

var (
	parseEval    string
	parseDumpAST bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse source code and display the AST",
	Long: `Parse a program and display its Abstract Syntax Tree.

Examples:
  corec parse script.lang
  corec parse -e "define f = fn(x: int) -> int { x };"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseEval, "eval", "e", "", "parse inline code instead of reading from file")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", true, "print the parsed module's String() form")
}

func runParse(_ *cobra.Command, args []string) error {
	input, path, err := readInput(parseEval, args)
	if err != nil {
		return err
	}

	mod, diags := parser.ParseSource(input, path)
	if len(diags) > 0 {
		for _, d := range diags {
			fmt.Fprintln(os.Stderr, d.Format())
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(diags))
	}

	if parseDumpAST {
		fmt.Println(mod.String())
	}
	return nil
}
