package cmd

import (
	"fmt"
	"os"

	"github.com/corelang/corec/internal/lexer"
	"github.com/spf13/cobra"
)

var (
	lexEval     string
	lexShowPos  bool
	lexOnlyErrs bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a source file or expression",
	Long: `Tokenize (lex) a program and print the resulting tokens, one per
line, in the form TYPE "literal", followed by the token's position
when --show-pos is given.

Examples:
  corec lex script.lang
  corec lex -e "1 + 2"
  corec lex --show-pos script.lang
  corec lex --only-errors script.lang`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEval, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions")
	lexCmd.Flags().BoolVar(&lexOnlyErrs, "only-errors", false, "print no tokens, only the lexer errors")
}

func runLex(_ *cobra.Command, args []string) error {
	input, path, err := readInput(lexEval, args)
	if err != nil {
		return err
	}

	l := lexer.New(input, path)
	for {
		tok := l.Next()
		if !lexOnlyErrs {
			if lexShowPos {
				fmt.Printf("%-14s %-20q %s\n", tok.Type.String(), tok.Literal, tok.Pos.String())
			} else {
				fmt.Printf("%-14s %q\n", tok.Type.String(), tok.Literal)
			}
		}
		if tok.Type == lexer.EOF {
			break
		}
	}

	if errs := l.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return fmt.Errorf("lexing failed with %d error(s)", len(errs))
	}
	return nil
}

// readInput resolves the "either -e or a file argument" convention
// the lex and parse subcommands share.
func readInput(eval string, args []string) (input, path string, err error) {
	if eval != "" {
		return eval, "<eval>", nil
	}
	if len(args) == 1 {
		data, rerr := os.ReadFile(args[0])
		if rerr != nil {
			return "", "", fmt.Errorf("reading %s: %w", args[0], rerr)
		}
		return string(data), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e for inline code")
}
