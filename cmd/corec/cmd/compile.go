package cmd

import (
	"fmt"

	"github.com/corelang/corec/internal/driver"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile <file>",
	Short: "Elaborate a file and report diagnostics",
	Long: `Parse and elaborate a program: resolve identifiers, run bidirectional
type inference and generic monomorphization, check operator-overload
resolution and switch exhaustiveness, and resolve every import(...) it
reaches.

Lowering the elaborated module to machine code is out of this repo's
scope (internal/codegen defines the backend interface; its only
implementation is a host size oracle whose Build does nothing); this
command's job ends at "does the
program elaborate cleanly".`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
}

func runCompile(_ *cobra.Command, args []string) error {
	_, err := driver.Compile(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s: elaborated OK\n", args[0])
	return nil
}
