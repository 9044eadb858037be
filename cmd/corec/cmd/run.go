package cmd

import (
	"fmt"

	"github.com/corelang/corec/internal/driver"
	"github.com/corelang/corec/internal/value"
	"github.com/spf13/cobra"
)

var runEntry string

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Elaborate and run a program",
	Long: `Parse, elaborate, and evaluate a program: module-level globals and
defines run first, in source order, then
every top-level run{} block, then — if the module declares one — the
entry define named "main" (or the name given by --entry), called with
no arguments.

A script that only uses the compile-time subset of the language (run{}
blocks, static-parameter folding) need not declare an entry define at
all; this command still succeeds in that case.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runEntry, "entry", "main", "name of the entry define to invoke after module evaluation")
}

func runRun(_ *cobra.Command, args []string) error {
	f, err := driver.Compile(args[0])
	if err != nil {
		return err
	}

	entry, ok := f.Env.Get(runEntry)
	if !ok {
		return nil
	}
	if entry.Kind != value.KindFunction {
		return fmt.Errorf("%q is not a function", runEntry)
	}
	f.Evaluator.Call(entry, nil)
	return nil
}
