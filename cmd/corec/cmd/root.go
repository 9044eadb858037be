package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "corec",
	Short: "corec compiler and interpreter",
	Long: `corec is the reference toolchain for the language this repository
implements: a small statically typed language built around generic
"static" parameters, monomorphization, tagged unions, optionals, result
types, and a modest compile-time execution facility (run, size_of,
type_info_of, embed, import).

This binary exposes the front end's stages directly: lex, parse,
compile (elaborate only — codegen is an external interface, not
implemented here), and run (elaborate, then evaluate).`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
