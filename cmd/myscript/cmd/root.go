package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/cwbudde/myscript/internal/jit"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "myscript",
	Short: "MyScript compiler and JIT runner",
	Long: `myscript is a Go embedding of the MyScript scripting language: a
small, statically-typed language with a reference-counted string type and
an LLVM-backed JIT compiler.

This CLI exercises the same embedding API a host program links against:
compile a script, optionally declare host imports, run it, and inspect
its exported symbol table.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			jit.Logger.SetOutput(os.Stderr)
			jit.Logger.SetFlags(log.Ltime)
		}
	},
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
