package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/myscript/pkg/myscript"
	"github.com/spf13/cobra"
)

var (
	runImportsFile string
	runInlineInput string
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Compile and execute a script",
	Long: `run compiles a script, JIT-links it against the fixed runtime
intrinsics (and any host imports declared with --imports), then executes
its entrypoint.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		moduleName, source := readScriptArg(args, runInlineInput)

		imports, err := loadImportManifest(runImportsFile)
		if err != nil {
			exitWithError("loading %s: %v", runImportsFile, err)
		}

		ctx := myscript.NewContext()
		script, err := ctx.Compile(moduleName, []byte(source), imports)
		if err != nil {
			reportCompileError(err, source, moduleName)
		}
		defer script.Close()

		ctx.Execute(script)
	},
}

// readScriptArg resolves the script source from either a file argument or
// an inline -e snippet, and the module name that the compiled script's
// entrypoint and exported symbols will be mangled under.
func readScriptArg(args []string, inline string) (moduleName, source string) {
	switch {
	case inline != "":
		return "eval", inline
	case len(args) == 1:
		data, err := os.ReadFile(args[0])
		if err != nil {
			exitWithError("reading %s: %v", args[0], err)
		}
		return moduleNameFromPath(args[0]), string(data)
	default:
		exitWithError("expected a file argument or -e")
		return "", ""
	}
}

func moduleNameFromPath(path string) string {
	base := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			base = path[i+1:]
			break
		}
	}
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			return base[:i]
		}
	}
	return base
}

// reportCompileError renders a compile or syntax error with source context
// and exits. A *myscript.SyntaxError carries its own position; anything
// else (a semantic error from the compiler) is printed as-is, since
// pkg/myscript already folds position information into its message.
func reportCompileError(err error, source, moduleName string) {
	if synErr, ok := err.(*myscript.SyntaxError); ok {
		fmt.Fprintf(os.Stderr, "Error in %s:%d:%d\n", synErr.ModuleName, synErr.Line, synErr.Column)
		if line := sourceLine(source, synErr.Line); line != "" {
			fmt.Fprintf(os.Stderr, "%4d | %s\n", synErr.Line, line)
		}
		fmt.Fprintln(os.Stderr, synErr.Message)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func sourceLine(source string, lineNum int) string {
	line, lines := "", 1
	start := 0
	for i := 0; i <= len(source); i++ {
		if i == len(source) || source[i] == '\n' {
			if lines == lineNum {
				line = source[start:i]
				break
			}
			lines++
			start = i + 1
		}
	}
	return line
}

func init() {
	runCmd.Flags().StringVar(&runImportsFile, "imports", "", "YAML manifest of host imports to expose to the script")
	runCmd.Flags().StringVarP(&runInlineInput, "eval", "e", "", "run an inline snippet instead of a file")
	rootCmd.AddCommand(runCmd)
}
