package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/myscript/pkg/myscript"
	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"
)

var (
	symbolsImportsFile string
	symbolsInlineInput string
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols [file]",
	Short: "Compile a script and print its exported symbol table as JSON",
	Long: `symbols compiles a script, JIT-links it, and enumerates its
exported functions via the get-first-symbol/get-next-symbol walk the
embedding API exposes, printing the result as a JSON array of
{"name": ..., "address": ...} objects in natural-sort order.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		moduleName, source := readScriptArg(args, symbolsInlineInput)

		imports, err := loadImportManifest(symbolsImportsFile)
		if err != nil {
			exitWithError("loading %s: %v", symbolsImportsFile, err)
		}

		ctx := myscript.NewContext()
		script, err := ctx.Compile(moduleName, []byte(source), imports)
		if err != nil {
			reportCompileError(err, source, moduleName)
		}
		defer script.Close()

		out, err := symbolTableJSON(script)
		if err != nil {
			exitWithError("building symbol table: %v", err)
		}
		fmt.Println(out)
	},
}

// symbolTableJSON walks the exported-symbol enumerator and builds a JSON
// array one field at a time with sjson, rather than marshaling a Go slice
// directly, so the CLI exercises the same gjson/sjson path its tests
// inspect results through.
func symbolTableJSON(script *myscript.Script) (string, error) {
	out := "[]"
	index := 0

	enum, ok := script.GetFirstSymbol()
	for ok {
		var sym myscript.ExportedSymbol
		sym, ok = enum.GetNextSymbol()
		if !ok {
			break
		}
		var err error
		out, err = sjson.Set(out, fmt.Sprintf("%d.name", index), sym.Name)
		if err != nil {
			return "", err
		}
		out, err = sjson.Set(out, fmt.Sprintf("%d.address", index), sym.Address)
		if err != nil {
			return "", err
		}
		index++
	}
	return out, nil
}

func init() {
	symbolsCmd.Flags().StringVar(&symbolsImportsFile, "imports", "", "YAML manifest of host imports to declare")
	symbolsCmd.Flags().StringVarP(&symbolsInlineInput, "eval", "e", "", "compile an inline snippet instead of a file")
	rootCmd.AddCommand(symbolsCmd)
}
