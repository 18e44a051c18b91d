package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/myscript/internal/lexer"
	"github.com/spf13/cobra"
)

var (
	lexShowPos     bool
	lexShowKind    bool
	lexOnlyErrors  bool
	lexInlineInput string
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Dump the token stream for a script",
	Long: `lex runs the lexer over a script and prints its token stream, one
token per line. Useful for inspecting how source text is tokenized without
involving the parser or compiler.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var input string
		switch {
		case lexInlineInput != "":
			input = lexInlineInput
		case len(args) == 1:
			data, err := os.ReadFile(args[0])
			if err != nil {
				exitWithError("reading %s: %v", args[0], err)
			}
			input = string(data)
		default:
			exitWithError("expected a file argument or -e")
		}

		l := lexer.New(input)
		for {
			tok := l.Next()
			if tok.Kind == lexer.Whitespace || tok.Kind == lexer.Comment {
				continue
			}
			if lexOnlyErrors && tok.Kind != lexer.Unknown {
				if tok.Kind == lexer.EOF {
					break
				}
				continue
			}
			printToken(tok)
			if tok.Kind == lexer.EOF {
				break
			}
		}
	},
}

func printToken(tok lexer.Token) {
	if lexShowKind {
		fmt.Printf("%-12s ", tok.Kind)
	}
	fmt.Printf("%q", tok.Text)
	if lexShowPos {
		fmt.Printf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	fmt.Println()
}

func init() {
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "print each token's line:column")
	lexCmd.Flags().BoolVar(&lexShowKind, "show-type", true, "print each token's kind")
	lexCmd.Flags().BoolVar(&lexOnlyErrors, "only-errors", false, "print only unrecognized tokens")
	lexCmd.Flags().StringVarP(&lexInlineInput, "eval", "e", "", "lex an inline snippet instead of a file")
	rootCmd.AddCommand(lexCmd)
}
