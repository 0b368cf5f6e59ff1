package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/phpreflect/internal/lexer"
	"github.com/dshills/phpreflect/internal/stream"
)

func newTokensCmd() *cobra.Command {
	var skipWhitespace bool

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Tokenize a PHP file and dump its token stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := stream.FromFile(args[0])
			if err != nil {
				return fmt.Errorf("tokenize: %w", err)
			}

			if useJSON() {
				data, err := ts.Serialize()
				if err != nil {
					return fmt.Errorf("serialize: %w", err)
				}
				_, err = os.Stdout.Write(append(data, '\n'))
				return err
			}

			writeTokens(os.Stdout, ts, skipWhitespace)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipWhitespace, "skip-whitespace", false, "omit whitespace and comment tokens")

	return cmd
}

func writeTokens(w io.Writer, ts *stream.TokenStream, skipWhitespace bool) {
	for pos, tok := range ts.Tokens() {
		if skipWhitespace {
			switch tok.Kind {
			case lexer.TokenWhitespace, lexer.TokenComment, lexer.TokenDocComment:
				continue
			}
		}
		fmt.Fprintf(w, "%5d %4d %-28s %q\n", pos, tok.Line, ts.TokenName(pos), tok.Text)
	}
}
