package cli

import (
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

const shellPrompt = "pilot> "

func newShellCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Keep one session open and read commands line by line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			RenderScreen(cmd.OutOrStdout(), rt.App)
			for {
				rt.Printf("%s", shellPrompt)
				line, err := rt.readLine()
				if errors.Is(err, io.EOF) {
					rt.Printf("\n")
					return nil
				}
				if err != nil {
					return err
				}

				args, err := splitArgs(line)
				if err != nil {
					rt.Printf("Error: %v\n", err)
					continue
				}
				if len(args) == 0 {
					continue
				}
				if args[0] == "exit" || args[0] == "quit" {
					return nil
				}

				// A fresh tree per line so flag values never leak between commands.
				root := newRoot(rt)
				root.SetArgs(args)
				if err := root.ExecuteContext(cmd.Context()); err != nil && !IsReported(err) {
					rt.Printf("Error: %v\n", err)
				}
			}
		},
	}
}

var errUnterminatedQuote = errors.New("unterminated quote")

// splitArgs splits a line into words the way a POSIX shell would for plain
// words, single and double quotes, and backslash escapes. `""` is an empty word.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		word    strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			word.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped, inWord = true, true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				word.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote, inWord = r, true
		case r == ' ' || r == '\t':
			if inWord {
				args = append(args, word.String())
				word.Reset()
				inWord = false
			}
		default:
			word.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 || escaped {
		return nil, errUnterminatedQuote
	}
	if inWord {
		args = append(args, word.String())
	}
	return args, nil
}
