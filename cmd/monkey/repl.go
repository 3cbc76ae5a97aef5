package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/risor-io/monkey"
)

const prompt = ">> "

func (a *app) replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			interactive := false
			if f, ok := in.(*os.File); ok {
				interactive = isatty.IsTerminal(f.Fd())
			}

			session := monkey.NewSession(a.options("")...)
			scanner := bufio.NewScanner(in)
			for {
				if interactive {
					fmt.Fprint(a.stdout, prompt)
				}
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				switch line {
				case "":
					continue
				case ":names":
					fmt.Fprintln(a.stdout, strings.Join(session.Names(), " "))
					continue
				case ":quit":
					return nil
				}

				result, err := session.Eval(cmd.Context(), line)
				if err != nil {
					fmt.Fprintln(a.stderr, red(formatError(err)))
					continue
				}
				fmt.Fprintln(a.stdout, result.Inspect())
			}
		},
	}
}
