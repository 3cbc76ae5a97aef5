package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/risor-io/monkey/dis"
)

func (a *app) disCmd() *cobra.Command {
	var funcName string
	cmd := &cobra.Command{
		Use:   "dis <file>",
		Short: "Disassemble a monkey source or bytecode file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bc, err := a.loadBytecode(cmd, args[0])
			if err != nil {
				return err
			}
			instructions, err := dis.Disassemble(bc)
			if err != nil {
				return err
			}

			// If a function name was provided, disassemble its code only
			if funcName != "" {
				var filtered []dis.Instruction
				for _, instr := range instructions {
					if instr.Function == funcName || strings.HasSuffix(instr.Function, ": "+funcName) {
						filtered = append(filtered, instr)
					}
				}
				if len(filtered) == 0 {
					return fmt.Errorf("function %q not found", funcName)
				}
				instructions = filtered
			}

			dis.Print(instructions, a.stdout)
			return nil
		},
	}
	cmd.Flags().StringVar(&funcName, "func", "", "function to disassemble")
	return cmd
}
