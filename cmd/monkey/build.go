package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/risor-io/monkey"
	"github.com/risor-io/monkey/bytecode"
)

func (a *app) buildCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "build <file>",
		Short: "Compile a monkey source file to a bytecode file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			source, err := a.readSource(cmd, path)
			if err != nil {
				return err
			}
			bc, err := monkey.Compile(cmd.Context(), source, a.options(path)...)
			if err != nil {
				return err
			}
			data, err := bytecode.Marshal(bc)
			if err != nil {
				return err
			}
			if out == "" {
				out = strings.TrimSuffix(path, filepath.Ext(path)) + bytecodeExt
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}

			stats, err := bc.Stats()
			if err != nil {
				return err
			}
			a.logger.Info().
				Str("id", bc.ID.String()).
				Int("bytes", len(data)).
				Msg("wrote bytecode")
			fmt.Fprintf(a.stdout, "%s: %d instructions, %d constants, %d functions\n",
				out, stats.InstructionCount, stats.ConstantCount, stats.FunctionCount)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default is the source path with a .mbc extension)")
	return cmd
}

func (a *app) execCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec <file.mbc>",
		Short: "Run a compiled bytecode file on the virtual machine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			bc, err := bytecode.Unmarshal(data)
			if err != nil {
				return err
			}
			a.logger.Debug().Str("id", bc.ID.String()).Msg("loaded bytecode")
			result, err := monkey.Run(cmd.Context(), bc, a.options(args[0])...)
			if err != nil {
				return err
			}
			return a.printResult(result)
		},
	}
}
