package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/risor-io/monkey"
	"github.com/risor-io/monkey/bytecode"
	"github.com/risor-io/monkey/object"
)

const bytecodeExt = ".mbc"

func (a *app) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "Run a monkey source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFile(cmd, args[0])
		},
	}
}

func (a *app) options(filename string) []monkey.Option {
	opts := []monkey.Option{
		monkey.WithStdout(a.stdout),
		monkey.WithLogger(a.logger),
	}
	if filename != "" {
		opts = append(opts, monkey.WithFilename(filename))
	}
	if budget := a.v.GetInt64("budget"); budget > 0 {
		opts = append(opts, monkey.WithInstructionBudget(budget))
	}
	if maxFrames := a.v.GetInt("max-frames"); maxFrames > 0 {
		opts = append(opts, monkey.WithMaxFrames(maxFrames))
	}
	return opts
}

// readSource reads a source file. A missing file prints usage before the
// error is returned, and nothing is compiled.
func (a *app) readSource(cmd *cobra.Command, path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		_ = cmd.Usage()
		return "", fmt.Errorf("file not found: %s", path)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (a *app) runFile(cmd *cobra.Command, path string) error {
	engine := a.v.GetString("engine")
	if engine != "vm" && engine != "eval" {
		return fmt.Errorf("unknown engine: %s (want vm or eval)", engine)
	}
	source, err := a.readSource(cmd, path)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	start := time.Now()
	var result object.Object
	if engine == "eval" {
		result, err = monkey.Interpret(ctx, source, a.options(path)...)
	} else {
		result, err = monkey.Eval(ctx, source, a.options(path)...)
	}
	a.logger.Debug().
		Str("file", path).
		Str("engine", engine).
		Dur("elapsed", time.Since(start)).
		Msg("run finished")
	if err != nil {
		return err
	}
	return a.printResult(result)
}

func (a *app) printResult(result object.Object) error {
	output, err := getOutput(result, a.v.GetString("output"))
	if err != nil {
		return err
	}
	if output != "" {
		fmt.Fprintln(a.stdout, output)
	}
	return nil
}

// loadBytecode compiles a source file, or decodes it if it is a compiled
// bytecode file.
func (a *app) loadBytecode(cmd *cobra.Command, path string) (*bytecode.Bytecode, error) {
	if filepath.Ext(path) == bytecodeExt {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return bytecode.Unmarshal(data)
	}
	source, err := a.readSource(cmd, path)
	if err != nil {
		return nil, err
	}
	return monkey.Compile(cmd.Context(), source, a.options(path)...)
}
