package main

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"

	"github.com/risor-io/monkey/errors"
	"github.com/risor-io/monkey/object"
)

var red = color.New(color.FgRed).SprintFunc()

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", red(formatError(err)))
	os.Exit(1)
}

func formatError(err error) string {
	var compileErr *errors.CompileError
	if goerrors.As(err, &compileErr) {
		return compileErr.FriendlyErrorMessage()
	}
	return err.Error()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func getOutput(result object.Object, format string) (string, error) {
	switch strings.ToLower(format) {
	case "", "text":
		if result == nil || result == object.Null {
			return "", nil
		}
		return result.Inspect(), nil
	case "json":
		var value interface{}
		if result != nil {
			value = result.Interface()
		}
		output, err := getOutputJSON(value)
		if err != nil {
			return "", err
		}
		return string(output), nil
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}

func getOutputJSON(value interface{}) ([]byte, error) {
	if color.NoColor {
		return json.MarshalIndent(value, "", "  ")
	}
	return prettyjson.Marshal(value)
}
