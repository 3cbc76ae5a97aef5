package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	// Keep a ~/.monkey.yaml on the host out of the tests.
	homedir.DisableCache = true
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.Nil(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestNoArgsPrintsUsage(t *testing.T) {
	stdout, _, err := execute(t, "")
	require.Nil(t, err)
	require.Contains(t, stdout, "Usage:")
	require.Contains(t, stdout, "monkey [file]")
}

func TestMissingFilePrintsUsage(t *testing.T) {
	stdout, _, err := execute(t, "", filepath.Join(t.TempDir(), "nope.mk"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "file not found")
	require.Contains(t, stdout, "Usage:")
}

func TestRunFile(t *testing.T) {
	path := writeFile(t, "main.mk", `puts("hello"); let a = 2; a * 21`)

	stdout, _, err := execute(t, "", path)
	require.Nil(t, err)
	require.Equal(t, "hello\n42\n", stdout)

	stdout, _, err = execute(t, "", "run", path)
	require.Nil(t, err)
	require.Equal(t, "hello\n42\n", stdout)

	stdout, _, err = execute(t, "", "run", "--engine", "eval", path)
	require.Nil(t, err)
	require.Equal(t, "hello\n42\n", stdout)
}

func TestRunNullResultPrintsNothing(t *testing.T) {
	path := writeFile(t, "main.mk", `if (false) { 1 }`)
	stdout, _, err := execute(t, "", "run", path)
	require.Nil(t, err)
	require.Equal(t, "", stdout)
}

func TestJSONOutput(t *testing.T) {
	path := writeFile(t, "main.mk", `{"a": [1, 2]}`)
	stdout, _, err := execute(t, "", "run", "--output", "json", "--no-color", path)
	require.Nil(t, err)
	require.Equal(t, "{\n  \"a\": [\n    1,\n    2\n  ]\n}\n", stdout)
}

func TestUnknownOptions(t *testing.T) {
	path := writeFile(t, "main.mk", `1`)

	_, _, err := execute(t, "", "run", "--engine", "jit", path)
	require.EqualError(t, err, "unknown engine: jit (want vm or eval)")

	_, _, err = execute(t, "", "run", "--output", "yaml", path)
	require.EqualError(t, err, "unknown output format: yaml")

	_, _, err = execute(t, "", "run", "--log-level", "loud", path)
	require.EqualError(t, err, `invalid log level: "loud"`)
}

func TestRuntimeError(t *testing.T) {
	path := writeFile(t, "main.mk", `let x = 1; x / 0`)
	_, _, err := execute(t, "", "run", path)
	require.EqualError(t, err, "division by zero")
	require.Equal(t, "division by zero", formatError(err))
}

func TestCompileErrorFormatting(t *testing.T) {
	path := writeFile(t, "main.mk", `lenn("abc")`)
	_, _, err := execute(t, "", "run", path)
	require.Error(t, err)
	msg := formatError(err)
	require.Contains(t, msg, "compile error:")
	require.Contains(t, msg, "main.mk")
}

func TestBudgetAndMaxFrames(t *testing.T) {
	path := writeFile(t, "main.mk", `let f = fn(x) { if (x == 0) { 0 } else { f(x - 1) } }; f(100)`)

	_, _, err := execute(t, "", "run", "--budget", "20", path)
	require.EqualError(t, err, "instruction budget of 20 exceeded")

	_, _, err = execute(t, "", "run", "--max-frames", "10", path)
	require.EqualError(t, err, "maximum call depth of 10 exceeded")

	_, _, err = execute(t, "", "run", "--engine", "eval", "--max-frames", "10", path)
	require.EqualError(t, err, "maximum call depth of 10 exceeded")
}

func TestEnvironmentConfig(t *testing.T) {
	path := writeFile(t, "main.mk", `let f = fn(x) { if (x == 0) { 0 } else { f(x - 1) } }; f(100)`)
	t.Setenv("MONKEY_MAX_FRAMES", "10")
	_, _, err := execute(t, "", "run", path)
	require.EqualError(t, err, "maximum call depth of 10 exceeded")
}

func TestConfigFile(t *testing.T) {
	config := writeFile(t, "config.yaml", "engine: eval\nmax-frames: 5\n")
	path := writeFile(t, "main.mk", `let f = fn() { f() }; f()`)
	_, _, err := execute(t, "", "run", "--config", config, path)
	require.EqualError(t, err, "maximum call depth of 5 exceeded")

	_, _, err = execute(t, "", "run", "--config", filepath.Join(t.TempDir(), "missing.yaml"), path)
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "config: "))
}

func TestDisassemble(t *testing.T) {
	path := writeFile(t, "main.mk", `1 + 2`)
	stdout, _, err := execute(t, "", "dis", path)
	require.Nil(t, err)
	expected := strings.TrimPrefix(`
main:
+--------+----------+----------+------+
| OFFSET |  OPCODE  | OPERANDS | INFO |
+--------+----------+----------+------+
|      0 | CONSTANT |        0 | 1    |
|      3 | CONSTANT |        1 | 2    |
|      6 | ADD      |          |      |
|      7 | POP      |          |      |
+--------+----------+----------+------+
`, "\n")
	require.Equal(t, expected, stdout)
}

func TestDisassembleFunction(t *testing.T) {
	path := writeFile(t, "main.mk", `let double = fn(x) { x * 2 }; double(2)`)

	stdout, _, err := execute(t, "", "dis", "--func", "double", path)
	require.Nil(t, err)
	require.True(t, strings.HasPrefix(stdout, "constant 1: double:\n"))
	require.NotContains(t, stdout, "main:")

	_, _, err = execute(t, "", "dis", "--func", "triple", path)
	require.EqualError(t, err, `function "triple" not found`)
}

func TestBuildAndExec(t *testing.T) {
	path := writeFile(t, "main.mk", `let greet = fn(name) { "hello " + name }; greet("monkey")`)
	out := filepath.Join(t.TempDir(), "main.mbc")

	stdout, _, err := execute(t, "", "build", path, "-o", out)
	require.Nil(t, err)
	require.Contains(t, stdout, out+": ")
	require.Contains(t, stdout, "1 functions")

	stdout, _, err = execute(t, "", "exec", out)
	require.Nil(t, err)
	require.Equal(t, "hello monkey\n", stdout)

	// dis accepts compiled files too
	stdout, _, err = execute(t, "", "dis", out)
	require.Nil(t, err)
	require.Contains(t, stdout, "constant 1: greet:")
}

func TestBuildDefaultOutput(t *testing.T) {
	path := writeFile(t, "prog.mk", `1`)
	_, _, err := execute(t, "", "build", path)
	require.Nil(t, err)
	_, err = os.Stat(strings.TrimSuffix(path, ".mk") + ".mbc")
	require.Nil(t, err)
}

func TestExecRejectsSource(t *testing.T) {
	path := writeFile(t, "main.mk", `1`)
	_, _, err := execute(t, "", "exec", path)
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "bytecode: "))
}

func TestRepl(t *testing.T) {
	stdout, stderr, err := execute(t, "let x = 2;\nx * 3\n\nx / 0\nputs(x)\n:quit\nx\n", "repl")
	require.Nil(t, err)
	require.Equal(t, "2\n6\n2\nnull\n", stdout)
	require.Equal(t, "division by zero\n", stderr)
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "", "version")
	require.Nil(t, err)
	require.Equal(t, "dev\n", stdout)

	stdout, _, err = execute(t, "", "version", "--output", "json", "--no-color")
	require.Nil(t, err)
	require.Contains(t, stdout, `"version": "dev"`)
}
