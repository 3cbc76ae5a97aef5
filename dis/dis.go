// Package dis supports analysis of monkey bytecode by disassembling it.
// This works with the opcodes defined in the `op` package.
package dis

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/risor-io/monkey/builtins"
	"github.com/risor-io/monkey/bytecode"
	"github.com/risor-io/monkey/internal/table"
	"github.com/risor-io/monkey/object"
	"github.com/risor-io/monkey/op"
)

// MainFunction labels instructions of the top-level program.
const MainFunction = "main"

// Instruction represents a single bytecode instruction and its operands.
type Instruction struct {
	// Function is MainFunction or the label of the compiled function
	// constant the instruction belongs to.
	Function   string
	Offset     int
	Name       string
	Opcode     op.Code
	Operands   []int
	Annotation string
	Constant   object.Object
}

// Disassemble returns a parsed representation of the given bytecode: the
// instructions of the main program followed by those of each compiled
// function in the constant pool.
func Disassemble(bc *bytecode.Bytecode) ([]Instruction, error) {
	instructions, err := disassemble(bc, MainFunction, bc.Instructions)
	if err != nil {
		return nil, err
	}
	for i, c := range bc.Constants {
		fn, ok := c.(*object.CompiledFunction)
		if !ok {
			continue
		}
		fnInstructions, err := disassemble(bc, functionLabel(i, fn), fn.Instructions)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, fnInstructions...)
	}
	return instructions, nil
}

func functionLabel(index int, fn *object.CompiledFunction) string {
	name := fn.Name
	if name == "" {
		name = "<anonymous>"
	}
	return fmt.Sprintf("constant %d: %s", index, name)
}

func disassemble(bc *bytecode.Bytecode, function string, ins op.Instructions) ([]Instruction, error) {
	var instructions []Instruction
	var annotateErr error
	err := ins.Decode(func(offset int, info op.Info, operands []int) {
		if annotateErr != nil {
			return
		}
		instr := Instruction{
			Function: function,
			Offset:   offset,
			Name:     info.Name,
			Opcode:   info.Code,
			Operands: operands,
		}
		switch info.Code {
		case op.Constant, op.Closure:
			constant, err := getConstantValue(bc, operands[0])
			if err != nil {
				annotateErr = fmt.Errorf("%s offset %d: %w", function, offset, err)
				return
			}
			instr.Constant = constant
		case op.GetBuiltin:
			names := builtins.Names()
			if operands[0] >= len(names) {
				annotateErr = fmt.Errorf("%s offset %d: builtin index out of range: %d", function, offset, operands[0])
				return
			}
			instr.Annotation = names[operands[0]]
		case op.Jump, op.JumpNotTruthy:
			instr.Annotation = fmt.Sprintf("to %d", operands[0])
		case op.GetGlobal, op.SetGlobal:
			instr.Annotation = fmt.Sprintf("global %d", operands[0])
		case op.GetLocal, op.SetLocal:
			instr.Annotation = fmt.Sprintf("local %d", operands[0])
		case op.GetFree:
			instr.Annotation = fmt.Sprintf("free %d", operands[0])
		}
		instructions = append(instructions, instr)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", function, err)
	}
	if annotateErr != nil {
		return nil, annotateErr
	}
	return instructions, nil
}

func getConstantValue(bc *bytecode.Bytecode, index int) (object.Object, error) {
	if len(bc.Constants) <= index {
		return nil, fmt.Errorf("constant index out of range: %d", index)
	}
	return bc.Constants[index], nil
}

var (
	bold    = color.New(color.Bold).SprintFunc()
	italic  = color.New(color.Italic).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	green   = color.New(color.FgGreen).SprintFunc()
	magenta = color.New(color.FgMagenta).SprintFunc()
	cyan    = color.New(color.FgHiCyan).SprintFunc()
)

// Print a string representation of the given instructions to the given
// writer, one table per function. Colors follow color.NoColor.
func Print(instructions []Instruction, writer io.Writer) {
	for start := 0; start < len(instructions); {
		end := start
		for end < len(instructions) && instructions[end].Function == instructions[start].Function {
			end++
		}
		if start > 0 {
			fmt.Fprintln(writer)
		}
		fmt.Fprintf(writer, "%s:\n", instructions[start].Function)
		printTable(instructions[start:end], writer)
		start = end
	}
}

func printTable(instructions []Instruction, writer io.Writer) {
	var lines [][]string
	for _, instr := range instructions {
		values := []string{
			fmt.Sprintf("%d", instr.Offset),
			bold(instr.Name),
			formatOperands(instr.Operands),
		}
		switch c := instr.Constant.(type) {
		case nil:
			if instr.Annotation != "" {
				values = append(values, cyan(instr.Annotation))
			} else {
				values = append(values, "")
			}
		case *object.Integer:
			values = append(values, yellow(c.Inspect()))
		case *object.String:
			s := c.Value
			if len(s) > 80 {
				s = s[:77] + "..."
			}
			values = append(values, green(fmt.Sprintf("%q", s)))
		case *object.CompiledFunction:
			name := c.Name
			if name == "" {
				name = italic("<anonymous>")
			}
			values = append(values, magenta("func:"+name))
		default:
			values = append(values, bold(c.Inspect()))
		}
		lines = append(lines, values)
	}

	table.NewTable(writer).
		WithHeader([]string{"OFFSET", "OPCODE", "OPERANDS", "INFO"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(lines).
		Render()
}

func formatOperands(operands []int) string {
	parts := make([]string, 0, len(operands))
	for _, operand := range operands {
		parts = append(parts, fmt.Sprintf("%d", operand))
	}
	return strings.Join(parts, ", ")
}
