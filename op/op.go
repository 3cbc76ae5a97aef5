// Package op defines the opcodes used by the monkey compiler and virtual
// machine, along with their binary encoding.
package op

import "fmt"

// Code is a one byte opcode that indicates an operation to execute. The
// numeric values are part of the persisted bytecode format and must not
// change.
type Code byte

const (
	// Constants and literals
	Constant Code = 0x00
	True     Code = 0x05
	False    Code = 0x06
	Null     Code = 0x0E

	// Arithmetic
	Add Code = 0x01
	Sub Code = 0x02
	Mul Code = 0x03
	Div Code = 0x04

	// Comparison
	Equal       Code = 0x07
	NotEqual    Code = 0x08
	GreaterThan Code = 0x09

	// Unary
	Minus Code = 0x0A
	Bang  Code = 0x0B

	// Jump
	JumpNotTruthy Code = 0x0C
	Jump          Code = 0x0D

	// Variables
	GetGlobal      Code = 0x0F
	SetGlobal      Code = 0x10
	GetLocal       Code = 0x17
	SetLocal       Code = 0x18
	GetBuiltin     Code = 0x19
	GetFree        Code = 0x21
	CurrentClosure Code = 0x22

	// Build
	Array Code = 0x11
	Hash  Code = 0x12
	Index Code = 0x13

	// Functions
	Call        Code = 0x14
	ReturnValue Code = 0x15
	Return      Code = 0x16
	Closure     Code = 0x20

	// Stack
	Pop Code = 0xFF
)

// Info contains information about an opcode.
type Info struct {
	Code          Code
	Name          string
	OperandWidths []int
}

// OperandCount returns the number of operands that follow the opcode.
func (i Info) OperandCount() int {
	return len(i.OperandWidths)
}

// Width returns the total encoded size of an instruction with this opcode,
// including the opcode byte itself.
func (i Info) Width() int {
	width := 1
	for _, w := range i.OperandWidths {
		width += w
	}
	return width
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op     Code
		name   string
		widths []int
	}
	ops := []opInfo{
		{Add, "ADD", nil},
		{Array, "ARRAY", []int{2}},
		{Bang, "BANG", nil},
		{Call, "CALL", []int{1}},
		{Closure, "CLOSURE", []int{2, 1}},
		{Constant, "CONSTANT", []int{2}},
		{CurrentClosure, "CURRENT_CLOSURE", nil},
		{Div, "DIV", nil},
		{Equal, "EQUAL", nil},
		{False, "FALSE", nil},
		{GetBuiltin, "GET_BUILTIN", []int{1}},
		{GetFree, "GET_FREE", []int{1}},
		{GetGlobal, "GET_GLOBAL", []int{2}},
		{GetLocal, "GET_LOCAL", []int{2}},
		{GreaterThan, "GREATER_THAN", nil},
		{Hash, "HASH", []int{2}},
		{Index, "INDEX", nil},
		{Jump, "JUMP", []int{2}},
		{JumpNotTruthy, "JUMP_NOT_TRUTHY", []int{2}},
		{Minus, "MINUS", nil},
		{Mul, "MUL", nil},
		{NotEqual, "NOT_EQUAL", nil},
		{Null, "NULL", nil},
		{Pop, "POP", nil},
		{Return, "RETURN", nil},
		{ReturnValue, "RETURN_VALUE", nil},
		{SetGlobal, "SET_GLOBAL", []int{2}},
		{SetLocal, "SET_LOCAL", []int{2}},
		{Sub, "SUB", nil},
		{True, "TRUE", nil},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:          o.op,
			Name:          o.name,
			OperandWidths: o.widths,
		}
	}
}

// GetInfo returns information about the given opcode. The Name of the
// returned Info is empty if the opcode is undefined.
func GetInfo(op Code) Info {
	return infos[op]
}

// Lookup returns information about the given opcode, or an error if the
// opcode is undefined.
func Lookup(op Code) (Info, error) {
	info := infos[op]
	if info.Name == "" {
		return Info{}, fmt.Errorf("opcode %d undefined", op)
	}
	return info, nil
}

func (c Code) String() string {
	if name := infos[c].Name; name != "" {
		return name
	}
	return fmt.Sprintf("UNKNOWN(0x%02X)", byte(c))
}
