package op

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// Instructions is an encoded instruction stream: each opcode byte followed
// by its operands, with 2-byte operands in big-endian order.
type Instructions []byte

// Make encodes one instruction. It panics if the opcode is undefined, the
// number of operands does not match the opcode's arity, or an operand does
// not fit its declared width. These can only be caused by a compiler bug.
func Make(op Code, operands ...int) []byte {
	info, err := Lookup(op)
	if err != nil {
		panic(err)
	}
	if len(operands) != info.OperandCount() {
		panic(fmt.Sprintf("op %s: expected %d operands, got %d",
			info.Name, info.OperandCount(), len(operands)))
	}
	instruction := make([]byte, info.Width())
	instruction[0] = byte(op)
	offset := 1
	for i, operand := range operands {
		width := info.OperandWidths[i]
		if operand < 0 || operand >= 1<<(8*width) {
			panic(fmt.Sprintf("op %s: operand %d out of range for width %d",
				info.Name, operand, width))
		}
		switch width {
		case 2:
			binary.BigEndian.PutUint16(instruction[offset:], uint16(operand))
		case 1:
			instruction[offset] = byte(operand)
		}
		offset += width
	}
	return instruction
}

// ReadOperands decodes the operands of an instruction whose opcode is
// described by info. ins must start just after the opcode byte. It returns
// the operands and the number of bytes read.
func ReadOperands(info Info, ins Instructions) ([]int, int) {
	operands := make([]int, len(info.OperandWidths))
	offset := 0
	for i, width := range info.OperandWidths {
		switch width {
		case 2:
			operands[i] = int(ReadUint16(ins[offset:]))
		case 1:
			operands[i] = int(ReadUint8(ins[offset:]))
		}
		offset += width
	}
	return operands, offset
}

// ReadUint16 decodes a big-endian 2-byte operand.
func ReadUint16(ins Instructions) uint16 {
	return binary.BigEndian.Uint16(ins)
}

// ReadUint8 decodes a 1-byte operand.
func ReadUint8(ins Instructions) uint8 {
	return ins[0]
}

// WriteUint16At overwrites the 2-byte operand at offset in place. Other
// instructions are not moved.
func (ins Instructions) WriteUint16At(offset int, value uint16) {
	binary.BigEndian.PutUint16(ins[offset:], value)
}

// Decode walks the instruction stream and calls fn once per instruction
// with its offset, opcode info and operands. It returns an error if an
// opcode is undefined or an instruction is truncated.
func (ins Instructions) Decode(fn func(offset int, info Info, operands []int)) error {
	for i := 0; i < len(ins); {
		info, err := Lookup(Code(ins[i]))
		if err != nil {
			return fmt.Errorf("offset %d: %w", i, err)
		}
		if i+info.Width() > len(ins) {
			return fmt.Errorf("offset %d: truncated %s instruction", i, info.Name)
		}
		operands, read := ReadOperands(info, ins[i+1:])
		fn(i, info, operands)
		i += 1 + read
	}
	return nil
}

// String returns a human readable listing with one instruction per line,
// each prefixed by its offset.
func (ins Instructions) String() string {
	var out bytes.Buffer
	err := ins.Decode(func(offset int, info Info, operands []int) {
		fmt.Fprintf(&out, "%04d %s\n", offset, formatInstruction(info, operands))
	})
	if err != nil {
		fmt.Fprintf(&out, "ERROR: %s\n", err)
	}
	return out.String()
}

func formatInstruction(info Info, operands []int) string {
	if len(operands) == 0 {
		return info.Name
	}
	parts := make([]string, 0, len(operands)+1)
	parts = append(parts, info.Name)
	for _, operand := range operands {
		parts = append(parts, fmt.Sprintf("%d", operand))
	}
	return strings.Join(parts, " ")
}
