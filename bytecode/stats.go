package bytecode

import "github.com/risor-io/monkey/op"

// Stats contains statistics about compiled bytecode.
// This is useful for auditing programs before execution.
type Stats struct {
	// InstructionCount is the number of instructions in the main stream
	// and in every compiled function.
	InstructionCount int

	// ConstantCount is the number of constants in the constant pool.
	ConstantCount int

	// FunctionCount is the number of compiled functions in the pool.
	FunctionCount int

	// ByteCount is the encoded size of all instructions.
	ByteCount int
}

// Stats walks the bytecode and returns its statistics. It fails if any
// instruction stream is malformed.
func (b *Bytecode) Stats() (Stats, error) {
	stats := Stats{ConstantCount: len(b.Constants)}
	count := func(offset int, info op.Info, operands []int) {
		stats.InstructionCount++
	}
	if err := b.Instructions.Decode(count); err != nil {
		return Stats{}, err
	}
	stats.ByteCount += len(b.Instructions)
	for _, fn := range b.Functions() {
		if err := fn.Instructions.Decode(count); err != nil {
			return Stats{}, err
		}
		stats.FunctionCount++
		stats.ByteCount += len(fn.Instructions)
	}
	return stats, nil
}
