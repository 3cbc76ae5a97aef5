// Package bytecode defines the output of compilation: a flat instruction
// stream for the top-level program together with the constant pool shared
// by every function in it.
//
// A Bytecode value is not modified after the compiler returns it, so it can
// be run by several virtual machines at once.
//
// # Persisting
//
// [Marshal] and [Unmarshal] convert a Bytecode to and from a versioned,
// canonical CBOR file. Only integer, string and compiled function constants
// can be persisted, which is everything the compiler places in the pool.
//
//	bc, err := compiler.Compile(program)
//	if err != nil {
//	    return err
//	}
//	data, err := bytecode.Marshal(bc)
package bytecode
