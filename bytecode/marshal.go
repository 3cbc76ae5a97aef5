package bytecode

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/gofrs/uuid"

	"github.com/risor-io/monkey/object"
	"github.com/risor-io/monkey/op"
)

const (
	// Magic identifies a persisted monkey bytecode file.
	Magic = "monkey-bytecode"

	// Version is the current file format version. Opcode byte values are
	// part of the format, so changing one requires a new version.
	Version = 1
)

const (
	kindInteger byte = iota + 1
	kindString
	kindFunction
)

type fileHeader struct {
	Magic        string     `cbor:"1,keyasint"`
	Version      int        `cbor:"2,keyasint"`
	ID           [16]byte   `cbor:"3,keyasint"`
	Instructions []byte     `cbor:"4,keyasint"`
	Constants    []constant `cbor:"5,keyasint,omitempty"`
}

type constant struct {
	Kind     byte      `cbor:"1,keyasint"`
	Integer  int64     `cbor:"2,keyasint,omitempty"`
	String   string    `cbor:"3,keyasint,omitempty"`
	Function *function `cbor:"4,keyasint,omitempty"`
}

type function struct {
	Instructions  []byte `cbor:"1,keyasint"`
	NumLocals     int    `cbor:"2,keyasint"`
	NumParameters int    `cbor:"3,keyasint"`
	Name          string `cbor:"4,keyasint,omitempty"`
}

var encMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	encMode = em
}

// Marshal serializes bytecode to canonical CBOR. Encoding the same
// bytecode twice yields identical bytes.
func Marshal(bc *Bytecode) ([]byte, error) {
	file := fileHeader{
		Magic:        Magic,
		Version:      Version,
		ID:           bc.ID,
		Instructions: bc.Instructions,
	}
	for i, obj := range bc.Constants {
		c, err := marshalConstant(obj)
		if err != nil {
			return nil, fmt.Errorf("bytecode: constant %d: %w", i, err)
		}
		file.Constants = append(file.Constants, c)
	}
	return encMode.Marshal(file)
}

func marshalConstant(obj object.Object) (constant, error) {
	switch obj := obj.(type) {
	case *object.Integer:
		return constant{Kind: kindInteger, Integer: obj.Value}, nil
	case *object.String:
		return constant{Kind: kindString, String: obj.Value}, nil
	case *object.CompiledFunction:
		return constant{Kind: kindFunction, Function: &function{
			Instructions:  obj.Instructions,
			NumLocals:     obj.NumLocals,
			NumParameters: obj.NumParameters,
			Name:          obj.Name,
		}}, nil
	case nil:
		return constant{}, fmt.Errorf("nil constant")
	default:
		return constant{}, fmt.Errorf("unsupported constant type %s", obj.Type())
	}
}

// Unmarshal deserializes bytecode produced by Marshal. It rejects files
// with an unknown magic or version and instruction streams that do not
// decode.
func Unmarshal(data []byte) (*Bytecode, error) {
	var file fileHeader
	if err := cbor.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal: %w", err)
	}
	if file.Magic != Magic {
		return nil, fmt.Errorf("bytecode: not a monkey bytecode file")
	}
	if file.Version != Version {
		return nil, fmt.Errorf("bytecode: unsupported version %d (want %d)", file.Version, Version)
	}
	bc := &Bytecode{
		ID:           uuid.UUID(file.ID),
		Instructions: op.Instructions(file.Instructions),
		Constants:    make([]object.Object, 0, len(file.Constants)),
	}
	if err := validate(bc.Instructions); err != nil {
		return nil, fmt.Errorf("bytecode: main: %w", err)
	}
	for i, c := range file.Constants {
		obj, err := unmarshalConstant(c)
		if err != nil {
			return nil, fmt.Errorf("bytecode: constant %d: %w", i, err)
		}
		bc.Constants = append(bc.Constants, obj)
	}
	return bc, nil
}

func unmarshalConstant(c constant) (object.Object, error) {
	switch c.Kind {
	case kindInteger:
		return object.NewInteger(c.Integer), nil
	case kindString:
		return object.NewString(c.String), nil
	case kindFunction:
		if c.Function == nil {
			return nil, fmt.Errorf("missing function body")
		}
		fn := c.Function
		if fn.NumParameters < 0 || fn.NumLocals < fn.NumParameters {
			return nil, fmt.Errorf("invalid function metadata")
		}
		if err := validate(fn.Instructions); err != nil {
			return nil, err
		}
		return &object.CompiledFunction{
			Instructions:  op.Instructions(fn.Instructions),
			NumLocals:     fn.NumLocals,
			NumParameters: fn.NumParameters,
			Name:          fn.Name,
		}, nil
	default:
		return nil, fmt.Errorf("unknown constant kind %d", c.Kind)
	}
}

func validate(ins op.Instructions) error {
	return ins.Decode(func(int, op.Info, []int) {})
}
