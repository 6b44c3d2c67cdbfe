// Package ir is the basic-block intermediate representation consumed by
// code generation. A Func owns typed storage slots (locals), SSA values
// defined by instructions, and an ordered list of blocks, each ending in
// exactly one terminator.
package ir

type FuncID int32
type BlockID int32
type LocalID int32
type ValueID int32

const (
	NoFuncID  FuncID  = -1
	NoBlockID BlockID = -1
	NoLocalID LocalID = -1
	NoValueID ValueID = -1
)

// IsValid reports whether the local refers to an allocated slot.
func (id LocalID) IsValid() bool { return id >= 0 }

// IsValid reports whether the value refers to an instruction result.
func (id ValueID) IsValid() bool { return id >= 0 }

// Type is an IR value type.
type Type uint8

const (
	TypeVoid Type = iota
	TypeI1
	TypeI32
)

func (t Type) String() string {
	switch t {
	case TypeVoid:
		return "void"
	case TypeI1:
		return "i1"
	case TypeI32:
		return "i32"
	default:
		return "?"
	}
}

// Local is a typed, mutable storage slot.
type Local struct {
	Type Type
	Name string
}
