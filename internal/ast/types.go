package ast

import "fmt"

// Type is a declared source-level type.
type Type uint8

const (
	TypeInvalid Type = iota
	TypeUnit
	TypeInt
	TypeBool
	TypeString
)

func (t Type) String() string {
	switch t {
	case TypeUnit:
		return "Unit"
	case TypeInt:
		return "Int"
	case TypeBool:
		return "Bool"
	case TypeString:
		return "String"
	default:
		return "Invalid"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Unit":
		*t = TypeUnit
	case "Int":
		*t = TypeInt
	case "Bool":
		*t = TypeBool
	case "String":
		*t = TypeString
	case "Invalid", "":
		*t = TypeInvalid
	default:
		return fmt.Errorf("ast: unknown type %q", b)
	}
	return nil
}
