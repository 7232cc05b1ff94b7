package hashsafe

import (
	"reflect"

	"github.com/google/uuid"
)

// Classification is the closed set of key kinds this package knows how to
// hash safely. Anything outside the set is ClassOpaque and routes through
// the fallback strategy, which may reject it. The set is intentionally
// closed: open-ended reflection over arbitrary types is itself an attack
// surface.
type Classification uint8

const (
	// ClassNil is the nil key.
	ClassNil Classification = iota

	// ClassBool covers boolean kinds.
	ClassBool

	// ClassInt covers all signed integer widths. Values are hashed over
	// their full-width 64-bit representation, never a folded half.
	ClassInt

	// ClassUint covers all unsigned integer widths.
	ClassUint

	// ClassFloat32 covers 32-bit floating point.
	ClassFloat32

	// ClassFloat64 covers 64-bit floating point.
	ClassFloat64

	// ClassUUID covers 16-byte UUID values. All 16 bytes participate in
	// the hash.
	ClassUUID

	// ClassString covers string kinds.
	ClassString

	// ClassOpaque covers every other reference or composite type.
	ClassOpaque
)

var classificationNames = map[Classification]string{
	ClassNil:     "nil",
	ClassBool:    "bool",
	ClassInt:     "int",
	ClassUint:    "uint",
	ClassFloat32: "float32",
	ClassFloat64: "float64",
	ClassUUID:    "uuid",
	ClassString:  "string",
	ClassOpaque:  "opaque",
}

func (c Classification) String() string {
	if name, ok := classificationNames[c]; ok {
		return name
	}
	return "unknown"
}

var uuidType = reflect.TypeOf(uuid.UUID{})

// Classify maps a runtime type to its classification. The result depends
// only on the type, so callers may cache it.
func Classify(t reflect.Type) Classification {
	if t == nil {
		return ClassNil
	}
	if t == uuidType {
		return ClassUUID
	}
	switch t.Kind() {
	case reflect.Bool:
		return ClassBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ClassInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return ClassUint
	case reflect.Float32:
		return ClassFloat32
	case reflect.Float64:
		return ClassFloat64
	case reflect.String:
		return ClassString
	default:
		return ClassOpaque
	}
}

// classifyValue classifies the dynamic type of a value.
func classifyValue(v any) Classification {
	if v == nil {
		return ClassNil
	}
	return Classify(reflect.TypeOf(v))
}
