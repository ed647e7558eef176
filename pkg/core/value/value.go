package value

import (
	"math"
	"strconv"
)

// Type represents the tag in the Value tagged union.
type Type uint8

const (
	TypeInt Type = iota
	TypeFloat
	TypeString
	TypeArray
	TypeStruct
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypeStruct:
		return "struct"
	}
	return "unknown"
}

// Value is a tagged union. Only the field selected by Type is meaningful.
type Value struct {
	Type   Type
	Int    int32
	Float  float32
	Str    string
	Array  *Array
	Struct *Struct
}

func OfInt(i int32) Value { return Value{Type: TypeInt, Int: i} }
func OfFloat(f float32) Value { return Value{Type: TypeFloat, Float: f} }
func OfString(s string) Value { return Value{Type: TypeString, Str: s} }
func OfArray(a *Array) Value { return Value{Type: TypeArray, Array: a} }
func OfStruct(s *Struct) Value { return Value{Type: TypeStruct, Struct: s} }

// String returns the single-line form of a scalar value.
func (v Value) String() string {
	switch v.Type {
	case TypeInt:
		return strconv.FormatInt(int64(v.Int), 10)
	case TypeFloat:
		return FormatFloat(v.Float)
	case TypeString:
		return v.Str
	case TypeArray:
		return "array[" + strconv.Itoa(v.Array.Len()) + "]"
	case TypeStruct:
		return "struct{" + strconv.Itoa(v.Struct.Len()) + "}"
	}
	return "?"
}

// Lines renders v the way print shows the variable called name: scalars take one
// line, arrays one line per element and structs one line per field.
func (v Value) Lines(name string) []string {
	switch v.Type {
	case TypeArray:
		lines := make([]string, 0, v.Array.Len())
		for i, el := range v.Array.elems {
			lines = append(lines, name+"["+strconv.Itoa(i)+"] = "+strconv.FormatInt(int64(el), 10))
		}
		return lines
	case TypeStruct:
		lines := make([]string, 0, v.Struct.Len())
		for _, f := range v.Struct.Fields() {
			lines = append(lines, name+"."+f.Name+" = "+strconv.FormatInt(int64(f.Value), 10))
		}
		return lines
	default:
		return []string{v.String()}
	}
}

// FormatFloat prints the shortest decimal that reads back as the same float32,
// never in exponent form.
func FormatFloat(f float32) string {
	switch {
	case math.IsInf(float64(f), 1):
		return "inf"
	case math.IsInf(float64(f), -1):
		return "-inf"
	case math.IsNaN(float64(f)):
		return "NaN"
	}
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}
