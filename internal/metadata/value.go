package metadata

import (
	"math"
	"strconv"
	"strings"
)

// Format is the storage type of a Value.
type Format int

const (
	FormatInt Format = iota
	FormatFloat
	FormatString
)

func (f Format) String() string {
	switch f {
	case FormatInt:
		return "int"
	case FormatFloat:
		return "float"
	case FormatString:
		return "string"
	default:
		return "unknown"
	}
}

// ParseFormat converts "int", "float" or "string" (case-insensitive).
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int", "integer", "byte":
		return FormatInt, true
	case "float", "real", "double":
		return FormatFloat, true
	case "string", "char", "str":
		return FormatString, true
	}
	return FormatInt, false
}

// Value is a typed array with an explicit dimension vector. The number of
// stored elements always equals the product of the dimensions; a value
// with no dimensions is a scalar holding exactly one element.
// Multi-dimensional values are stored with the first dimension varying
// fastest.
type Value struct {
	format  Format
	dims    []int
	ints    []int
	floats  []float64
	strings []string
}

// NewInts builds an integer value. values is truncated or zero-padded to
// the product of dims.
func NewInts(dims []int, values []int) *Value {
	n := product(dims)
	v := &Value{format: FormatInt, dims: cloneDims(dims), ints: make([]int, n)}
	copy(v.ints, values)
	return v
}

// NewFloats builds a floating point value. values is truncated or
// zero-padded to the product of dims.
func NewFloats(dims []int, values []float64) *Value {
	n := product(dims)
	v := &Value{format: FormatFloat, dims: cloneDims(dims), floats: make([]float64, n)}
	copy(v.floats, values)
	return v
}

// NewStrings builds a string value. values is truncated or padded with
// empty strings to the product of dims.
func NewStrings(dims []int, values []string) *Value {
	n := product(dims)
	v := &Value{format: FormatString, dims: cloneDims(dims), strings: make([]string, n)}
	copy(v.strings, values)
	return v
}

// ScalarInt builds a dimensionless integer value.
func ScalarInt(x int) *Value {
	return NewInts(nil, []int{x})
}

// ScalarFloat builds a dimensionless floating point value.
func ScalarFloat(x float64) *Value {
	return NewFloats(nil, []float64{x})
}

// Format returns the storage type.
func (v *Value) Format() Format {
	return v.format
}

// Dims returns a copy of the dimension vector.
func (v *Value) Dims() []int {
	return cloneDims(v.dims)
}

// Len returns the number of elements (the product of the dimensions).
func (v *Value) Len() int {
	return product(v.dims)
}

// Ints returns the elements converted to int. Floats are rounded and
// unparsable strings become 0.
func (v *Value) Ints() []int {
	switch v.format {
	case FormatInt:
		out := make([]int, len(v.ints))
		copy(out, v.ints)
		return out
	case FormatFloat:
		out := make([]int, len(v.floats))
		for i, f := range v.floats {
			out[i] = int(math.Round(f))
		}
		return out
	default:
		out := make([]int, len(v.strings))
		for i, s := range v.strings {
			s = strings.TrimSpace(s)
			if n, err := strconv.Atoi(s); err == nil {
				out[i] = n
			} else if f, err := strconv.ParseFloat(s, 64); err == nil {
				out[i] = int(math.Round(f))
			}
		}
		return out
	}
}

// Floats returns the elements converted to float64. Unparsable strings
// become 0.
func (v *Value) Floats() []float64 {
	switch v.format {
	case FormatInt:
		out := make([]float64, len(v.ints))
		for i, n := range v.ints {
			out[i] = float64(n)
		}
		return out
	case FormatFloat:
		out := make([]float64, len(v.floats))
		copy(out, v.floats)
		return out
	default:
		out := make([]float64, len(v.strings))
		for i, s := range v.strings {
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				out[i] = f
			}
		}
		return out
	}
}

// Strings returns the elements formatted as strings.
func (v *Value) Strings() []string {
	switch v.format {
	case FormatInt:
		out := make([]string, len(v.ints))
		for i, n := range v.ints {
			out[i] = strconv.Itoa(n)
		}
		return out
	case FormatFloat:
		out := make([]string, len(v.floats))
		for i, f := range v.floats {
			out[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return out
	default:
		out := make([]string, len(v.strings))
		copy(out, v.strings)
		return out
	}
}

func product(dims []int) int {
	n := 1
	for _, d := range dims {
		if d < 0 {
			return 0
		}
		n *= d
	}
	return n
}

func cloneDims(dims []int) []int {
	if len(dims) == 0 {
		return nil
	}
	out := make([]int, len(dims))
	copy(out, dims)
	return out
}
