// Copyright 2024 qb64-lang-utils contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package qbparse

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Type is a named scalar type with optional numeric bounds. Integer bounds
// use math/big so that arbitrary-width fixed-width types (`N, ~`N, $N for
// any decimal N) are represented exactly; float bounds are plain float64.
type Type struct {
	Name string

	IsInt   bool
	IntMin  *big.Int
	IntMax  *big.Int

	IsFloat   bool
	FloatMin  float64
	FloatMax  float64
	Unbounded bool // true for _float: bounds are not meaningful

	IsString bool

	// Set only for parametric fixed-width types built via LookupSigil.
	Base  *Type
	Width int
}

func intType(name string, min, max int64) *Type {
	return &Type{Name: name, IsInt: true, IntMin: big.NewInt(min), IntMax: big.NewInt(max)}
}

func unsignedIntType(name string, width uint) *Type {
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), width), big.NewInt(1))
	return &Type{Name: name, IsInt: true, IntMin: big.NewInt(0), IntMax: max}
}

func floatType(name string, min, max float64) *Type {
	return &Type{Name: name, IsFloat: true, FloatMin: min, FloatMax: max}
}

func bits2float32(bits uint32) float64 {
	return float64(math.Float32frombits(bits))
}

func bits2float64(bits uint64) float64 {
	return math.Float64frombits(bits)
}

// Built-in scalar types, keyed by name. These are process-wide immutable
// singletons; FixedWidthType instances are cached per SymbolStore instead,
// since their identity is scoped to one parse.
var builtinTypes = map[string]*Type{
	"_none":                {Name: "_none"},
	"_bit":                 intType("_bit", -1, 0),
	"_byte":                intType("_byte", -(1 << 7), 1<<7-1),
	"integer":              intType("integer", -(1 << 15), 1<<15-1),
	"long":                 intType("long", -(1 << 31), 1<<31-1),
	"_integer64":           intType("_integer64", math.MinInt64, math.MaxInt64),
	"_unsigned _bit":       unsignedIntType("_unsigned _bit", 1),
	"_unsigned _byte":      unsignedIntType("_unsigned _byte", 8),
	"_unsigned integer":    unsignedIntType("_unsigned integer", 16),
	"_unsigned long":       unsignedIntType("_unsigned long", 32),
	"_unsigned _integer64": unsignedIntType("_unsigned _integer64", 64),
	// _offset has no entry in the built-in type list of §3; it only
	// appears in the §6 sigil table. QB64 models it as a pointer-width
	// integer, so it is given the same bit width as _integer64.
	"_offset":           intType("_offset", math.MinInt64, math.MaxInt64),
	"_unsigned _offset": unsignedIntType("_unsigned _offset", 64),
	"single":            floatType("single", bits2float32(0xFF7FFFFF), bits2float32(0x7F7FFFFF)),
	"double":            floatType("double", bits2float64(0xFFEFFFFFFFFFFFFF), bits2float64(0x7FEFFFFFFFFFFFFF)),
	"_float":            {Name: "_float", IsFloat: true, Unbounded: true},
	"string":            {Name: "string", IsString: true},
}

// TypeByName looks up one of the fixed set of built-in scalar types.
func TypeByName(name string) (*Type, bool) {
	t, ok := builtinTypes[name]
	return t, ok
}

var builtinSigils = map[string]*Type{
	"`":    builtinTypes["_bit"],
	"%%":   builtinTypes["_byte"],
	"%":    builtinTypes["integer"],
	"&":    builtinTypes["long"],
	"&&":   builtinTypes["_integer64"],
	"%&":   builtinTypes["_offset"],
	"~`":   builtinTypes["_unsigned _bit"],
	"~%%":  builtinTypes["_unsigned _byte"],
	"~%":   builtinTypes["_unsigned integer"],
	"~&":   builtinTypes["_unsigned long"],
	"~&&":  builtinTypes["_unsigned _integer64"],
	"~%&":  builtinTypes["_unsigned _offset"],
	"!":    builtinTypes["single"],
	"#":    builtinTypes["double"],
	"##":   builtinTypes["_float"],
	"$":    builtinTypes["string"],
}

// TypeSignature is a procedure's return type plus parameter types.
type TypeSignature struct {
	Ret    *Type
	Params []*Type
}

func (a *TypeSignature) Equal(b *TypeSignature) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Ret != b.Ret || len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			return false
		}
	}
	return true
}

// newFixedWidthBit builds the `_bit`/`_unsigned _bit` parametric type for
// the given width, per spec.md §3's FixedWidthType bounds formulas.
func newFixedWidthBit(base *Type, width int, unsigned bool) *Type {
	name := base.Name + " * " + strconv.Itoa(width)
	w := uint(width)
	if unsigned {
		max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), w), big.NewInt(1))
		return &Type{Name: name, IsInt: true, IntMin: big.NewInt(0), IntMax: max, Base: base, Width: width}
	}
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), w-1), big.NewInt(1))
	min := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), w-1))
	return &Type{Name: name, IsInt: true, IntMin: min, IntMax: max, Base: base, Width: width}
}

func newFixedWidthString(width int) *Type {
	base := builtinTypes["string"]
	return &Type{Name: base.Name + " * " + strconv.Itoa(width), IsString: true, Base: base, Width: width}
}

// LookupSigil resolves a sigil string (as produced by the lexer's ID rule)
// to a Type. A nil sigil yields the store's default type. Parametric
// fixed-width sigils are cached on the store so repeated lookups of the
// same (base, width) return the identical *Type.
func (s *SymbolStore) LookupSigil(sigil *string) (*Type, error) {
	if sigil == nil {
		return s.DefaultType, nil
	}
	if t, ok := builtinSigils[*sigil]; ok {
		return t, nil
	}
	var base *Type
	var unsigned bool
	var isString bool
	switch {
	case strings.HasPrefix(*sigil, "~`"):
		base, unsigned = builtinTypes["_unsigned _bit"], true
	case strings.HasPrefix(*sigil, "`"):
		base = builtinTypes["_bit"]
	case strings.HasPrefix(*sigil, "$"):
		isString = true
	default:
		return nil, newParseError(0, "unknown sigil %q", *sigil)
	}
	widthStr := strings.TrimLeft(*sigil, "`~$")
	width, err := strconv.Atoi(widthStr)
	if err != nil || width < 1 {
		return nil, newParseError(0, "unknown sigil %q", *sigil)
	}
	var fullName string
	if isString {
		fullName = builtinTypes["string"].Name + " * " + strconv.Itoa(width)
	} else {
		fullName = base.Name + " * " + strconv.Itoa(width)
	}
	if cached, ok := s.types[fullName]; ok {
		return cached, nil
	}
	var t *Type
	if isString {
		t = newFixedWidthString(width)
	} else {
		t = newFixedWidthBit(base, width, unsigned)
	}
	s.types[fullName] = t
	return t, nil
}

// candidateIntTypes is the search order used by DetectBaseIntType.
var candidateIntTypes = []string{"integer", "long", "_integer64"}

// DetectBaseIntType implements spec.md §4.A's detect_base_int_type: find
// the narrowest of integer/long/_integer64 that the unsigned magnitude v
// fits in, reinterpreting as two's-complement when it only fits the
// unsigned range of that width.
func DetectBaseIntType(v *big.Int) (*big.Int, *Type, error) {
	for _, name := range candidateIntTypes {
		t := builtinTypes[name]
		if fitsRange(v, t.IntMin, t.IntMax) {
			return v, t, nil
		}
		unsignedMax := unsignedMaxFor(t)
		if v.Sign() >= 0 && v.Cmp(unsignedMax) <= 0 {
			reinterpreted := new(big.Int).Sub(v, new(big.Int).Add(unsignedMax, big.NewInt(1)))
			return reinterpreted, t, nil
		}
	}
	return nil, nil, newParseError(0, "literal out of range")
}

// ConstrainBaseIntValue implements spec.md §4.A's constrain_base_int_value
// for a base literal with an explicit sigil'd type: reinterpret as
// two's-complement if v only fits the unsigned range of type's width.
func ConstrainBaseIntValue(v *big.Int, t *Type) (*big.Int, error) {
	if fitsRange(v, t.IntMin, t.IntMax) {
		return v, nil
	}
	if t.IntMin.Sign() < 0 {
		unsignedMax := unsignedMaxFor(t)
		if v.Sign() >= 0 && v.Cmp(unsignedMax) <= 0 {
			return new(big.Int).Sub(v, new(big.Int).Add(unsignedMax, big.NewInt(1))), nil
		}
	}
	return nil, newParseError(0, "literal outside range of requested type")
}

func fitsRange(v, min, max *big.Int) bool {
	return v.Cmp(min) >= 0 && v.Cmp(max) <= 0
}

// unsignedMaxFor returns 2*max+1, the unsigned maximum for a signed type's
// bit width (derivable directly from its signed max, per spec.md §4.A).
func unsignedMaxFor(t *Type) *big.Int {
	return new(big.Int).Add(new(big.Int).Mul(big.NewInt(2), t.IntMax), big.NewInt(1))
}
