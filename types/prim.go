package types

import "strconv"

// Prim is a C scalar type that needs no declarator of its own.
type Prim int

const (
	Void Prim = iota
	Bool
	Char
	Short
	Int
	Long
	LongLong
	UChar
	UShort
	UInt
	ULong
	ULongLong
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Intptr
	Uintptr
	Size
	Float
	Double
)

type primInfo struct {
	name   string
	bits   int // 0 for void and platform-sized types
	signed bool
	header string
}

var prims = [...]primInfo{
	Void:      {name: "void"},
	Bool:      {name: "bool", bits: 8, header: "stdbool.h"},
	Char:      {name: "char", bits: 8, signed: true},
	Short:     {name: "short", bits: 16, signed: true},
	Int:       {name: "int", bits: 32, signed: true},
	Long:      {name: "long", signed: true},
	LongLong:  {name: "long long", bits: 64, signed: true},
	UChar:     {name: "unsigned char", bits: 8},
	UShort:    {name: "unsigned short", bits: 16},
	UInt:      {name: "unsigned int", bits: 32},
	ULong:     {name: "unsigned long"},
	ULongLong: {name: "unsigned long long", bits: 64},
	Int8:      {name: "int8_t", bits: 8, signed: true, header: "stdint.h"},
	Int16:     {name: "int16_t", bits: 16, signed: true, header: "stdint.h"},
	Int32:     {name: "int32_t", bits: 32, signed: true, header: "stdint.h"},
	Int64:     {name: "int64_t", bits: 64, signed: true, header: "stdint.h"},
	Uint8:     {name: "uint8_t", bits: 8, header: "stdint.h"},
	Uint16:    {name: "uint16_t", bits: 16, header: "stdint.h"},
	Uint32:    {name: "uint32_t", bits: 32, header: "stdint.h"},
	Uint64:    {name: "uint64_t", bits: 64, header: "stdint.h"},
	Intptr:    {name: "intptr_t", signed: true, header: "stdint.h"},
	Uintptr:   {name: "uintptr_t", header: "stdint.h"},
	Size:      {name: "size_t", header: "stddef.h"},
	Float:     {name: "float", bits: 32, signed: true},
	Double:    {name: "double", bits: 64, signed: true},
}

var primByName = func() map[string]Prim {
	m := make(map[string]Prim, len(prims))
	for p, info := range prims {
		m[info.name] = Prim(p)
	}
	return m
}()

// LookupPrim returns the scalar spelled name, e.g. "uint32_t" or "unsigned int".
func LookupPrim(name string) (Prim, bool) {
	p, ok := primByName[name]
	return p, ok
}

// IsValid reports whether p is one of the declared scalars.
func (p Prim) IsValid() bool { return 0 <= p && int(p) < len(prims) }

func (p Prim) String() string {
	if !p.IsValid() {
		return "prim(" + strconv.Itoa(int(p)) + ")"
	}
	return prims[p].name
}

// Bits is the width in bits, or 0 when it depends on the target.
func (p Prim) Bits() int {
	if !p.IsValid() {
		return 0
	}
	return prims[p].bits
}

// IsSigned reports whether p is a signed arithmetic type.
func (p Prim) IsSigned() bool {
	return p.IsValid() && prims[p].signed
}

// IsInteger reports whether p is an integer type (bool and char included).
func (p Prim) IsInteger() bool {
	return p.IsValid() && p != Void && p != Float && p != Double
}

// Header is the standard header declaring p, or "" for builtin types.
func (p Prim) Header() string {
	if !p.IsValid() {
		return ""
	}
	return prims[p].header
}

// MaxMacro is the <stdint.h> limit macro of a fixed-width integer, e.g. INT64_MAX.
func (p Prim) MaxMacro() string {
	switch p {
	case Int8, Int16, Int32, Int64:
		return "INT" + strconv.Itoa(p.Bits()) + "_MAX"
	case Uint8, Uint16, Uint32, Uint64:
		return "UINT" + strconv.Itoa(p.Bits()) + "_MAX"
	}
	return ""
}
