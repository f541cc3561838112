// Package variant models D-Bus message bodies as a closed set of tagged
// values. Transports convert whatever their client library decodes into a
// Value; everything downstream (normalization, matching, display) works on
// Values only.
package variant

import "fmt"

// Kind identifies which payload of a Value is meaningful
type Kind uint8

const (
	Invalid Kind = iota
	Bool
	Byte
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Double
	String
	ObjectPath
	Signature
	UnixFD
	Array
	Struct
	Dict
	Variant
)

var kindNames = [...]string{
	Invalid:    "invalid",
	Bool:       "bool",
	Byte:       "byte",
	Int16:      "int16",
	Uint16:     "uint16",
	Int32:      "int32",
	Uint32:     "uint32",
	Int64:      "int64",
	Uint64:     "uint64",
	Double:     "double",
	String:     "string",
	ObjectPath: "object_path",
	Signature:  "signature",
	UnixFD:     "unix_fd",
	Array:      "array",
	Struct:     "struct",
	Dict:       "dict",
	Variant:    "variant",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Value is an immutable tagged value. The zero Value is Invalid.
type Value struct {
	kind    Kind
	b       bool
	i       int64
	u       uint64
	f       float64
	s       string
	elems   []Value
	entries []Entry
}

// Entry is one key/value pair of a Dict
type Entry struct {
	Key   Value
	Value Value
}

// Constructors, one per kind
func NewBool(b bool) Value            { return Value{kind: Bool, b: b} }
func NewByte(b byte) Value            { return Value{kind: Byte, u: uint64(b)} }
func NewInt16(i int16) Value          { return Value{kind: Int16, i: int64(i)} }
func NewUint16(u uint16) Value        { return Value{kind: Uint16, u: uint64(u)} }
func NewInt32(i int32) Value          { return Value{kind: Int32, i: int64(i)} }
func NewUint32(u uint32) Value        { return Value{kind: Uint32, u: uint64(u)} }
func NewInt64(i int64) Value          { return Value{kind: Int64, i: i} }
func NewUint64(u uint64) Value        { return Value{kind: Uint64, u: u} }
func NewDouble(f float64) Value       { return Value{kind: Double, f: f} }
func NewString(s string) Value        { return Value{kind: String, s: s} }
func NewObjectPath(s string) Value    { return Value{kind: ObjectPath, s: s} }
func NewSignature(s string) Value     { return Value{kind: Signature, s: s} }
func NewUnixFD(fd uint32) Value       { return Value{kind: UnixFD, u: uint64(fd)} }
func NewArray(elems ...Value) Value   { return Value{kind: Array, elems: elems} }
func NewStruct(fields ...Value) Value { return Value{kind: Struct, elems: fields} }
func NewDict(entries ...Entry) Value  { return Value{kind: Dict, entries: entries} }

// NewVariant boxes inner as a D-Bus variant
func NewVariant(inner Value) Value {
	return Value{kind: Variant, elems: []Value{inner}}
}

// Kind returns the tag of v
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v holds a value
func (v Value) IsValid() bool { return v.kind != Invalid }

// Bool returns the payload of a Bool value
func (v Value) Bool() bool { return v.b }

// Int returns the payload of signed integer kinds
func (v Value) Int() int64 { return v.i }

// Uint returns the payload of unsigned integer kinds, Byte and UnixFD
func (v Value) Uint() uint64 { return v.u }

// Float returns the payload of a Double value
func (v Value) Float() float64 { return v.f }

// Str returns the payload of String, ObjectPath and Signature values
func (v Value) Str() string { return v.s }

// Elems returns the elements of an Array or the fields of a Struct
func (v Value) Elems() []Value {
	if v.kind == Array || v.kind == Struct {
		return v.elems
	}
	return nil
}

// Entries returns the entries of a Dict
func (v Value) Entries() []Entry { return v.entries }

// Inner returns the boxed value of a Variant, or v itself otherwise
func (v Value) Inner() Value {
	if v.kind == Variant && len(v.elems) == 1 {
		return v.elems[0]
	}
	return v
}
