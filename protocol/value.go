package protocol

// Type identifies the wire kind of a decoded Value. Consumers inspect it
// before calling the matching typed reader.
type Type int

const (
	TypeNull Type = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypeList
	TypeMap
	TypeDate
	TypeLocalTime
	TypeLocalDateTime
	TypeDateTimeOffset
	TypeDateTimeZoneID
	TypeDuration
	TypePoint2D
	TypePoint3D
	TypeNode
	TypeRelationship
	TypeUnboundRelationship
	TypePath
	TypeUnknown
)

// String returns a human-readable name for the type.
func (t Type) String() string {
	switch t {
	case TypeNull:
		return "Null"
	case TypeBool:
		return "Bool"
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeString:
		return "String"
	case TypeList:
		return "List"
	case TypeMap:
		return "Map"
	case TypeDate:
		return "Date"
	case TypeLocalTime:
		return "LocalTime"
	case TypeLocalDateTime:
		return "LocalDateTime"
	case TypeDateTimeOffset:
		return "DateTimeOffset"
	case TypeDateTimeZoneID:
		return "DateTimeZoneId"
	case TypeDuration:
		return "Duration"
	case TypePoint2D:
		return "Point2D"
	case TypePoint3D:
		return "Point3D"
	case TypeNode:
		return "Node"
	case TypeRelationship:
		return "Relationship"
	case TypeUnboundRelationship:
		return "UnboundRelationship"
	case TypePath:
		return "Path"
	default:
		return "Unknown"
	}
}

// Structure signatures of the Memgraph Bolt dialect.
const (
	SigNode                byte = 0x4E
	SigRelationship        byte = 0x52
	SigUnboundRelationship byte = 0x72
	SigPath                byte = 0x50
	SigDate                byte = 0x44
	SigLocalTime           byte = 0x74
	SigLocalDateTime       byte = 0x64
	SigDateTimeOffset      byte = 0x46
	SigDateTimeZoneID      byte = 0x66
	SigDuration            byte = 0x45
	SigPoint2D             byte = 0x58
	SigPoint3D             byte = 0x59
)

// sigType maps a structure signature to its Type. Signatures outside the
// dialect map to TypeUnknown; the fields are still decoded so that the
// stream stays in sync.
func sigType(sig byte) Type {
	switch sig {
	case SigNode:
		return TypeNode
	case SigRelationship:
		return TypeRelationship
	case SigUnboundRelationship:
		return TypeUnboundRelationship
	case SigPath:
		return TypePath
	case SigDate:
		return TypeDate
	case SigLocalTime:
		return TypeLocalTime
	case SigLocalDateTime:
		return TypeLocalDateTime
	case SigDateTimeOffset:
		return TypeDateTimeOffset
	case SigDateTimeZoneID:
		return TypeDateTimeZoneID
	case SigDuration:
		return TypeDuration
	case SigPoint2D:
		return TypePoint2D
	case SigPoint3D:
		return TypePoint3D
	default:
		return TypeUnknown
	}
}

// Value is a single PackStream value in wire-shaped form. The zero value
// is Null. Typed readers are only meaningful when Type matches; they
// return the zero result otherwise.
type Value struct {
	typ     Type
	boolean bool
	integer int64
	float   float64
	str     string
	items   []Value
	entries map[string]Value
	sig     byte
}

// Type returns the wire kind tag of the value.
func (v Value) Type() Type { return v.typ }

// Bool reads a TypeBool value.
func (v Value) Bool() bool { return v.boolean }

// Int reads a TypeInt value.
func (v Value) Int() int64 { return v.integer }

// Float reads a TypeFloat value.
func (v Value) Float() float64 { return v.float }

// Str reads a TypeString value.
func (v Value) Str() string { return v.str }

// List reads the elements of a TypeList value.
func (v Value) List() []Value { return v.items }

// Map reads the entries of a TypeMap value.
func (v Value) Map() map[string]Value { return v.entries }

// StructSignature returns the structure signature byte of a structure
// value (graph and temporal kinds, plus TypeUnknown).
func (v Value) StructSignature() byte { return v.sig }

// Fields returns the structure fields of a structure value.
func (v Value) Fields() []Value { return v.items }

// MakeNull returns the Null value.
func MakeNull() Value { return Value{typ: TypeNull} }

// MakeBool builds a Bool value.
func MakeBool(b bool) Value { return Value{typ: TypeBool, boolean: b} }

// MakeInt builds an Int value.
func MakeInt(i int64) Value { return Value{typ: TypeInt, integer: i} }

// MakeFloat builds a Float value.
func MakeFloat(f float64) Value { return Value{typ: TypeFloat, float: f} }

// MakeString builds a String value.
func MakeString(s string) Value { return Value{typ: TypeString, str: s} }

// MakeList builds a List value. The slice is not copied.
func MakeList(items []Value) Value { return Value{typ: TypeList, items: items} }

// MakeMap builds a Map value. The map is not copied.
func MakeMap(entries map[string]Value) Value {
	return Value{typ: TypeMap, entries: entries}
}

// MakeStruct builds a structure value with the given signature. The type
// tag is derived from the signature.
func MakeStruct(sig byte, fields []Value) Value {
	return Value{typ: sigType(sig), sig: sig, items: fields}
}
