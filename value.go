package mgclient

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
	KindDate
	KindLocalTime
	KindLocalDateTime
	KindDateTime
	KindDuration
	KindPoint2D
	KindPoint3D
	KindNode
	KindRelationship
	KindUnboundRelationship
	KindPath
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindList:
		return "List"
	case KindMap:
		return "Map"
	case KindDate:
		return "Date"
	case KindLocalTime:
		return "LocalTime"
	case KindLocalDateTime:
		return "LocalDateTime"
	case KindDateTime:
		return "DateTime"
	case KindDuration:
		return "Duration"
	case KindPoint2D:
		return "Point2D"
	case KindPoint3D:
		return "Point3D"
	case KindNode:
		return "Node"
	case KindRelationship:
		return "Relationship"
	case KindUnboundRelationship:
		return "UnboundRelationship"
	case KindPath:
		return "Path"
	default:
		return "Unknown"
	}
}

// Value is one result value. The variant set is closed: everything a
// server can return decodes into exactly one of the types in this
// package, and unknown wire kinds decode to Null.
type Value interface {
	fmt.Stringer

	// Kind reports the variant without a type switch.
	Kind() Kind

	// sealed keeps the variant set closed to this package.
	sealed()
}

// Null is the absence of a value.
type Null struct{}

func (Null) Kind() Kind { return KindNull }
func (Null) sealed()    {}

// String returns the canonical rendering, "NULL".
func (Null) String() string { return "NULL" }

// Bool is a boolean value.
type Bool bool

func (Bool) Kind() Kind { return KindBool }
func (Bool) sealed()    {}

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// Int is a 64-bit signed integer value.
type Int int64

func (Int) Kind() Kind { return KindInt }
func (Int) sealed()    {}

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Float is a 64-bit floating point value.
type Float float64

func (Float) Kind() Kind { return KindFloat }
func (Float) sealed()    {}

func (f Float) String() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 64)
}

// String is a text value.
type String string

func (String) Kind() Kind { return KindString }
func (String) sealed()    {}

// String renders the value single-quoted.
func (s String) String() string { return "'" + string(s) + "'" }

// List is an ordered sequence of values.
type List []Value

func (List) Kind() Kind { return KindList }
func (List) sealed()    {}

func (l List) String() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Map is a collection of values keyed by strings.
type Map map[string]Value

func (Map) Kind() Kind { return KindMap }
func (Map) sealed()    {}

// String renders entries with keys in lexicographic order so the output
// is deterministic.
func (m Map) String() string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, "'"+key+"': "+m[key].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
